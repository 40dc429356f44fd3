// Package lower implements the Kernel→SSA lowering pass (spec C4,
// §4.3): it translates a kernel.Module into an ssa.Module, one SSA
// function per Kernel function, including the full pattern-match
// decision tree, guards, try/catch/throw, closures, and binary/map
// construction and matching.
package lower

import (
	"github.com/glow-lang/glow/internal/diag"
	"github.com/glow-lang/glow/internal/kernel"
	"github.com/glow-lang/glow/internal/ssa"
	"github.com/glow-lang/glow/internal/symbol"
)

// Lowerer holds the module-wide state shared by every function's
// lowering: the symbol interner, the diagnostic reporter, the Kernel
// module being translated, and the SSA module being built.
type Lowerer struct {
	Interner *symbol.Interner
	Reporter *diag.Reporter
	KMod     *kernel.Module
	Mod      *ssa.Module
}

// abortSignal unwinds the lowering call stack back to LowerModule once
// a fatal diagnostic has been recorded, the way a recursive-descent
// front end short-circuits without threading an error return through
// every mutually-recursive lowering method.
type abortSignal struct{ err error }

func (lw *Lowerer) abort(kind diag.Kind, span diag.Span, detail string) {
	panic(abortSignal{lw.Reporter.Fatal(kind, span, detail)})
}

// LowerModule runs the module pass (§4.3.1) over kmod: it declares
// every function first, then lowers each body in declaration order.
func LowerModule(kmod *kernel.Module, interner *symbol.Interner) (mod *ssa.Module, err error) {
	lw := &Lowerer{
		Interner: interner,
		Reporter: diag.NewReporter(kmod.Name),
		KMod:     kmod,
		Mod:      ssa.NewModule(kmod.Name),
	}

	defer func() {
		if r := recover(); r != nil {
			if a, ok := r.(abortSignal); ok {
				mod, err = nil, a.err
				return
			}
			panic(r)
		}
	}()

	closures := closureTargets(kmod)

	for _, kfn := range kmod.Functions {
		vis := ssa.VisDefault
		if kfn.Exported {
			vis |= ssa.VisPublic
		}
		if kfn.Nif {
			vis |= ssa.VisNif
		}
		if closures[kfn.Name][kfn.Arity] {
			vis |= ssa.VisClosure
		}
		params := make([]ssa.Type, kfn.Arity)
		for i := range params {
			params[i] = ssa.Any
		}
		sig := ssa.Signature{
			Module:  kmod.Name,
			Name:    kfn.Name,
			Arity:   kfn.Arity,
			Params:  params,
			Results: []ssa.Type{ssa.I1, ssa.Any},
			Conv:    ssa.ConvErlang,
		}
		lw.Mod.Declare(sig, vis)
	}

	for _, kfn := range kmod.Functions {
		idx, ok := lw.Mod.Lookup(kfn.Name, kfn.Arity)
		if !ok {
			lw.abort(diag.MalformedPrimop, kfn.Span, "function declared but not found: "+kfn.Name)
		}
		decl := lw.Mod.Decl(idx)
		body := lw.lowerFunctionBody(kfn, decl.Sig, decl.Visibility)
		lw.Mod.Define(idx, body)
	}

	if lw.Reporter.HasErrors() {
		return nil, lw.Reporter.Errors()[0]
	}
	return lw.Mod, nil
}
