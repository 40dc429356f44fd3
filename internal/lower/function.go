package lower

import (
	"github.com/glow-lang/glow/internal/diag"
	"github.com/glow-lang/glow/internal/kernel"
	"github.com/glow-lang/glow/internal/ssa"
)

// brkTarget is one entry of the brk stack: the block Break jumps to,
// and how many arguments it expects.
type brkTarget struct {
	block ssa.BlockID
	arity int
}

// funcLowerer carries the per-function mutable state described in
// spec §4.3.2: the fail/landing_pads/brk/labels state plus the
// variable environment.
type funcLowerer struct {
	lw  *Lowerer
	b   *ssa.Builder
	fn  *ssa.Function
	kfn *kernel.Function

	ultimateFailure ssa.BlockID
	fail            ssa.BlockID
	landingPads     []ssa.BlockID
	brk             []brkTarget
	labels          map[string]ssa.BlockID

	vars map[string]ssa.ValueID
}

// lowerFunctionBody runs the function pass (§4.3.2) for one Kernel
// function and returns its completed SSA body.
func (lw *Lowerer) lowerFunctionBody(kfn *kernel.Function, sig ssa.Signature, vis ssa.Visibility) *ssa.Function {
	fn := ssa.NewFunction(sig, vis)
	b := ssa.NewBuilder(fn)

	entry := b.CreateBlock()
	ultFail := b.CreateBlock()

	fl := &funcLowerer{
		lw:              lw,
		b:               b,
		fn:              fn,
		kfn:             kfn,
		ultimateFailure: ultFail,
		fail:            ultFail,
		labels:          make(map[string]ssa.BlockID),
		vars:            make(map[string]ssa.ValueID),
	}

	b.SwitchToBlock(ultFail)
	excParam := b.AppendBlockParam(ultFail, ssa.ExceptionT)
	b.RetErr(excParam)

	b.SwitchToBlock(entry)
	for _, name := range kfn.Params {
		p := b.AppendBlockParam(entry, ssa.Any)
		fl.vars[name] = p
	}

	fl.lowerExpr(kfn.Body)
	if !b.IsCurrentBlockTerminated() {
		// The front end guarantees every Kernel function body ends in
		// Return or a raising primop; this is only reached for a
		// malformed body, and returning nil keeps construction from
		// leaving a dangling unterminated block.
		b.RetOk(b.ConstNil())
	}

	b.PruneUnreachableBlocks()
	return fn
}

// snapshotVars captures the current variable environment so a branch
// (If arm, Alt clause, Match leaf) can be lowered against it and then
// discarded without leaking bindings into sibling branches.
func (fl *funcLowerer) snapshotVars() map[string]ssa.ValueID {
	snap := make(map[string]ssa.ValueID, len(fl.vars))
	for k, v := range fl.vars {
		snap[k] = v
	}
	return snap
}

func (fl *funcLowerer) restoreVars(snap map[string]ssa.ValueID) {
	fl.vars = snap
}

func (fl *funcLowerer) defineVar(name string, v ssa.ValueID) {
	fl.vars[name] = v
}

func (fl *funcLowerer) lookupVar(name string, span diag.Span) ssa.ValueID {
	v, ok := fl.vars[name]
	if !ok {
		fl.lw.abort(diag.UndefinedVariable, span, name)
	}
	return v
}

// failContext computes the current fail context per the rule in
// spec §4.3.2.
type failKind int

const (
	failUncaught failKind = iota
	failCatch
	failGuard
)

type failContext struct {
	kind  failKind
	block ssa.BlockID
}

func (fl *funcLowerer) failContext() failContext {
	if fl.fail != fl.ultimateFailure {
		return failContext{kind: failGuard, block: fl.fail}
	}
	if len(fl.landingPads) > 0 {
		return failContext{kind: failCatch, block: fl.landingPads[len(fl.landingPads)-1]}
	}
	return failContext{kind: failUncaught, block: fl.ultimateFailure}
}

// branchToFail jumps to the current fail context's block with the
// exception/value argument. For Uncaught, the "block" IS the
// ultimate-failure block, whose sole parameter is the exception.
func (fl *funcLowerer) branchToFail(exc ssa.ValueID) {
	fc := fl.failContext()
	fl.b.Br(fc.block, exc)
}
