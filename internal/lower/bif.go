package lower

import (
	"github.com/glow-lang/glow/internal/bif"
	"github.com/glow-lang/glow/internal/diag"
	"github.com/glow-lang/glow/internal/kernel"
	"github.com/glow-lang/glow/internal/ssa"
)

// externFunc declares (or reuses) a module-level entry for an
// external built-in referenced by name. Bifs live outside the Kernel
// module being lowered, but share the same SSA module and linkage
// table so codegen can resolve them by their stable
// "erlang:<fn>/<arity>" name (spec §6).
func (lw *Lowerer) externFunc(name string, arity, numResults int) ssa.FuncIndex {
	if idx, ok := lw.Mod.Lookup(name, arity); ok {
		return idx
	}
	params := make([]ssa.Type, arity)
	for i := range params {
		params[i] = ssa.Any
	}
	results := make([]ssa.Type, numResults)
	for i := range results {
		results[i] = ssa.Any
	}
	sig := ssa.Signature{Module: "erlang", Name: name, Arity: arity, Params: params, Results: results, Conv: ssa.ConvErlang}
	return lw.Mod.Declare(sig, ssa.VisPublic)
}

// lowerBif dispatches a Bif node by class (§4.3.6).
func (fl *funcLowerer) lowerBif(n kernel.Bif) []ssa.ValueID {
	switch n.Class {
	case kernel.BifSafe:
		return fl.lowerSafeBif(n)
	case kernel.BifFallible:
		return fl.lowerFallibleBif(n)
	case kernel.BifPrimop:
		return fl.lowerPrimop(n)
	default:
		fl.lw.abort(diag.MalformedPrimop, n.Span, "unknown bif class")
		return nil
	}
}

// checkGuardSafety rejects a call form that §4.3.5 disallows inside a
// Guard fail context (every Bif is guard-safe except the ones
// bif.Lookup marks otherwise, e.g. element/2, hd/1, map_get/2).
func (fl *funcLowerer) checkGuardSafety(name string, span diag.Span) {
	if fl.failContext().kind != failGuard {
		return
	}
	if entry, ok := bif.Lookup(name); ok && !entry.GuardSafe {
		fl.lw.abort(diag.DisallowedGuardCall, span, name)
	}
}

func (fl *funcLowerer) lowerSafeBif(n kernel.Bif) []ssa.ValueID {
	fl.checkGuardSafety(n.Name, n.Span)
	args := fl.lowerExprs(n.Args)
	if fl.b.IsCurrentBlockTerminated() {
		return nil
	}
	idx := fl.externFunc(n.Name, len(n.Args), 2)
	results := fl.b.Call(idx, args, []ssa.Type{ssa.I1, ssa.Any})
	value := results[1]
	if len(n.Ret) > 0 {
		fl.defineVar(n.Ret[0], value)
	}
	return []ssa.ValueID{value}
}

func (fl *funcLowerer) lowerFallibleBif(n kernel.Bif) []ssa.ValueID {
	fl.checkGuardSafety(n.Name, n.Span)
	args := fl.lowerExprs(n.Args)
	if fl.b.IsCurrentBlockTerminated() {
		return nil
	}
	idx := fl.externFunc(n.Name, len(n.Args), 2)
	results := fl.b.Call(idx, args, []ssa.Type{ssa.I1, ssa.Any})
	isErr, value := results[0], results[1]

	switch len(n.Ret) {
	case 0:
		fc := fl.failContext()
		okBlk := fl.b.CreateBlock()
		fl.b.BrIf(isErr, fc.block, []ssa.ValueID{value}, okBlk, nil)
		fl.b.SwitchToBlock(okBlk)
		return nil
	case 1:
		fc := fl.failContext()
		okBlk := fl.b.CreateBlock()
		fl.b.BrIf(isErr, fc.block, []ssa.ValueID{value}, okBlk, nil)
		fl.b.SwitchToBlock(okBlk)
		fl.defineVar(n.Ret[0], value)
		return []ssa.ValueID{value}
	default: // 2: caller deals with the error itself
		fl.defineVar(n.Ret[0], isErr)
		fl.defineVar(n.Ret[1], value)
		return []ssa.ValueID{isErr, value}
	}
}

func (fl *funcLowerer) lowerPrimop(n kernel.Bif) []ssa.ValueID {
	switch n.Name {
	case "make_fun":
		if len(n.Args) == 0 {
			fl.lw.abort(diag.MalformedPrimop, n.Span, "make_fun requires a callee argument")
		}
		closure := fl.lowerMakeFun(n.Args[0], n.Args[1:], n.Span)
		if fl.b.IsCurrentBlockTerminated() {
			return nil
		}
		if len(n.Ret) > 0 {
			fl.defineVar(n.Ret[0], closure)
		}
		return []ssa.ValueID{closure}

	case "unpack_env":
		if len(n.Args) != 2 {
			fl.lw.abort(diag.MalformedPrimop, n.Span, "unpack_env takes (fun, index)")
		}
		funVal := fl.lowerExpr(n.Args[0])
		litIdx, ok := n.Args[1].(kernel.LitInt)
		if !ok {
			fl.lw.abort(diag.MalformedPrimop, n.Span, "unpack_env index must be a literal integer")
		}
		v := fl.b.UnpackEnv(funVal, int(litIdx.Value))
		if len(n.Ret) > 0 {
			fl.defineVar(n.Ret[0], v)
		}
		return []ssa.ValueID{v}

	case "remove_message":
		fl.b.RemoveMessage()
		return nil
	case "recv_next":
		fl.b.RecvNext()
		return nil

	case "recv_peek_message":
		available, message := fl.b.RecvPeekMessage()
		if len(n.Ret) > 0 {
			fl.defineVar(n.Ret[0], available)
		}
		if len(n.Ret) > 1 {
			fl.defineVar(n.Ret[1], message)
		}
		return []ssa.ValueID{available, message}

	case "recv_wait_timeout":
		if len(n.Args) != 1 {
			fl.lw.abort(diag.MalformedPrimop, n.Span, "recv_wait_timeout takes one argument")
		}
		timeout := fl.lowerExpr(n.Args[0])
		isErr, expired := fl.b.RecvWaitTimeout(timeout)
		fc := fl.failContext()
		okBlk := fl.b.CreateBlock()
		fl.b.BrIf(isErr, fc.block, []ssa.ValueID{expired}, okBlk, nil)
		fl.b.SwitchToBlock(okBlk)
		if len(n.Ret) > 0 {
			fl.defineVar(n.Ret[0], expired)
		}
		return []ssa.ValueID{expired}

	case "build_stacktrace":
		v := fl.b.BuildStacktrace()
		if len(n.Ret) > 0 {
			fl.defineVar(n.Ret[0], v)
		}
		return []ssa.ValueID{v}

	case "nif_start":
		fl.b.NifStart()
		return nil

	case "match_fail":
		fl.lowerMatchFail(n)
		return nil

	case "is_record":
		v := fl.lowerIsRecord(n)
		if len(n.Ret) > 0 {
			fl.defineVar(n.Ret[0], v)
		}
		return []ssa.ValueID{v}

	default:
		fl.lw.abort(diag.MalformedPrimop, n.Span, "unknown primop "+n.Name)
		return nil
	}
}

// lowerMatchFail builds the appropriate exception term and routes it
// to the current fail context (§4.3.6). Args[0] is an atom naming the
// match_fail kind ("function_clause", "case_clause", or a general
// error reason atom); the remaining args supply the reason payload.
func (fl *funcLowerer) lowerMatchFail(n kernel.Bif) {
	if len(n.Args) == 0 {
		fl.lw.abort(diag.MalformedPrimop, n.Span, "match_fail requires a kind argument")
	}
	kindAtom, ok := n.Args[0].(kernel.LitAtom)
	if !ok {
		fl.lw.abort(diag.MalformedPrimop, n.Span, "match_fail kind must be a literal atom")
	}
	payload := fl.lowerExprs(n.Args[1:])
	if fl.b.IsCurrentBlockTerminated() {
		return
	}

	classAtom := fl.b.ConstAtom(fl.lw.Interner.Intern("error"))
	var reason ssa.ValueID
	switch fl.lw.Interner.MustResolve(kindAtom.Sym) {
	case "function_clause", "case_clause":
		reason = fl.b.TupleImm(append([]ssa.ValueID{fl.b.ConstAtom(kindAtom.Sym)}, payload...)...)
	default:
		if len(payload) == 1 {
			reason = fl.b.TupleImm(fl.b.ConstAtom(kindAtom.Sym), payload[0])
		} else {
			reason = fl.b.TupleImm(append([]ssa.ValueID{fl.b.ConstAtom(kindAtom.Sym)}, payload...)...)
		}
	}
	exc := fl.b.MakeException(classAtom, reason)

	fc := fl.failContext()
	switch fc.kind {
	case failUncaught:
		fl.b.RetErr(exc)
	case failCatch, failGuard:
		fl.b.Br(fc.block, exc)
	}
}

// lowerIsRecord implements the specialized is_record(tuple, tag,
// arity) lowering shared by guard and body contexts (§4.3.6): a tuple
// shape test, then element-0/tag comparison, merged through a block
// parameterized by i1.
func (fl *funcLowerer) lowerIsRecord(n kernel.Bif) ssa.ValueID {
	if len(n.Args) != 3 {
		fl.lw.abort(diag.MalformedPrimop, n.Span, "is_record takes (tuple, tag, arity)")
	}
	tupleVal := fl.lowerExpr(n.Args[0])
	tagVal := fl.lowerExpr(n.Args[1])
	litArity, ok := n.Args[2].(kernel.LitInt)
	if !ok {
		fl.lw.abort(diag.MalformedPrimop, n.Span, "is_record arity must be a literal integer")
	}

	isErr, size := fl.b.TupleSize(tupleVal)
	mergeBlk := fl.b.CreateBlock()
	result := fl.b.AppendBlockParam(mergeBlk, ssa.I1)

	falseBlk := fl.b.CreateBlock()
	checkArityBlk := fl.b.CreateBlock()
	fl.b.BrIf(isErr, falseBlk, nil, checkArityBlk, nil)

	fl.b.SwitchToBlock(falseBlk)
	fl.b.Br(mergeBlk, fl.b.ConstBool(false))

	fl.b.SwitchToBlock(checkArityBlk)
	arityConst := fl.b.ConstInt(litArity.Value)
	arityOK := fl.b.EqExact(size, arityConst)
	checkTagBlk := fl.b.CreateBlock()
	fl.b.CondBr(arityOK, checkTagBlk, falseBlk)

	fl.b.SwitchToBlock(checkTagBlk)
	tuple := fl.b.Cast(tupleVal, ssa.Type{Kind: ssa.TypeTupleT})
	tupleTag := fl.b.GetElementImm(tuple, 0, ssa.Any)
	tagMatch := fl.b.EqExact(tupleTag, tagVal)
	fl.b.Br(mergeBlk, tagMatch)

	fl.b.SwitchToBlock(mergeBlk)
	return result
}
