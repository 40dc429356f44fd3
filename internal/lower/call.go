package lower

import (
	"github.com/glow-lang/glow/internal/diag"
	"github.com/glow-lang/glow/internal/kernel"
	"github.com/glow-lang/glow/internal/ssa"
)

// resolveCallee resolves a statically-named function to its module
// index. Lowering runs against a single shared ssa.Module per
// program (not per source file), so a remote call resolves the same
// way a local one does; a name absent from the declaration table is a
// genuine undefined-function error.
func (fl *funcLowerer) resolveCallee(funcName string, arity int, span diag.Span) ssa.FuncIndex {
	idx, ok := fl.lw.Mod.Lookup(funcName, arity)
	if !ok {
		fl.lw.abort(diag.MalformedPrimop, span, "call to undeclared function "+funcName)
	}
	return idx
}

// listOf builds a proper Erlang list term out of vs, for the apply/2
// and apply/3 rewrites of §4.3.5.
func (fl *funcLowerer) listOf(vs []ssa.ValueID) ssa.ValueID {
	tail := fl.b.ConstNil()
	for i := len(vs) - 1; i >= 0; i-- {
		tail = fl.b.Cons(vs[i], tail)
	}
	return tail
}

// lowerCall lowers an ordinary (non-tail) call per §4.3.5 and returns
// the call's value followed by its is_err flag, as postCallBranch
// orders them.
func (fl *funcLowerer) lowerCall(n kernel.Call) []ssa.ValueID {
	switch n.Kind {
	case kernel.CallRemoteDynamic:
		mod := fl.lowerExpr(n.Module)
		fnVal := fl.lowerExpr(n.FunctionExpr)
		args := fl.lowerExprs(n.Args)
		if fl.b.IsCurrentBlockTerminated() {
			return nil
		}
		argsList := fl.listOf(args)
		idx := fl.resolveCallee("apply/3", 3, n.Span)
		return fl.emitCallAndBranch(idx, []ssa.ValueID{mod, fnVal, argsList}, n.Span)

	case kernel.CallIndirect:
		callee := fl.lowerExpr(n.Callee)
		args := fl.lowerExprs(n.Args)
		if fl.b.IsCurrentBlockTerminated() {
			return nil
		}
		results := fl.b.CallIndirect(callee, args, []ssa.Type{ssa.I1, ssa.Any})
		return fl.postCallBranch(results, n.Span)

	case kernel.CallLocalClosure:
		closure := fl.lowerMakeFun(n.Callee, n.Env, n.Span)
		if fl.b.IsCurrentBlockTerminated() {
			return nil
		}
		args := fl.lowerExprs(n.Args)
		if fl.b.IsCurrentBlockTerminated() {
			return nil
		}
		idx := fl.resolveCallee(n.Function, n.Arity, n.Span)
		allArgs := append(append([]ssa.ValueID(nil), args...), closure)
		return fl.emitCallAndBranch(idx, allArgs, n.Span)

	default: // CallLocal / CallRemoteStatic
		args := fl.lowerExprs(n.Args)
		if fl.b.IsCurrentBlockTerminated() {
			return nil
		}
		idx := fl.resolveCallee(n.Function, n.Arity, n.Span)
		return fl.emitCallAndBranch(idx, args, n.Span)
	}
}

func (fl *funcLowerer) emitCallAndBranch(idx ssa.FuncIndex, args []ssa.ValueID, span diag.Span) []ssa.ValueID {
	results := fl.b.Call(idx, args, []ssa.Type{ssa.I1, ssa.Any})
	return fl.postCallBranch(results, span)
}

// postCallBranch implements "every call returns {is_err, result}; on
// is_err set, branch to the fail context's block with [result] as
// argument" (§4.3.5).
func (fl *funcLowerer) postCallBranch(results []ssa.ValueID, span diag.Span) []ssa.ValueID {
	isErr, value := results[0], results[1]
	fc := fl.failContext()

	okBlk := fl.b.CreateBlock()
	fl.b.BrIf(isErr, fc.block, []ssa.ValueID{value}, okBlk, nil)
	fl.b.SwitchToBlock(okBlk)
	return []ssa.ValueID{value, isErr}
}

// lowerEnter lowers a tail call (§4.3.5); only legal in Uncaught fail
// context, which the front end is responsible for guaranteeing before
// emitting an Enter node.
func (fl *funcLowerer) lowerEnter(n kernel.Enter) {
	switch n.Kind {
	case kernel.CallRemoteDynamic:
		mod := fl.lowerExpr(n.Module)
		fnVal := fl.lowerExpr(n.FunctionExpr)
		args := fl.lowerExprs(n.Args)
		if fl.b.IsCurrentBlockTerminated() {
			return
		}
		idx := fl.resolveCallee("apply/3", 3, n.Span)
		fl.b.Enter(idx, []ssa.ValueID{mod, fnVal, fl.listOf(args)})

	case kernel.CallIndirect:
		callee := fl.lowerExpr(n.Callee)
		args := fl.lowerExprs(n.Args)
		if fl.b.IsCurrentBlockTerminated() {
			return
		}
		fl.b.EnterIndirect(callee, args)

	case kernel.CallLocalClosure:
		closure := fl.lowerMakeFun(n.Callee, n.Env, n.Span)
		if fl.b.IsCurrentBlockTerminated() {
			return
		}
		args := fl.lowerExprs(n.Args)
		if fl.b.IsCurrentBlockTerminated() {
			return
		}
		idx := fl.resolveCallee(n.Function, n.Arity, n.Span)
		fl.b.Enter(idx, append(append([]ssa.ValueID(nil), args...), closure))

	default:
		args := fl.lowerExprs(n.Args)
		if fl.b.IsCurrentBlockTerminated() {
			return
		}
		idx := fl.resolveCallee(n.Function, n.Arity, n.Span)
		fl.b.Enter(idx, args)
	}
}

// lowerMakeFun emits make_fun for a local closure and types the result
// as a Fun of the callee's signature. make_fun yields only the closure
// value here, with no is_err flag, so no failure branch is emitted.
func (fl *funcLowerer) lowerMakeFun(callee kernel.Expr, env []kernel.Expr, span diag.Span) ssa.ValueID {
	fnRef, ok := callee.(kernel.Var)
	if !ok {
		fl.lw.abort(diag.MalformedPrimop, span, "make_fun callee must reference a declared function")
	}
	idx := fl.resolveCallee(fnRef.Name, len(env), span)
	envVals := fl.lowerExprs(env)
	if fl.b.IsCurrentBlockTerminated() {
		return 0
	}
	closure := fl.b.MakeFun(idx, envVals)
	sig := fl.lw.Mod.Decl(idx).Sig
	fl.fn.SetValueType(closure, ssa.Type{Kind: ssa.TypeFun, Fun: &sig})
	return closure
}
