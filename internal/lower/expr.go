package lower

import (
	"github.com/glow-lang/glow/internal/diag"
	"github.com/glow-lang/glow/internal/kernel"
	"github.com/glow-lang/glow/internal/ssa"
)

// lowerExpr dispatches on Kernel-IR expression kind (§4.3.3) and
// returns the SSA value it computes. If lowering e already terminated
// the current block (a raising primop in Uncaught context emits `ret`
// directly), the returned value is meaningless and callers must check
// fl.b.IsCurrentBlockTerminated() before emitting anything further.
func (fl *funcLowerer) lowerExpr(e kernel.Expr) ssa.ValueID {
	switch n := e.(type) {
	case kernel.Var:
		return fl.lookupVar(n.Name, n.Span)

	case kernel.LitAtom:
		return fl.b.ConstAtom(n.Sym)
	case kernel.LitInt:
		return fl.b.ConstInt(n.Value)
	case kernel.LitBigInt:
		return fl.b.ConstBigInt(n.Decimal)
	case kernel.LitFloat:
		return fl.b.ConstFloat(n.Value)
	case kernel.LitNil:
		return fl.b.ConstNil()
	case kernel.LitBinary:
		return fl.b.ConstBitstring(n.Data)

	case kernel.Seq:
		fl.lowerExpr(n.A)
		if fl.b.IsCurrentBlockTerminated() {
			return 0
		}
		return fl.lowerExpr(n.B)

	case kernel.Match:
		return fl.lowerMatchExpr(n)

	case kernel.If:
		return fl.lowerIf(n)

	case kernel.LetRecGoto:
		return fl.lowerLetRecGoto(n)

	case kernel.Goto:
		fl.lowerGoto(n)
		return 0

	case kernel.Return:
		fl.lowerReturn(n)
		return 0

	case kernel.Break:
		fl.lowerBreak(n)
		return 0

	case kernel.Call:
		vals := fl.lowerCall(n)
		if len(vals) == 0 {
			return 0
		}
		return vals[0]

	case kernel.Enter:
		fl.lowerEnter(n)
		return 0

	case kernel.Bif:
		vals := fl.lowerBif(n)
		if len(vals) == 0 {
			return 0
		}
		return vals[0]

	case kernel.Put:
		return fl.lowerPut(n)

	case kernel.Try:
		return fl.lowerTry(n)
	case kernel.TryEnter:
		fl.lowerTryEnter(n)
		return 0
	case kernel.Catch:
		return fl.lowerCatch(n)

	default:
		fl.lw.abort(diag.MalformedPrimop, diag.Span{}, "unrecognized kernel expression node")
		return 0
	}
}

// lowerExprs lowers a slice of exprs left-to-right into SSA values,
// stopping early (with a nil-padded tail) if any one of them
// terminates the block, since its siblings can no longer execute.
func (fl *funcLowerer) lowerExprs(exprs []kernel.Expr) []ssa.ValueID {
	out := make([]ssa.ValueID, len(exprs))
	for i, e := range exprs {
		if fl.b.IsCurrentBlockTerminated() {
			break
		}
		out[i] = fl.lowerExpr(e)
	}
	return out
}

// lowerIf lowers a two-armed conditional (§4.3.3): the condition value
// must be the atom true or false at runtime; generated code compares
// with eq_exact against the interned atom "true".
func (fl *funcLowerer) lowerIf(n kernel.If) ssa.ValueID {
	cond := fl.lowerExpr(n.Cond)
	if fl.b.IsCurrentBlockTerminated() {
		return 0
	}
	trueAtom := fl.b.ConstAtom(fl.lw.Interner.Intern("true"))
	test := fl.b.EqExact(cond, trueAtom)

	thenBlk := fl.b.CreateBlock()
	elseBlk := fl.b.CreateBlock()
	finalBlk := fl.b.CreateBlock()

	fl.b.CondBr(test, thenBlk, elseBlk)

	resultTypes := make([]ssa.Type, len(n.Ret))
	for i := range resultTypes {
		resultTypes[i] = ssa.Any
	}
	finalParams := make([]ssa.ValueID, len(n.Ret))
	for i := range finalParams {
		finalParams[i] = fl.b.AppendBlockParam(finalBlk, ssa.Any)
	}

	outer := fl.snapshotVars()

	fl.b.SwitchToBlock(thenBlk)
	fl.pushBrk(finalBlk, len(n.Ret))
	fl.lowerExpr(n.Then)
	fl.popBrk()
	fl.restoreVars(outer)

	fl.b.SwitchToBlock(elseBlk)
	fl.pushBrk(finalBlk, len(n.Ret))
	fl.lowerExpr(n.Else)
	fl.popBrk()
	fl.restoreVars(outer)

	fl.b.SwitchToBlock(finalBlk)
	if len(finalParams) > 0 {
		for i, name := range n.Ret {
			fl.defineVar(name, finalParams[i])
		}
		return finalParams[0]
	}
	return 0
}

func (fl *funcLowerer) pushBrk(block ssa.BlockID, arity int) {
	fl.brk = append(fl.brk, brkTarget{block: block, arity: arity})
}

func (fl *funcLowerer) popBrk() {
	fl.brk = fl.brk[:len(fl.brk)-1]
}

func (fl *funcLowerer) topBrk() brkTarget {
	return fl.brk[len(fl.brk)-1]
}

// lowerReturn emits ret_ok(v), unless the current block was already
// terminated by a raising builtin (§4.3.3: "drop silently").
func (fl *funcLowerer) lowerReturn(n kernel.Return) {
	v := fl.lowerExpr(n.Value)
	if fl.b.IsCurrentBlockTerminated() {
		return
	}
	fl.b.RetOk(v)
}

// lowerBreak jumps to the innermost brk target with args, unless a
// raising builtin already terminated the block.
func (fl *funcLowerer) lowerBreak(n kernel.Break) {
	args := fl.lowerExprs(n.Args)
	if fl.b.IsCurrentBlockTerminated() {
		return
	}
	target := fl.topBrk()
	fl.b.Br(target.block, args...)
}

// lowerLetRecGoto (§4.3.3) sets up a local, possibly-recursive label.
func (fl *funcLowerer) lowerLetRecGoto(n kernel.LetRecGoto) ssa.ValueID {
	thenBlk := fl.b.CreateBlock()
	finalBlk := fl.b.CreateBlock()

	thenParams := make([]ssa.ValueID, len(n.Vars))
	for i := range thenParams {
		thenParams[i] = fl.b.AppendBlockParam(thenBlk, ssa.Any)
	}
	finalParams := make([]ssa.ValueID, len(n.Ret))
	for i := range finalParams {
		finalParams[i] = fl.b.AppendBlockParam(finalBlk, ssa.Any)
	}

	fl.labels[n.Label] = thenBlk
	outer := fl.snapshotVars()

	fl.pushBrk(finalBlk, len(n.Ret))
	fl.lowerExpr(n.First)
	fl.popBrk()
	fl.restoreVars(outer)

	fl.b.SwitchToBlock(thenBlk)
	for i, name := range n.Vars {
		fl.defineVar(name, thenParams[i])
	}
	fl.pushBrk(finalBlk, len(n.Ret))
	fl.lowerExpr(n.Then)
	fl.popBrk()

	delete(fl.labels, n.Label)

	fl.b.SwitchToBlock(finalBlk)
	if len(finalParams) > 0 {
		for i, name := range n.Ret {
			fl.defineVar(name, finalParams[i])
		}
		return finalParams[0]
	}
	return 0
}

// lowerGoto branches to a previously registered LetRecGoto label.
func (fl *funcLowerer) lowerGoto(n kernel.Goto) {
	args := fl.lowerExprs(n.Args)
	if fl.b.IsCurrentBlockTerminated() {
		return
	}
	target, ok := fl.labels[n.Label]
	if !ok {
		fl.lw.abort(diag.MalformedPrimop, n.Span, "goto to undeclared label "+n.Label)
	}
	fl.b.Br(target, args...)
}

// lowerMatchExpr lowers a Match{body, ret} node (§4.3.3): a fresh brk
// block receives the match tree's result.
func (fl *funcLowerer) lowerMatchExpr(n kernel.Match) ssa.ValueID {
	brkBlk := fl.b.CreateBlock()
	params := make([]ssa.ValueID, len(n.Ret))
	for i := range params {
		params[i] = fl.b.AppendBlockParam(brkBlk, ssa.Any)
	}

	fl.pushBrk(brkBlk, len(n.Ret))
	fl.lowerMatch(n.Body, fl.fail)
	fl.popBrk()

	if len(fl.fn.Block(brkBlk).Preds) == 0 && len(n.Ret) == 0 {
		// Dead: nothing ever reaches it and it produces no value.
		fl.b.RemoveBlock(brkBlk)
		return 0
	}

	fl.b.SwitchToBlock(brkBlk)
	if len(params) > 0 {
		for i, name := range n.Ret {
			fl.defineVar(name, params[i])
		}
		return params[0]
	}
	return 0
}
