package lower

import (
	"github.com/glow-lang/glow/internal/kernel"
	"github.com/glow-lang/glow/internal/ssa"
)

// lowerTry lowers a try/of/catch expression (§4.3.7).
func (fl *funcLowerer) lowerTry(n kernel.Try) ssa.ValueID {
	bodyBlk := fl.b.CreateBlock()
	handlerBlk := fl.b.CreateBlock()
	finalBlk := fl.b.CreateBlock()

	bodyParams := make([]ssa.ValueID, len(n.Vars))
	for i := range bodyParams {
		bodyParams[i] = fl.b.AppendBlockParam(bodyBlk, ssa.Any)
	}
	excParam := fl.b.AppendBlockParam(handlerBlk, ssa.ExceptionT)
	finalParams := make([]ssa.ValueID, len(n.Ret))
	for i := range finalParams {
		finalParams[i] = fl.b.AppendBlockParam(finalBlk, ssa.Any)
	}

	outer := fl.snapshotVars()
	fl.landingPads = append(fl.landingPads, handlerBlk)
	fl.pushBrk(bodyBlk, len(n.Vars))
	fl.lowerExpr(n.Arg)
	fl.popBrk()
	fl.landingPads = fl.landingPads[:len(fl.landingPads)-1]
	fl.restoreVars(outer)

	fl.b.SwitchToBlock(bodyBlk)
	for i, name := range n.Vars {
		fl.defineVar(name, bodyParams[i])
	}
	fl.pushBrk(finalBlk, len(n.Ret))
	fl.lowerExpr(n.Body)
	fl.popBrk()
	fl.restoreVars(outer)

	fl.b.SwitchToBlock(handlerBlk)
	fl.bindExceptionVars(n.EVars, excParam)
	fl.pushBrk(finalBlk, len(n.Ret))
	fl.lowerExpr(n.Handler)
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

// lowerTryEnter is the tail variant: no final block, Body/Handler
// exit the function directly via Return/Enter.
func (fl *funcLowerer) lowerTryEnter(n kernel.TryEnter) {
	bodyBlk := fl.b.CreateBlock()
	handlerBlk := fl.b.CreateBlock()

	bodyParams := make([]ssa.ValueID, len(n.Vars))
	for i := range bodyParams {
		bodyParams[i] = fl.b.AppendBlockParam(bodyBlk, ssa.Any)
	}
	excParam := fl.b.AppendBlockParam(handlerBlk, ssa.ExceptionT)

	outer := fl.snapshotVars()
	fl.landingPads = append(fl.landingPads, handlerBlk)
	fl.pushBrk(bodyBlk, len(n.Vars))
	fl.lowerExpr(n.Arg)
	fl.popBrk()
	fl.landingPads = fl.landingPads[:len(fl.landingPads)-1]
	fl.restoreVars(outer)

	fl.b.SwitchToBlock(bodyBlk)
	for i, name := range n.Vars {
		fl.defineVar(name, bodyParams[i])
	}
	fl.lowerExpr(n.Body)
	fl.restoreVars(outer)

	fl.b.SwitchToBlock(handlerBlk)
	fl.bindExceptionVars(n.EVars, excParam)
	fl.lowerExpr(n.Handler)
}

func (fl *funcLowerer) bindExceptionVars(evars []string, exc ssa.ValueID) {
	if len(evars) == 0 {
		return
	}
	if len(evars) > 0 {
		fl.defineVar(evars[0], fl.b.ExceptionClass(exc))
	}
	if len(evars) > 1 {
		fl.defineVar(evars[1], fl.b.ExceptionReason(exc))
	}
	if len(evars) > 2 {
		fl.defineVar(evars[2], fl.b.ExceptionTrace(exc))
	}
}

// lowerCatch lowers `catch expr`: the handler demultiplexes by class
// (§4.3.8) instead of re-raising.
func (fl *funcLowerer) lowerCatch(n kernel.Catch) ssa.ValueID {
	handlerBlk := fl.b.CreateBlock()
	resultBlk := fl.b.CreateBlock()
	result := fl.b.AppendBlockParam(resultBlk, ssa.Any)
	excParam := fl.b.AppendBlockParam(handlerBlk, ssa.ExceptionT)

	outer := fl.snapshotVars()
	fl.landingPads = append(fl.landingPads, handlerBlk)
	v := fl.lowerExpr(n.Expr)
	fl.landingPads = fl.landingPads[:len(fl.landingPads)-1]
	if !fl.b.IsCurrentBlockTerminated() {
		fl.b.Br(resultBlk, v)
	}
	fl.restoreVars(outer)

	fl.b.SwitchToBlock(handlerBlk)
	class := fl.b.ExceptionClass(excParam)
	reason := fl.b.ExceptionReason(excParam)

	throwAtom := fl.b.ConstAtom(fl.lw.Interner.Intern("throw"))
	exitAtom := fl.b.ConstAtom(fl.lw.Interner.Intern("exit"))
	exitTagAtom := fl.b.ConstAtom(fl.lw.Interner.Intern("EXIT"))

	isThrow := fl.b.EqExact(class, throwAtom)
	throwBlk := fl.b.CreateBlock()
	notThrowBlk := fl.b.CreateBlock()
	fl.b.CondBr(isThrow, throwBlk, notThrowBlk)

	fl.b.SwitchToBlock(throwBlk)
	fl.b.Br(resultBlk, reason)

	fl.b.SwitchToBlock(notThrowBlk)
	isExit := fl.b.EqExact(class, exitAtom)
	exitBlk := fl.b.CreateBlock()
	errorBlk := fl.b.CreateBlock()
	fl.b.CondBr(isExit, exitBlk, errorBlk)

	fl.b.SwitchToBlock(exitBlk)
	exitWrapped := fl.b.TupleImm(exitTagAtom, reason)
	fl.b.Br(resultBlk, exitWrapped)

	fl.b.SwitchToBlock(errorBlk)
	trace := fl.b.ExceptionTrace(excParam)
	withTrace := fl.b.TupleImm(reason, trace)
	errWrapped := fl.b.TupleImm(exitTagAtom, withTrace)
	fl.b.Br(resultBlk, errWrapped)

	fl.b.SwitchToBlock(resultBlk)
	return result
}
