package lower

import (
	"github.com/glow-lang/glow/internal/kernel"
	"github.com/glow-lang/glow/internal/ssa"
)

// lowerGuardExpr lowers a guard's boolean composition (§4.3.10): a
// Test branches to fail on a false/erroring result, Seq chains two
// tests, and the for-effect Try form traps a bif error raised while
// evaluating its argument and treats it as guard failure rather than
// letting it propagate.
func (fl *funcLowerer) lowerGuardExpr(e kernel.Expr, fail ssa.BlockID) {
	switch n := e.(type) {
	case kernel.Seq:
		fl.lowerGuardExpr(n.A, fail)
		if fl.b.IsCurrentBlockTerminated() {
			return
		}
		fl.lowerGuardExpr(n.B, fail)

	case kernel.Try:
		saved := fl.fail
		fl.landingPads = append(fl.landingPads, fail)
		fl.fail = fl.ultimateFailure
		fl.lowerExpr(n.Arg)
		fl.landingPads = fl.landingPads[:len(fl.landingPads)-1]
		fl.fail = saved

	default:
		saved := fl.fail
		fl.fail = fail
		v := fl.lowerExpr(e)
		fl.fail = saved
		if fl.b.IsCurrentBlockTerminated() {
			return
		}
		trueAtom := fl.b.ConstAtom(fl.lw.Interner.Intern("true"))
		test := fl.b.EqExact(v, trueAtom)
		cont := fl.b.CreateBlock()
		fl.b.CondBr(test, cont, fail)
		fl.b.SwitchToBlock(cont)
	}
}
