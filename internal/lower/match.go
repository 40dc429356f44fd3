package lower

import (
	"sort"

	"github.com/glow-lang/glow/internal/diag"
	"github.com/glow-lang/glow/internal/kernel"
	"github.com/glow-lang/glow/internal/ssa"
)

// lowerMatch lowers a match tree (§4.3.4) with the given fail
// continuation: the block to branch to when nothing in tree matches.
func (fl *funcLowerer) lowerMatch(tree kernel.MatchTree, fail ssa.BlockID) {
	switch n := tree.(type) {
	case kernel.Alt:
		thenBlk := fl.b.CreateBlock()
		fl.lowerMatch(n.First, thenBlk)
		fl.b.SwitchToBlock(thenBlk)
		fl.lowerMatch(n.Then, fail)

	case kernel.GuardNode:
		fl.lowerGuardExpr(n.Cond, fail)
		if fl.b.IsCurrentBlockTerminated() {
			return
		}
		fl.lowerMatch(n.Body, fail)

	case kernel.Leaf:
		fl.lowerExpr(n.Body)

	case kernel.Select:
		fl.lowerSelect(n, fail)

	default:
		fl.lw.abort(diag.MalformedPrimop, diag.Span{}, "unrecognized match tree node")
	}
}

func (fl *funcLowerer) lowerSelect(sel kernel.Select, typeFail ssa.BlockID) {
	switch sel.Class {
	case kernel.ClassAtomFloatInt:
		fl.lowerSelectScalar(sel, typeFail)
	case kernel.ClassTuple:
		fl.lowerSelectTuple(sel, typeFail)
	case kernel.ClassCons:
		fl.lowerSelectCons(sel, typeFail)
	case kernel.ClassNil:
		fl.lowerSelectNil(sel, typeFail)
	case kernel.ClassMap:
		fl.lowerSelectMap(sel, typeFail)
	case kernel.ClassLiteral:
		fl.lowerSelectLiteral(sel, typeFail)
	case kernel.ClassBinary:
		fl.lowerSelectBinaryStart(sel, typeFail)
	case kernel.ClassBinarySegment, kernel.ClassBinaryInt:
		fl.lowerSelectBinarySegment(sel, typeFail)
	case kernel.ClassBinaryEnd:
		fl.lowerSelectBinaryEnd(sel, typeFail)
	default:
		fl.lw.abort(diag.MalformedPrimop, sel.Span, "unrecognized select type class")
	}
}

// lowerSelectScalar handles Atom|Float|Int clauses: a single shared
// type test (the scrutinee's literal clauses share a scalar kind in
// the overwhelmingly common case the front end emits), then a chain
// of eq_exact comparisons, each continuing in a fresh block since a
// block may hold only one terminator.
func (fl *funcLowerer) lowerSelectScalar(sel kernel.Select, typeFail ssa.BlockID) {
	v := fl.lookupVar(sel.Var, sel.Span)

	tk := scalarKindOf(sel.Clauses[0].Literal)
	isOK := fl.b.IsType(v, tk)
	typeTestBlk := fl.b.CreateBlock()
	fl.b.CondBr(isOK, typeTestBlk, typeFail)
	fl.b.SwitchToBlock(typeTestBlk)

	valueFail := fl.b.CreateBlock()
	outer := fl.snapshotVars()

	for _, clause := range sel.Clauses {
		lit := fl.lowerExpr(clause.Literal)
		eq := fl.b.EqExact(v, lit)
		clauseBlk := fl.b.CreateBlock()
		nextBlk := fl.b.CreateBlock()
		fl.b.CondBr(eq, clauseBlk, nextBlk)

		fl.b.SwitchToBlock(clauseBlk)
		fl.lowerMatch(clause.Body, valueFail)
		fl.restoreVars(outer)

		fl.b.SwitchToBlock(nextBlk)
	}
	fl.b.Br(valueFail)

	fl.b.SwitchToBlock(valueFail)
	fl.b.Br(typeFail)
}

func scalarKindOf(lit kernel.Expr) ssa.Type {
	switch lit.(type) {
	case kernel.LitFloat:
		return ssa.Type{Kind: ssa.TypeFloatT}
	case kernel.LitInt, kernel.LitBigInt:
		return ssa.Type{Kind: ssa.TypeIntT}
	default:
		return ssa.Type{Kind: ssa.TypeAtomT}
	}
}

// lowerSelectTuple implements the Tuple class: tuple_size is fallible
// (non-tuple → type_fail); a successful size feeds a switch with one
// arm per distinct arity.
func (fl *funcLowerer) lowerSelectTuple(sel kernel.Select, typeFail ssa.BlockID) {
	v := fl.lookupVar(sel.Var, sel.Span)
	isErr, size := fl.b.TupleSize(v)

	okBlk := fl.b.CreateBlock()
	fl.b.BrIf(isErr, typeFail, nil, okBlk, nil)
	fl.b.SwitchToBlock(okBlk)

	tuple := fl.b.Cast(v, ssa.Type{Kind: ssa.TypeTupleT})

	clauses := append([]kernel.ValueClause(nil), sel.Clauses...)
	sort.Slice(clauses, func(i, j int) bool { return clauses[i].Arity < clauses[j].Arity })

	seenArity := make(map[int]bool, len(clauses))
	arms := make([]ssa.SwitchArm, 0, len(clauses))
	outer := fl.snapshotVars()

	for _, clause := range clauses {
		if seenArity[clause.Arity] {
			fl.lw.abort(diag.DuplicateTupleArity, sel.Span, clauseArityDetail(clause.Arity))
			return
		}
		seenArity[clause.Arity] = true

		armBlk := fl.b.CreateBlock()
		arms = append(arms, ssa.SwitchArm{Value: int64(clause.Arity), Edge: ssa.Edge{Target: armBlk}})

		fl.b.SwitchToBlock(armBlk)
		for i, name := range clause.ElementVars {
			ev := fl.b.GetElementImm(tuple, i, ssa.Any)
			fl.defineVar(name, ev)
		}
		fl.lowerMatch(clause.Body, typeFail)
		fl.restoreVars(outer)
	}

	fl.b.SwitchToBlock(okBlk)
	fl.b.Switch(size, arms, ssa.Edge{Target: typeFail})
}

func clauseArityDetail(arity int) string {
	if arity == 0 {
		return "arity 0"
	}
	digits := []byte{}
	n := arity
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return "arity " + string(digits)
}

// lowerSelectCons handles non-empty-list matching.
func (fl *funcLowerer) lowerSelectCons(sel kernel.Select, typeFail ssa.BlockID) {
	v := fl.lookupVar(sel.Var, sel.Span)
	isCons := fl.b.IsType(v, ssa.Type{Kind: ssa.TypeConsT})

	okBlk := fl.b.CreateBlock()
	fl.b.CondBr(isCons, okBlk, typeFail)
	fl.b.SwitchToBlock(okBlk)

	cons := fl.b.Cast(v, ssa.Type{Kind: ssa.TypeConsT})
	head := fl.b.Head(cons)
	tail := fl.b.Tail(cons)

	clause := sel.Clauses[0]
	if clause.HeadVar != "" {
		fl.defineVar(clause.HeadVar, head)
	}
	if clause.TailVar != "" {
		fl.defineVar(clause.TailVar, tail)
	}
	fl.lowerMatch(clause.Body, typeFail)
}

func (fl *funcLowerer) lowerSelectNil(sel kernel.Select, typeFail ssa.BlockID) {
	v := fl.lookupVar(sel.Var, sel.Span)
	isNil := fl.b.IsType(v, ssa.Type{Kind: ssa.TypeNilT})

	okBlk := fl.b.CreateBlock()
	fl.b.CondBr(isNil, okBlk, typeFail)
	fl.b.SwitchToBlock(okBlk)
	fl.lowerMatch(sel.Clauses[0].Body, typeFail)
}

// lowerSelectMap handles map pattern matching: a type test, then per
// clause a chain of map_get fetches. A missing key falls through to
// the next value clause's own block, not a block shared across
// clauses — each clause gets a fresh fail continuation the way
// lowerSelectLiteral and lowerSelectBinarySegment do, so one clause's
// terminated block is never reused by the next, and only the last
// clause's fail reaches typeFail directly.
func (fl *funcLowerer) lowerSelectMap(sel kernel.Select, typeFail ssa.BlockID) {
	v := fl.lookupVar(sel.Var, sel.Span)
	isMap := fl.b.IsType(v, ssa.Type{Kind: ssa.TypeMapT})

	okBlk := fl.b.CreateBlock()
	fl.b.CondBr(isMap, okBlk, typeFail)
	fl.b.SwitchToBlock(okBlk)

	outer := fl.snapshotVars()

	for i, clause := range sel.Clauses {
		var nextFail ssa.BlockID
		if i == len(sel.Clauses)-1 {
			nextFail = typeFail
		} else {
			nextFail = fl.b.CreateBlock()
		}

		for _, pair := range clause.Pairs {
			key := fl.lowerExpr(pair.Key)
			isErr, value := fl.b.MapGet(v, key)
			foundBlk := fl.b.CreateBlock()
			fl.b.BrIf(isErr, nextFail, nil, foundBlk, nil)
			fl.b.SwitchToBlock(foundBlk)
			fl.defineVar(pair.Value, value)
		}
		fl.lowerMatch(clause.Body, nextFail)
		fl.restoreVars(outer)

		if i != len(sel.Clauses)-1 {
			fl.b.SwitchToBlock(nextFail)
		}
	}
}

// lowerSelectLiteral handles general literal (including compound
// tuple-spec) clauses.
func (fl *funcLowerer) lowerSelectLiteral(sel kernel.Select, typeFail ssa.BlockID) {
	v := fl.lookupVar(sel.Var, sel.Span)
	outer := fl.snapshotVars()

	for i, clause := range sel.Clauses {
		var nextFail ssa.BlockID
		if i == len(sel.Clauses)-1 {
			nextFail = typeFail
		} else {
			nextFail = fl.b.CreateBlock()
		}

		if _, isNil := clause.Literal.(kernel.LitNil); isNil {
			isNilV := fl.b.IsType(v, ssa.Type{Kind: ssa.TypeNilT})
			okBlk := fl.b.CreateBlock()
			fl.b.CondBr(isNilV, okBlk, nextFail)
			fl.b.SwitchToBlock(okBlk)
		} else {
			lit := fl.lowerExpr(clause.Literal)
			eq := fl.b.EqExact(v, lit)
			okBlk := fl.b.CreateBlock()
			fl.b.CondBr(eq, okBlk, nextFail)
			fl.b.SwitchToBlock(okBlk)

			if len(clause.TupleElementVars) > 0 {
				tuple := fl.b.Cast(v, ssa.Type{Kind: ssa.TypeTupleT})
				for idx, name := range clause.TupleElementVars {
					ev := fl.b.GetElementImm(tuple, idx, ssa.Any)
					fl.defineVar(name, ev)
				}
			}
		}

		fl.lowerMatch(clause.Body, nextFail)
		fl.restoreVars(outer)

		if i != len(sel.Clauses)-1 {
			fl.b.SwitchToBlock(nextFail)
		}
	}
}

func (fl *funcLowerer) lowerSelectBinaryStart(sel kernel.Select, typeFail ssa.BlockID) {
	v := fl.lookupVar(sel.Var, sel.Span)

	// bs_start_match is fallible only on a non-binary scrutinee; model
	// that with an is_type guard ahead of the match-context cast so the
	// failure path is explicit rather than folded into BsStartMatch.
	isBin := fl.b.IsType(v, ssa.Type{Kind: ssa.TypeBinaryT})
	okBlk := fl.b.CreateBlock()
	fl.b.CondBr(isBin, okBlk, typeFail)
	fl.b.SwitchToBlock(okBlk)
	ctx := fl.b.BsStartMatch(v)

	clause := sel.Clauses[0]
	fl.defineVar(clause.ContextVar, ctx)
	fl.lowerMatch(clause.Body, typeFail)
}

func (fl *funcLowerer) lowerSelectBinarySegment(sel kernel.Select, typeFail ssa.BlockID) {
	v := fl.lookupVar(sel.Var, sel.Span)
	outer := fl.snapshotVars()

	for i, clause := range sel.Clauses {
		var nextFail ssa.BlockID
		if i == len(sel.Clauses)-1 {
			nextFail = typeFail
		} else {
			nextFail = fl.b.CreateBlock()
		}

		if clause.ExtractedVar != "" {
			isErr, newCtx, extracted := fl.b.BsMatch(v, clause.SizeBit, ssa.Any)
			okBlk := fl.b.CreateBlock()
			fl.b.BrIf(isErr, nextFail, nil, okBlk, nil)
			fl.b.SwitchToBlock(okBlk)
			fl.defineVar(clause.NextVar, newCtx)
			fl.defineVar(clause.ExtractedVar, extracted)
		} else {
			isErr, newCtx := fl.b.BsMatchSkip(v, clause.SizeBit)
			okBlk := fl.b.CreateBlock()
			fl.b.BrIf(isErr, nextFail, nil, okBlk, nil)
			fl.b.SwitchToBlock(okBlk)
			fl.defineVar(clause.NextVar, newCtx)
		}

		fl.lowerMatch(clause.Body, nextFail)
		fl.restoreVars(outer)

		if i != len(sel.Clauses)-1 {
			fl.b.SwitchToBlock(nextFail)
		}
	}
}

func (fl *funcLowerer) lowerSelectBinaryEnd(sel kernel.Select, typeFail ssa.BlockID) {
	v := fl.lookupVar(sel.Var, sel.Span)
	isDone := fl.b.BsTestTailImm(v, 0)

	okBlk := fl.b.CreateBlock()
	fl.b.CondBr(isDone, okBlk, typeFail)
	fl.b.SwitchToBlock(okBlk)
	fl.lowerMatch(sel.Clauses[0].Body, typeFail)
}
