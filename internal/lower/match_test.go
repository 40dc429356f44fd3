package lower

import (
	"testing"

	"github.com/glow-lang/glow/internal/kernel"
	"github.com/glow-lang/glow/internal/ssa"
	"github.com/glow-lang/glow/internal/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowerSingleFunction(t *testing.T, in *symbol.Interner, fn *kernel.Function) *ssa.Function {
	t.Helper()
	kmod := &kernel.Module{Name: "m", Functions: []*kernel.Function{fn}}
	mod, err := LowerModule(kmod, in)
	require.NoError(t, err)
	idx, ok := mod.Lookup(fn.Name, fn.Arity)
	require.True(t, ok)
	require.NotNil(t, mod.Decl(idx).Body)
	return mod.Decl(idx).Body
}

func countTerminators(fn *ssa.Function, op ssa.Opcode) int {
	n := 0
	for _, blk := range fn.Blocks() {
		if blk == nil {
			continue
		}
		if term, ok := blk.Terminator(); ok && term.Op == op {
			n++
		}
	}
	return n
}

// caseXOfTupleConsGuardFn builds the Kernel-IR fragment from §8's
// match-lowering scenario: case X of {A,B} -> A; [H|T] -> H; N when
// is_integer(N) -> N end, falling through to case_clause when X
// matches none of the three.
func caseXOfTupleConsGuardFn(caseClauseAtom symbol.Symbol) *kernel.Function {
	caseClauseLeaf := kernel.Leaf{Body: kernel.Bif{
		Class: kernel.BifPrimop,
		Name:  "match_fail",
		Args:  []kernel.Expr{kernel.LitAtom{Sym: caseClauseAtom}, kernel.Var{Name: "X"}},
	}}
	guardedTail := kernel.Alt{
		First: kernel.GuardNode{
			Cond: kernel.Bif{
				Class: kernel.BifSafe,
				Name:  "erlang:is_integer/1",
				Args:  []kernel.Expr{kernel.Var{Name: "X"}},
				Ret:   []string{"_g"},
			},
			Body: kernel.Leaf{Body: kernel.Return{Value: kernel.Var{Name: "X"}}},
		},
		Then: caseClauseLeaf,
	}
	consClause := kernel.Select{
		Var:   "X",
		Class: kernel.ClassCons,
		Clauses: []kernel.ValueClause{{
			HeadVar: "H",
			TailVar: "T",
			Body:    kernel.Leaf{Body: kernel.Return{Value: kernel.Var{Name: "H"}}},
		}},
	}
	tupleClause := kernel.Select{
		Var:   "X",
		Class: kernel.ClassTuple,
		Clauses: []kernel.ValueClause{{
			Arity:       2,
			ElementVars: []string{"A", "B"},
			Body:        kernel.Leaf{Body: kernel.Return{Value: kernel.Var{Name: "A"}}},
		}},
	}
	tree := kernel.Alt{
		First: tupleClause,
		Then:  kernel.Alt{First: consClause, Then: guardedTail},
	}
	return &kernel.Function{
		Name:   "f",
		Arity:  1,
		Params: []string{"X"},
		Body:   kernel.Match{Body: tree},
	}
}

func TestMatchLoweringDispatchesByClauseType(t *testing.T) {
	in := symbol.New()
	fn := caseXOfTupleConsGuardFn(in.Intern("case_clause"))
	body := lowerSingleFunction(t, in, fn)

	// One ret_ok per matching clause (tuple, cons, guarded catch-all)
	// and exactly one ret_err for the case_clause fallthrough — the
	// four outcomes §8's match-lowering scenario lists for {1,2},
	// [3,4], 5, and #{}.
	assert.Equal(t, 3, countTerminators(body, ssa.OpRetOk))
	assert.Equal(t, 1, countTerminators(body, ssa.OpRetErr))
}

func TestBsMatchFailureBranchesBeforeBindingVars(t *testing.T) {
	sel := kernel.Select{
		Var:   "X",
		Class: kernel.ClassBinarySegment,
		Clauses: []kernel.ValueClause{
			{SizeBit: 8, ExtractedVar: "byte0", NextVar: "ctx1", Body: kernel.Leaf{Body: kernel.Return{Value: kernel.Var{Name: "byte0"}}}},
			{SizeBit: 8, NextVar: "ctx2", Body: kernel.Leaf{Body: kernel.Return{Value: kernel.Var{Name: "ctx2"}}}},
		},
	}
	fn := &kernel.Function{
		Name:   "decode",
		Arity:  1,
		Params: []string{"X"},
		Body:   kernel.Match{Body: sel},
	}
	body := lowerSingleFunction(t, symbol.New(), fn)

	foundGuardedMatch := false
	for _, blk := range body.Blocks() {
		if blk == nil || len(blk.Instrs) == 0 {
			continue
		}
		first := blk.Instrs[0].Op
		if first != ssa.OpBsMatch && first != ssa.OpBsMatchSkip {
			continue
		}
		term, ok := blk.Terminator()
		require.True(t, ok, "a block starting with bs_match/bs_match_skip must end in a branch on its is_err result")
		assert.Equal(t, ssa.OpBrIf, term.Op, "bs_match's is_err result must gate the clause body, not fall through unconditionally")
		foundGuardedMatch = true
	}
	assert.True(t, foundGuardedMatch, "expected at least one bs_match/bs_match_skip block in the lowered function")
}

func TestSelectMapChainsClausesInsteadOfSharingAFailBlock(t *testing.T) {
	sel := kernel.Select{
		Var:   "M",
		Class: kernel.ClassMap,
		Clauses: []kernel.ValueClause{
			{
				Pairs: []kernel.MapValueClausePair{{Key: kernel.LitAtom{}, Value: "v1"}},
				Body:  kernel.Leaf{Body: kernel.Return{Value: kernel.Var{Name: "v1"}}},
			},
			{
				Pairs: []kernel.MapValueClausePair{{Key: kernel.LitAtom{}, Value: "v2"}},
				Body:  kernel.Leaf{Body: kernel.Return{Value: kernel.Var{Name: "v2"}}},
			},
		},
	}
	fn := &kernel.Function{
		Name:   "pick",
		Arity:  1,
		Params: []string{"M"},
		Body:   kernel.Match{Body: sel},
	}

	require.NotPanics(t, func() {
		lowerSingleFunction(t, symbol.New(), fn)
	}, "a second map value clause must not append to the first clause's already-terminated block")
}
