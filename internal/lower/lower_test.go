package lower

import (
	"testing"

	"github.com/glow-lang/glow/internal/kernel"
	"github.com/glow-lang/glow/internal/ssa"
	"github.com/glow-lang/glow/internal/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countOp(fn *ssa.Function, op ssa.Opcode) int {
	n := 0
	for _, blk := range fn.Blocks() {
		if blk == nil {
			continue
		}
		for _, instr := range blk.Instrs {
			if instr.Op == op {
				n++
			}
		}
	}
	return n
}

// TestCatchDemultiplexesThrowExitError builds §8's "Try / catch
// semantics" scenario — catch wrapping a body that may raise — and
// checks the three-way class demux lowerCatch is supposed to build:
// throw passes the reason straight through, exit wraps it as
// {'EXIT', Reason}, and error wraps it as {'EXIT', {Reason, Trace}}.
// There is no interpreter in this tree to literally observe foo /
// {'EXIT', bar} / {'EXIT', {baz, Trace}}, so this asserts the
// SSA shape that produces them instead.
func TestCatchDemultiplexesThrowExitError(t *testing.T) {
	in := symbol.New()
	fn := &kernel.Function{
		Name:  "f",
		Arity: 1,
		Params: []string{"X"},
		Body: kernel.Return{Value: kernel.Catch{Expr: kernel.Bif{
			Class: kernel.BifFallible,
			Name:  "erlang:error/1",
			Args:  []kernel.Expr{kernel.LitAtom{Sym: in.Intern("baz")}},
		}}},
	}
	body := lowerSingleFunction(t, in, fn)

	// class/reason/trace are each read exactly once out of the caught
	// exception, and the error arm builds two nested tuples ({Reason,
	// Trace} then {'EXIT', ...}) while throw/exit each build at most
	// one — three ConstTupleImm total (exit's wrap, error's inner
	// pair, error's outer wrap).
	assert.Equal(t, 1, countOp(body, ssa.OpExceptionClass))
	assert.Equal(t, 1, countOp(body, ssa.OpExceptionReason))
	assert.Equal(t, 1, countOp(body, ssa.OpExceptionTrace))
	assert.Equal(t, 2, countOp(body, ssa.OpEqExact), "class is compared against throw then exit")
	assert.Equal(t, 3, countOp(body, ssa.OpConstTupleImm), "exit wrap + error's {reason,trace} + error's outer wrap")
}

// TestNifGetsVisNifNotVisClosure is the VisNif half of review comment
// (d): a nif-annotated declaration must carry ssa.VisNif, and must NOT
// pick up ssa.VisClosure since it is never referenced as a make_fun
// target.
func TestNifGetsVisNifNotVisClosure(t *testing.T) {
	in := symbol.New()
	kmod := &kernel.Module{
		Name: "m",
		Functions: []*kernel.Function{
			{Name: "native_sum", Arity: 2, Nif: true, Params: []string{"A", "B"},
				Body: kernel.Return{Value: kernel.Var{Name: "A"}}},
		},
	}
	mod, err := LowerModule(kmod, in)
	require.NoError(t, err)

	idx, ok := mod.Lookup("native_sum", 2)
	assert.True(t, ok)
	vis := mod.Decl(idx).Visibility
	assert.True(t, vis.Has(ssa.VisNif), "nif-annotated function must carry VisNif")
	assert.False(t, vis.Has(ssa.VisClosure), "a non-closure nif must not carry VisClosure")
}

// TestClosureTargetGetsVisClosureNotVisNif is the VisClosure half of
// review comment (d): a function referenced as a make_fun callee must
// carry ssa.VisClosure, and a plain nif-free, non-closure function
// must carry neither flag.
func TestClosureTargetGetsVisClosureNotVisNif(t *testing.T) {
	in := symbol.New()
	kmod := &kernel.Module{
		Name: "m",
		Functions: []*kernel.Function{
			{
				Name: "make_adder", Arity: 1, Params: []string{"N"},
				Body: kernel.Return{Value: kernel.Bif{
					Class: kernel.BifPrimop,
					Name:  "make_fun",
					Args:  []kernel.Expr{kernel.Var{Name: "adder"}, kernel.Var{Name: "N"}},
					Ret:   []string{"Closure"},
				}},
			},
			{
				Name: "adder", Arity: 1, Params: []string{"X"},
				Body: kernel.Return{Value: kernel.Var{Name: "X"}},
			},
			{
				Name: "plain", Arity: 0, Params: nil,
				Body: kernel.Return{Value: kernel.LitNil{}},
			},
		},
	}
	mod, err := LowerModule(kmod, in)
	require.NoError(t, err)

	adderIdx, ok := mod.Lookup("adder", 1)
	assert.True(t, ok)
	adderVis := mod.Decl(adderIdx).Visibility
	assert.True(t, adderVis.Has(ssa.VisClosure), "adder/1 is referenced via make_fun with one env var, so it is a closure target at arity 1")
	assert.False(t, adderVis.Has(ssa.VisNif))

	plainIdx, ok := mod.Lookup("plain", 0)
	assert.True(t, ok)
	plainVis := mod.Decl(plainIdx).Visibility
	assert.False(t, plainVis.Has(ssa.VisClosure))
	assert.False(t, plainVis.Has(ssa.VisNif))
}
