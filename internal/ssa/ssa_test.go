package ssa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSimpleFunction() (*Function, *Builder) {
	sig := Signature{Module: "m", Name: "identity", Arity: 1, Params: []Type{Any}, Results: []Type{I1, Any}}
	fn := NewFunction(sig, VisPublic)
	b := NewBuilder(fn)
	entry := b.CreateBlock()
	b.SwitchToBlock(entry)
	p0 := b.AppendBlockParam(entry, Any)
	b.DefineVar("x", p0)
	return fn, b
}

func TestEntryBlockParamsMatchArity(t *testing.T) {
	fn, _ := buildSimpleFunction()
	entry := fn.Block(fn.Entry)
	assert.Len(t, entry.Params, fn.Sig.Arity)
}

func TestValuesDefinedBeforeUse(t *testing.T) {
	fn, b := buildSimpleFunction()
	x, ok := b.Var("x")
	require.True(t, ok)

	one := b.ConstInt(1)
	sum := b.TupleImm(x, one)
	b.RetOk(sum)

	// Every operand referenced by an instruction must have a DefBlock
	// at or before (in append order within the same block) the
	// instruction that consumes it — here we just confirm every
	// referenced value actually exists in the function's value table
	// and was defined prior to being read.
	entry := fn.Block(fn.Entry)
	last := entry.Instrs[len(entry.Instrs)-1]
	require.Equal(t, OpRetOk, last.Op)
	for _, arg := range entry.Instrs[len(entry.Instrs)-2].Args {
		v := fn.Value(arg)
		assert.LessOrEqual(t, int(v.DefBlock), int(fn.Entry))
	}
}

func TestOneTerminatorPerBlock(t *testing.T) {
	fn, b := buildSimpleFunction()
	x, _ := b.Var("x")
	b.RetOk(x)

	assert.True(t, b.IsCurrentBlockTerminated())
	assert.Panics(t, func() {
		b.ConstInt(42)
	}, "appending after a terminator must panic")

	entry := fn.Block(fn.Entry)
	count := 0
	for _, ins := range entry.Instrs {
		if ins.Op.IsTerminator() {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestPruneUnreachableBlocksIsIdempotent(t *testing.T) {
	fn, b := buildSimpleFunction()
	x, _ := b.Var("x")

	live := b.CreateBlock()
	dead := b.CreateBlock()
	_ = dead

	b.Br(live, x)

	b.SwitchToBlock(live)
	v := b.AppendBlockParam(live, Any)
	b.RetOk(v)

	b.PruneUnreachableBlocks()
	firstPass := fn.NumBlocks()
	var liveCount int
	for _, blk := range fn.blocks {
		if blk != nil {
			liveCount++
		}
	}
	assert.Equal(t, 2, liveCount, "entry and live block survive, dead block is pruned")

	b.PruneUnreachableBlocks()
	assert.Equal(t, firstPass, fn.NumBlocks(), "a second prune removes nothing further")
}

func TestBranchRecordsPredecessor(t *testing.T) {
	fn, b := buildSimpleFunction()
	x, _ := b.Var("x")

	target := b.CreateBlock()
	b.Br(target, x)

	b.SwitchToBlock(target)
	v := b.AppendBlockParam(target, Any)
	b.RetOk(v)

	targetBlk := fn.Block(target)
	require.Len(t, targetBlk.Preds, 1)
	assert.Equal(t, fn.Entry, targetBlk.Preds[0])
}

func TestMapUpdateReturnsErrFlagAndMap(t *testing.T) {
	fn, b := buildSimpleFunction()
	x, _ := b.Var("x")

	m := b.MapPut(x, x, x) // stand-in map value; shape only matters for result wiring
	k := b.ConstInt(1)
	v := b.ConstInt(2)
	isErr, updated := b.MapUpdate(m, k, v)

	require.NotEqual(t, isErr, updated)
	assert.Equal(t, I1, fn.ValueType(isErr))
	assert.Equal(t, Type{Kind: TypeMapT}, fn.ValueType(updated))
}

func TestPrintRendersBlocksAndTerminator(t *testing.T) {
	fn, b := buildSimpleFunction()
	x, _ := b.Var("x")
	b.RetOk(x)

	out := Print(fn)
	assert.Contains(t, out, "func identity/1")
	assert.Contains(t, out, "block0")
	assert.Contains(t, out, "ret_ok")
}

func TestModuleDeclareThenDefine(t *testing.T) {
	mod := NewModule("m")
	sig := Signature{Module: "m", Name: "f", Arity: 1}
	idx := mod.Declare(sig, VisPublic)

	assert.Panics(t, func() {
		mod.Declare(sig, VisPublic)
	}, "declaring the same name/arity twice is a bug in the caller")

	got, ok := mod.Lookup("f", 1)
	require.True(t, ok)
	assert.Equal(t, idx, got)
	assert.Nil(t, mod.Decl(idx).Body)

	fn, _ := buildSimpleFunction()
	mod.Define(idx, fn)
	assert.NotNil(t, mod.Decl(idx).Body)
}
