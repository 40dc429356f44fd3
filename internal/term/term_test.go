package term

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsMoveMarker(t *testing.T) {
	c := NewCons(SmallInt(1), Nil)
	assert.False(t, c.IsMoveMarker())

	newLoc := SmallInt(99)
	c.Forward(newLoc)
	assert.True(t, c.IsMoveMarker())
	assert.Equal(t, Term(newLoc), c.ForwardingTarget())
}

func TestListSliceRoundTrip(t *testing.T) {
	elems := []Term{SmallInt(1), SmallInt(2), SmallInt(3)}
	list := SliceToList(elems)
	got, proper := ListToSlice(list)
	require.True(t, proper)
	assert.Equal(t, elems, got)
}

func TestImproperList(t *testing.T) {
	improper := NewCons(SmallInt(1), SmallInt(2))
	_, proper := ListToSlice(improper)
	assert.False(t, proper)
}

func TestMapOperations(t *testing.T) {
	m := NewMap(Pair{Key: Atom{Sym: 5}, Value: SmallInt(1)})
	assert.Equal(t, 1, m.Size())
	assert.True(t, m.IsKey(Atom{Sym: 5}))

	v, ok := m.Get(Atom{Sym: 5})
	require.True(t, ok)
	assert.Equal(t, Term(SmallInt(1)), v)

	m2 := m.Put(Atom{Sym: 6}, SmallInt(2))
	assert.Equal(t, 2, m2.Size())
	assert.Equal(t, 1, m.Size(), "Put must not mutate the receiver")

	_, ok = m.Update(Atom{Sym: 999}, SmallInt(7))
	assert.False(t, ok)

	m3, ok := m.Update(Atom{Sym: 5}, SmallInt(42))
	require.True(t, ok)
	v, _ = m3.Get(Atom{Sym: 5})
	assert.Equal(t, Term(SmallInt(42)), v)
}

func TestMapEqualityIgnoresInsertionOrder(t *testing.T) {
	a := NewMap(Pair{Atom{Sym: 1}, SmallInt(1)}, Pair{Atom{Sym: 2}, SmallInt(2)})
	b := NewMap(Pair{Atom{Sym: 2}, SmallInt(2)}, Pair{Atom{Sym: 1}, SmallInt(1)})
	assert.True(t, Equal(a, b))
}

func TestNumberEqualityIsKindSensitive(t *testing.T) {
	assert.False(t, Equal(SmallInt(1), Float(1.0)), "1 =:= 1.0 is false")
	assert.Equal(t, 0, Compare(SmallInt(1), Float(1.0)), "1 == 1.0 in ordering terms")
}

func TestBinaryBuilderRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		n := r.Intn(32)
		original := make([]byte, n)
		r.Read(original)

		bb := NewBinaryBuilder()
		for _, b := range original {
			bb.PushInt(uint64(b), 8)
		}
		bin := bb.Close()
		assert.Equal(t, original, bin.Data)

		mc, ok := StartMatch(bin)
		require.True(t, ok)
		got := make([]byte, 0, n)
		for i := 0; i < n; i++ {
			var v Term
			v, mc, ok = mc.MatchInt(8)
			require.True(t, ok)
			got = append(got, byte(v.(SmallInt)))
		}
		assert.Equal(t, original, got)
		assert.Equal(t, 0, mc.RemainingBits())
	}
}

func TestExceptionNocatchRewrite(t *testing.T) {
	const nocatchSym = 77
	exc := NewException(ClassThrow, Atom{Sym: 3}, Nil)
	rewritten := exc.Nocatch(nocatchSym)
	assert.Equal(t, ClassExit, rewritten.Class)
	tup, ok := rewritten.Reason.(*Tuple)
	require.True(t, ok)
	assert.Equal(t, 2, tup.Arity())
	assert.Equal(t, symbolAtomSym(t, tup.Elements[0]), uint32(nocatchSym))
}

func symbolAtomSym(t *testing.T, term Term) uint32 {
	t.Helper()
	a, ok := term.(Atom)
	require.True(t, ok)
	return uint32(a.Sym)
}
