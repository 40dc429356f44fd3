package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternResolveRoundTrip(t *testing.T) {
	in := New()
	for _, s := range []string{"hello", "world", "ok", "erlang", ""} {
		sym := in.Intern(s)
		got, ok := in.Resolve(sym)
		require.True(t, ok)
		assert.Equal(t, s, got)
	}
}

func TestInternIsIdempotent(t *testing.T) {
	in := New()
	a := in.Intern("foobar")
	b := in.Intern("foobar")
	assert.Equal(t, a, b)
}

func TestClassificationPredicates(t *testing.T) {
	in := New()

	assert.True(t, in.IsKeyword(in.Intern("case")))
	assert.True(t, in.IsDirective(in.Intern("include")))
	assert.True(t, in.IsReserved(in.Intern("module")))
	assert.False(t, in.IsKeyword(in.Intern("ok")))
}

func TestResolveUnknownSymbolFails(t *testing.T) {
	in := New()
	_, ok := in.Resolve(Symbol(1 << 20))
	assert.False(t, ok)
}

func TestBootstrapOrderIsStable(t *testing.T) {
	in := New()
	// "false" and "true" are the first two common atoms logically, but
	// keywords/attributes/directives/operators/guard predicates are
	// bootstrapped first, matching the original autogenerated table's
	// category ordering.
	assert.True(t, in.IsKeyword(Symbol(0)))
}
