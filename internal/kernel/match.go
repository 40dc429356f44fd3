package kernel

import "github.com/glow-lang/glow/internal/diag"

// MatchTree is the pattern-match decision tree lowered by
// internal/lower's lower_match (§4.3.4). It is a closed sum over Alt,
// GuardNode, and Leaf.
type MatchTree interface {
	isMatchTree()
}

// Alt tries First; on type/value mismatch (First's internal fail
// continuation), falls through to Then.
type Alt struct {
	First MatchTree
	Then  MatchTree
}

// GuardNode runs a boolean guard expression; true continues to Body,
// false falls through to the enclosing Alt's Then.
type GuardNode struct {
	Cond Expr
	Body MatchTree
}

// Leaf is a plain Kernel expression reached once a clause's pattern
// and guard have both matched.
type Leaf struct {
	Body Expr
}

func (Alt) isMatchTree()       {}
func (GuardNode) isMatchTree() {}
func (Leaf) isMatchTree()      {}

// TypeClass enumerates the discriminators a Select node tests,
// matching internal/ssa's TypeKind lattice one-for-one where a runtime
// type test exists (spec §4.3.4).
type TypeClass int

const (
	ClassAtomFloatInt TypeClass = iota // Atom | Float | Int share one type-test shape
	ClassTuple
	ClassCons
	ClassNil
	ClassMap
	ClassLiteral
	ClassBinary
	ClassBinarySegment
	ClassBinaryInt
	ClassBinaryEnd
)

// Select discriminates Var by TypeClass, dispatching to one of
// several value clauses once the type test passes.
type Select struct {
	Var     string
	Class   TypeClass
	Clauses []ValueClause
	Span    diag.Span
}

// ValueClause is one value-level arm of a Select. Which fields are
// meaningful depends on the owning Select's Class:
//
//   - ClassAtomFloatInt: Literal is the atom/float/int constant.
//   - ClassTuple: Arity plus ElementVars (len == Arity) to bind via
//     get_element_imm.
//   - ClassCons: HeadVar/TailVar.
//   - ClassNil: no fields used.
//   - ClassMap: Pairs, each binding a fetched value to a var.
//   - ClassLiteral: Literal, optionally TupleElementVars when the
//     literal is a tuple spec with element vars to destructure.
//   - ClassBinary: ContextVar, the match-context binding.
//   - ClassBinarySegment/ClassBinaryInt: SizeBit/Signed plus
//     NextVar/ExtractedVar.
//   - ClassBinaryEnd: no fields used.
type ValueClause struct {
	Literal Expr

	Arity       int
	ElementVars []string

	HeadVar, TailVar string

	Pairs []MapValueClausePair

	TupleElementVars []string

	ContextVar string

	SizeBit   int
	Signed    bool
	NextVar   string
	ExtractedVar string

	Body MatchTree
}

// MapValueClausePair binds a fetched map value to a var for a given
// key expression within a ClassMap value clause.
type MapValueClausePair struct {
	Key   Expr
	Value string
}

func (Select) isMatchTree() {}
