// Package term implements the tagged term model (spec C2): atoms,
// numbers, nil, cons cells, tuples, maps, binaries/bitstrings,
// closures, pids, references, match contexts, binary builders, and
// exceptions, plus their equality, ordering, hashing, and printing.
//
// A real native backend packs every variant into a single tagged
// machine word with boxed payloads on a process heap. Go cannot
// express that representation directly without unsafe pointer
// tagging that would fight the garbage collector this package is
// explicitly agnostic about (spec §1 non-goals). Term is instead a
// small interface. Immediates (atoms, numbers, nil, none) are plain
// values; every boxed variant is a pointer type, so identity
// comparison ("==") on a Term value is cheap and, for boxed variants,
// corresponds to the "same heap cell" test the original
// opaque-term representation provides for free.
package term

// Kind identifies which variant a Term value holds.
type Kind uint8

const (
	KindNone Kind = iota
	KindAtom
	KindSmallInt
	KindBigInt
	KindFloat
	KindNil
	KindCons
	KindTuple
	KindMap
	KindBinary
	KindBitstring
	KindMatchContext
	KindBinaryBuilder
	KindClosure
	KindPid
	KindReference
	KindException
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAtom:
		return "atom"
	case KindSmallInt:
		return "small_int"
	case KindBigInt:
		return "big_int"
	case KindFloat:
		return "float"
	case KindNil:
		return "nil"
	case KindCons:
		return "cons"
	case KindTuple:
		return "tuple"
	case KindMap:
		return "map"
	case KindBinary:
		return "binary"
	case KindBitstring:
		return "bitstring"
	case KindMatchContext:
		return "match_context"
	case KindBinaryBuilder:
		return "binary_builder"
	case KindClosure:
		return "closure"
	case KindPid:
		return "pid"
	case KindReference:
		return "reference"
	case KindException:
		return "exception"
	default:
		return "unknown"
	}
}

// Term is the common interface every tagged variant implements.
type Term interface {
	Kind() Kind
	String() string
}

// None is the "no value" sentinel returned by peek-style operations
// (e.g. recv_peek_message with an empty mailbox) that must return a
// Term even when there is nothing to return. It also doubles as the
// move-marker head value during a hypothetical GC relocation: a moved
// Cons sets Head to None and Tail to the forwarding Term (see cons.go).
type noneTerm struct{}

func (noneTerm) Kind() Kind    { return KindNone }
func (noneTerm) String() string { return "none" }

// None is the single shared instance of the none term; compare with
// ==, not with IsNone, since Term identity is pointer/value equality
// for unboxed variants.
var None Term = noneTerm{}

// IsNone reports whether t is the none sentinel.
func IsNone(t Term) bool {
	_, ok := t.(noneTerm)
	return ok
}

// TypeClass groups kinds the way the Select pattern-match node (spec
// §4.3.4) discriminates on: Atom/Float/Int share a literal-comparison
// strategy, Tuple/Cons/Nil/Map each get bespoke destructuring, and
// Binary drives bitstring matching.
type TypeClass uint8

const (
	ClassAtom TypeClass = iota
	ClassFloat
	ClassInt
	ClassTuple
	ClassCons
	ClassNil
	ClassMap
	ClassBinary
)

// ClassOf returns the type class a Select node would test for t's
// kind, and false if t's kind never participates in a Select (e.g.
// Pid, Reference, Closure, Exception — values a pattern can bind to a
// variable but never destructure further).
func ClassOf(k Kind) (TypeClass, bool) {
	switch k {
	case KindAtom:
		return ClassAtom, true
	case KindFloat:
		return ClassFloat, true
	case KindSmallInt, KindBigInt:
		return ClassInt, true
	case KindTuple:
		return ClassTuple, true
	case KindCons:
		return ClassCons, true
	case KindNil:
		return ClassNil, true
	case KindMap:
		return ClassMap, true
	case KindBinary, KindBitstring, KindMatchContext:
		return ClassBinary, true
	default:
		return 0, false
	}
}
