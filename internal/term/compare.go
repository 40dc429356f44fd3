package term

import (
	"bytes"
	"hash/fnv"
	"math/big"
)

// kindOrder gives the relative ordering of kinds for Erlang-style
// term ordering: Number < Atom < Reference < Function < Port < Pid <
// Tuple < Map < Nil < List < Bitstring. This core only implements the
// subset of kinds it models; unmodeled kinds (Port) are absent.
func kindOrder(k Kind) int {
	switch k {
	case KindSmallInt, KindBigInt, KindFloat:
		return 0
	case KindAtom:
		return 1
	case KindReference:
		return 2
	case KindClosure:
		return 3
	case KindPid:
		return 4
	case KindTuple:
		return 5
	case KindMap:
		return 6
	case KindNil:
		return 7
	case KindCons:
		return 8
	case KindBinary, KindBitstring, KindMatchContext, KindBinaryBuilder:
		return 9
	case KindException:
		return 10
	default:
		return 11
	}
}

// Compare implements a total order over Term values: negative if a <
// b, zero if equal, positive if a > b. Numbers compare by value
// across SmallInt/BigInt/Float; every other kind compares only
// against its own kind (and otherwise falls back to kind order).
func Compare(a, b Term) int {
	an, aIsNum := asBigFloat(a)
	bn, bIsNum := asBigFloat(b)
	if aIsNum && bIsNum {
		return an.Cmp(bn)
	}

	ka, kb := kindOrder(a.Kind()), kindOrder(b.Kind())
	if ka != kb {
		if ka < kb {
			return -1
		}
		return 1
	}

	switch av := a.(type) {
	case Atom:
		bv := b.(Atom)
		return int(av.Sym) - int(bv.Sym)
	case *Tuple:
		bv := b.(*Tuple)
		if len(av.Elements) != len(bv.Elements) {
			return len(av.Elements) - len(bv.Elements)
		}
		for i := range av.Elements {
			if c := Compare(av.Elements[i], bv.Elements[i]); c != 0 {
				return c
			}
		}
		return 0
	case *Cons:
		bv := b.(*Cons)
		if c := Compare(av.Head, bv.Head); c != 0 {
			return c
		}
		return Compare(av.Tail, bv.Tail)
	case nilTerm:
		return 0
	case *MapTerm:
		bv := b.(*MapTerm)
		return compareMaps(av, bv)
	case *Binary:
		bv := b.(*Binary)
		return bytes.Compare(av.Data, bv.Data)
	case *Pid:
		bv := b.(*Pid)
		if av.Scheduler != bv.Scheduler {
			return int(av.Scheduler) - int(bv.Scheduler)
		}
		if av.Index < bv.Index {
			return -1
		} else if av.Index > bv.Index {
			return 1
		}
		return 0
	case *Reference:
		bv := b.(*Reference)
		if av.Unique < bv.Unique {
			return -1
		} else if av.Unique > bv.Unique {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// asBigFloat converts a numeric Term into a comparable big.Float, so
// SmallInt, BigInt, and Float can be compared against one another
// without losing precision on the integer side.
func asBigFloat(t Term) (*big.Float, bool) {
	switch v := t.(type) {
	case SmallInt:
		return new(big.Float).SetInt64(int64(v)), true
	case BigInt:
		return new(big.Float).SetInt(v.Value), true
	case Float:
		return big.NewFloat(float64(v)), true
	default:
		return nil, false
	}
}

// Equal reports structural, not identity, equality: "=:=" semantics
// where numbers of different kinds (1 vs 1.0) are unequal, unlike "==".
func Equal(a, b Term) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case SmallInt:
		return av == b.(SmallInt)
	case BigInt:
		return av.Value.Cmp(b.(BigInt).Value) == 0
	case Float:
		return av == b.(Float)
	default:
		return Compare(a, b) == 0
	}
}

// Hash computes a hash for t suitable for use as a map key backing
// store bucket selector; structurally equal terms hash identically.
func Hash(t Term) uint64 {
	h := fnv.New64a()
	hashInto(h, t)
	return h.Sum64()
}

func hashInto(h interface{ Write([]byte) (int, error) }, t Term) {
	switch v := t.(type) {
	case SmallInt:
		writeUint(h, uint64(v))
	case BigInt:
		h.Write(v.Value.Bytes())
	case Float:
		writeUint(h, uint64(v))
	case Atom:
		writeUint(h, uint64(v.Sym))
	case nilTerm:
		h.Write([]byte{0})
	case *Cons:
		hashInto(h, v.Head)
		hashInto(h, v.Tail)
	case *Tuple:
		for _, e := range v.Elements {
			hashInto(h, e)
		}
	case *Binary:
		h.Write(v.Data)
	case *MapTerm:
		for _, p := range v.pairs {
			hashInto(h, p.Key)
			hashInto(h, p.Value)
		}
	case *Pid:
		writeUint(h, uint64(v.Scheduler))
		writeUint(h, v.Index)
	case *Reference:
		writeUint(h, v.Unique)
	default:
		h.Write([]byte(t.String()))
	}
}

func writeUint(h interface{ Write([]byte) (int, error) }, v uint64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	h.Write(buf[:])
}
