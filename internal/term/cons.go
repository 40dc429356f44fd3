package term

// Cons is a two-slot list cell {head, tail}. Cons is always used
// through a pointer so cell identity is preserved and so the move-
// marker convention below can be observed by every holder of the
// pointer, matching the contract boxed variants have on a real heap.
type Cons struct {
	Head Term
	Tail Term
}

func (*Cons) Kind() Kind    { return KindCons }
func (*Cons) String() string { return "cons" }

// NewCons allocates a fresh, non-forwarded cons cell.
func NewCons(head, tail Term) *Cons {
	return &Cons{Head: head, Tail: tail}
}

// IsMoveMarker reports whether c has been forwarded by a relocating
// collector: the convention (spec §3) is that a forwarded cell's Head
// is set to the None sentinel and its Tail holds the forwarding Term.
func (c *Cons) IsMoveMarker() bool {
	return IsNone(c.Head)
}

// Forward marks c as relocated to newLocation. Once called, c.Head
// and c.Tail must not be read as list data again.
func (c *Cons) Forward(newLocation Term) {
	c.Head = None
	c.Tail = newLocation
}

// ForwardingTarget returns the Term a forwarded cell now lives at. It
// panics if c is not a move marker; callers must check IsMoveMarker
// first, matching the unchecked contract of the original's
// is_move_marker/forwarding accessor pair.
func (c *Cons) ForwardingTarget() Term {
	if !c.IsMoveMarker() {
		panic("term: ForwardingTarget on a non-forwarded cons cell")
	}
	return c.Tail
}

// ListToSlice walks a proper list starting at head, returning its
// elements in order and true, or a partial slice and false if the
// list is improper (its final tail is not Nil).
func ListToSlice(head Term) ([]Term, bool) {
	var out []Term
	cur := head
	for {
		switch v := cur.(type) {
		case nilTerm:
			return out, true
		case *Cons:
			out = append(out, v.Head)
			cur = v.Tail
		default:
			return out, false
		}
	}
}

// SliceToList builds a proper list from elems, in the same order,
// terminated with Nil.
func SliceToList(elems []Term) Term {
	var list Term = Nil
	for i := len(elems) - 1; i >= 0; i-- {
		list = NewCons(elems[i], list)
	}
	return list
}
