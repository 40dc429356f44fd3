package term

import "sort"

// Pair is one key/value association inside a MapTerm.
type Pair struct {
	Key   Term
	Value Term
}

// MapTerm is the map term variant. Pairs are kept sorted by Compare
// order so that equal maps (same keys/values, any insertion order)
// compare structurally equal and iteration order is deterministic —
// a property generated code relies on when building a literal map
// pattern's match order.
type MapTerm struct {
	pairs []Pair
}

func (*MapTerm) Kind() Kind     { return KindMap }
func (*MapTerm) String() string { return "map" }

// NewMap builds a MapTerm from pairs, last-write-wins on duplicate
// keys, matching Erlang's #{K => V1, K => V2} semantics (V2 wins).
func NewMap(pairs ...Pair) *MapTerm {
	m := &MapTerm{}
	for _, p := range pairs {
		m = m.Put(p.Key, p.Value)
	}
	return m
}

func (m *MapTerm) indexOf(key Term) (int, bool) {
	i := sort.Search(len(m.pairs), func(i int) bool {
		return Compare(m.pairs[i].Key, key) >= 0
	})
	if i < len(m.pairs) && Equal(m.pairs[i].Key, key) {
		return i, true
	}
	return i, false
}

// Get returns the value for key and true, or (None, false) if key is
// absent — the non-raising counterpart to Fetch.
func (m *MapTerm) Get(key Term) (Term, bool) {
	if i, ok := m.indexOf(key); ok {
		return m.pairs[i].Value, true
	}
	return None, false
}

// Fetch is Get's raising counterpart, used by map_get-style BIFs; it
// returns (value, true) or (None, false) and leaves raising a
// badkey/{badkey,Key} exception to the caller, which has the
// exception-construction context Fetch itself does not.
func (m *MapTerm) Fetch(key Term) (Term, bool) {
	return m.Get(key)
}

// Put returns a new map with key associated to value, inserting or
// overwriting as needed. Put never mutates m.
func (m *MapTerm) Put(key, value Term) *MapTerm {
	i, ok := m.indexOf(key)
	out := &MapTerm{pairs: make([]Pair, len(m.pairs), len(m.pairs)+1)}
	copy(out.pairs, m.pairs)
	if ok {
		out.pairs[i].Value = value
		return out
	}
	out.pairs = append(out.pairs, Pair{})
	copy(out.pairs[i+1:], out.pairs[i:])
	out.pairs[i] = Pair{Key: key, Value: value}
	return out
}

// PutMut inserts key/value in place, for use only by a binary-builder-
// style owner that holds the sole reference to m (the map `Assoc`
// constructor lowering in §4.3.9 exploits this after the first
// insert creates a freshly owned map).
func (m *MapTerm) PutMut(key, value Term) {
	i, ok := m.indexOf(key)
	if ok {
		m.pairs[i].Value = value
		return
	}
	m.pairs = append(m.pairs, Pair{})
	copy(m.pairs[i+1:], m.pairs[i:])
	m.pairs[i] = Pair{Key: key, Value: value}
}

// Update returns a new map with key's value replaced, and false if
// key is absent (the map `Exact` `:=` update form, which is fallible
// unlike Assoc's `=>`).
func (m *MapTerm) Update(key, value Term) (*MapTerm, bool) {
	i, ok := m.indexOf(key)
	if !ok {
		return nil, false
	}
	out := &MapTerm{pairs: make([]Pair, len(m.pairs))}
	copy(out.pairs, m.pairs)
	out.pairs[i].Value = value
	return out, true
}

// UpdateMut is Update's in-place counterpart for a freshly owned map,
// mirroring PutMut.
func (m *MapTerm) UpdateMut(key, value Term) bool {
	i, ok := m.indexOf(key)
	if !ok {
		return false
	}
	m.pairs[i].Value = value
	return true
}

// Size returns the number of associations in m.
func (m *MapTerm) Size() int { return len(m.pairs) }

// IsKey reports whether key is present in m.
func (m *MapTerm) IsKey(key Term) bool {
	_, ok := m.indexOf(key)
	return ok
}

// Pairs returns m's associations in canonical (sorted) order. Callers
// must not mutate the returned slice.
func (m *MapTerm) Pairs() []Pair { return m.pairs }

func compareMaps(a, b *MapTerm) int {
	if len(a.pairs) != len(b.pairs) {
		return len(a.pairs) - len(b.pairs)
	}
	for i := range a.pairs {
		if c := Compare(a.pairs[i].Key, b.pairs[i].Key); c != 0 {
			return c
		}
		if c := Compare(a.pairs[i].Value, b.pairs[i].Value); c != 0 {
			return c
		}
	}
	return 0
}
