// Package symbol implements the process-wide symbol interner (spec C1):
// an append-only mapping from small integer ids to strings, plus the
// keyword/reserved/directive classification predicates generated code
// and the lexer rely on.
package symbol

import (
	"sync"

	"github.com/dolthub/swiss"
)

// Symbol is a stable, process-lifetime identifier for an interned
// string. Identical strings always map to identical Symbols.
type Symbol uint32

// Interner is the append-only string<->Symbol table. The zero value is
// not usable; construct with New.
type Interner struct {
	mu    sync.RWMutex
	byID  []string
	byStr *swiss.Map[string, Symbol]
	cat   []bootstrapCategory
}

// New constructs an Interner with the bootstrap table pre-registered,
// so identifiers for keywords, attribute names, directives, operator
// tokens, guard predicates, and common atoms are stable from the first
// call onward.
func New() *Interner {
	categories := []struct {
		words []string
		cat   bootstrapCategory
	}{
		{keywords, catKeyword},
		{attributes, catAttribute},
		{directives, catDirective},
		{operators, catOperator},
		{guardPredicates, catGuardPredicate},
		{commonAtoms, catCommonAtom},
	}

	total := 0
	for _, c := range categories {
		total += len(c.words)
	}

	in := &Interner{
		byID:  make([]string, 0, total),
		byStr: swiss.NewMap[string, Symbol](uint32(total)),
		cat:   make([]bootstrapCategory, 0, total),
	}

	for _, c := range categories {
		for _, w := range c.words {
			in.internLocked(w, c.cat)
		}
	}
	return in
}

// internLocked assumes the caller does not hold in.mu and is only
// used during bootstrap construction, before the Interner is shared.
func (in *Interner) internLocked(s string, cat bootstrapCategory) Symbol {
	if id, ok := in.byStr.Get(s); ok {
		return id
	}
	id := Symbol(len(in.byID))
	in.byID = append(in.byID, s)
	in.cat = append(in.cat, cat)
	in.byStr.Put(s, id)
	return id
}

// Intern returns the Symbol for s, assigning a fresh one if s has
// never been interned before. Safe for concurrent use.
func (in *Interner) Intern(s string) Symbol {
	in.mu.RLock()
	if id, ok := in.byStr.Get(s); ok {
		in.mu.RUnlock()
		return id
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	// Re-check: another writer may have interned s while we waited.
	if id, ok := in.byStr.Get(s); ok {
		return id
	}
	id := Symbol(len(in.byID))
	in.byID = append(in.byID, s)
	in.cat = append(in.cat, catNone)
	in.byStr.Put(s, id)
	return id
}

// Resolve returns the string that was interned for sym, and false if
// sym was never issued by this Interner.
func (in *Interner) Resolve(sym Symbol) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(sym) < 0 || int(sym) >= len(in.byID) {
		return "", false
	}
	return in.byID[sym], true
}

// MustResolve is Resolve without the ok return, for call sites that
// hold a Symbol known to have come from this Interner (e.g. constants
// baked into generated code).
func (in *Interner) MustResolve(sym Symbol) string {
	s, ok := in.Resolve(sym)
	if !ok {
		panic("symbol: unknown symbol id")
	}
	return s
}

func (in *Interner) category(sym Symbol) bootstrapCategory {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(sym) < 0 || int(sym) >= len(in.cat) {
		return catNone
	}
	return in.cat[sym]
}

// IsKeyword reports whether sym names a language keyword.
func (in *Interner) IsKeyword(sym Symbol) bool {
	return in.category(sym) == catKeyword
}

// IsReserved reports whether sym names a reserved identifier: a
// keyword or a module-attribute name such as "module" or "behaviour".
func (in *Interner) IsReserved(sym Symbol) bool {
	switch in.category(sym) {
	case catKeyword, catAttribute:
		return true
	default:
		return false
	}
}

// IsDirective reports whether sym names a preprocessor directive.
func (in *Interner) IsDirective(sym Symbol) bool {
	return in.category(sym) == catDirective
}

// IsGuardPredicate reports whether sym names a guard-safe predicate or
// function the lowering pass may call from within a Guard fail
// context.
func (in *Interner) IsGuardPredicate(sym Symbol) bool {
	return in.category(sym) == catGuardPredicate
}
