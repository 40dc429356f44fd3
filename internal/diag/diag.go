// Package diag reports compile-time diagnostics with source spans, in
// the same style the teacher's own compiler front end uses for
// lowering errors: wrap a fatal condition in a span-carrying error and
// hand it to errors.WithStack so the original call site survives in the
// trace.
package diag

import (
	"fmt"

	"github.com/pkg/errors"
)

// Span locates a diagnostic within the source that produced the
// Kernel IR being lowered.
type Span struct {
	File string
	Line int
	Col  int
}

func (s Span) String() string {
	if s.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
}

// Kind enumerates the fatal Kernel→SSA lowering error conditions named
// in spec §7.
type Kind int

const (
	UndefinedVariable Kind = iota
	DisallowedGuardCall
	DuplicateTupleArity
	RedundantTerminatorFollow
	MalformedPrimop
)

func (k Kind) String() string {
	switch k {
	case UndefinedVariable:
		return "undefined variable reference"
	case DisallowedGuardCall:
		return "disallowed call form inside a guard"
	case DuplicateTupleArity:
		return "duplicate arity in a tuple select"
	case RedundantTerminatorFollow:
		return "redundant return/break after a terminator"
	case MalformedPrimop:
		return "malformed primop arguments"
	default:
		return "unknown diagnostic"
	}
}

// Error is a single fatal diagnostic. Lowering aborts as soon as one
// is produced (spec §7: "all such conditions are fatal to the current
// module").
type Error struct {
	Kind    Kind
	Span    Span
	Module  string
	Detail  string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s: %s", e.Span, e.Module, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s (%s)", e.Span, e.Module, e.Kind, e.Detail)
}

// New builds a fatal diagnostic and wraps it with errors.WithStack so
// the reporter's caller gets a frame back to the lowering call site
// that raised it, not just the flat message.
func New(kind Kind, span Span, module, detail string) error {
	return errors.WithStack(&Error{Kind: kind, Span: span, Module: module, Detail: detail})
}

// Reporter accumulates diagnostics for a module compilation. Lowering
// calls Fatal and returns immediately; the reporter's caller decides
// whether to keep the first error only or the whole batch.
type Reporter struct {
	module string
	errs   []error
}

// NewReporter starts a reporter for the named module.
func NewReporter(module string) *Reporter {
	return &Reporter{module: module}
}

// Fatal records a fatal diagnostic and returns it as an error, so
// callers can `return nil, r.Fatal(...)` in one line.
func (r *Reporter) Fatal(kind Kind, span Span, detail string) error {
	err := New(kind, span, r.module, detail)
	r.errs = append(r.errs, err)
	return err
}

// HasErrors reports whether any diagnostic has been recorded.
func (r *Reporter) HasErrors() bool {
	return len(r.errs) > 0
}

// Errors returns every diagnostic recorded so far, in emission order.
func (r *Reporter) Errors() []error {
	return r.errs
}
