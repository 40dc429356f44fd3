// Package timer implements the scheduler's hashed timer wheel: the
// per-process receive timeouts and time-based sends used by
// erlang:send_after/3 and receive-after clauses (spec §4.6).
package timer

import (
	"sync"
	"time"

	"github.com/glow-lang/glow/internal/process"
	"github.com/glow-lang/glow/internal/term"
)

// Action names what a fired timer does to its target process.
type Action int

const (
	// ActionWake moves the target out of the waiting set, used for
	// bare receive-after expirations.
	ActionWake Action = iota
	// ActionSend delivers Message to the target's mailbox before
	// waking it, used for erlang:send_after/3.
	ActionSend
	// ActionExit delivers Message as an exit reason, used for
	// exit_after-style scheduled kills.
	ActionExit
)

// Entry is one scheduled timer.
type Entry struct {
	Process  *process.Process
	Deadline time.Time
	Action   Action
	Message  term.Term

	bucket    int
	cancelled bool
}

// Cancel marks the timer as cancelled; Timeout skips cancelled
// entries instead of acting on them. Safe to call after the entry has
// already fired.
func (e *Entry) Cancel() {
	e.cancelled = true
}

// Wheel is a hashed timer wheel: Deadline maps to a bucket by how many
// ticks away it is, so each tick only has to scan one bucket instead
// of the whole timer set.
type Wheel struct {
	mu       sync.Mutex
	tick     time.Duration
	buckets  [][]*Entry
	cursor   int
	now      time.Time
}

// NewWheel constructs a wheel with the given bucket count and tick
// duration. start anchors tick 0 (pass the scheduler's boot time; the
// wheel never calls time.Now itself so ticking stays deterministic
// under test).
func NewWheel(buckets int, tick time.Duration, start time.Time) *Wheel {
	return &Wheel{
		tick:    tick,
		buckets: make([][]*Entry, buckets),
		now:     start,
	}
}

// Schedule adds e to the wheel, placing it in the bucket its deadline
// falls into relative to the wheel's current position. Deadlines
// further out than the wheel spans wrap around (a real BEAM-style
// wheel rehashes on each full revolution; this implementation accepts
// the coarser granularity that introduces for very long timeouts).
func (w *Wheel) Schedule(e *Entry) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ticksOut := int(e.Deadline.Sub(w.now) / w.tick)
	if ticksOut < 0 {
		ticksOut = 0
	}
	bucket := (w.cursor + ticksOut) % len(w.buckets)
	e.bucket = bucket
	w.buckets[bucket] = append(w.buckets[bucket], e)
}

// Timeout advances the wheel by one tick and returns every
// non-cancelled entry in the bucket that just came due.
func (w *Wheel) Timeout() []*Entry {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.now = w.now.Add(w.tick)
	w.cursor = (w.cursor + 1) % len(w.buckets)
	due := w.buckets[w.cursor]
	w.buckets[w.cursor] = nil

	fired := due[:0]
	for _, e := range due {
		if !e.cancelled {
			fired = append(fired, e)
		}
	}
	return fired
}

// NextDeadline reports the earliest scheduled, non-cancelled
// deadline, used by a scheduler deciding how long it may safely park
// its OS thread.
func (w *Wheel) NextDeadline() (time.Time, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var best time.Time
	found := false
	for _, bucket := range w.buckets {
		for _, e := range bucket {
			if e.cancelled {
				continue
			}
			if !found || e.Deadline.Before(best) {
				best = e.Deadline
				found = true
			}
		}
	}
	return best, found
}

// Apply performs a fired entry's action against its target process
// and mailbox. The scheduler calls this once per entry returned from
// Timeout, outside the run queue's lock.
func Apply(e *Entry, wake func(*process.Process)) {
	switch e.Action {
	case ActionSend:
		e.Process.Mailbox().Deliver(e.Message)
		wake(e.Process)
	case ActionExit:
		exc := term.NewException(term.ClassExit, e.Message, term.Nil)
		e.Process.ErlangExit(exc)
		wake(e.Process)
	default: // ActionWake
		wake(e.Process)
	}
}
