package scheduler

import (
	"context"
	"time"

	"github.com/glow-lang/glow/internal/process"
	"github.com/glow-lang/glow/internal/symbol"
	"github.com/glow-lang/glow/internal/term"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Runtime is a fixed pool of schedulers sharing one pid/reference
// namespace, the multi-scheduler form of §4.7: each scheduler owns
// its own run queue and timer wheel, but a Send or exit can cross
// between them.
type Runtime struct {
	schedulers []*Scheduler
}

// NewRuntime constructs n schedulers, wires each one's Coordinator to
// the group, and returns the assembled pool.
func NewRuntime(n int, interner *symbol.Interner, reg prometheus.Registerer, log *zap.Logger) *Runtime {
	rt := &Runtime{schedulers: make([]*Scheduler, n)}
	for i := range rt.schedulers {
		rt.schedulers[i] = New(int32(i), interner, reg, log)
	}
	for _, s := range rt.schedulers {
		s.SetCoordinator(rt)
	}
	return rt
}

// Lookup satisfies Coordinator: it checks the scheduler whose id the
// pid carries first, then falls back to every scheduler's registry.
func (rt *Runtime) Lookup(pid term.Pid) (*process.Process, bool) {
	if int(pid.Scheduler) < len(rt.schedulers) {
		if p, ok := rt.schedulers[pid.Scheduler].Lookup(pid); ok {
			return p, true
		}
	}
	for _, s := range rt.schedulers {
		if p, ok := s.Lookup(pid); ok {
			return p, true
		}
	}
	return nil, false
}

// Scheduler returns the i-th scheduler, e.g. to spawn the root
// process before calling Run.
func (rt *Runtime) Scheduler(i int) *Scheduler { return rt.schedulers[i] }

// idleBackoff bounds how long a scheduler with nothing to do sleeps
// before checking again, so an idle runtime doesn't spin a core.
const idleBackoff = 200 * time.Microsecond

// Run drives every scheduler's loop concurrently until ctx is
// cancelled, returning the first error any loop goroutine reports (in
// this runtime, loops never error on their own; Run's errgroup wiring
// exists so a future fallible loop body — a panic recovered to an
// error, a health check failure — has somewhere to surface to without
// restructuring every caller).
func (rt *Runtime) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range rt.schedulers {
		s := s
		g.Go(func() error {
			return s.loop(ctx)
		})
	}
	return g.Wait()
}

// loop repeatedly calls RunOnce, backing off briefly when idle, until
// ctx is cancelled.
func (s *Scheduler) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !s.RunOnce() {
			time.Sleep(idleBackoff)
		}
	}
}
