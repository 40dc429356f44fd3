// Package scheduler implements the per-OS-thread cooperative
// scheduler: its run queue, timer wheel, stack-swap orchestration, and
// exit propagation (spec §4.7).
package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/glow-lang/glow/internal/process"
	"github.com/glow-lang/glow/internal/runqueue"
	"github.com/glow-lang/glow/internal/swap"
	"github.com/glow-lang/glow/internal/symbol"
	"github.com/glow-lang/glow/internal/term"
	"github.com/glow-lang/glow/internal/timer"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// wellKnownAtoms are the atoms the scheduler itself needs to build
// exit/monitor messages, interned once so repeated delivery never
// re-enters the interner's write path.
type wellKnownAtoms struct {
	exit, down, process symbol.Symbol
}

func internWellKnown(in *symbol.Interner) wellKnownAtoms {
	return wellKnownAtoms{
		exit:    in.Intern("EXIT"),
		down:    in.Intern("DOWN"),
		process: in.Intern("process"),
	}
}

// TickInterval is the timer wheel's bucket granularity. Chosen small
// enough that receive-after(1) behaves sanely, matching the teacher's
// own preference for millisecond-scale scheduling quanta.
const TickInterval = time.Millisecond

// WheelBuckets bounds how many ticks a timer can be scheduled ahead
// before it wraps (see timer.Wheel.Schedule).
const WheelBuckets = 4096

// Scheduler owns one OS thread's worth of runnable processes.
type Scheduler struct {
	id int32

	queue *runqueue.RunQueue
	wheel *timer.Wheel

	refCounter    atomic.Uint64
	uniqueCounter atomic.Uint64
	pidCounter    atomic.Uint64

	current atomic.Pointer[process.Process]
	loopCtx swap.Context // the scheduler's own saved context while a process runs

	registryMu sync.RWMutex
	registry   map[term.Pid]*process.Process

	log     *zap.Logger
	metrics *Metrics
	atoms   wellKnownAtoms

	// coordinator resolves a pid that belongs to a different
	// scheduler, used by exit propagation and Send when the target
	// isn't local. nil in a single-scheduler runtime.
	coordinator Coordinator
}

// Coordinator looks up a process across every scheduler in a
// multi-scheduler runtime (spec §4.7.4: exit propagation and sends
// are not confined to the originating scheduler).
type Coordinator interface {
	Lookup(pid term.Pid) (*process.Process, bool)
}

// New constructs a scheduler. reg may be nil to skip metrics
// registration (e.g. in unit tests that construct many schedulers).
// interner is shared with the compiler front end so exit/monitor
// messages use the same atom ids generated code expects.
func New(id int32, interner *symbol.Interner, reg prometheus.Registerer, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scheduler{
		id:       id,
		queue:    runqueue.New(),
		wheel:    timer.NewWheel(WheelBuckets, TickInterval, time.Now()),
		registry: make(map[term.Pid]*process.Process),
		log:      log.With(zap.Int32("scheduler_id", id)),
		atoms:    internWellKnown(interner),
	}
	s.metrics = newMetrics(reg, id, s.queue)
	return s
}

// SetCoordinator wires the scheduler into a multi-scheduler runtime.
func (s *Scheduler) SetCoordinator(c Coordinator) { s.coordinator = c }

// ID returns the scheduler's id, embedded in every pid and reference
// it mints.
func (s *Scheduler) ID() int32 { return s.id }

// NextUnique returns a scheduler-local monotonic counter, the fast
// half of a reference's identity (spec §3 "Identifiers").
func (s *Scheduler) NextUnique() uint64 { return s.uniqueCounter.Add(1) }

// Lookup resolves a local pid, satisfying the Coordinator interface
// for single-scheduler callers and for the Coordinator itself to
// delegate to.
func (s *Scheduler) Lookup(pid term.Pid) (*process.Process, bool) {
	s.registryMu.RLock()
	defer s.registryMu.RUnlock()
	p, ok := s.registry[pid]
	return p, ok
}

func (s *Scheduler) register(p *process.Process) {
	s.registryMu.Lock()
	s.registry[*p.Pid] = p
	s.registryMu.Unlock()
	s.refCounter.Add(1)
}

func (s *Scheduler) unregister(p *process.Process) {
	s.registryMu.Lock()
	delete(s.registry, *p.Pid)
	s.registryMu.Unlock()
	s.refCounter.Add(^uint64(0)) // -1
}

// RefCount reports how many processes this scheduler currently has
// registered, the weak-reference counterpart to term.Pid's own
// comment ("Pids are weak references... the pid registry does that"):
// a pid keeps nothing alive by itself, but the registry entry it looks
// up through does.
func (s *Scheduler) RefCount() uint64 { return s.refCounter.Load() }

// resolve finds pid either in this scheduler's registry or, for a pid
// minted elsewhere, via the coordinator.
func (s *Scheduler) resolve(pid term.Pid) (*process.Process, bool) {
	if p, ok := s.Lookup(pid); ok {
		return p, true
	}
	if s.coordinator != nil {
		return s.coordinator.Lookup(pid)
	}
	return nil, false
}

// RunOnce drives one scheduling decision: advance the timer wheel,
// service any expirations, and run the next ready process. It reports
// whether it did anything, so a caller driving an idle loop knows
// when it is safe to park the OS thread.
func (s *Scheduler) RunOnce() bool {
	s.tickTimers()

	res, p := s.queue.Dequeue()
	switch res {
	case runqueue.Now:
		s.runProcess(p)
		return true
	case runqueue.Waiting:
		return s.waitForDeadline()
	default:
		return false
	}
}

// tickTimers advances the wheel by one tick and wakes or messages
// every process whose timer just fired.
func (s *Scheduler) tickTimers() {
	fired := s.wheel.Timeout()
	for _, e := range fired {
		timer.Apply(e, s.queue.StopWaiting)
		s.metrics.timersFired.Inc()
	}
}

// waitForDeadline is the branch the main loop takes when every
// outstanding process is parked in a receive: it reports whether the
// nearest deadline is already due (so the caller should call RunOnce
// again immediately) or, if not, that there is nothing to do until
// then.
func (s *Scheduler) waitForDeadline() bool {
	deadline, ok := s.wheel.NextDeadline()
	if !ok {
		return false
	}
	return !time.Now().Before(deadline)
}

// runProcess swaps the OS thread into p, lets it run until it yields,
// blocks, or exits, then charges it one full reduction budget
// (DefaultReductions) and either requeues it or starts exit
// propagation.
func (s *Scheduler) runProcess(p *process.Process) {
	// A process can be marked exiting by another process's exit
	// propagation while it was sitting in a run queue bucket or the
	// waiting set; finalize it here instead of invoking a body that
	// has already been condemned.
	if p.IsExiting() {
		s.finalizeExit(p)
		return
	}

	p.SetRunning()
	s.current.Store(p)
	s.metrics.swaps.Inc()

	// The swap boundary: in a native backend this suspends the
	// scheduler's own stack and resumes p's. This implementation's
	// process bodies are Go closures, so the register save/restore is
	// exercised structurally (it still runs, and still matters for
	// getting the first-swap sentinel path right) without the OS
	// thread's instruction pointer actually moving.
	swap.Stack(&s.loopCtx, p.Context(), 0)
	outcome := s.invoke(p)
	swap.Stack(p.Context(), &s.loopCtx, 0)

	s.current.Store(nil)
	p.Reduce(process.DefaultReductions)
	s.metrics.reductions.Add(float64(process.DefaultReductions))

	switch {
	case outcome.Exited:
		p.ErlangExit(outcome.Reason)
	case outcome.Yielded:
		p.SetRunnable()
	default:
		p.SetWaiting()
	}

	if _, ok := s.queue.Requeue(p); !ok {
		s.finalizeExit(p)
	}
}

// invoke calls p's entry point, converting a body that never yielded
// (body == nil, a process spawned without work) into a normal-exit
// outcome instead of crashing the scheduler loop.
func (s *Scheduler) invoke(p *process.Process) (outcome process.Outcome) {
	body := p.Body()
	if body == nil {
		return process.ExitWith(term.NewException(term.ClassExit, term.Nil, term.Nil))
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("process body panicked", zap.Any("recover", r), zap.Uint64("pid", p.Pid.Index))
			outcome = process.ExitWith(term.NewException(term.ClassError, term.Nil, term.Nil))
		}
	}()
	return body(p)
}
