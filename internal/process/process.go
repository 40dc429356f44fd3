// Package process implements the green-thread process record the
// scheduler swaps between: its register context, mailbox, links and
// monitors, and exit bookkeeping (spec §4.4).
package process

import (
	"sync"

	"github.com/glow-lang/glow/internal/swap"
	"github.com/glow-lang/glow/internal/symbol"
	"github.com/glow-lang/glow/internal/term"
)

// Priority orders a process's run queue; higher values run first
// within a scheduler's dequeue pass (spec §4.5).
type Priority uint8

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityMax
)

// Status is a process's coarse scheduling state.
type Status int32

const (
	StatusRunnable Status = iota
	StatusRunning
	StatusWaiting
	StatusExiting
	StatusExited
)

// MFA names a function entry point and the arguments to invoke it
// with, the unit of work a process (or a spawn) starts from.
type MFA struct {
	Module   symbol.Symbol
	Function symbol.Symbol
	Args     []term.Term
}

// DefaultReductions is the budget a process gets before it must yield
// (spec §4.7: "no preemption, only reduction-budget-based yielding").
const DefaultReductions = 4000

// Process is one green thread: its register context, heap bounds,
// mailbox, and exit-propagation bookkeeping.
type Process struct {
	Pid      *term.Pid
	Priority Priority
	Parent   *term.Pid
	Entry    MFA

	ctx swap.Context

	schedulerID int32

	mu              sync.Mutex
	status          Status
	reductionsLeft  int32
	totalReductions uint64
	exitReason      *term.Exception
	trapExit        bool

	heapBase uintptr
	heapSize uintptr
	heapUsed uintptr

	mailbox *Mailbox

	links    map[term.Pid]struct{}
	monitors map[term.Reference]term.Pid

	body func(*Process) Outcome
}

// New constructs a process whose status is already StatusRunnable.
// Call Runnable to seed its initial execution context before
// scheduling it.
func New(pid *term.Pid, priority Priority, parent *term.Pid, entry MFA, heapBase, heapSize uintptr) *Process {
	return &Process{
		Pid:            pid,
		Priority:       priority,
		Parent:         parent,
		Entry:          entry,
		status:         StatusRunnable,
		reductionsLeft: DefaultReductions,
		heapBase:       heapBase,
		heapSize:       heapSize,
		mailbox:        NewMailbox(),
		links:          make(map[term.Pid]struct{}),
		monitors:       make(map[term.Reference]term.Pid),
	}
}

// Runnable is the one-shot initialization callback (spec §4.4,
// §4.7.1): it writes the initial stack and frame pointers, the
// closure environment pointer into the fixed env slot, the first-swap
// sentinel, and the entry function pointer, so the scheduler's first
// swap into this process performs entry setup instead of a normal
// resume.
func (p *Process) Runnable(stackPtr, env, entry uintptr) {
	p.ctx.Slots[swap.StackPointerSlot] = stackPtr
	p.ctx.Slots[swap.FramePointerSlot] = 0
	p.ctx.Slots[swap.EnvSlot] = env
	p.ctx.Slots[swap.SentinelSlot] = swap.Sentinel
	p.ctx.Slots[swap.EntrySlot] = entry
}

// Context returns the process's swap context for the scheduler to
// save into / resume from.
func (p *Process) Context() *swap.Context { return &p.ctx }

// ScheduleWith pins the process to a scheduler id, e.g. after a spawn
// or a cross-scheduler requeue.
func (p *Process) ScheduleWith(schedulerID int32) { p.schedulerID = schedulerID }

// SchedulerID reports the scheduler currently responsible for this
// process.
func (p *Process) SchedulerID() int32 { return p.schedulerID }

// Status reports the process's current coarse state.
func (p *Process) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Process) setStatus(s Status) {
	p.mu.Lock()
	p.status = s
	p.mu.Unlock()
}

// SetWaiting marks the process blocked in a receive, pending a
// message or a receive timeout.
func (p *Process) SetWaiting() { p.setStatus(StatusWaiting) }

// SetRunnable clears a waiting/running status back to runnable.
func (p *Process) SetRunnable() {
	p.mu.Lock()
	if p.status != StatusExiting && p.status != StatusExited {
		p.status = StatusRunnable
	}
	p.mu.Unlock()
}

// SetRunning marks the process as the one currently swapped in.
func (p *Process) SetRunning() { p.setStatus(StatusRunning) }

// IsExiting reports whether exit_normal or erlang_exit has been
// called (status Exiting or Exited); it stays true after exit
// propagation has run.
func (p *Process) IsExiting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status == StatusExiting || p.status == StatusExited
}

// SetTrapExit configures whether a linked process's exit reaches this
// process as a message instead of as a propagated exit (spec §4.4
// "links").
func (p *Process) SetTrapExit(trap bool) {
	p.mu.Lock()
	p.trapExit = trap
	p.mu.Unlock()
}

// TrapExit reports the current trap_exit flag.
func (p *Process) TrapExit() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trapExit
}

// ExitNormal requests ordinary termination: the next yield point
// propagates a {normal} exit to links/monitors with no stacktrace.
func (p *Process) ExitNormal() {
	p.mu.Lock()
	p.status = StatusExiting
	p.exitReason = term.NewException(term.ClassExit, term.Nil, term.Nil)
	p.mu.Unlock()
}

// ErlangExit requests termination carrying exc as the propagated
// reason.
func (p *Process) ErlangExit(exc *term.Exception) {
	p.mu.Lock()
	p.status = StatusExiting
	p.exitReason = exc
	p.mu.Unlock()
}

// ExitReason returns the exception this process is terminating with,
// or nil if it has not started exiting.
func (p *Process) ExitReason() *term.Exception {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitReason
}

// Reduce consumes n reductions from the process's remaining budget
// and reports whether it has been exhausted (spec §4.7: reduction
// accounting happens after every swap back into the scheduler).
func (p *Process) Reduce(n int32) (exhausted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reductionsLeft -= n
	p.totalReductions += uint64(n)
	if p.reductionsLeft <= 0 {
		p.reductionsLeft = DefaultReductions
		return true
	}
	return false
}

// TotalReductions reports the lifetime reduction count, exposed as a
// scheduler metric.
func (p *Process) TotalReductions() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalReductions
}

// Mailbox returns the process's message queue.
func (p *Process) Mailbox() *Mailbox { return p.mailbox }

// Outcome is what a process's entry point reports back to the
// scheduler at its next yield point. A native backend would encode
// this as the post-swap machine state the scheduler reads out of
// fixed registers; this implementation represents it directly since
// the process body here is a Go closure rather than compiled native
// code (spec §4.7.1's swap boundary is exercised by the swap package
// itself, not by actually resuming arbitrary machine code mid-run).
type Outcome struct {
	Yielded bool
	Exited  bool
	Reason  *term.Exception
}

// Yield reports cooperative rescheduling with no change in status.
func Yield() Outcome { return Outcome{Yielded: true} }

// Waiting reports that the process parked itself in a receive.
func Waiting() Outcome { return Outcome{} }

// ExitWith reports termination carrying exc as the reason.
func ExitWith(exc *term.Exception) Outcome { return Outcome{Exited: true, Reason: exc} }

// SetBody installs the process's entry point.
func (p *Process) SetBody(fn func(*Process) Outcome) { p.body = fn }

// Body returns the process's entry point, or nil if none was set.
func (p *Process) Body() func(*Process) Outcome { return p.body }

// Link records a bidirectional exit-propagation edge. Callers are
// responsible for linking both directions.
func (p *Process) Link(other term.Pid) {
	p.mu.Lock()
	p.links[other] = struct{}{}
	p.mu.Unlock()
}

// Unlink removes a previously established link.
func (p *Process) Unlink(other term.Pid) {
	p.mu.Lock()
	delete(p.links, other)
	p.mu.Unlock()
}

// Links returns a snapshot of the process's currently linked pids.
func (p *Process) Links() []term.Pid {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]term.Pid, 0, len(p.links))
	for pid := range p.links {
		out = append(out, pid)
	}
	return out
}

// Monitor records a one-directional monitor from this process toward
// target, keyed by the reference returned to the caller.
func (p *Process) Monitor(ref term.Reference, target term.Pid) {
	p.mu.Lock()
	p.monitors[ref] = target
	p.mu.Unlock()
}

// Demonitor removes a previously established monitor.
func (p *Process) Demonitor(ref term.Reference) {
	p.mu.Lock()
	delete(p.monitors, ref)
	p.mu.Unlock()
}

// Monitors returns a snapshot of this process's outgoing monitors.
func (p *Process) Monitors() map[term.Reference]term.Pid {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[term.Reference]term.Pid, len(p.monitors))
	for ref, pid := range p.monitors {
		out[ref] = pid
	}
	return out
}

// Bump reserves n bytes on the process heap, reporting whether the
// request exceeded the remaining budget. A real backend would grow
// the heap via a GC pass instead of failing; this implementation
// treats exhaustion as a hard process error (spec §1 non-goals: no GC
// policy implemented).
func (p *Process) Bump(n uintptr) (base uintptr, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.heapUsed+n > p.heapSize {
		return 0, false
	}
	base = p.heapBase + p.heapUsed
	p.heapUsed += n
	return base, true
}
