package scheduler

import (
	"github.com/glow-lang/glow/internal/process"
	"github.com/glow-lang/glow/internal/term"
)

// DefaultHeapSize is a freshly spawned process's initial heap
// reservation before it must grow (spec §4.4; real growth policy is a
// non-goal, see DESIGN.md).
const DefaultHeapSize = 64 * 1024

// SpawnClosure creates and schedules a new process running body,
// implementing erlang:spawn/1's closure form (spec §4.7.3).
func (s *Scheduler) SpawnClosure(priority process.Priority, parent *term.Pid, body func(*process.Process) process.Outcome) *process.Process {
	return s.spawn(priority, parent, process.MFA{}, body, false)
}

// SpawnMFA creates and schedules a new process running the named
// module/function/args entry point, implementing spawn/3. entry is
// resolved by the caller (the codegen-facing boundary between a
// symbolic MFA and compiled code lives outside this package) and
// supplied as body.
func (s *Scheduler) SpawnMFA(priority process.Priority, parent *term.Pid, mfa process.MFA, body func(*process.Process) process.Outcome) *process.Process {
	return s.spawn(priority, parent, mfa, body, false)
}

// SpawnLink is spawn_link/1,3: the new process and the caller are
// linked atomically with creation, so neither can miss the other's
// exit to a race (spec §4.4 "links").
func (s *Scheduler) SpawnLink(priority process.Priority, parent *term.Pid, mfa process.MFA, body func(*process.Process) process.Outcome) *process.Process {
	return s.spawn(priority, parent, mfa, body, true)
}

func (s *Scheduler) spawn(priority process.Priority, parent *term.Pid, mfa process.MFA, body func(*process.Process) process.Outcome, link bool) *process.Process {
	pid := term.NewPid(uint16(s.id), s.pidCounter.Add(1))
	p := process.New(pid, priority, parent, mfa, 0, DefaultHeapSize)
	p.ScheduleWith(s.id)
	p.SetBody(body)
	// No native entry address exists in this implementation (body is a
	// Go closure, not compiled code); Runnable is still called so the
	// first-swap sentinel invariant holds for anything that inspects a
	// freshly spawned process's context.
	p.Runnable(0, 0, 0)

	s.register(p)
	if link && parent != nil {
		if parentProc, ok := s.resolve(*parent); ok {
			parentProc.Link(*pid)
			p.Link(*parent)
		}
	}

	p.SetRunnable()
	s.queue.Enqueue(p)
	s.log.Debug("spawned process", zapPid(pid), zapParent(parent))
	return p
}

// Send delivers msg to pid's mailbox and wakes it if it was parked in
// a receive. It resolves pid through the coordinator when it does not
// belong to this scheduler (spec §4.7.3: sends are not confined to
// the sender's own scheduler).
func (s *Scheduler) Send(pid term.Pid, msg term.Term) bool {
	target, ok := s.resolve(pid)
	if !ok {
		return false
	}
	target.Mailbox().Deliver(msg)
	if target.Status() == process.StatusWaiting {
		s.queue.StopWaiting(target)
	}
	return true
}

// Monitor establishes a one-directional monitor from watcher to
// target and returns the reference identifying it.
func (s *Scheduler) Monitor(watcher *process.Process, target term.Pid) term.Reference {
	ref := *term.NewReference(uint16(s.id), s.NextUnique())
	watcher.Monitor(ref, target)
	return ref
}
