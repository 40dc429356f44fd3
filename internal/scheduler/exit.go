package scheduler

import (
	"github.com/glow-lang/glow/internal/process"
	"github.com/glow-lang/glow/internal/term"
	"go.uber.org/zap"
)

// finalizeExit runs after p has left the run queue for the last time:
// it propagates the exit to links and monitors, then drops p from the
// registry. This must never be called while the run queue's internal
// lock is held — runqueue.Requeue already returns before this runs,
// and propagation here may call into other schedulers' Send/resolve
// paths (spec §4.7.4).
func (s *Scheduler) finalizeExit(p *process.Process) {
	reason := p.ExitReason()
	s.log.Debug("process exiting", zapPid(p.Pid), zap.String("class", reason.Class.String()))

	for _, linked := range p.Links() {
		s.notifyLink(p, linked, reason)
	}
	for ref, watcher := range p.Monitors() {
		s.notifyMonitor(p, ref, watcher, reason)
	}

	s.unregister(p)
}

// notifyLink delivers an exit to one linked process: a trap_exit
// process receives {'EXIT', From, Reason} as an ordinary message; any
// other process dies too unless the reason is normal (spec §4.4).
func (s *Scheduler) notifyLink(from *process.Process, to term.Pid, reason *term.Exception) {
	target, ok := s.resolve(to)
	if !ok {
		return
	}
	target.Unlink(*from.Pid)

	if target.TrapExit() {
		msg := term.NewTuple(term.NewAtom(s.atoms.exit), from.Pid, reason.Reason)
		s.deliverLocalOrRemote(to, msg)
		return
	}
	if term.IsNil(reason.Reason) {
		return // normal exit does not propagate to non-trapping links
	}
	wasWaiting := target.Status() == process.StatusWaiting
	target.ErlangExit(reason)
	if wasWaiting {
		// Pull it out of the waiting set so the scheduler dequeues it
		// again; runProcess finalizes it on sight instead of invoking
		// its body, since ErlangExit already condemned it.
		s.queue.StopWaiting(target)
	}
}

// notifyMonitor delivers a {'DOWN', Ref, process, Pid, Reason} message
// to a monitoring process; unlike links this never kills the watcher.
func (s *Scheduler) notifyMonitor(from *process.Process, ref term.Reference, watcher term.Pid, reason *term.Exception) {
	msg := term.NewTuple(term.NewAtom(s.atoms.down), &ref, term.NewAtom(s.atoms.process), from.Pid, reason.Reason)
	s.deliverLocalOrRemote(watcher, msg)
}

func (s *Scheduler) deliverLocalOrRemote(pid term.Pid, msg term.Term) {
	if target, ok := s.resolve(pid); ok {
		target.Mailbox().Deliver(msg)
		if target.Status() == process.StatusWaiting {
			s.queue.StopWaiting(target)
		}
	}
}
