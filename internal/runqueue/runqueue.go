// Package runqueue implements the scheduler's priority-ordered ready
// queue plus its waiting set (spec §4.5). It keeps no delayed set.
package runqueue

import (
	"sync"

	"github.com/glow-lang/glow/internal/process"
	"github.com/glow-lang/glow/internal/term"
)

// Result classifies what Dequeue found.
type Result int

const (
	// None means every queue and set is empty: the scheduler may park
	// its OS thread until new work arrives.
	None Result = iota
	// Now means a process is immediately runnable.
	Now
	// Delayed names work that is not yet eligible to run. Dequeue
	// never returns it: the run queue keeps no delayed set, and timers
	// live in the scheduler's timer wheel.
	Delayed
	// Waiting means every remaining process is parked on a receive
	// with no expired timeout.
	Waiting
)

// RunQueue holds one scheduler's runnable processes, grouped by
// priority, plus the processes currently blocked in a receive.
//
// The lock is a plain sync.RWMutex rather than a hand-rolled
// writer-preferring lock: Go's RWMutex already blocks new readers
// once a writer is waiting, which is the property §4.5 calls
// "writer-preferring" — enqueue/dequeue/requeue (all writers) never
// starve behind a stream of read-only inspection calls.
type RunQueue struct {
	mu      sync.RWMutex
	queues  [numPriorities][]*process.Process
	waiting map[term.Pid]*process.Process
}

const numPriorities = 4 // process.PriorityLow..PriorityMax

// New constructs an empty run queue.
func New() *RunQueue {
	return &RunQueue{waiting: make(map[term.Pid]*process.Process)}
}

// Enqueue makes p immediately runnable at its priority.
func (q *RunQueue) Enqueue(p *process.Process) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queues[p.Priority] = append(q.queues[p.Priority], p)
}

// Dequeue pops the highest-priority runnable process. When none is
// runnable but some are blocked in a receive, it reports Waiting so
// the caller can check the timer wheel for expirations; when there is
// truly nothing outstanding it reports None.
func (q *RunQueue) Dequeue() (Result, *process.Process) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for pr := numPriorities - 1; pr >= 0; pr-- {
		bucket := q.queues[pr]
		if len(bucket) == 0 {
			continue
		}
		p := bucket[0]
		q.queues[pr] = bucket[1:]
		return Now, p
	}
	if len(q.waiting) > 0 {
		return Waiting, nil
	}
	return None, nil
}

// Requeue reinserts p after it yields with reductions remaining to
// spend, or marks it Waiting if it parked in a receive, or drops it
// entirely once it has finished exiting.
//
// It always returns p, with false when p is exiting and the caller
// must finalize it, but never calls into exit
// propagation itself: callers must not hold the run queue lock while
// propagating an exit, since propagation walks links that may touch
// other run queues (spec §4.7.4 "outside the run-queue lock").
func (q *RunQueue) Requeue(p *process.Process) (*process.Process, bool) {
	switch p.Status() {
	case process.StatusExiting, process.StatusExited:
		q.mu.Lock()
		delete(q.waiting, *p.Pid)
		q.mu.Unlock()
		return p, false
	case process.StatusWaiting:
		q.mu.Lock()
		q.waiting[*p.Pid] = p
		q.mu.Unlock()
		return p, true
	default:
		q.Enqueue(p)
		return p, true
	}
}

// StopWaiting moves a process out of the waiting set and back onto
// its priority queue, used when a message delivery or timer wakes a
// receive.
func (q *RunQueue) StopWaiting(p *process.Process) {
	q.mu.Lock()
	if _, ok := q.waiting[*p.Pid]; ok {
		delete(q.waiting, *p.Pid)
	}
	q.mu.Unlock()
	p.SetRunnable()
	q.Enqueue(p)
}

// Len reports the number of immediately runnable processes, for
// metrics.
func (q *RunQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	n := 0
	for _, bucket := range q.queues {
		n += len(bucket)
	}
	return n
}

// WaitingLen reports the number of processes parked in a receive.
func (q *RunQueue) WaitingLen() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.waiting)
}
