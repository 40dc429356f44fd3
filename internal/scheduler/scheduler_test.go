package scheduler

import (
	"testing"

	"github.com/glow-lang/glow/internal/process"
	"github.com/glow-lang/glow/internal/symbol"
	"github.com/glow-lang/glow/internal/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler() *Scheduler {
	return New(0, symbol.New(), nil, nil)
}

func TestSpawnClosureMakesProcessRunnable(t *testing.T) {
	s := newTestScheduler()
	p := s.SpawnClosure(process.PriorityNormal, nil, func(*process.Process) process.Outcome {
		return process.Yield()
	})

	assert.Equal(t, process.StatusRunnable, p.Status())
	_, found := s.Lookup(*p.Pid)
	assert.True(t, found)
}

func TestRunOnceRequeuesAYieldingProcess(t *testing.T) {
	s := newTestScheduler()
	calls := 0
	s.SpawnClosure(process.PriorityNormal, nil, func(*process.Process) process.Outcome {
		calls++
		return process.Yield()
	})

	require.True(t, s.RunOnce())
	require.True(t, s.RunOnce())
	assert.Equal(t, 2, calls)
}

func TestRunOnceFinalizesAnExitingProcess(t *testing.T) {
	s := newTestScheduler()
	p := s.SpawnClosure(process.PriorityNormal, nil, func(*process.Process) process.Outcome {
		return process.ExitWith(term.NewException(term.ClassExit, term.Nil, term.Nil))
	})

	require.True(t, s.RunOnce())
	_, found := s.Lookup(*p.Pid)
	assert.False(t, found)
}

func TestLinkedNonTrappingProcessDiesOnAbnormalExit(t *testing.T) {
	s := newTestScheduler()
	victim := s.SpawnClosure(process.PriorityNormal, nil, func(*process.Process) process.Outcome {
		return process.Waiting()
	})
	killer := s.SpawnClosure(process.PriorityNormal, nil, func(*process.Process) process.Outcome {
		return process.ExitWith(term.NewException(term.ClassError, term.NewAtom(1), term.Nil))
	})
	victim.Link(*killer.Pid)
	killer.Link(*victim.Pid)

	require.True(t, s.RunOnce()) // victim runs first (FIFO), parks itself
	require.Equal(t, process.StatusWaiting, victim.Status())

	require.True(t, s.RunOnce()) // killer runs, propagates its exit to victim
	assert.True(t, victim.IsExiting())

	require.True(t, s.RunOnce()) // victim is dequeued again and finalized
	_, found := s.Lookup(*victim.Pid)
	assert.False(t, found)
}

func TestSendWakesAWaitingProcess(t *testing.T) {
	s := newTestScheduler()
	p := s.SpawnClosure(process.PriorityNormal, nil, func(*process.Process) process.Outcome {
		return process.Waiting()
	})
	require.True(t, s.RunOnce()) // first run parks it
	require.Equal(t, process.StatusWaiting, p.Status())

	ok := s.Send(*p.Pid, term.NewAtom(0))
	require.True(t, ok)
	assert.Equal(t, process.StatusRunnable, p.Status())
	assert.Equal(t, 1, p.Mailbox().Len())
}
