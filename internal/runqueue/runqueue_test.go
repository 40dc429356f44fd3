package runqueue

import (
	"testing"

	"github.com/glow-lang/glow/internal/process"
	"github.com/glow-lang/glow/internal/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProc(idx uint64, pr process.Priority) *process.Process {
	pid := term.NewPid(1, idx)
	return process.New(pid, pr, nil, process.MFA{}, 0, 4096)
}

func TestDequeuePrefersHigherPriority(t *testing.T) {
	q := New()
	low := newTestProc(1, process.PriorityLow)
	high := newTestProc(2, process.PriorityHigh)
	q.Enqueue(low)
	q.Enqueue(high)

	res, p := q.Dequeue()
	require.Equal(t, Now, res)
	assert.Same(t, high, p)

	res, p = q.Dequeue()
	require.Equal(t, Now, res)
	assert.Same(t, low, p)
}

func TestDequeueReportsWaitingThenNone(t *testing.T) {
	q := New()
	p := newTestProc(1, process.PriorityNormal)
	p.SetWaiting()
	_, _ = q.Requeue(p)

	res, got := q.Dequeue()
	assert.Equal(t, Waiting, res)
	assert.Nil(t, got)

	q2 := New()
	res, got = q2.Dequeue()
	assert.Equal(t, None, res)
	assert.Nil(t, got)
}

func TestRequeueDropsExitingProcess(t *testing.T) {
	q := New()
	p := newTestProc(1, process.PriorityNormal)
	p.ExitNormal()

	_, ok := q.Requeue(p)
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
}

func TestStopWaitingMovesBackToReadyQueue(t *testing.T) {
	q := New()
	p := newTestProc(1, process.PriorityNormal)
	p.SetWaiting()
	_, _ = q.Requeue(p)
	require.Equal(t, 1, q.WaitingLen())

	q.StopWaiting(p)
	assert.Equal(t, 0, q.WaitingLen())
	assert.Equal(t, 1, q.Len())
}
