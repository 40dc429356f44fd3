package timer

import (
	"testing"
	"time"

	"github.com/glow-lang/glow/internal/process"
	"github.com/glow-lang/glow/internal/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleFiresOnMatchingTick(t *testing.T) {
	start := time.Unix(0, 0)
	w := NewWheel(8, time.Millisecond, start)
	p := process.New(term.NewPid(1, 1), process.PriorityNormal, nil, process.MFA{}, 0, 4096)

	e := &Entry{Process: p, Deadline: start.Add(2 * time.Millisecond), Action: ActionWake}
	w.Schedule(e)

	assert.Empty(t, w.Timeout()) // tick 1: not yet due
	fired := w.Timeout()         // tick 2: due
	require.Len(t, fired, 1)
	assert.Same(t, p, fired[0].Process)
}

func TestCancelledEntrySkipped(t *testing.T) {
	start := time.Unix(0, 0)
	w := NewWheel(4, time.Millisecond, start)
	p := process.New(term.NewPid(1, 1), process.PriorityNormal, nil, process.MFA{}, 0, 4096)

	e := &Entry{Process: p, Deadline: start.Add(time.Millisecond), Action: ActionWake}
	w.Schedule(e)
	e.Cancel()

	assert.Empty(t, w.Timeout())
}

func TestApplySendDeliversMessageAndWakes(t *testing.T) {
	start := time.Unix(0, 0)
	p := process.New(term.NewPid(1, 1), process.PriorityNormal, nil, process.MFA{}, 0, 4096)
	e := &Entry{Process: p, Deadline: start, Action: ActionSend, Message: term.NewAtom(0)}

	var woken *process.Process
	Apply(e, func(pr *process.Process) { woken = pr })

	assert.Same(t, p, woken)
	assert.Equal(t, 1, p.Mailbox().Len())
}

func TestNextDeadlineIgnoresCancelled(t *testing.T) {
	start := time.Unix(0, 0)
	w := NewWheel(8, time.Millisecond, start)
	p := process.New(term.NewPid(1, 1), process.PriorityNormal, nil, process.MFA{}, 0, 4096)

	e1 := &Entry{Process: p, Deadline: start.Add(1 * time.Millisecond)}
	e2 := &Entry{Process: p, Deadline: start.Add(5 * time.Millisecond)}
	w.Schedule(e1)
	w.Schedule(e2)
	e1.Cancel()

	deadline, ok := w.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, e2.Deadline, deadline)
}
