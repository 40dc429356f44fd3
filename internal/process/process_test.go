package process

import (
	"testing"

	"github.com/glow-lang/glow/internal/swap"
	"github.com/glow-lang/glow/internal/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcess() *Process {
	pid := term.NewPid(1, 1)
	return New(pid, PriorityNormal, nil, MFA{}, 0x1000, 4096)
}

func TestRunnableSeedsFirstSwapSentinel(t *testing.T) {
	p := newTestProcess()
	p.Runnable(0xdead, 0xbeef, 0xcafe)

	ctx := p.Context()
	assert.Equal(t, uintptr(0xdead), ctx.Slots[swap.StackPointerSlot])
	assert.Equal(t, uintptr(0xbeef), ctx.Slots[swap.EnvSlot])
	assert.Equal(t, swap.Sentinel, ctx.Slots[swap.SentinelSlot])
	assert.Equal(t, uintptr(0xcafe), ctx.Slots[swap.EntrySlot])
}

func TestReduceReportsExhaustion(t *testing.T) {
	p := newTestProcess()
	p.reductionsLeft = 10

	assert.False(t, p.Reduce(5))
	assert.True(t, p.Reduce(6))
	assert.Equal(t, uint64(11), p.TotalReductions())
}

func TestExitNormalMarksExiting(t *testing.T) {
	p := newTestProcess()
	require.Equal(t, StatusRunnable, p.Status())

	p.ExitNormal()
	assert.True(t, p.IsExiting())
	require.NotNil(t, p.ExitReason())
	assert.Equal(t, term.ClassExit, p.ExitReason().Class)
}

func TestLinkAndUnlinkRoundTrip(t *testing.T) {
	p := newTestProcess()
	other := *term.NewPid(1, 2)

	p.Link(other)
	assert.Contains(t, p.Links(), other)

	p.Unlink(other)
	assert.NotContains(t, p.Links(), other)
}

func TestBumpRejectsOverBudgetAllocation(t *testing.T) {
	p := newTestProcess()

	base, ok := p.Bump(100)
	require.True(t, ok)
	assert.Equal(t, p.heapBase, base)

	_, ok = p.Bump(1 << 20)
	assert.False(t, ok)
}

func TestMailboxScanCursorAdvancesAndResets(t *testing.T) {
	mb := NewMailbox()
	mb.Deliver(term.NewAtom(0))
	mb.Deliver(term.NewAtom(1))

	first, ok := mb.Peek()
	require.True(t, ok)
	assert.Equal(t, term.NewAtom(0), first)

	mb.Next()
	second, ok := mb.Peek()
	require.True(t, ok)
	assert.Equal(t, term.NewAtom(1), second)

	mb.Remove()
	assert.Equal(t, 1, mb.Len())

	remaining, ok := mb.Peek()
	require.True(t, ok)
	assert.Equal(t, term.NewAtom(0), remaining)
}
