package process

import (
	"sync"

	"github.com/glow-lang/glow/internal/term"
)

// Mailbox is a process's message queue. Ordering is FIFO per sender
// (spec §5 message-ordering guarantee): since every send that reaches
// this mailbox already arrived in the sender's program order, a
// single FIFO queue is sufficient — no per-sender bucketing is
// needed.
type Mailbox struct {
	mu   sync.Mutex
	msgs []term.Term
	cur  int // read cursor left behind by recv_peek_message/recv_next
}

// NewMailbox constructs an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Deliver appends an inbound message. Safe to call from any goroutine
// (a sending process may run on a different scheduler thread).
func (m *Mailbox) Deliver(msg term.Term) {
	m.mu.Lock()
	m.msgs = append(m.msgs, msg)
	m.mu.Unlock()
}

// Peek returns the message at the current scan cursor without
// removing it, implementing recv_peek_message (spec §4.3.6): the
// cursor lets a receive clause set walk forward past
// already-rejected messages without losing them.
func (m *Mailbox) Peek() (msg term.Term, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur >= len(m.msgs) {
		return nil, false
	}
	return m.msgs[m.cur], true
}

// Next advances the scan cursor past the message Peek last returned,
// implementing recv_next.
func (m *Mailbox) Next() {
	m.mu.Lock()
	if m.cur < len(m.msgs) {
		m.cur++
	}
	m.mu.Unlock()
}

// Remove deletes the message currently under the scan cursor and
// resets the cursor to the mailbox head, implementing remove_message
// (the matched-clause case of a receive).
func (m *Mailbox) Remove() {
	m.mu.Lock()
	if m.cur < len(m.msgs) {
		m.msgs = append(m.msgs[:m.cur], m.msgs[m.cur+1:]...)
	}
	m.cur = 0
	m.mu.Unlock()
}

// ResetScan rewinds the cursor to the mailbox head, used when a
// receive's clause set is retried after a new message arrives.
func (m *Mailbox) ResetScan() {
	m.mu.Lock()
	m.cur = 0
	m.mu.Unlock()
}

// Len reports the number of queued messages.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.msgs)
}
