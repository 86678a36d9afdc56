package conversation

import (
	"sync"

	"github.com/calebsh/toolchat/core"
)

// Log is an ordered, append-only sequence of turns. It is safe for
// concurrent access, though within one session a single control flow owns
// all writes.
//
// Contract:
//   - Append preserves order and is O(1)
//   - Snapshot returns a defensive copy so callers can never mutate history
//   - The full snapshot is sent on every model round-trip; there is no
//     sliding window or summarization, so very long sessions grow without
//     bound (known limitation)
type Log struct {
	mu    sync.RWMutex
	turns []core.Turn
}

// NewLog creates an empty conversation log.
func NewLog() *Log {
	return &Log{}
}

// Append adds a turn to the end of the log.
func (l *Log) Append(turn core.Turn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, turn)
}

// Snapshot returns a copy of all turns in append order.
func (l *Log) Snapshot() []core.Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	turns := make([]core.Turn, len(l.turns))
	copy(turns, l.turns)
	return turns
}

// Len reports the number of turns appended so far.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}

// Last returns the most recent turn and true, or a zero turn and false for
// an empty log.
func (l *Log) Last() (core.Turn, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.turns) == 0 {
		return core.Turn{}, false
	}
	return l.turns[len(l.turns)-1], true
}
