package session

import (
	"time"

	"github.com/calebsh/toolchat/conversation"
	"github.com/calebsh/toolchat/core"
)

// Session owns one conversation log for the duration of an interactive run.
// The log itself is concurrency-safe; a session is intended to be driven by
// a single sequential control flow.
type Session struct {
	ID      string
	Log     *conversation.Log
	Created time.Time
}

// New creates a session with the given id, or a random id when empty.
func New(id string) *Session {
	if id == "" {
		id = core.NewID()
	}
	return &Session{ID: id, Log: conversation.NewLog(), Created: time.Now().UTC()}
}
