package message

import (
	"context"
	"fmt"
	"io"
)

// ConsoleSink prints messages to a writer. It is the default sink when
// no SMS transport is configured.
type ConsoleSink struct {
	w io.Writer
}

// NewConsoleSink creates a sink that writes to w.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

// Deliver implements Sink.
func (s *ConsoleSink) Deliver(_ context.Context, userName, content string) error {
	_, err := fmt.Fprintf(s.w, "[message to %s] %s\n", userName, content)
	return err
}
