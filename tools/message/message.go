// Package message provides the send_message tool: a synchronous delivery
// contract over a pluggable Sink. The Twilio sink sends a real SMS; the
// console sink stands in for a chat transport by printing the message.
package message

import (
	"context"
	"fmt"
	"time"

	"github.com/calebsh/toolchat/tool"
)

// Sink delivers one message to a named user. Implementations must be
// bounded: Deliver must respect ctx or an internal client timeout.
type Sink interface {
	Deliver(ctx context.Context, userName, content string) error
}

// Tool implements tool.Tool for message delivery.
type Tool struct {
	sink Sink
}

// New creates the message tool over the given sink.
func New(sink Sink) *Tool {
	return &Tool{sink: sink}
}

// Name implements tool.Tool.
func (t *Tool) Name() string { return "send_message" }

// Description implements tool.Tool.
func (t *Tool) Description() string {
	return "Send an instant message to a named user"
}

// Parameters implements tool.Tool.
func (t *Tool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"user_name": map[string]any{
				"type":        "string",
				"description": "Name of the user to message",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Message text",
			},
		},
		"required": []string{"user_name", "content"},
	}
}

// Receipt is the send_message result payload.
type Receipt struct {
	UserName string `json:"user_name"`
	SentAt   string `json:"sent_at"`
	Message  string `json:"message"`
}

// Call implements tool.Tool.
func (t *Tool) Call(ctx context.Context, args map[string]any) (any, error) {
	userName, err := tool.RequireString(args, "user_name")
	if err != nil {
		return nil, err
	}
	content, err := tool.RequireString(args, "content")
	if err != nil {
		return nil, err
	}

	if t.sink == nil {
		return nil, fmt.Errorf("message transport not configured")
	}
	if err := t.sink.Deliver(ctx, userName, content); err != nil {
		return nil, fmt.Errorf("message delivery failed: %w", err)
	}

	return Receipt{
		UserName: userName,
		SentAt:   time.Now().UTC().Format(time.RFC3339),
		Message:  "message sent",
	}, nil
}
