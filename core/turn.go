package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleUser marks a turn carrying end-user input.
	RoleUser Role = "user"
	// RoleAssistant marks a turn produced by the model (text, tool calls or both).
	RoleAssistant Role = "assistant"
	// RoleTool marks a turn carrying the serialized result of one tool call.
	RoleTool Role = "tool"
)

// ToolCall is a single tool invocation requested by the model. ID is the
// model-assigned correlation token; Arguments is the raw JSON payload exactly
// as emitted, not yet validated against any schema.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Turn is one entry in a conversation log.
//
// Field usage by role:
//   - user: Content only
//   - assistant: Content (may be empty) and optionally ToolCalls
//   - tool: Content (serialized ToolResult) and ToolCallID
type Turn struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// NewUserTurn creates a user-authored text turn.
func NewUserTurn(text string) Turn {
	return Turn{Role: RoleUser, Content: text, Timestamp: time.Now().UTC()}
}

// NewAssistantTurn creates an assistant text turn with no tool calls.
func NewAssistantTurn(text string) Turn {
	return Turn{Role: RoleAssistant, Content: text, Timestamp: time.Now().UTC()}
}

// NewToolCallTurn creates an assistant turn carrying tool call requests
// verbatim. Content may be empty: models frequently emit tool calls without
// accompanying text.
func NewToolCallTurn(text string, calls []ToolCall) Turn {
	return Turn{Role: RoleAssistant, Content: text, ToolCalls: calls, Timestamp: time.Now().UTC()}
}

// NewToolResultTurn creates a tool turn correlating result back to the tool
// call with the given id. The envelope is serialized to JSON; serialization
// cannot realistically fail for the envelope shapes produced by this module,
// but a fallback error payload is emitted rather than panicking.
func NewToolResultTurn(toolCallID string, result ToolResult) Turn {
	content, err := json.Marshal(result)
	if err != nil {
		content = []byte(fmt.Sprintf(`{"success":false,"error":"result serialization failed: %v"}`, err))
	}
	return Turn{Role: RoleTool, Content: string(content), ToolCallID: toolCallID, Timestamp: time.Now().UTC()}
}
