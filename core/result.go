package core

import "fmt"

// ToolResult is the uniform envelope returned by every tool execution,
// produced either by an adapter or by the dispatcher itself. Exactly one of
// Data / Error is meaningful depending on Success; use Ok and Fail to keep
// that invariant.
type ToolResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Ok wraps a successful payload.
func Ok(data any) ToolResult {
	return ToolResult{Success: true, Data: data}
}

// Fail builds a failed result with a formatted human-readable message.
func Fail(format string, args ...any) ToolResult {
	return ToolResult{Success: false, Error: fmt.Sprintf(format, args...)}
}
