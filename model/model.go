package model

import (
	"context"

	"github.com/calebsh/toolchat/core"
)

// ToolChoiceAuto lets the model decide whether to invoke tools.
const ToolChoiceAuto = "auto"

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the
// model. Parameters is a JSON Schema object (minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures one chat-completion call. Turns is the full conversation
// snapshot in append order; Tools is empty on the final-answer pass.
type Request struct {
	Turns       []core.Turn
	Tools       []ToolDefinition
	ToolChoice  string // ToolChoiceAuto when tools are offered, empty otherwise
	Temperature float64
	MaxTokens   int64
}

// Response is the model's reply: either plain assistant text, or a batch of
// tool call requests (with Content possibly empty), never both meaningfully
// absent.
type Response struct {
	Content      string
	ToolCalls    []core.ToolCall
	FinishReason string
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by the orchestration loop.
// Implementations must bound every call, either through the provided
// context or a configured request timeout, and classify provider failures
// via the error helpers in this package.
type Model interface {
	Complete(ctx context.Context, req Request) (Response, error)

	// Info returns information about the model implementation.
	Info() Info
}
