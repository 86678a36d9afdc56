package tool

import (
	"context"
	"fmt"

	"github.com/calebsh/toolchat/internal/util"
)

// Tool defines an externally invocable capability advertised to the model.
//
// Implementations should:
//   - Provide clear, descriptive names (snake_case) and descriptions
//   - Define a JSON schema for parameters (type/properties/required/enum/default)
//   - Classify every provider failure into a returned error, never a panic
//   - Be safe for concurrent use: no mutable state beyond construction-time
//     configuration
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool does.
	// It is provided to the LLM to help it decide when and how to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	// The dispatcher validates arguments against it before Call runs.
	Parameters() map[string]any

	// Call executes the tool with schema-validated arguments (declared
	// defaults already applied). The context carries the adapter's deadline.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// ArgumentError signals that arguments passed the schema check but are still
// unusable for the adapter (e.g. an empty required string). The dispatcher
// reports it as an argument-level failure, distinct from provider failures.
type ArgumentError struct {
	Field   string
	Message string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument '%s': %s", e.Field, e.Message)
}

// NewArgumentError creates an ArgumentError for the given field.
func NewArgumentError(field, message string) *ArgumentError {
	return &ArgumentError{Field: field, Message: message}
}

// RequireString extracts a non-empty string argument, returning an
// ArgumentError otherwise. Shared by adapters for their mandatory fields.
func RequireString(args map[string]any, field string) (string, error) {
	value, _ := args[field].(string)
	if value == "" {
		return "", NewArgumentError(field, "must be a non-empty string")
	}
	return value, nil
}

// OptionalString extracts a string argument, falling back to def when absent.
func OptionalString(args map[string]any, field, def string) string {
	if value, ok := args[field].(string); ok && value != "" {
		return value
	}
	return def
}
