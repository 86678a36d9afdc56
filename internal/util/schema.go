// Package util holds the JSON-schema-lite helpers shared by the tool
// subsystem: argument validation against a tool's declared parameter schema
// and default injection for absent optional parameters.
package util

import (
	"fmt"
	"reflect"
)

// ValidationError represents parameter validation errors with detailed information.
type ValidationError struct {
	Field   string `json:"field"`   // Field that failed validation
	Value   any    `json:"value"`   // Value that was provided
	Message string `json:"message"` // Human-readable error message
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidateParameters validates arguments against a minimal JSON schema
// (type, properties, required, enum). Unlike a permissive validator it also
// rejects fields not declared in the schema, so malformed model output is
// caught before it reaches an adapter.
func ValidateParameters(params map[string]any, schema map[string]any) error {
	properties, _ := schema["properties"].(map[string]any)

	for _, req := range requiredFields(schema) {
		if _, exists := params[req]; !exists {
			return &ValidationError{Field: req, Message: "required field is missing"}
		}
	}

	for fieldName, value := range params {
		propSchema, exists := properties[fieldName]
		if !exists {
			return &ValidationError{Field: fieldName, Value: value, Message: "unexpected field"}
		}
		propMap, ok := propSchema.(map[string]any)
		if !ok {
			continue
		}

		expectedType, _ := propMap["type"].(string)
		if !isValidType(value, expectedType) {
			return &ValidationError{
				Field:   fieldName,
				Value:   value,
				Message: fmt.Sprintf("expected type %s, got %T", expectedType, value),
			}
		}

		if allowed := enumValues(propMap); len(allowed) > 0 {
			if !containsValue(allowed, value) {
				return &ValidationError{
					Field:   fieldName,
					Value:   value,
					Message: fmt.Sprintf("value %v is not one of the allowed values %v", value, allowed),
				}
			}
		}
	}

	return nil
}

// ApplyDefaults returns params with declared schema defaults filled in for
// absent optional fields. The input map is not mutated.
func ApplyDefaults(params map[string]any, schema map[string]any) map[string]any {
	properties, _ := schema["properties"].(map[string]any)
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	for name, propSchema := range properties {
		propMap, ok := propSchema.(map[string]any)
		if !ok {
			continue
		}
		def, hasDefault := propMap["default"]
		if !hasDefault {
			continue
		}
		if _, present := out[name]; !present {
			out[name] = def
		}
	}
	return out
}

// requiredFields tolerates both []string and the []any shape produced by
// decoding a schema from JSON.
func requiredFields(schema map[string]any) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []any:
		fields := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				fields = append(fields, s)
			}
		}
		return fields
	default:
		return nil
	}
}

func enumValues(propMap map[string]any) []any {
	switch allowed := propMap["enum"].(type) {
	case []any:
		return allowed
	case []string:
		values := make([]any, len(allowed))
		for i, s := range allowed {
			values[i] = s
		}
		return values
	default:
		return nil
	}
}

func containsValue(allowed []any, value any) bool {
	for _, a := range allowed {
		if reflect.DeepEqual(a, value) {
			return true
		}
	}
	return false
}

// isValidType checks if a value is valid according to the expected JSON schema type.
func isValidType(value any, expectedType string) bool {
	if value == nil {
		return true // nil is valid for any type
	}

	switch expectedType {
	case "string":
		_, ok := value.(string)
		return ok
	case "integer":
		switch v := value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		case float64: // JSON unmarshaling produces float64 for numbers
			return v == float64(int64(v))
		}
		return false
	case "number":
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
			float32, float64:
			return true
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	default:
		return true // unknown types are assumed valid
	}
}
