package tool

import (
	"fmt"

	"github.com/calebsh/toolchat/model"
)

// Registry is the static catalogue of available tools. It is populated at
// startup and read-only afterwards; Specs preserves registration order so
// the tool list advertised to the model is stable across round-trips.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry constructs a registry from the given tools. Duplicate names
// are a programming error and reported immediately.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if err := r.register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(t Tool) error {
	name := t.Name()
	if name == "" {
		return fmt.Errorf("tool with empty name")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("duplicate tool name %q", name)
	}
	r.order = append(r.order, name)
	r.tools[name] = t
	return nil
}

// Resolve returns the tool bound to name, or false when unknown.
func (r *Registry) Resolve(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Specs returns the tool definitions in registration order, in the shape
// consumed by the model layer.
func (r *Registry) Specs() []model.ToolDefinition {
	specs := make([]model.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		specs = append(specs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return specs
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
