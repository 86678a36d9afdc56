package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/calebsh/toolchat/core"
	"github.com/calebsh/toolchat/model"
)

// Step is one scripted model exchange. Either Response or Err is returned
// for the corresponding call to Complete.
type Step struct {
	Response model.Response
	Err      error
}

// ScriptedModel replays a fixed sequence of steps and records every request
// it receives. Calls past the end of the script fail loudly.
type ScriptedModel struct {
	mu       sync.Mutex
	steps    []Step
	Requests []model.Request
}

// NewScriptedModel creates a model that replays the given steps in order.
func NewScriptedModel(steps ...Step) *ScriptedModel {
	return &ScriptedModel{steps: steps}
}

// Complete implements model.Model.
func (m *ScriptedModel) Complete(_ context.Context, req model.Request) (model.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := len(m.Requests)
	m.Requests = append(m.Requests, req)
	if idx >= len(m.steps) {
		return model.Response{}, fmt.Errorf("unscripted model call %d", idx+1)
	}
	step := m.steps[idx]
	return step.Response, step.Err
}

// Info implements model.Model.
func (m *ScriptedModel) Info() model.Info {
	return model.Info{Name: "scripted", Provider: "scripted", SupportsTools: true}
}

// Calls returns how many times Complete was invoked.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// TextStep builds a plain assistant text step.
func TextStep(text string) Step {
	return Step{Response: model.Response{Content: text, FinishReason: "stop"}}
}

// ToolCallStep builds a step that requests a single tool invocation.
func ToolCallStep(id, name string, args map[string]any) Step {
	raw, _ := json.Marshal(args)
	return Step{Response: model.Response{
		ToolCalls: []core.ToolCall{{ID: id, Name: name, Arguments: raw}},
	}}
}

// ErrStep builds a step that fails with err.
func ErrStep(err error) Step {
	return Step{Err: err}
}
