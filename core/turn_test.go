package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToolResultTurn(t *testing.T) {
	turn := NewToolResultTurn("call_1", Ok(map[string]any{"temperature": 18.5}))

	assert.Equal(t, RoleTool, turn.Role)
	assert.Equal(t, "call_1", turn.ToolCallID)

	var envelope ToolResult
	require.NoError(t, json.Unmarshal([]byte(turn.Content), &envelope))
	assert.True(t, envelope.Success)
	assert.Empty(t, envelope.Error)
}

func TestNewToolCallTurn_EmptyContent(t *testing.T) {
	calls := []ToolCall{{ID: "call_1", Name: "get_weather", Arguments: json.RawMessage(`{"city":"Paris"}`)}}
	turn := NewToolCallTurn("", calls)

	assert.Equal(t, RoleAssistant, turn.Role)
	assert.Empty(t, turn.Content)
	require.Len(t, turn.ToolCalls, 1)
	assert.Equal(t, "get_weather", turn.ToolCalls[0].Name)
}

func TestFail(t *testing.T) {
	res := Fail("unknown function: %s", "nope")
	assert.False(t, res.Success)
	assert.Equal(t, "unknown function: nope", res.Error)
	assert.Nil(t, res.Data)
}

func TestResultEnvelopeJSON(t *testing.T) {
	raw, err := json.Marshal(Fail("boom"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"boom"}`, string(raw))
}
