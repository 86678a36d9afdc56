package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebsh/toolchat/core"
	"github.com/calebsh/toolchat/internal/testutil"
	"github.com/calebsh/toolchat/model"
	"github.com/calebsh/toolchat/session"
	"github.com/calebsh/toolchat/tool"
)

type stubTool struct {
	name string
	fn   func(ctx context.Context, args map[string]any) (any, error)
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub" }
func (s *stubTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city": map[string]any{"type": "string"},
		},
		"required": []string{"city"},
	}
}

func (s *stubTool) Call(ctx context.Context, args map[string]any) (any, error) {
	return s.fn(ctx, args)
}

func newAgent(t *testing.T, m model.Model, tl tool.Tool, opts Options) *Agent {
	t.Helper()
	registry, err := tool.NewRegistry(tl)
	require.NoError(t, err)
	return New(m, registry, tool.NewDispatcher(registry, nil), opts)
}

func noSleep(collect *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*collect = append(*collect, d)
		return nil
	}
}

func TestChat_ToolRoundTrip(t *testing.T) {
	m := testutil.NewScriptedModel(
		testutil.ToolCallStep("call-1", "get_weather", map[string]any{"city": "Beijing"}),
		testutil.TextStep("It is 22°C and clear in Beijing."),
	)
	weather := &stubTool{name: "get_weather", fn: func(_ context.Context, args map[string]any) (any, error) {
		return map[string]any{"city": args["city"], "temperature": 22.0}, nil
	}}
	ag := newAgent(t, m, weather, Options{})

	sess := session.New("s1")
	reply, err := ag.Chat(context.Background(), sess, "What is the weather in Beijing?")
	require.NoError(t, err)
	assert.Equal(t, "It is 22°C and clear in Beijing.", reply)

	turns := sess.Log.Snapshot()
	require.Len(t, turns, 4)
	assert.Equal(t, core.RoleUser, turns[0].Role)
	assert.Equal(t, core.RoleAssistant, turns[1].Role)
	require.Len(t, turns[1].ToolCalls, 1)
	assert.Equal(t, "call-1", turns[1].ToolCalls[0].ID)
	assert.Equal(t, core.RoleTool, turns[2].Role)
	assert.Equal(t, "call-1", turns[2].ToolCallID)
	assert.Equal(t, core.RoleAssistant, turns[3].Role)
	assert.Equal(t, reply, turns[3].Content)

	// First pass offers tools, second pass withholds them.
	require.Equal(t, 2, m.Calls())
	assert.NotEmpty(t, m.Requests[0].Tools)
	assert.Equal(t, model.ToolChoiceAuto, m.Requests[0].ToolChoice)
	assert.Empty(t, m.Requests[1].Tools)

	var payload core.ToolResult
	require.NoError(t, json.Unmarshal([]byte(turns[2].Content), &payload))
	assert.True(t, payload.Success)
}

func TestChat_ToolFailureStillAnswers(t *testing.T) {
	m := testutil.NewScriptedModel(
		testutil.ToolCallStep("call-1", "get_weather", map[string]any{"city": "Atlantis"}),
		testutil.TextStep("I could not retrieve the weather for Atlantis."),
	)
	weather := &stubTool{name: "get_weather", fn: func(context.Context, map[string]any) (any, error) {
		return nil, fmt.Errorf("upstream returned status 404")
	}}
	ag := newAgent(t, m, weather, Options{})

	sess := session.New("s1")
	reply, err := ag.Chat(context.Background(), sess, "Weather in Atlantis?")
	require.NoError(t, err)
	assert.Equal(t, "I could not retrieve the weather for Atlantis.", reply)

	turns := sess.Log.Snapshot()
	require.Len(t, turns, 4)

	var payload core.ToolResult
	require.NoError(t, json.Unmarshal([]byte(turns[2].Content), &payload))
	assert.False(t, payload.Success)
	assert.Contains(t, payload.Error, "404")
}

func TestChat_RateLimitExhaustsBudget(t *testing.T) {
	rl := &model.RateLimitError{Provider: "openai", Message: "429"}
	m := testutil.NewScriptedModel(
		testutil.ErrStep(rl),
		testutil.ErrStep(rl),
		testutil.ErrStep(rl),
	)
	var waits []time.Duration
	ag := newAgent(t, m, &stubTool{name: "noop", fn: nil}, Options{Sleep: noSleep(&waits)})

	sess := session.New("s1")
	reply, err := ag.Chat(context.Background(), sess, "hello")
	require.NoError(t, err)
	assert.Contains(t, reply, "unable to complete")

	assert.Equal(t, 3, m.Calls())
	require.Len(t, waits, 2)
	assert.Equal(t, 2*time.Second, waits[0])
	assert.Equal(t, 4*time.Second, waits[1])
	assert.Greater(t, waits[1], waits[0])

	// The failed turn stays in history alongside the apology.
	turns := sess.Log.Snapshot()
	require.Len(t, turns, 2)
	assert.Equal(t, core.RoleUser, turns[0].Role)
	assert.Equal(t, core.RoleAssistant, turns[1].Role)
}

func TestChat_TimeoutRetriesWithoutWaiting(t *testing.T) {
	m := testutil.NewScriptedModel(
		testutil.ErrStep(&model.TimeoutError{Provider: "openai", Cause: context.DeadlineExceeded}),
		testutil.TextStep("hi there"),
	)
	var waits []time.Duration
	ag := newAgent(t, m, &stubTool{name: "noop", fn: nil}, Options{Sleep: noSleep(&waits)})

	reply, err := ag.Chat(context.Background(), session.New("s1"), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)
	assert.Equal(t, 2, m.Calls())
	assert.Empty(t, waits)
}

func TestChat_FatalErrorApologizesImmediately(t *testing.T) {
	m := testutil.NewScriptedModel(
		testutil.ErrStep(errors.New("invalid api key")),
	)
	ag := newAgent(t, m, &stubTool{name: "noop", fn: nil}, Options{})

	sess := session.New("s1")
	reply, err := ag.Chat(context.Background(), sess, "hello")
	require.NoError(t, err)
	assert.Contains(t, reply, "invalid api key")
	assert.Equal(t, 1, m.Calls())

	turns := sess.Log.Snapshot()
	require.Len(t, turns, 2)
	assert.Equal(t, "hello", turns[0].Content)
}

func TestChat_BudgetSharedAcrossPasses(t *testing.T) {
	// Two attempts burned on the first pass leave one for the second;
	// a transient failure there cannot retry.
	m := testutil.NewScriptedModel(
		testutil.ErrStep(&model.TimeoutError{Provider: "openai"}),
		testutil.ToolCallStep("call-1", "noop", map[string]any{"city": "x"}),
		testutil.ErrStep(&model.TimeoutError{Provider: "openai"}),
	)
	noop := &stubTool{name: "noop", fn: func(context.Context, map[string]any) (any, error) {
		return "ok", nil
	}}
	ag := newAgent(t, m, noop, Options{})

	reply, err := ag.Chat(context.Background(), session.New("s1"), "hello")
	require.NoError(t, err)
	assert.Contains(t, reply, "unable to complete")
	assert.Equal(t, 3, m.Calls())
}

func TestChat_NilSession(t *testing.T) {
	ag := newAgent(t, testutil.NewScriptedModel(), &stubTool{name: "noop"}, Options{})
	_, err := ag.Chat(context.Background(), nil, "hello")
	assert.Error(t, err)
}

func TestChat_TemperatureConfiguration(t *testing.T) {
	t.Run("unset selects default", func(t *testing.T) {
		m := testutil.NewScriptedModel(testutil.TextStep("hi"))
		ag := newAgent(t, m, &stubTool{name: "noop"}, Options{})

		_, err := ag.Chat(context.Background(), session.New("s1"), "hello")
		require.NoError(t, err)
		assert.Equal(t, 0.7, m.Requests[0].Temperature)
	})

	t.Run("explicit zero is honored", func(t *testing.T) {
		zero := 0.0
		m := testutil.NewScriptedModel(testutil.TextStep("hi"))
		ag := newAgent(t, m, &stubTool{name: "noop"}, Options{Temperature: &zero})

		_, err := ag.Chat(context.Background(), session.New("s1"), "hello")
		require.NoError(t, err)
		assert.Equal(t, 0.0, m.Requests[0].Temperature)
	})
}

func TestExponentialBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, ExponentialBackoff(1))
	assert.Equal(t, 4*time.Second, ExponentialBackoff(2))
	assert.Equal(t, 8*time.Second, ExponentialBackoff(3))
}
