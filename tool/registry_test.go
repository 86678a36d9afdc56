package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTool is a minimal Tool for registry and dispatcher tests.
type stubTool struct {
	name   string
	schema map[string]any
	fn     func(ctx context.Context, args map[string]any) (any, error)
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub tool " + s.name }

func (s *stubTool) Parameters() map[string]any {
	if s.schema != nil {
		return s.schema
	}
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

func (s *stubTool) Call(ctx context.Context, args map[string]any) (any, error) {
	if s.fn == nil {
		return map[string]any{"ok": true}, nil
	}
	return s.fn(ctx, args)
}

func TestRegistrySpecsOrder(t *testing.T) {
	reg, err := NewRegistry(
		&stubTool{name: "get_weather"},
		&stubTool{name: "search_news"},
		&stubTool{name: "analyze_stock"},
	)
	require.NoError(t, err)

	specs := reg.Specs()
	require.Len(t, specs, 3)
	assert.Equal(t, "get_weather", specs[0].Function.Name)
	assert.Equal(t, "search_news", specs[1].Function.Name)
	assert.Equal(t, "analyze_stock", specs[2].Function.Name)
	assert.Equal(t, "function", specs[0].Type)

	// Order is stable across calls.
	assert.Equal(t, specs, reg.Specs())
	assert.Equal(t, []string{"get_weather", "search_news", "analyze_stock"}, reg.Names())
}

func TestRegistryResolve(t *testing.T) {
	reg, err := NewRegistry(&stubTool{name: "get_weather"})
	require.NoError(t, err)

	impl, ok := reg.Resolve("get_weather")
	assert.True(t, ok)
	assert.Equal(t, "get_weather", impl.Name())

	_, ok = reg.Resolve("nope")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(&stubTool{name: "dup"}, &stubTool{name: "dup"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate tool name")
}
