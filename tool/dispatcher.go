package tool

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/calebsh/toolchat/core"
	"github.com/calebsh/toolchat/internal/util"
	"github.com/calebsh/toolchat/logging"
)

// Dispatcher routes a tool call request to the bound adapter and produces a
// uniform result envelope regardless of outcome. It is the last line of
// defense below the orchestration loop: Dispatch never returns a Go error
// and never lets a panic escape.
type Dispatcher struct {
	registry *Registry
	logger   logging.Logger
}

// NewDispatcher creates a dispatcher over the given registry. A nil logger
// disables logging.
func NewDispatcher(registry *Registry, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// Dispatch executes one tool call. Failure classes:
//   - unknown tool name                 -> "unknown function: ..."
//   - malformed JSON / schema violation -> "argument error: ..."
//   - adapter ArgumentError             -> "argument error: ..."
//   - adapter provider failure          -> adapter's message
//   - panic in the adapter              -> generic execution failure
func (d *Dispatcher) Dispatch(ctx context.Context, name string, rawArgs json.RawMessage) (result core.ToolResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool.dispatch.panic", "tool", name, "recover", r)
			result = core.Fail("tool execution failed: internal error in %s", name)
		}
		d.logger.Info("tool.dispatch.done",
			"tool", name,
			"success", result.Success,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}()

	impl, ok := d.registry.Resolve(name)
	if !ok {
		d.logger.Warn("tool.dispatch.unknown", "tool", name)
		return core.Fail("unknown function: %s", name)
	}

	args := map[string]any{}
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return core.Fail("argument error: invalid JSON payload: %v", err)
		}
	}

	schema := impl.Parameters()
	if err := util.ValidateParameters(args, schema); err != nil {
		d.logger.Warn("tool.dispatch.validation_failed", "tool", name, "error", err.Error())
		return core.Fail("argument error: %v", err)
	}
	args = util.ApplyDefaults(args, schema)

	data, err := impl.Call(ctx, args)
	if err != nil {
		var argErr *ArgumentError
		if errors.As(err, &argErr) {
			return core.Fail("argument error: %v", argErr)
		}
		return core.Fail("%v", err)
	}
	return core.Ok(data)
}
