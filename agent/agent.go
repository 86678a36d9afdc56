// Package agent implements the conversation loop: it relays user input to a
// chat-completion model, dispatches any tool calls the model requests, feeds
// the results back for a final answer, and applies a bounded retry policy to
// transient provider failures.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/calebsh/toolchat/core"
	"github.com/calebsh/toolchat/logging"
	"github.com/calebsh/toolchat/model"
	"github.com/calebsh/toolchat/session"
	"github.com/calebsh/toolchat/tool"
)

const (
	defaultMaxAttempts = 3
	defaultTemperature = 0.7
	defaultMaxTokens   = 1500
)

// errBudgetExhausted signals that the shared attempt counter ran out.
var errBudgetExhausted = errors.New("attempt budget exhausted")

// Options tune the loop. Zero values select the defaults above.
type Options struct {
	// MaxAttempts bounds model calls per user message. Both completion
	// passes and all rate-limit and timeout retries draw from the same
	// budget.
	MaxAttempts int
	// Temperature of nil selects the default; an explicit zero is passed
	// through for deterministic sampling.
	Temperature *float64
	MaxTokens   int64
	// Backoff returns the wait before retrying a rate-limited call.
	// attempt is 1-based.
	Backoff func(attempt int) time.Duration
	// Sleep is the wait primitive; tests inject a recording stub.
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger logging.Logger
}

// Agent drives one conversation turn at a time against a model and a set of
// registered tools. It is safe for concurrent use across sessions; a single
// session must not be driven concurrently.
type Agent struct {
	model      model.Model
	registry   *tool.Registry
	dispatcher *tool.Dispatcher
	opts       Options
}

// New creates an agent. Registry and dispatcher must be non-nil.
func New(m model.Model, registry *tool.Registry, dispatcher *tool.Dispatcher, opts Options) *Agent {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.Temperature == nil {
		temp := defaultTemperature
		opts.Temperature = &temp
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Backoff == nil {
		opts.Backoff = ExponentialBackoff
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Agent{model: m, registry: registry, dispatcher: dispatcher, opts: opts}
}

// ExponentialBackoff doubles the wait per attempt: 2s, 4s, 8s.
func ExponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Chat processes one user message within sess and returns the assistant's
// reply text. The user turn is appended before the first model call and is
// retained even when the turn ends in an apology, so a later message still
// sees it in history. The returned error is non-nil only for local failures
// (nil session, cancelled context); provider failures surface as apology
// replies recorded in the log.
func (a *Agent) Chat(ctx context.Context, sess *session.Session, text string) (string, error) {
	if sess == nil {
		return "", fmt.Errorf("nil session")
	}
	sess.Log.Append(core.NewUserTurn(text))

	attempts := 0

	resp, err := a.complete(ctx, &attempts, model.Request{
		Turns:       sess.Log.Snapshot(),
		Tools:       a.registry.Specs(),
		ToolChoice:  model.ToolChoiceAuto,
		Temperature: *a.opts.Temperature,
		MaxTokens:   a.opts.MaxTokens,
	})
	if err != nil {
		return a.finishWithFailure(ctx, sess, err)
	}

	if len(resp.ToolCalls) == 0 {
		sess.Log.Append(core.NewAssistantTurn(resp.Content))
		return resp.Content, nil
	}

	sess.Log.Append(core.NewToolCallTurn(resp.Content, resp.ToolCalls))
	for _, call := range resp.ToolCalls {
		a.opts.Logger.Info("dispatching tool call", "tool", call.Name, "id", call.ID)
		result := a.dispatcher.Dispatch(ctx, call.Name, call.Arguments)
		sess.Log.Append(core.NewToolResultTurn(call.ID, result))
	}

	// Tools are withheld on the second pass so the model folds the
	// results into a final text answer instead of calling again.
	final, err := a.complete(ctx, &attempts, model.Request{
		Turns:       sess.Log.Snapshot(),
		Temperature: *a.opts.Temperature,
		MaxTokens:   a.opts.MaxTokens,
	})
	if err != nil {
		return a.finishWithFailure(ctx, sess, err)
	}
	sess.Log.Append(core.NewAssistantTurn(final.Content))
	return final.Content, nil
}

// complete performs one model call with transient-failure retries. attempts
// is shared across both passes of a turn; a turn that burns its budget on
// the first pass gets no retries on the second.
func (a *Agent) complete(ctx context.Context, attempts *int, req model.Request) (model.Response, error) {
	for {
		if *attempts >= a.opts.MaxAttempts {
			return model.Response{}, errBudgetExhausted
		}
		*attempts++

		resp, err := a.model.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch {
		case model.IsRateLimit(err):
			if *attempts >= a.opts.MaxAttempts {
				return model.Response{}, errBudgetExhausted
			}
			wait := a.opts.Backoff(*attempts)
			a.opts.Logger.Warn("model rate limited, backing off",
				"attempt", *attempts, "wait", wait)
			if serr := a.opts.Sleep(ctx, wait); serr != nil {
				return model.Response{}, serr
			}
		case model.IsTimeout(err):
			a.opts.Logger.Warn("model call timed out, retrying", "attempt", *attempts)
		default:
			return model.Response{}, err
		}
	}
}

// finishWithFailure records an apology turn and returns it as the reply.
// Context cancellation is the one failure passed through as an error.
func (a *Agent) finishWithFailure(ctx context.Context, sess *session.Session, err error) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	var reply string
	if errors.Is(err, errBudgetExhausted) {
		a.opts.Logger.Error("attempt budget exhausted", "attempts", a.opts.MaxAttempts)
		reply = "Sorry, I was unable to complete your request after multiple attempts. Please try again later."
	} else {
		a.opts.Logger.Error("model call failed", "error", err)
		reply = fmt.Sprintf("Sorry, something went wrong while processing your request: %v", err)
	}
	sess.Log.Append(core.NewAssistantTurn(reply))
	return reply, nil
}
