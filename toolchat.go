// Package toolchat provides a high-level façade over the conversation loop
// and the built-in function tools (weather, news, stocks, email, instant
// messages). Most applications interact with this package by:
//  1. Loading a Config (config.Load reads YAML plus environment variables)
//  2. Creating an Assistant via New()
//  3. Calling Chat() with a session ID and user text
//
// The façade wires the selected model provider, the tool registry, and the
// dispatcher together. All defaults are safe for local development; the
// message tool falls back to a console sink when no SMS transport is
// configured.
package toolchat

import (
	"context"
	"fmt"
	"os"

	"github.com/calebsh/toolchat/agent"
	"github.com/calebsh/toolchat/config"
	"github.com/calebsh/toolchat/logging"
	"github.com/calebsh/toolchat/model"
	"github.com/calebsh/toolchat/model/anthropic"
	"github.com/calebsh/toolchat/model/openai"
	"github.com/calebsh/toolchat/session"
	"github.com/calebsh/toolchat/tool"
	"github.com/calebsh/toolchat/tools/email"
	"github.com/calebsh/toolchat/tools/message"
	"github.com/calebsh/toolchat/tools/news"
	"github.com/calebsh/toolchat/tools/stock"
	"github.com/calebsh/toolchat/tools/weather"
)

// Options override wiring choices made from the configuration. Any nil
// field keeps the configured default.
type Options struct {
	// Model replaces the provider selected by cfg.Model.Provider.
	Model model.Model
	// Mailer replaces the SMTP transport for the email tool.
	Mailer email.Mailer
	// MessageSink replaces the delivery transport for the message tool.
	MessageSink message.Sink
	// StockProvider replaces the Yahoo Finance market data source.
	StockProvider stock.Provider
	// Logger defaults to a slog logger at the configured level.
	Logger logging.Logger
}

// Assistant aggregates the conversation loop and per-session state.
type Assistant struct {
	agent    *agent.Agent
	sessions *session.InMemoryStore
	logger   logging.Logger
}

// New creates an Assistant from cfg with optional overrides.
func New(cfg config.Config, optFns ...func(o *Options)) (*Assistant, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewSlogLogger(cfg.LogLevel, cfg.LogFormat)
	}

	m := opts.Model
	if m == nil {
		var err error
		m, err = buildModel(cfg.Model)
		if err != nil {
			return nil, err
		}
	}

	tools, err := buildTools(cfg, opts)
	if err != nil {
		return nil, err
	}
	registry, err := tool.NewRegistry(tools...)
	if err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}
	dispatcher := tool.NewDispatcher(registry, logger)

	ag := agent.New(m, registry, dispatcher, agent.Options{
		MaxAttempts: cfg.Chat.MaxAttempts,
		Temperature: &cfg.Chat.Temperature,
		MaxTokens:   cfg.Chat.MaxTokens,
		Logger:      logger,
	})

	return &Assistant{
		agent:    ag,
		sessions: session.NewInMemoryStore(),
		logger:   logger,
	}, nil
}

// Chat processes one user message within the named session and returns the
// assistant's reply. Sessions are created on first use.
func (a *Assistant) Chat(ctx context.Context, sessionID, text string) (string, error) {
	sess := a.sessions.Get(sessionID)
	return a.agent.Chat(ctx, sess, text)
}

// Reset discards the named session's history.
func (a *Assistant) Reset(sessionID string) {
	a.sessions.Delete(sessionID)
}

func buildModel(cfg config.ModelConfig) (model.Model, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
			o.BaseURL = cfg.BaseURL
			o.APIKey = cfg.OpenAIAPIKey
			o.Timeout = cfg.Timeout
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
			o.BaseURL = cfg.BaseURL
			o.APIKey = cfg.AnthropicAPIKey
			o.Timeout = cfg.Timeout
		}), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

func buildTools(cfg config.Config, opts Options) ([]tool.Tool, error) {
	var tools []tool.Tool

	if cfg.Weather.Enabled {
		tools = append(tools, weather.New(weather.Config{
			APIKey:   cfg.Weather.APIKey,
			BaseURL:  cfg.Weather.BaseURL,
			Language: cfg.Weather.Language,
			Timeout:  cfg.Weather.Timeout,
		}))
	}
	if cfg.News.Enabled {
		tools = append(tools, news.New(news.Config{
			APIKey:         cfg.News.APIKey,
			BaseURL:        cfg.News.BaseURL,
			DefaultCountry: cfg.News.Country,
			Timeout:        cfg.News.Timeout,
		}))
	}
	if cfg.Stock.Enabled {
		provider := opts.StockProvider
		if provider == nil {
			provider = stock.NewYahooProvider(stock.YahooConfig{
				BaseURL: cfg.Stock.BaseURL,
				Timeout: cfg.Stock.Timeout,
			})
		}
		tools = append(tools, stock.New(provider))
	}
	if cfg.Email.Enabled {
		mailer := opts.Mailer
		if mailer == nil {
			mailer = email.NewSMTPMailer(email.Config{
				Host:     cfg.Email.Host,
				Port:     cfg.Email.Port,
				From:     cfg.Email.From,
				Password: cfg.Email.Password,
				Timeout:  cfg.Email.Timeout,
			})
		}
		tools = append(tools, email.New(mailer))
	}
	if cfg.Message.Enabled {
		sink := opts.MessageSink
		if sink == nil {
			var err error
			sink, err = buildMessageSink(cfg.Message)
			if err != nil {
				return nil, err
			}
		}
		tools = append(tools, message.New(sink))
	}

	if len(tools) == 0 {
		return nil, fmt.Errorf("no tools enabled")
	}
	return tools, nil
}

func buildMessageSink(cfg config.MessageConfig) (message.Sink, error) {
	switch cfg.Sink {
	case "", "console":
		return message.NewConsoleSink(os.Stdout), nil
	case "twilio":
		return message.NewTwilioSink(message.TwilioConfig{
			AccountSID: cfg.AccountSID,
			AuthToken:  cfg.AuthToken,
			From:       cfg.From,
			Recipients: cfg.Recipients,
			Timeout:    cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown message sink %q", cfg.Sink)
	}
}
