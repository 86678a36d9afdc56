// Package config loads assistant configuration from an optional YAML file
// plus environment variables. Credentials are never stored in code; they
// come exclusively from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config is the root configuration tree.
type Config struct {
	Environment string        `mapstructure:"environment"`
	LogLevel    string        `mapstructure:"log_level"`
	LogFormat   string        `mapstructure:"log_format"`
	Model       ModelConfig   `mapstructure:"model"`
	Chat        ChatConfig    `mapstructure:"chat"`
	Weather     WeatherConfig `mapstructure:"weather"`
	News        NewsConfig    `mapstructure:"news"`
	Stock       StockConfig   `mapstructure:"stock"`
	Email       EmailConfig   `mapstructure:"email"`
	Message     MessageConfig `mapstructure:"message"`
}

// ModelConfig selects the chat-completion provider.
type ModelConfig struct {
	Provider        string        `mapstructure:"provider"` // "openai" or "anthropic"
	Name            string        `mapstructure:"name"`
	BaseURL         string        `mapstructure:"base_url"`
	OpenAIAPIKey    string        `mapstructure:"openai_api_key"`
	AnthropicAPIKey string        `mapstructure:"anthropic_api_key"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// ChatConfig tunes the conversation loop.
type ChatConfig struct {
	MaxAttempts int     `mapstructure:"max_attempts"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int64   `mapstructure:"max_tokens"`
}

type WeatherConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type NewsConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Country string        `mapstructure:"country"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type StockConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type EmailConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	From     string        `mapstructure:"from"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// MessageConfig configures the instant-message tool. Sink selects the
// transport: "console" (default) or "twilio".
type MessageConfig struct {
	Enabled    bool              `mapstructure:"enabled"`
	Sink       string            `mapstructure:"sink"`
	AccountSID string            `mapstructure:"account_sid"`
	AuthToken  string            `mapstructure:"auth_token"`
	From       string            `mapstructure:"from"`
	Recipients map[string]string `mapstructure:"recipients"`
	Timeout    time.Duration     `mapstructure:"timeout"`
}

// envBindings maps config keys to the environment variables that populate
// them. Every secret the assistant needs lives here.
var envBindings = map[string]string{
	"model.openai_api_key":    "OPENAI_API_KEY",
	"model.anthropic_api_key": "ANTHROPIC_API_KEY",
	"weather.api_key":         "OPENWEATHER_API_KEY",
	"news.api_key":            "NEWS_API_KEY",
	"email.password":          "SMTP_PASSWORD",
	"email.from":              "SMTP_FROM",
	"email.host":              "SMTP_HOST",
	"message.account_sid":     "TWILIO_ACCOUNT_SID",
	"message.auth_token":      "TWILIO_AUTH_TOKEN",
	"message.from":            "TWILIO_FROM",
}

// Load reads configuration from path (optional, YAML) and the environment.
// An empty path loads defaults plus environment overrides only.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetDefault("model.provider", "openai")
	v.SetDefault("model.name", "gpt-4o-mini")
	v.SetDefault("model.timeout", "60s")

	v.SetDefault("chat.max_attempts", 3)
	v.SetDefault("chat.temperature", 0.7)
	v.SetDefault("chat.max_tokens", 1500)

	v.SetDefault("weather.enabled", true)
	v.SetDefault("weather.base_url", "https://api.openweathermap.org/data/2.5/weather")
	v.SetDefault("weather.language", "en")
	v.SetDefault("weather.timeout", "10s")

	v.SetDefault("news.enabled", true)
	v.SetDefault("news.base_url", "https://newsapi.org/v2/everything")
	v.SetDefault("news.country", "cn")
	v.SetDefault("news.timeout", "10s")

	v.SetDefault("stock.enabled", true)
	v.SetDefault("stock.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("stock.timeout", "10s")

	v.SetDefault("email.enabled", true)
	v.SetDefault("email.host", "smtp.qq.com")
	v.SetDefault("email.port", 587)
	v.SetDefault("email.timeout", "15s")

	v.SetDefault("message.enabled", true)
	v.SetDefault("message.sink", "console")
	v.SetDefault("message.timeout", "10s")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Model.Provider {
	case "openai":
		if c.Model.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case "anthropic":
		if c.Model.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}
	if c.Chat.MaxAttempts <= 0 {
		return fmt.Errorf("chat.max_attempts must be positive")
	}
	if c.Message.Enabled && c.Message.Sink == "twilio" {
		if c.Message.AccountSID == "" || c.Message.AuthToken == "" {
			return fmt.Errorf("TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN are required for the twilio sink")
		}
	}
	return nil
}
