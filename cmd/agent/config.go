package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	ai "github.com/spetersoncode/openresponses"
	"github.com/spetersoncode/openresponses/agent"
	"github.com/spetersoncode/openresponses/internal/demo"
)

// Config holds the command configuration loaded from environment variables.
type Config struct {
	LogLevel slog.Level

	// Endpoint selection
	Routing  ai.RoutingMode
	Provider ai.Provider
	Model    string
	APIKey   string

	// Agent config
	Mode            agent.Mode
	MaxToolCalls    int
	Timeout         time.Duration
	ReasoningEffort ai.ReasoningEffort
	RetryAttempts   int
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load() // Load .env file if present
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) (*Config, error) {
	env := envReader(getenv)

	level, err := parseLogLevel(env.orDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	mode, err := agent.ParseMode(env.orDefault("MODE", string(agent.ModeClientDriven)))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:        level,
		Routing:         ai.RoutingMode(env.orDefault("ROUTING", string(ai.RoutingSuffix))),
		Provider:        ai.Provider(getenv("PROVIDER")),
		Model:           env.orDefault("MODEL", ai.DefaultRouterModel),
		APIKey:          env.first("API_KEY", "HF_TOKEN"),
		Mode:            mode,
		MaxToolCalls:    env.intOrDefault("MAX_TOOL_CALLS", ai.DefaultMaxToolCalls),
		Timeout:         env.durationOrDefault("TIMEOUT", 0),
		ReasoningEffort: ai.ReasoningEffort(getenv("REASONING_EFFORT")),
		RetryAttempts:   env.intOrDefault("RETRY_ATTEMPTS", 1),
	}

	if cfg.APIKey == "" {
		cfg.APIKey = providerKey(getenv, cfg.Provider)
	}

	if err := cfg.AI().Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AI returns the client configuration.
func (c *Config) AI() ai.Config {
	return ai.Config{
		Provider:        c.Provider,
		APIKey:          c.APIKey,
		Model:           c.Model,
		MaxToolCalls:    c.MaxToolCalls,
		Timeout:         c.Timeout,
		ReasoningEffort: c.ReasoningEffort,
		Instructions:    demo.Instructions,
		Routing:         c.Routing,
	}
}

// Logger returns a text logger on stderr at the configured level.
func (c *Config) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel}))
}

// providerKey falls back to the vendor-specific key variable for provider
// routing.
func providerKey(getenv func(string) string, p ai.Provider) string {
	switch p {
	case ai.ProviderOpenAI:
		return getenv("OPENAI_API_KEY")
	case ai.ProviderAnthropic:
		return getenv("ANTHROPIC_API_KEY")
	case ai.ProviderTogether:
		return getenv("TOGETHER_API_KEY")
	case ai.ProviderNebius:
		return getenv("NEBIUS_API_KEY")
	default:
		return ""
	}
}

func parseLogLevel(input string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, &ai.ConfigError{Field: "log_level", Msg: fmt.Sprintf("unsupported value %q (must be debug, info, warn, or error)", input)}
	}
}

type envReader func(string) string

func (e envReader) orDefault(key, defaultVal string) string {
	if val := e(key); val != "" {
		return val
	}
	return defaultVal
}

func (e envReader) first(keys ...string) string {
	for _, key := range keys {
		if val := e(key); val != "" {
			return val
		}
	}
	return ""
}

func (e envReader) intOrDefault(key string, defaultVal int) int {
	if val := e(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func (e envReader) durationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := e(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
