package main

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	ai "github.com/spetersoncode/openresponses"
	"github.com/spetersoncode/openresponses/agent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEnv(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(fakeEnv(map[string]string{"HF_TOKEN": "hf_test"}))
	require.NoError(t, err)

	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, ai.RoutingSuffix, cfg.Routing)
	assert.Equal(t, ai.DefaultRouterModel, cfg.Model)
	assert.Equal(t, "hf_test", cfg.APIKey)
	assert.Equal(t, agent.ModeClientDriven, cfg.Mode)
	assert.Equal(t, ai.DefaultMaxToolCalls, cfg.MaxToolCalls)
	assert.Equal(t, 1, cfg.RetryAttempts)
	assert.Zero(t, cfg.Timeout)
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := loadConfig(fakeEnv(map[string]string{
		"API_KEY":          "primary",
		"HF_TOKEN":         "ignored",
		"MODEL":            "meta-llama/Llama-3.1-70B-Instruct:together",
		"MODE":             "server",
		"MAX_TOOL_CALLS":   "4",
		"TIMEOUT":          "90s",
		"REASONING_EFFORT": "high",
		"RETRY_ATTEMPTS":   "3",
		"LOG_LEVEL":        "DEBUG",
	}))
	require.NoError(t, err)

	assert.Equal(t, "primary", cfg.APIKey)
	assert.Equal(t, agent.ModeServerDriven, cfg.Mode)
	assert.Equal(t, 4, cfg.MaxToolCalls)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, ai.ReasoningEffort("high"), cfg.ReasoningEffort)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)

	aiCfg := cfg.AI()
	assert.Equal(t, cfg.Model, aiCfg.Model)
	assert.NotEmpty(t, aiCfg.Instructions)
}

func TestLoadConfig_ProviderKeyFallback(t *testing.T) {
	cfg, err := loadConfig(fakeEnv(map[string]string{
		"ROUTING":        "provider",
		"PROVIDER":       "openai",
		"MODEL":          "gpt-4o",
		"OPENAI_API_KEY": "sk-test",
	}))
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, ai.ProviderOpenAI, cfg.Provider)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{"missing key", map[string]string{}, "api_key"},
		{"bad mode", map[string]string{"HF_TOKEN": "x", "MODE": "hybrid"}, "mode"},
		{"bad log level", map[string]string{"HF_TOKEN": "x", "LOG_LEVEL": "loud"}, "log_level"},
		{"bad effort", map[string]string{"HF_TOKEN": "x", "REASONING_EFFORT": "max"}, "reasoning_effort"},
		{"provider routing without provider", map[string]string{"HF_TOKEN": "x", "ROUTING": "provider"}, "provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(fakeEnv(tt.env))
			require.Error(t, err)

			var cfgErr *ai.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLoadConfig_IgnoresMalformedNumbers(t *testing.T) {
	cfg, err := loadConfig(fakeEnv(map[string]string{
		"HF_TOKEN":       "x",
		"MAX_TOOL_CALLS": "many",
		"TIMEOUT":        "soon",
	}))
	require.NoError(t, err)
	assert.Equal(t, ai.DefaultMaxToolCalls, cfg.MaxToolCalls)
	assert.Zero(t, cfg.Timeout)
}
