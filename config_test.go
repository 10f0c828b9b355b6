package openresponses

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Provider: ProviderOpenAI,
		APIKey:   "sk-test",
		Model:    "gpt-4.1",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing api key", func(c *Config) { c.APIKey = "" }, "api_key"},
		{"missing model", func(c *Config) { c.Model = "" }, "model"},
		{"missing provider", func(c *Config) { c.Provider = "" }, "provider"},
		{"suffix routing without provider", func(c *Config) { c.Provider = ""; c.Routing = RoutingSuffix }, ""},
		{"unknown routing", func(c *Config) { c.Routing = "dns" }, "routing"},
		{"bad effort", func(c *Config) { c.ReasoningEffort = "extreme" }, "reasoning_effort"},
		{"good effort", func(c *Config) { c.ReasoningEffort = ReasoningEffortLow }, ""},
		{"negative budget", func(c *Config) { c.MaxToolCalls = -1 }, "max_tool_calls"},
		{"negative timeout", func(c *Config) { c.Timeout = -1 }, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ce *ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	assert.Equal(t, RoutingProvider, cfg.Routing)
	assert.Equal(t, DefaultMaxToolCalls, cfg.MaxToolCalls)
	assert.Equal(t, DefaultInstructions, cfg.Instructions)

	kept := Config{MaxToolCalls: 2, Routing: RoutingSuffix}.WithDefaults()
	assert.Equal(t, 2, kept.MaxToolCalls)
	assert.Equal(t, RoutingSuffix, kept.Routing)
}

func TestConfig_RequestOptions(t *testing.T) {
	cfg := Config{Instructions: "be terse", ReasoningEffort: ReasoningEffortMedium, MaxToolCalls: 4}
	o := ApplyOptions(cfg.RequestOptions()...)
	assert.Equal(t, "be terse", o.Instructions)
	assert.Equal(t, ReasoningEffortMedium, o.ReasoningEffort)
	assert.Equal(t, 4, o.MaxToolCalls)
	assert.Zero(t, o.Timeout)
}
