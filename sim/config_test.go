package sim

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4, cfg.Processors)
	assert.Equal(t, 500*time.Millisecond, cfg.TickInterval)
}

func TestConfigValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero processors", func(c *Config) { c.Processors = 0 }},
		{"negative tick interval", func(c *Config) { c.TickInterval = -time.Second }},
		{"zero burst min", func(c *Config) { c.Generate.BurstMin = 0 }},
		{"inverted burst range", func(c *Config) { c.Generate.BurstMin = 8; c.Generate.BurstMax = 2 }},
		{"negative arrival spread", func(c *Config) { c.Generate.ArrivalSpread = -1 }},
		{"zero log limit", func(c *Config) { c.LogLimit = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidArgument)
		})
	}
}

func TestLoadConfig_PartialOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "processors: 8\nthreshold:\n  overload_margin: 2.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Processors)
	assert.Equal(t, 2.5, cfg.Threshold.OverloadMargin)
	// Untouched keys keep their defaults.
	assert.Equal(t, 500*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, int64(10), cfg.Generate.BurstMax)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("processors: -2\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
