package sim

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ThresholdConfig groups the migration bounds for the Threshold strategy.
// A processor is overloaded when its queue length exceeds the pool-average
// queue length + OverloadMargin, and underloaded when its queue length is
// below the average - UnderloadMargin.
type ThresholdConfig struct {
	OverloadMargin  float64 `yaml:"overload_margin"`
	UnderloadMargin float64 `yaml:"underload_margin"`
}

// GenerateConfig groups the randomized ranges used by Generate.
// Arrival times are drawn from [now, now+ArrivalSpread], burst times from
// [BurstMin, BurstMax].
type GenerateConfig struct {
	ArrivalSpread int64 `yaml:"arrival_spread"`
	BurstMin      int64 `yaml:"burst_min"`
	BurstMax      int64 `yaml:"burst_max"`
}

// Config holds all simulator parameters.
type Config struct {
	// Processors is the fixed pool size, set at engine construction.
	Processors int `yaml:"processors"`
	// TickInterval is the real-time cadence of the background tick loop.
	TickInterval time.Duration `yaml:"tick_interval"`
	// Seed seeds the engine's RNG for Generate; same seed, same workload.
	Seed int64 `yaml:"seed"`
	// LogLimit caps the number of log entries exposed per snapshot.
	LogLimit int `yaml:"log_limit"`

	Threshold ThresholdConfig `yaml:"threshold"`
	Generate  GenerateConfig  `yaml:"generate"`
}

// DefaultConfig returns the documented default parameters: 4 processors,
// one tick per 500ms, burst in [2,10], arrival within 5 ticks of generation.
func DefaultConfig() Config {
	return Config{
		Processors:   4,
		TickInterval: 500 * time.Millisecond,
		Seed:         42,
		LogLimit:     100,
		Threshold: ThresholdConfig{
			OverloadMargin:  1.0,
			UnderloadMargin: 1.0,
		},
		Generate: GenerateConfig{
			ArrivalSpread: 5,
			BurstMin:      2,
			BurstMax:      10,
		},
	}
}

// LoadConfig reads a YAML config file over the defaults, so a partial file
// only overrides the keys it names.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects parameter combinations the engine cannot run with.
func (c Config) Validate() error {
	if c.Processors <= 0 {
		return fmt.Errorf("%w: processors must be > 0, got %d", ErrInvalidArgument, c.Processors)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick_interval must be > 0, got %v", ErrInvalidArgument, c.TickInterval)
	}
	if c.Generate.BurstMin <= 0 || c.Generate.BurstMax < c.Generate.BurstMin {
		return fmt.Errorf("%w: burst range [%d,%d] is invalid", ErrInvalidArgument,
			c.Generate.BurstMin, c.Generate.BurstMax)
	}
	if c.Generate.ArrivalSpread < 0 {
		return fmt.Errorf("%w: arrival_spread must be >= 0, got %d", ErrInvalidArgument,
			c.Generate.ArrivalSpread)
	}
	if c.LogLimit <= 0 {
		return fmt.Errorf("%w: log_limit must be > 0, got %d", ErrInvalidArgument, c.LogLimit)
	}
	return nil
}
