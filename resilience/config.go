package resilience

import (
	"fmt"
	"time"
)

// Config is the retry block shared by provisioning and the readiness pollers.
type Config struct {
	// InitialInterval seeds the backoff between attempts of a retried call.
	InitialInterval time.Duration `yaml:"initial_interval" mapstructure:"initial_interval" validate:"gt=0"`
	// MaxInterval caps every wait, retried call and poll alike.
	MaxInterval time.Duration `yaml:"max_interval" mapstructure:"max_interval" validate:"gtefield=InitialInterval"`
	// Multiplier grows the interval after each failed attempt.
	Multiplier float64 `yaml:"multiplier" mapstructure:"multiplier" validate:"gt=1"`
	// MaxAttempts bounds attempts of a retried call and failed observations of a poll.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts" validate:"gte=1"`
	// SleepTime seeds the interval between poll observations.
	SleepTime time.Duration `yaml:"sleep_time" mapstructure:"sleep_time" validate:"gt=0"`
}

// DefaultConfig returns the values used when the retry block is absent.
func DefaultConfig() Config {
	return Config{
		InitialInterval: time.Second,
		MaxInterval:     10 * time.Second,
		Multiplier:      2.0,
		MaxAttempts:     3,
		SleepTime:       time.Second,
	}
}

// ApplyDefaults fills zero-valued fields from DefaultConfig.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.InitialInterval <= 0 {
		c.InitialInterval = d.InitialInterval
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = d.MaxInterval
	}
	if c.Multiplier == 0 {
		c.Multiplier = d.Multiplier
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.SleepTime <= 0 {
		c.SleepTime = d.SleepTime
	}
}

// Validate checks the invariants the backoff loops rely on.
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be >= 1 (got: %d)", c.MaxAttempts)
	}
	if c.Multiplier <= 1 {
		return fmt.Errorf("retry.multiplier must be > 1 (got: %g)", c.Multiplier)
	}
	if c.InitialInterval <= 0 || c.SleepTime <= 0 {
		return fmt.Errorf("retry.initial_interval and retry.sleep_time must be positive")
	}
	if c.MaxInterval < c.InitialInterval {
		return fmt.Errorf("retry.max_interval (%s) must be >= retry.initial_interval (%s)", c.MaxInterval, c.InitialInterval)
	}
	return nil
}
