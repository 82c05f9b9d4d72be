// Package ratelimit paces requests against the guide servers and computes the
// backoff schedule for the bounded fetch retries.
package ratelimit

import (
	"context"
	"time"

	"gopkg.in/yaml.v3"
)

// Limiter is the pacing interface the guide client waits on before each call.
type Limiter interface {
	Wait(ctx context.Context) error
	Allow() bool
	RetryAfter(attempt int) time.Duration
	Reset()
}

// Strategy selects the pacing behavior.
type Strategy string

const (
	StrategyTokenBucket Strategy = "token_bucket"
	StrategyFixedDelay  Strategy = "fixed_delay"
)

// Config holds pacing and retry configuration for one source.
type Config struct {
	Strategy          Strategy      `yaml:"strategy" json:"strategy"`
	RequestsPerSec    float64       `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int           `yaml:"burst" json:"burst"`
	FixedDelay        time.Duration `yaml:"fixed_delay" json:"fixed_delay"`
	MaxRetries        int           `yaml:"max_retries" json:"max_retries"`
	InitialBackoff    time.Duration `yaml:"initial_backoff" json:"initial_backoff"`
	MaxBackoff        time.Duration `yaml:"max_backoff" json:"max_backoff"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier" json:"backoff_multiplier"`
}

// UnmarshalYAML accepts human readable duration strings like "200ms" for the
// duration fields.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Strategy          Strategy `yaml:"strategy"`
		RequestsPerSec    float64  `yaml:"requests_per_second"`
		Burst             int      `yaml:"burst"`
		FixedDelay        string   `yaml:"fixed_delay"`
		MaxRetries        int      `yaml:"max_retries"`
		InitialBackoff    string   `yaml:"initial_backoff"`
		MaxBackoff        string   `yaml:"max_backoff"`
		BackoffMultiplier float64  `yaml:"backoff_multiplier"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.Strategy = raw.Strategy
	c.RequestsPerSec = raw.RequestsPerSec
	c.Burst = raw.Burst
	c.MaxRetries = raw.MaxRetries
	c.BackoffMultiplier = raw.BackoffMultiplier

	for _, field := range []struct {
		src string
		dst *time.Duration
	}{
		{raw.FixedDelay, &c.FixedDelay},
		{raw.InitialBackoff, &c.InitialBackoff},
		{raw.MaxBackoff, &c.MaxBackoff},
	} {
		if field.src == "" {
			continue
		}
		d, err := time.ParseDuration(field.src)
		if err != nil {
			return err
		}
		*field.dst = d
	}
	return nil
}

// DefaultConfig mirrors the retry budget of the original grabber: up to 10
// attempts with a 100ms backoff base.
func DefaultConfig() Config {
	return Config{
		Strategy:          StrategyTokenBucket,
		RequestsPerSec:    10.0,
		Burst:             5,
		FixedDelay:        100 * time.Millisecond,
		MaxRetries:        10,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// ApplyDefaults fills unset fields from DefaultConfig.
func ApplyDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Strategy == "" {
		cfg.Strategy = def.Strategy
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = def.RequestsPerSec
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.FixedDelay <= 0 {
		cfg.FixedDelay = def.FixedDelay
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.BackoffMultiplier <= 0 {
		cfg.BackoffMultiplier = def.BackoffMultiplier
	}
	return cfg
}

// NewLimiter creates a limiter for the configured strategy.
func NewLimiter(cfg Config) Limiter {
	cfg = ApplyDefaults(cfg)
	switch cfg.Strategy {
	case StrategyFixedDelay:
		return NewFixedDelay(cfg)
	default:
		return NewTokenBucket(cfg)
	}
}
