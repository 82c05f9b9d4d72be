// Package config loads the per-region run configuration, e.g. ziggo-nl.yml.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ziggogoepg/exporter/internal/ratelimit"
)

// URLs holds the guide endpoints. Segment and Detail are format strings with a
// single %s placeholder for the segment code and programme id respectively.
type URLs struct {
	ChannelList string `yaml:"epg_channel_list"`
	Segment     string `yaml:"epg_segment"`
	Detail      string `yaml:"epg_detail"`
}

// Config is the full run configuration.
type Config struct {
	Timezone   string                      `yaml:"timezone"`
	URLs       URLs                        `yaml:"urls"`
	RateLimits map[string]ratelimit.Config `yaml:"rate_limits"`
}

// Load reads and validates a configuration file. A missing or unparsable file
// is fatal for the run; nothing downstream is meaningful without the guide
// endpoints.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("configuration file %s could not be opened: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("configuration file %s is not valid YAML: %w", path, err)
	}

	if cfg.URLs.ChannelList == "" || cfg.URLs.Segment == "" || cfg.URLs.Detail == "" {
		return nil, fmt.Errorf("configuration file %s is missing the guide url settings", path)
	}
	if cfg.Timezone == "" {
		return nil, fmt.Errorf("configuration file %s is missing the timezone setting", path)
	}

	for name, rl := range cfg.RateLimits {
		cfg.RateLimits[name] = ratelimit.ApplyDefaults(rl)
	}

	return &cfg, nil
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// GuideRateLimit returns the limiter config for the guide source, falling back
// to defaults when the profile is absent.
func (c *Config) GuideRateLimit() ratelimit.Config {
	if cfg, ok := c.RateLimits["ziggogo"]; ok {
		return cfg
	}
	return ratelimit.DefaultConfig()
}
