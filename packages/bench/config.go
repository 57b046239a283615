// Package bench drives constant-rate load runs against a single endpoint
// and aggregates latencies into HDR histograms. Each worker goroutine owns
// its own HTTP client for the whole run.
package bench

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all settings for a bench run. Durations are written as Go
// duration strings ("30s", "1m"); Validate parses and caches them.
type Config struct {
	URL         string  `yaml:"url"`
	Method      string  `yaml:"method"`
	ContentType string  `yaml:"content_type"`
	Data        string  `yaml:"data"`
	DataFile    string  `yaml:"data_file"`
	Rate        float64 `yaml:"rate"`
	Concurrency int     `yaml:"concurrency"`
	Duration    string  `yaml:"duration"`
	Timeout     string  `yaml:"timeout"`
	Auth        string  `yaml:"auth"`

	duration time.Duration
	timeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Method:      "GET",
		Rate:        50,
		Concurrency: 8,
		Duration:    "10s",
		Timeout:     "30s",
	}
}

// LoadConfig reads a YAML bench profile, layered over the defaults, and
// validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bench config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing bench config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}

	c.Method = strings.ToUpper(c.Method)
	switch c.Method {
	case "GET", "POST", "PUT", "DELETE":
	default:
		return fmt.Errorf("unsupported method: %s", c.Method)
	}

	if c.Rate <= 0 {
		return fmt.Errorf("rate must be positive")
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	if c.Duration == "" {
		c.Duration = "10s"
	}
	d, err := time.ParseDuration(c.Duration)
	if err != nil || d <= 0 {
		return fmt.Errorf("invalid duration: %s", c.Duration)
	}
	c.duration = d

	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	to, err := time.ParseDuration(c.Timeout)
	if err != nil || to <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	c.timeout = to

	return nil
}

// Payload returns the request body sent with each shot. A data file wins
// over inline data; GETs and DELETEs typically have neither.
func (c *Config) Payload() ([]byte, error) {
	if c.DataFile != "" {
		data, err := os.ReadFile(c.DataFile)
		if err != nil {
			return nil, fmt.Errorf("reading data file: %w", err)
		}
		return data, nil
	}
	if c.Data != "" {
		return []byte(c.Data), nil
	}
	return nil, nil
}
