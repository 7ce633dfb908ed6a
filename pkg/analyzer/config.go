package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/apiscout/apiscout/internal/capture"
)

// Config holds all analyzer configuration.
type Config struct {
	// Capture configures the headless browser collector.
	Capture capture.Config `json:"capture" yaml:"capture"`

	// RateLimit paces page visits.
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`

	// MaxDepthLinks bounds how many next-depth links a result carries.
	MaxDepthLinks int `json:"max_depth_links" yaml:"max_depth_links"`

	// Verbose logging
	Verbose bool `json:"verbose" yaml:"verbose"`

	// Debug mode
	Debug bool `json:"debug" yaml:"debug"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `json:"burst" yaml:"burst"`

	// HostDelay is the minimum spacing between visits to the same host.
	HostDelay time.Duration `json:"host_delay" yaml:"host_delay"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Capture: capture.DefaultConfig(),
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             2,
			HostDelay:         500 * time.Millisecond,
		},
		MaxDepthLinks: 10,
		Verbose:       false,
		Debug:         false,
	}
}

// LoadFromFile loads configuration from a file (JSON or YAML).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, config); err != nil {
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	return config, nil
}

// SaveToFile saves configuration to a file.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if len(path) > 5 && path[len(path)-5:] == ".json" {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Capture.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation timeout must be positive")
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}

	if c.RateLimit.HostDelay < 0 {
		return fmt.Errorf("host delay cannot be negative")
	}

	if c.MaxDepthLinks < 1 {
		return fmt.Errorf("max depth links must be at least 1")
	}

	return nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	data, _ := json.Marshal(c)
	clone := &Config{}
	json.Unmarshal(data, clone)
	return clone
}
