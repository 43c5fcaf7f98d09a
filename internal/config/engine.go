package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Weights holds the relative weight of each health dimension.
// The four weights must sum to 1.0.
type Weights struct {
	Stability  float64 `yaml:"stability"`
	Compliance float64 `yaml:"compliance"`
	Content    float64 `yaml:"content"`
	Structure  float64 `yaml:"structure"`
}

// Sum returns the total of all four weights.
func (w Weights) Sum() float64 {
	return w.Stability + w.Compliance + w.Content + w.Structure
}

// AuthorityConfig holds the authority gate settings.
type AuthorityConfig struct {
	// Enabled is the global kill switch. When false every gate call is
	// denied before any other check runs.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// MinConfidence is the confidence score a site must reach before
	// any gated action is allowed.
	// Default: 80, Range: 0-100
	MinConfidence int `yaml:"min_confidence"`
}

// EngineConfig holds configuration for the health and gating engine.
type EngineConfig struct {
	Weights Weights `yaml:"weights"`

	// CacheTTLSeconds is how long cached health/drift results stay
	// valid before recomputation.
	// Default: 300, Range: 1-3600
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`

	Authority AuthorityConfig `yaml:"authority"`

	// TrendWindow is how many completed runs the trend classifier
	// examines. Fewer completed runs than this yields an unknown
	// classification.
	// Default: 3, Range: 2-10
	TrendWindow int `yaml:"trend_window"`
}

// DefaultEngineConfig returns the default engine configuration.
//
// The weights follow the scoring policy: stability and content carry
// the most signal (0.3 each), compliance and structure the rest (0.2
// each).
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Weights: Weights{
			Stability:  0.3,
			Compliance: 0.2,
			Content:    0.3,
			Structure:  0.2,
		},
		CacheTTLSeconds: 300,
		Authority: AuthorityConfig{
			Enabled:       true,
			MinConfidence: 80,
		},
		TrendWindow: 3,
	}
}

// LoadEngineConfig reads an engine config from a YAML file, layering it
// over the defaults, then applies environment overrides and validates.
// An empty path yields the defaults (plus env overrides).
func LoadEngineConfig(path string) (EngineConfig, error) {
	cfg := DefaultEngineConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv applies SEOWARD_* environment variable overrides.
// Invalid values are ignored in favor of the configured value.
func (c *EngineConfig) applyEnv() {
	if v := os.Getenv("SEOWARD_AUTHORITY_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Authority.Enabled = b
		}
	}
	if v := os.Getenv("SEOWARD_MIN_CONFIDENCE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Authority.MinConfidence = n
		}
	}
	if v := os.Getenv("SEOWARD_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CacheTTLSeconds = n
		}
	}
}

// CacheTTL returns the cache TTL as a duration.
func (c EngineConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Validate checks if the configuration has valid values
func (c EngineConfig) Validate() error {
	for name, w := range map[string]float64{
		"stability":  c.Weights.Stability,
		"compliance": c.Weights.Compliance,
		"content":    c.Weights.Content,
		"structure":  c.Weights.Structure,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("weight %s must be between 0 and 1 (got %g)", name, w)
		}
	}

	// Weights must sum to exactly 1.0 (within float tolerance).
	if math.Abs(c.Weights.Sum()-1.0) > 1e-9 {
		return fmt.Errorf("dimension weights must sum to 1.0 (got %g)", c.Weights.Sum())
	}

	if c.CacheTTLSeconds < 1 || c.CacheTTLSeconds > 3600 {
		return fmt.Errorf("cache_ttl_seconds must be between 1 and 3600 (got %d)", c.CacheTTLSeconds)
	}

	if c.Authority.MinConfidence < 0 || c.Authority.MinConfidence > 100 {
		return fmt.Errorf("min_confidence must be between 0 and 100 (got %d)", c.Authority.MinConfidence)
	}

	if c.TrendWindow < 2 || c.TrendWindow > 10 {
		return fmt.Errorf("trend_window must be between 2 and 10 (got %d)", c.TrendWindow)
	}

	return nil
}
