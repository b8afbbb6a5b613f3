package model

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid, got %v", err)
	}
}

func TestConfig_ValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"negative min_frequency": func(c *Config) { c.Pruning.MinFrequency = -1 },
		"zero max_nodes":         func(c *Config) { c.Pruning.MaxNodes = 0 },
		"zero max_degree":        func(c *Config) { c.Pruning.MaxDegree = 0 },
		"nan size_scale":         func(c *Config) { c.Pruning.SizeScale = math.NaN() },
		"negative size_scale":    func(c *Config) { c.Pruning.SizeScale = -2 },
		"zero edge_width":        func(c *Config) { c.Pruning.EdgeWidth = 0 },
		"zero workers":           func(c *Config) { c.Concurrency.Workers = 0 },
		"unknown provider":       func(c *Config) { c.Extract.Provider = "spacy" },
		"openai without key":     func(c *Config) { c.Extract.Provider = "openai" },
	}

	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestConfig_ZeroMinFrequencyAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pruning.MinFrequency = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("min_frequency 0 should be valid, got %v", err)
	}
}

func TestConfig_ValidateNamesConfigKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pruning.MaxNodes = -5
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "max_nodes must be > 0") {
		t.Errorf("expected max_nodes in error, got %v", err)
	}
}

func TestConfig_ValidateRejectsInfiniteSizeScale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pruning.SizeScale = math.Inf(1)
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestPruningConfig_ValidateIgnoresExtraction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extract.Provider = "openai"
	if err := cfg.Pruning.Validate(); err != nil {
		t.Errorf("pruning limits are valid, got %v", err)
	}

	cfg.Pruning.MaxDegree = 0
	if err := cfg.Pruning.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
