package model

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned when a configuration value violates a precondition
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete conceptmap configuration
type Config struct {
	Pruning     PruningConfig     `yaml:"pruning" mapstructure:"pruning"`
	Extract     ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// PruningConfig controls graph size reduction and visual sizing
type PruningConfig struct {
	MinFrequency int     `yaml:"min_frequency" mapstructure:"min_frequency" validate:"gte=0"` // Drop concepts seen in fewer sentences
	MaxNodes     int     `yaml:"max_nodes" mapstructure:"max_nodes" validate:"gt=0"`          // Hard node cap after frequency pruning
	MaxDegree    int     `yaml:"max_degree" mapstructure:"max_degree" validate:"gt=0"`        // Hard per-node edge cap
	SizeScale    float64 `yaml:"size_scale" mapstructure:"size_scale" validate:"gte=0"`       // Node size = degree * SizeScale
	EdgeWidth    float64 `yaml:"edge_width" mapstructure:"edge_width" validate:"gt=0"`        // Uniform edge display width
}

// ExtractConfig controls the concept source
type ExtractConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider" validate:"omitempty,oneof=heuristic openai"` // heuristic, openai
	Model             string  `yaml:"model,omitempty" mapstructure:"model"`
	APIKey            string  `yaml:"-" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	MinConceptLength  int     `yaml:"min_concept_length" mapstructure:"min_concept_length" validate:"gte=1"`
	MaxFiles          int     `yaml:"max_files" mapstructure:"max_files"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CacheConfig controls extraction result caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls the extraction worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers" validate:"gt=0"`
}

// OutputConfig controls where artifacts go
type OutputConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Pruning: PruningConfig{
			MinFrequency: 3,
			MaxNodes:     100,
			MaxDegree:    10,
			SizeScale:    5,
			EdgeWidth:    1,
		},
		Extract: ExtractConfig{
			Provider:          "heuristic",
			MinConceptLength:  3,
			MaxFiles:          1000,
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".conceptmap-cache",
			MemoryTTL: time.Hour,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Dir: "./graph",
		},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their config key rather than the Go name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate rejects configurations that would make a stage meaningless.
// It must run before any input is read.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if err := c.Pruning.Validate(); err != nil {
		return err
	}
	if c.Extract.Provider == "openai" && c.Extract.APIKey == "" {
		return fmt.Errorf("%w: openai provider requires an API key", ErrInvalidConfig)
	}
	return nil
}

// Validate checks only the pruning limits. Re-drawing a saved graph needs
// nothing else, so extraction settings must not block it.
func (p PruningConfig) Validate() error {
	if err := validate.Struct(p); err != nil {
		return formatValidationError(err)
	}
	if math.IsInf(p.SizeScale, 0) {
		return fmt.Errorf("%w: size_scale must be finite", ErrInvalidConfig)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be > %s, got %v", e.Field(), e.Param(), e.Value())
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", e.Field(), e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s, got %q", e.Field(), strings.ReplaceAll(e.Param(), " ", ", "), e.Value())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
