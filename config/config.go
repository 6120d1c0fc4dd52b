// Package config loads, validates and materializes the engine configuration.
//
// A configuration is a YAML document:
//
//	moduli: [2, 3, 5, 7]      # or: preset: standard
//	feature_dim: 8
//	encoder:  {seed: 7, temperature: 1.0}
//	homology: {tau: 0.5, alpha: 1, lambda: 0.1, beta: 1, gamma: 1, edge_policy: threshold, band_width: 0, max_loops: 16}
//	birkhoff: {max_iterations: 100, tolerance: 1e-6}
//	workers: 4
//	log_level: info
//
// Unknown keys are rejected. Field ranges are checked with validator struct
// tags; exactly one of moduli and preset must be set. CRTFUSE_LOG_LEVEL and
// CRTFUSE_WORKERS override the file when present.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvLogLevel = "CRTFUSE_LOG_LEVEL"
	EnvWorkers  = "CRTFUSE_WORKERS"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// configValidate is the shared validator instance.
var configValidate = validator.New()

// Config is the root YAML document.
type Config struct {
	Moduli     []uint64       `yaml:"moduli" validate:"omitempty,min=2,dive,gt=1"`
	Preset     string         `yaml:"preset"`
	FeatureDim int            `yaml:"feature_dim" validate:"gte=1"`
	Encoder    EncoderConfig  `yaml:"encoder"`
	Homology   HomologyConfig `yaml:"homology"`
	Birkhoff   BirkhoffConfig `yaml:"birkhoff"`
	Workers    int            `yaml:"workers" validate:"gte=1"`
	LogLevel   string         `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// EncoderConfig configures the residue encoder.
type EncoderConfig struct {
	Seed        int64   `yaml:"seed"`
	Temperature float64 `yaml:"temperature" validate:"gt=0"`
}

// HomologyConfig configures the homology regularizer.
type HomologyConfig struct {
	Tau        float64 `yaml:"tau" validate:"gte=0"`
	Alpha      float64 `yaml:"alpha"`
	Lambda     float64 `yaml:"lambda" validate:"gte=0"`
	Beta       float64 `yaml:"beta" validate:"gt=0"`
	Gamma      float64 `yaml:"gamma"`
	EdgePolicy string  `yaml:"edge_policy" validate:"oneof=threshold band"`
	BandWidth  float64 `yaml:"band_width" validate:"gte=0,required_if=EdgePolicy band"`
	MaxLoops   int     `yaml:"max_loops" validate:"gte=0"`
}

// BirkhoffConfig configures the Sinkhorn projector.
type BirkhoffConfig struct {
	MaxIterations int     `yaml:"max_iterations" validate:"gte=1"`
	Tolerance     float64 `yaml:"tolerance" validate:"gt=0"`
}

// Default returns the built-in configuration (preset "standard").
func Default() *Config {
	return &Config{
		Preset:     "standard",
		FeatureDim: 8,
		Encoder:    EncoderConfig{Seed: 1, Temperature: 1},
		Homology: HomologyConfig{
			Tau:        0.5,
			Alpha:      1,
			Lambda:     0.1,
			Beta:       1,
			Gamma:      1,
			EdgePolicy: "threshold",
			MaxLoops:   16,
		},
		Birkhoff: BirkhoffConfig{MaxIterations: 100, Tolerance: 1e-6},
		Workers:  runtime.GOMAXPROCS(0),
		LogLevel: "info",
	}
}

// Load reads path, applies environment overrides and validates.
// An empty path yields Default() with overrides applied.
func Load(path string) (*Config, error) {
	if path == "" {
		c := Default()
		if err := c.applyEnv(); err != nil {
			return nil, err
		}
		return c, c.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(bytes.NewReader(data))
}

// Parse decodes a YAML document over Default(), rejecting unknown keys, then
// applies environment overrides and validates.
// Setting moduli in the document clears the default preset.
func Parse(r io.Reader) (*Config, error) {
	c := Default()
	c.Preset = ""

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if len(c.Moduli) == 0 && c.Preset == "" {
		c.Preset = Default().Preset
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks field ranges and the moduli/preset exclusivity.
func (c *Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if (len(c.Moduli) == 0) == (c.Preset == "") {
		return fmt.Errorf("%w: exactly one of moduli and preset must be set", ErrInvalidConfig)
	}

	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvWorkers, v, err)
		}
		c.Workers = n
	}

	return nil
}
