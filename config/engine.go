package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/katalvlaran/crtfuse/attention"
	"github.com/katalvlaran/crtfuse/birkhoff"
	"github.com/katalvlaran/crtfuse/coprime"
	"github.com/katalvlaran/crtfuse/crt"
	"github.com/katalvlaran/crtfuse/encoder"
	"github.com/katalvlaran/crtfuse/homology"
	"github.com/katalvlaran/crtfuse/layer"
	"github.com/katalvlaran/crtfuse/telemetry"
)

// Engine holds every engine object built from one Config.
type Engine struct {
	Config        *Config
	Moduli        []uint64
	Reconstructor *crt.Reconstructor
	Encoder       *encoder.Encoder
	Projector     *birkhoff.Projector
	Loss          *homology.Loss
	Layer         *layer.Layer
	Attention     *attention.Fused
	Logger        *slog.Logger
}

// Build resolves the moduli (explicitly or through sel's presets) and
// constructs the engine objects. A nil sel uses the built-in presets; a nil
// logger writes JSON to stderr at the configured level.
func (c *Config) Build(sel *coprime.Selector, logger *slog.Logger) (*Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if sel == nil {
		sel = coprime.NewSelector()
	}
	if logger == nil {
		logger = telemetry.NewLogger(c.LogLevel, os.Stderr)
	}

	moduli := c.Moduli
	if c.Preset != "" {
		var err error
		if moduli, err = sel.SelectForDomain(c.Preset); err != nil {
			return nil, fmt.Errorf("config: Build: %w", err)
		}
	}

	rec, err := crt.NewReconstructor(moduli)
	if err != nil {
		return nil, fmt.Errorf("config: Build: %w", err)
	}
	enc, err := encoder.New(moduli, c.FeatureDim,
		encoder.WithSeed(c.Encoder.Seed),
		encoder.WithTemperature(c.Encoder.Temperature),
	)
	if err != nil {
		return nil, fmt.Errorf("config: Build: %w", err)
	}
	proj, err := birkhoff.NewProjector(
		birkhoff.WithMaxIterations(c.Birkhoff.MaxIterations),
		birkhoff.WithTolerance(c.Birkhoff.Tolerance),
		birkhoff.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("config: Build: %w", err)
	}

	var policy homology.EdgePolicy = homology.ThresholdPolicy{}
	if c.Homology.EdgePolicy == "band" {
		policy = homology.BandPolicy{Width: c.Homology.BandWidth}
	}
	loss, err := homology.New(
		homology.WithTau(c.Homology.Tau),
		homology.WithAlpha(c.Homology.Alpha),
		homology.WithLambda(c.Homology.Lambda),
		homology.WithBeta(c.Homology.Beta),
		homology.WithGamma(c.Homology.Gamma),
		homology.WithEdgePolicy(policy),
		homology.WithMaxLoops(c.Homology.MaxLoops),
		homology.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("config: Build: %w", err)
	}
	lay, err := layer.New(enc, rec, loss, layer.WithWorkers(c.Workers), layer.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("config: Build: %w", err)
	}
	fused, err := attention.New(rec, proj)
	if err != nil {
		return nil, fmt.Errorf("config: Build: %w", err)
	}

	return &Engine{
		Config:        c,
		Moduli:        moduli,
		Reconstructor: rec,
		Encoder:       enc,
		Projector:     proj,
		Loss:          loss,
		Layer:         lay,
		Attention:     fused,
		Logger:        logger,
	}, nil
}
