// Package layer composes the encoder, the CRT reconstructor and the homology
// regularizer into one modular layer.
//
// Forward maps a feature vector to per-modulus distributions, their expected
// residues, a rounded exact residue vector and the CRT latent it reconstructs
// to. Coherence is 1 − min(1, error/MaxError), where MaxError is the number of
// moduli (each residue can contribute at most 1 to the error).
//
// ForwardBatch fans Forward out over a bounded errgroup, keeps results in input
// order, and runs one homology computation over the whole batch:
//
//	TotalLoss = mean(error) + λ·HomologyLoss
package layer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"runtime"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/crtfuse/crt"
	"github.com/katalvlaran/crtfuse/encoder"
	"github.com/katalvlaran/crtfuse/homology"
	"github.com/katalvlaran/crtfuse/telemetry"
)

var (
	// ErrModuliMismatch is returned when encoder and reconstructor disagree on moduli.
	ErrModuliMismatch = errors.New("layer: encoder and reconstructor moduli differ")

	// ErrNilComponent is returned when New receives a nil dependency.
	ErrNilComponent = errors.New("layer: nil component")

	// ErrBadOption is returned for out-of-range options.
	ErrBadOption = errors.New("layer: invalid option")
)

// Option configures a Layer.
type Option func(*Layer)

// WithWorkers bounds the ForwardBatch fan-out (≥ 1; default GOMAXPROCS).
func WithWorkers(n int) Option { return func(l *Layer) { l.workers = n } }

// WithLogger sets the logger.
func WithLogger(lg *slog.Logger) Option { return func(l *Layer) { l.logger = lg } }

// Output is the result of a single forward pass.
type Output struct {
	Distributions    [][]float64 `json:"distributions"`
	ExpectedResidues []float64   `json:"expected_residues"`
	Residues         []uint64    `json:"residues"`
	Latent           *big.Int    `json:"latent"`
	LatentNorm       float64     `json:"latent_norm"`
	InKernel         bool        `json:"in_kernel"`
	Error            float64     `json:"error"`
	Coherence        float64     `json:"coherence"`
}

// BatchOutput is the result of ForwardBatch.
type BatchOutput struct {
	Results            []*Output        `json:"results"`
	Homology           *homology.Result `json:"homology"`
	ReconstructionLoss float64          `json:"reconstruction_loss"`
	TotalLoss          float64          `json:"total_loss"`
	Betti              homology.Betti   `json:"betti"`
}

// Layer is immutable after construction and safe for concurrent use.
type Layer struct {
	enc     *encoder.Encoder
	rec     *crt.Reconstructor
	loss    *homology.Loss
	workers int
	logger  *slog.Logger
}

// New wires the three engine objects into a Layer.
func New(enc *encoder.Encoder, rec *crt.Reconstructor, loss *homology.Loss, opts ...Option) (*Layer, error) {
	if enc == nil || rec == nil || loss == nil {
		return nil, ErrNilComponent
	}
	if !slices.Equal(enc.Moduli(), rec.Moduli()) {
		return nil, fmt.Errorf("New: encoder %v, reconstructor %v: %w", enc.Moduli(), rec.Moduli(), ErrModuliMismatch)
	}
	l := &Layer{enc: enc, rec: rec, loss: loss, workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(l)
	}
	if l.workers < 1 {
		return nil, fmt.Errorf("New: workers=%d: %w", l.workers, ErrBadOption)
	}
	l.logger = telemetry.OrDefault(l.logger)

	return l, nil
}

// Reconstructor returns the layer's reconstructor.
func (l *Layer) Reconstructor() *crt.Reconstructor { return l.rec }

// Forward runs one feature vector through the layer.
//
// Errors: encoder.ErrDimensionMismatch, encoder.ErrNonFinite.
func (l *Layer) Forward(features []float64) (*Output, error) {
	start := time.Now()
	out, err := l.forward(features)
	if err != nil {
		return nil, err
	}
	telemetry.LayerForwardDuration.WithLabelValues("single").Observe(time.Since(start).Seconds())

	return out, nil
}

func (l *Layer) forward(features []float64) (*Output, error) {
	dists, err := l.enc.Encode(features)
	if err != nil {
		return nil, fmt.Errorf("Forward: %w", err)
	}
	expected := encoder.ExpectedResidues(dists)

	moduli := l.rec.Moduli()
	residues := make([]uint64, len(moduli))
	for i, e := range expected {
		residues[i] = uint64(math.Round(e)) % moduli[i]
	}
	latent, err := l.rec.ReconstructBig(residues)
	if err != nil {
		return nil, fmt.Errorf("Forward: %w", err)
	}
	norm, _ := new(big.Float).Quo(new(big.Float).SetInt(latent), new(big.Float).SetInt(l.rec.Product())).Float64()

	v := l.rec.Validate(expected, l.loss.Tau())

	return &Output{
		Distributions:    dists,
		ExpectedResidues: expected,
		Residues:         residues,
		Latent:           latent,
		LatentNorm:       norm,
		InKernel:         v.InKernel,
		Error:            v.Error,
		Coherence:        1 - math.Min(1, v.Error/l.rec.MaxError()),
	}, nil
}

// ForwardBatch runs Forward over every row concurrently and evaluates the
// homology regularizer over the expected residues.
//
// Errors: the first Forward error, homology errors, ctx.Err() on cancellation.
func (l *Layer) ForwardBatch(ctx context.Context, features [][]float64) (*BatchOutput, error) {
	start := time.Now()
	ctx, span := telemetry.Tracer().Start(ctx, "layer.ForwardBatch",
		trace.WithAttributes(
			attribute.Int("layer.batch_size", len(features)),
			attribute.Int("layer.workers", l.workers),
		),
	)
	defer span.End()

	out, err := l.forwardBatch(ctx, features)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "forward batch")
		return nil, err
	}
	telemetry.LayerForwardDuration.WithLabelValues("batch").Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Float64("layer.total_loss", out.TotalLoss))
	l.logger.Debug("layer batch forward",
		slog.Int("batch", len(features)),
		slog.Float64("reconstruction_loss", out.ReconstructionLoss),
		slog.Float64("total_loss", out.TotalLoss),
		slog.Int("cycles", out.Homology.Cycles),
	)

	return out, nil
}

func (l *Layer) forwardBatch(ctx context.Context, features [][]float64) (*BatchOutput, error) {
	results := make([]*Output, len(features))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, row := range features {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := l.forward(row)
			if err != nil {
				return fmt.Errorf("ForwardBatch: item %d: %w", i, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	expected := make([][]float64, len(results))
	var sum float64
	for i, r := range results {
		expected[i] = r.ExpectedResidues
		sum += r.Error
	}
	hres, err := l.loss.Compute(ctx, expected, l.rec)
	if err != nil {
		return nil, fmt.Errorf("ForwardBatch: %w", err)
	}

	out := &BatchOutput{Results: results, Homology: hres, Betti: hres.Betti}
	if len(results) > 0 {
		out.ReconstructionLoss = sum / float64(len(results))
	}
	out.TotalLoss = out.ReconstructionLoss + hres.WeightedLoss

	return out, nil
}
