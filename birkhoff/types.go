package birkhoff

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/crtfuse/matrix"
)

const (
	// DefaultMaxIterations bounds the Sinkhorn loop when no option overrides it.
	DefaultMaxIterations = 100

	// DefaultTolerance is the accepted max deviation of any row or column sum from 1.
	DefaultTolerance = 1e-6
)

var (
	// ErrDimensionMismatch is returned for non-square inputs or incompatible
	// attention operands.
	ErrDimensionMismatch = errors.New("birkhoff: dimension mismatch")

	// ErrInvalidEntry is returned when an input entry is negative, NaN or ±Inf.
	ErrInvalidEntry = errors.New("birkhoff: invalid matrix entry")

	// ErrBadOption is returned by NewProjector for out-of-range options.
	ErrBadOption = errors.New("birkhoff: invalid option")
)

// Option configures a Projector.
type Option func(*Projector)

// WithMaxIterations sets the iteration bound (must be ≥ 1).
func WithMaxIterations(n int) Option {
	return func(p *Projector) { p.maxIterations = n }
}

// WithTolerance sets the convergence tolerance (must be > 0).
func WithTolerance(t float64) Option {
	return func(p *Projector) { p.tolerance = t }
}

// WithTrace records the max deviation after every iteration in Result.Trace.
func WithTrace() Option {
	return func(p *Projector) { p.trace = true }
}

// WithLogger sets the logger used for non-convergence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(p *Projector) { p.logger = l }
}

// Result is the outcome of a projection.
type Result struct {
	Matrix       *matrix.Dense `json:"-"`
	Iterations   int           `json:"iterations"`
	Converged    bool          `json:"converged"`
	MaxDeviation float64       `json:"max_deviation"`

	// Trace holds the deviation after each iteration when WithTrace is set.
	Trace []float64 `json:"trace,omitempty"`
}

// Validation reports how close a matrix is to doubly stochastic.
type Validation struct {
	IsDoublyStochastic bool    `json:"is_doubly_stochastic"`
	MaxRowError        float64 `json:"max_row_error"`
	MaxColError        float64 `json:"max_col_error"`
}

// AttentionResult carries the attended values and the projected weights.
type AttentionResult struct {
	Output     *matrix.Dense
	Weights    *matrix.Dense
	Projection *Result
}

// wrapShape tags a matrix shape failure with ErrDimensionMismatch while
// keeping the matrix sentinel reachable through errors.Is.
func wrapShape(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrDimensionMismatch, err)
}
