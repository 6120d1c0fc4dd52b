// SPDX-License-Identifier: MIT
// Package: birkhoff
//
// Purpose:
//   - Sinkhorn-Knopp projection with an iteration bound that always terminates.
//
// Determinism & Performance:
//   - Row pass then column pass, fixed loop orders; O(n²) per iteration.
//   - Works on a private copy; the caller's matrix is never written.

package birkhoff

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/katalvlaran/crtfuse/matrix"
	"github.com/katalvlaran/crtfuse/telemetry"
)

// Projector runs Sinkhorn-Knopp with fixed limits.
type Projector struct {
	maxIterations int
	tolerance     float64
	trace         bool
	logger        *slog.Logger
}

// NewProjector applies opts over the defaults and validates them.
func NewProjector(opts ...Option) (*Projector, error) {
	p := &Projector{
		maxIterations: DefaultMaxIterations,
		tolerance:     DefaultTolerance,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.maxIterations < 1 {
		return nil, fmt.Errorf("NewProjector: maxIterations=%d: %w", p.maxIterations, ErrBadOption)
	}
	if !(p.tolerance > 0) || math.IsInf(p.tolerance, 0) {
		return nil, fmt.Errorf("NewProjector: tolerance=%g: %w", p.tolerance, ErrBadOption)
	}
	p.logger = telemetry.OrDefault(p.logger)

	return p, nil
}

// MaxIterations returns the iteration bound.
func (p *Projector) MaxIterations() int { return p.maxIterations }

// Tolerance returns the convergence tolerance.
func (p *Projector) Tolerance() float64 { return p.tolerance }

// Project returns the Sinkhorn-Knopp approximation of the doubly-stochastic
// matrix nearest in scaling to m.
//
// Stage 1 (Validate): non-nil, square, entries finite and ≥ 0.
// Stage 2 (Prepare):  private copy of m.
// Stage 3 (Execute):  alternate row/column normalization until the max
// deviation is within tolerance or maxIterations is reached.
//
// Complexity: O(maxIterations·n²).
func (p *Projector) Project(m matrix.Matrix) (*Result, error) {
	if err := matrix.ValidateSquare(m); err != nil {
		return nil, wrapShape("Project", err)
	}
	if err := matrix.ValidateNonNegative(m); err != nil {
		return nil, fmt.Errorf("Project: %w: %w", ErrInvalidEntry, err)
	}
	work, err := matrix.ToDense(m)
	if err != nil {
		return nil, fmt.Errorf("Project: %w", err)
	}

	res := p.sinkhorn(work)

	telemetry.BirkhoffProjections.WithLabelValues(strconv.FormatBool(res.Converged)).Inc()
	telemetry.BirkhoffIterations.Observe(float64(res.Iterations))
	if !res.Converged {
		p.logger.Warn("sinkhorn projection did not converge",
			slog.Int("n", work.Rows()),
			slog.Int("iterations", res.Iterations),
			slog.Float64("max_deviation", res.MaxDeviation),
			slog.Float64("tolerance", p.tolerance),
		)
	}

	return res, nil
}

// sinkhorn normalizes work in place. work must be square and nonnegative.
func (p *Projector) sinkhorn(work *matrix.Dense) *Result {
	n := work.Rows()
	uniform := 1 / float64(n)
	res := &Result{Matrix: work}
	if p.trace {
		res.Trace = make([]float64, 0, p.maxIterations)
	}

	factors := make([]float64, n)
	for it := 1; it <= p.maxIterations; it++ {
		rs, _ := matrix.RowSums(work)
		for i, s := range rs {
			factors[i] = 1
			if s == 0 {
				_ = work.FillRow(i, uniform)
				continue
			}
			factors[i] = 1 / s
		}
		_ = work.ScaleRowsInPlace(factors)

		cs, _ := matrix.ColSums(work)
		for j, s := range cs {
			factors[j] = 1
			if s == 0 {
				_ = work.FillCol(j, uniform)
				continue
			}
			factors[j] = 1 / s
		}
		_ = work.ScaleColsInPlace(factors)

		res.Iterations = it
		res.MaxDeviation = maxDeviation(work)
		if p.trace {
			res.Trace = append(res.Trace, res.MaxDeviation)
		}
		if res.MaxDeviation <= p.tolerance {
			res.Converged = true
			break
		}
	}

	return res
}

// maxDeviation returns max(|rowSum−1|, |colSum−1|) over all rows and columns.
func maxDeviation(m *matrix.Dense) float64 {
	rowErr, colErr := sumErrors(m)
	return math.Max(rowErr, colErr)
}

func sumErrors(m *matrix.Dense) (rowErr, colErr float64) {
	rs, _ := matrix.RowSums(m)
	cs, _ := matrix.ColSums(m)
	for _, s := range rs {
		rowErr = math.Max(rowErr, math.Abs(s-1))
	}
	for _, s := range cs {
		colErr = math.Max(colErr, math.Abs(s-1))
	}

	return rowErr, colErr
}

// Validate reports whether m is doubly stochastic within tol.
// Negative or non-finite entries make the matrix not doubly stochastic;
// only shape problems are errors.
func Validate(m matrix.Matrix, tol float64) (Validation, error) {
	if err := matrix.ValidateSquare(m); err != nil {
		return Validation{}, wrapShape("Validate", err)
	}
	d, err := matrix.ToDense(m)
	if err != nil {
		return Validation{}, fmt.Errorf("Validate: %w", err)
	}

	var v Validation
	v.MaxRowError, v.MaxColError = sumErrors(d)
	nonNeg := matrix.ValidateNonNegative(d)
	if nonNeg != nil && !errors.Is(nonNeg, matrix.ErrNegative) && !errors.Is(nonNeg, matrix.ErrNaNInf) {
		return Validation{}, fmt.Errorf("Validate: %w", nonNeg)
	}
	v.IsDoublyStochastic = nonNeg == nil && v.MaxRowError <= tol && v.MaxColError <= tol

	return v, nil
}
