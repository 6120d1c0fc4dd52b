package birkhoff

import (
	"fmt"
	"math"

	"github.com/katalvlaran/crtfuse/matrix"
)

// Attention computes doubly-stochastic attention:
//
//	S = exp(QKᵀ/√d − rowmax),  W = Project(S),  out = W·V
//
// Q and K are n×d, V is n×dv. Subtracting the row maximum keeps exp finite;
// the shift is undone by the row normalization.
func (p *Projector) Attention(q, k, v matrix.Matrix) (*AttentionResult, error) {
	for _, m := range []matrix.Matrix{q, k, v} {
		if err := matrix.ValidateNotNil(m); err != nil {
			return nil, wrapShape("Attention", err)
		}
	}
	if q.Cols() != k.Cols() || q.Rows() != k.Rows() || v.Rows() != k.Rows() {
		return nil, fmt.Errorf("Attention: Q %dx%d, K %dx%d, V %dx%d: %w",
			q.Rows(), q.Cols(), k.Rows(), k.Cols(), v.Rows(), v.Cols(), ErrDimensionMismatch)
	}

	kt, err := matrix.Transpose(k)
	if err != nil {
		return nil, fmt.Errorf("Attention: %w", err)
	}
	scores, err := matrix.Mul(q, kt)
	if err != nil {
		return nil, fmt.Errorf("Attention: %w", err)
	}
	if err = expScores(scores, 1/math.Sqrt(float64(q.Cols()))); err != nil {
		return nil, fmt.Errorf("Attention: %w", err)
	}

	proj, err := p.Project(scores)
	if err != nil {
		return nil, fmt.Errorf("Attention: %w", err)
	}
	out, err := matrix.Mul(proj.Matrix, v)
	if err != nil {
		return nil, fmt.Errorf("Attention: %w", err)
	}

	return &AttentionResult{Output: out, Weights: proj.Matrix, Projection: proj}, nil
}

// expScores replaces every entry s with exp(scale·s − max_j scale·s_j) row by row.
// A non-finite score is reported as ErrInvalidEntry.
func expScores(s *matrix.Dense, scale float64) error {
	for i := 0; i < s.Rows(); i++ {
		row := s.Row(i)
		best := math.Inf(-1)
		for j := range row {
			row[j] *= scale
			if math.IsNaN(row[j]) || math.IsInf(row[j], 0) {
				return fmt.Errorf("score (%d,%d): %w", i, j, ErrInvalidEntry)
			}
			best = math.Max(best, row[j])
		}
		for j, x := range row {
			if err := s.Set(i, j, math.Exp(x-best)); err != nil {
				return err
			}
		}
	}

	return nil
}
