// Package attention runs one doubly-stochastic attention head per CRT modulus
// and fuses the heads with fixed channel weights.
//
// Each modulus m_h owns one head. The Q/K feature dimension d is split into
// len(moduli) contiguous chunks; head h runs birkhoff attention on its chunk
// against the full V. Heads are combined with channel weights
//
//	w_h = ln(m_h) / ln(P),   Σ w_h = 1
//
// i.e. each channel's share of the CRT dynamic range. A convex combination of
// doubly-stochastic matrices is doubly stochastic, so the fused attention
// weights stay on the Birkhoff polytope up to the projector tolerance.
//
// The reconstructor passed to New supplies the moduli set and nothing else:
// no residues are reconstructed and no head output goes through CRT. The fusion
// is the weighted sum above, so the moduli only decide the head count, the
// chunk boundaries and w_h.
package attention

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/crtfuse/birkhoff"
	"github.com/katalvlaran/crtfuse/crt"
	"github.com/katalvlaran/crtfuse/matrix"
)

var (
	// ErrTooFewFeatures is returned when the Q/K width is below the head count.
	ErrTooFewFeatures = errors.New("attention: fewer features than heads")

	// ErrNilComponent is returned when New receives a nil dependency.
	ErrNilComponent = errors.New("attention: nil component")
)

// Head reports one modulus head.
type Head struct {
	Modulus    uint64  `json:"modulus"`
	Weight     float64 `json:"weight"`
	Converged  bool    `json:"converged"`
	Iterations int     `json:"iterations"`
}

// Output is the fused attention result.
type Output struct {
	// Matrix is Σ w_h · (W_h · V).
	Matrix *matrix.Dense

	// Weights is Σ w_h · W_h.
	Weights *matrix.Dense

	Heads []Head
}

// Fused runs one projected attention head per modulus.
type Fused struct {
	moduli  []uint64
	weights []float64
	proj    *birkhoff.Projector
}

// New derives the channel weights from rec's moduli; rec is not retained.
func New(rec *crt.Reconstructor, proj *birkhoff.Projector) (*Fused, error) {
	if rec == nil || proj == nil {
		return nil, ErrNilComponent
	}
	moduli := rec.Moduli()
	var lnP float64
	for _, m := range moduli {
		lnP += math.Log(float64(m))
	}
	w := make([]float64, len(moduli))
	for h, m := range moduli {
		w[h] = math.Log(float64(m)) / lnP
	}

	return &Fused{moduli: moduli, weights: w, proj: proj}, nil
}

// Moduli returns a copy of the moduli that define the heads.
func (f *Fused) Moduli() []uint64 { return append([]uint64(nil), f.moduli...) }

// HeadWeights returns a copy of the channel weights.
func (f *Fused) HeadWeights() []float64 { return append([]float64(nil), f.weights...) }

// Forward computes fused attention for Q, K (n×d) and V (n×dv).
//
// Errors: ErrTooFewFeatures when d < heads; birkhoff.ErrDimensionMismatch for
// incompatible shapes; birkhoff.ErrInvalidEntry for non-finite scores.
func (f *Fused) Forward(q, k, v matrix.Matrix) (*Output, error) {
	for _, m := range []matrix.Matrix{q, k, v} {
		if err := matrix.ValidateNotNil(m); err != nil {
			return nil, fmt.Errorf("Forward: %w: %w", birkhoff.ErrDimensionMismatch, err)
		}
	}
	heads := len(f.moduli)
	d := q.Cols()
	if k.Cols() != d {
		return nil, fmt.Errorf("Forward: Q has %d cols, K has %d: %w", d, k.Cols(), birkhoff.ErrDimensionMismatch)
	}
	if d < heads {
		return nil, fmt.Errorf("Forward: %d features for %d heads: %w", d, heads, ErrTooFewFeatures)
	}

	out := &Output{Heads: make([]Head, heads)}
	for h := 0; h < heads; h++ {
		from, to := h*d/heads, (h+1)*d/heads
		qh, err := matrix.SubCols(q, from, to)
		if err != nil {
			return nil, fmt.Errorf("Forward: head %d: %w", h, err)
		}
		kh, err := matrix.SubCols(k, from, to)
		if err != nil {
			return nil, fmt.Errorf("Forward: head %d: %w", h, err)
		}
		res, err := f.proj.Attention(qh, kh, v)
		if err != nil {
			return nil, fmt.Errorf("Forward: head %d: %w", h, err)
		}

		if out.Matrix == nil {
			if out.Matrix, err = matrix.NewDense(res.Output.Rows(), res.Output.Cols()); err != nil {
				return nil, fmt.Errorf("Forward: %w", err)
			}
			if out.Weights, err = matrix.NewDense(res.Weights.Rows(), res.Weights.Cols()); err != nil {
				return nil, fmt.Errorf("Forward: %w", err)
			}
		}
		if err = out.Matrix.AddScaledInPlace(res.Output, f.weights[h]); err != nil {
			return nil, fmt.Errorf("Forward: head %d: %w", h, err)
		}
		if err = out.Weights.AddScaledInPlace(res.Weights, f.weights[h]); err != nil {
			return nil, fmt.Errorf("Forward: head %d: %w", h, err)
		}
		out.Heads[h] = Head{
			Modulus:    f.moduli[h],
			Weight:     f.weights[h],
			Converged:  res.Projection.Converged,
			Iterations: res.Projection.Iterations,
		}
	}

	return out, nil
}
