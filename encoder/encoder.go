// Package encoder maps a numeric feature vector into one probability
// distribution over residues per modulus, and turns those distributions into
// expected residues for the CRT reconstructor.
//
// For modulus m_i the encoder holds an m_i × d weight block W_i and a bias
// vector b_i. Encoding scores the features against every residue class and
// normalizes with a temperature-scaled softmax:
//
//	P_i(v) = softmax((W_i·x + b_i) / T)[v],   v ∈ [0, m_i)
//
// Weights are either supplied explicitly (WithWeights) or drawn once at
// construction from a seeded math/rand stream, so the same seed always yields
// bit-identical encodings. An Encoder is read-only after construction and safe
// for concurrent use.
package encoder

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	// ErrDimensionMismatch is returned when a feature vector or weight block
	// does not match the configured shape.
	ErrDimensionMismatch = errors.New("encoder: dimension mismatch")

	// ErrNonFinite is returned when a feature is NaN or ±Inf.
	ErrNonFinite = errors.New("encoder: non-finite feature")

	// ErrBadOption is returned for invalid constructor arguments.
	ErrBadOption = errors.New("encoder: invalid option")
)

// defaultSeed replaces a zero seed so that the zero value stays reproducible.
const defaultSeed int64 = 1

// Option configures an Encoder.
type Option func(*settings)

type settings struct {
	seed        int64
	temperature float64
	weights     [][][]float64
	biases      [][]float64
}

// WithSeed selects the weight stream; 0 means the fixed default seed.
func WithSeed(seed int64) Option {
	return func(s *settings) { s.seed = seed }
}

// WithTemperature sets the softmax temperature (must be > 0). Lower values
// sharpen distributions toward their argmax.
func WithTemperature(t float64) Option {
	return func(s *settings) { s.temperature = t }
}

// WithWeights installs explicit weights indexed [modulus][class][feature]
// and optional biases indexed [modulus][class] (nil means zero bias).
func WithWeights(weights [][][]float64, biases [][]float64) Option {
	return func(s *settings) {
		s.weights = weights
		s.biases = biases
	}
}

// Encoder scores features against every residue class of every modulus.
type Encoder struct {
	moduli      []uint64
	dim         int
	temperature float64
	weights     [][][]float64 // [i][v][d]
	biases      [][]float64   // [i][v]
}

// New builds an Encoder for the given moduli and feature dimension.
func New(moduli []uint64, featureDim int, opts ...Option) (*Encoder, error) {
	if len(moduli) == 0 {
		return nil, fmt.Errorf("encoder.New: no moduli: %w", ErrBadOption)
	}
	if featureDim < 1 {
		return nil, fmt.Errorf("encoder.New: featureDim=%d: %w", featureDim, ErrBadOption)
	}
	for _, m := range moduli {
		if m < 2 {
			return nil, fmt.Errorf("encoder.New: modulus %d: %w", m, ErrBadOption)
		}
	}
	s := settings{temperature: 1}
	for _, opt := range opts {
		opt(&s)
	}
	if !(s.temperature > 0) || math.IsInf(s.temperature, 0) {
		return nil, fmt.Errorf("encoder.New: temperature=%v: %w", s.temperature, ErrBadOption)
	}

	e := &Encoder{
		moduli:      append([]uint64(nil), moduli...),
		dim:         featureDim,
		temperature: s.temperature,
	}
	if s.weights != nil {
		if err := e.adoptWeights(s.weights, s.biases); err != nil {
			return nil, err
		}
		return e, nil
	}
	e.drawWeights(s.seed)

	return e, nil
}

// adoptWeights deep-copies caller weights after a full shape check.
func (e *Encoder) adoptWeights(w [][][]float64, b [][]float64) error {
	if len(w) != len(e.moduli) || (b != nil && len(b) != len(e.moduli)) {
		return fmt.Errorf("encoder.New: weights for %d moduli: %w", len(w), ErrDimensionMismatch)
	}
	e.weights = make([][][]float64, len(w))
	e.biases = make([][]float64, len(w))
	for i, m := range e.moduli {
		if uint64(len(w[i])) != m {
			return fmt.Errorf("encoder.New: modulus %d has %d weight rows: %w", m, len(w[i]), ErrDimensionMismatch)
		}
		e.weights[i] = make([][]float64, m)
		for v := range w[i] {
			if len(w[i][v]) != e.dim {
				return fmt.Errorf("encoder.New: modulus %d class %d has %d weights: %w", m, v, len(w[i][v]), ErrDimensionMismatch)
			}
			e.weights[i][v] = append([]float64(nil), w[i][v]...)
		}
		e.biases[i] = make([]float64, m)
		if b != nil {
			if uint64(len(b[i])) != m {
				return fmt.Errorf("encoder.New: modulus %d has %d biases: %w", m, len(b[i]), ErrDimensionMismatch)
			}
			copy(e.biases[i], b[i])
		}
	}

	return nil
}

// drawWeights fills weights with N(0, 1/d) draws from a seeded stream.
// The draw order (modulus, class, feature) is fixed.
func (e *Encoder) drawWeights(seed int64) {
	if seed == 0 {
		seed = defaultSeed
	}
	rng := rand.New(rand.NewSource(seed))
	scale := 1 / math.Sqrt(float64(e.dim))
	e.weights = make([][][]float64, len(e.moduli))
	e.biases = make([][]float64, len(e.moduli))
	for i, m := range e.moduli {
		e.weights[i] = make([][]float64, m)
		e.biases[i] = make([]float64, m)
		for v := uint64(0); v < m; v++ {
			row := make([]float64, e.dim)
			for d := range row {
				row[d] = rng.NormFloat64() * scale
			}
			e.weights[i][v] = row
		}
	}
}

// Moduli returns a copy of the encoder's moduli.
func (e *Encoder) Moduli() []uint64 { return append([]uint64(nil), e.moduli...) }

// FeatureDim returns the expected feature length.
func (e *Encoder) FeatureDim() int { return e.dim }

// Encode returns one probability vector per modulus, each summing to 1.
//
// Complexity: O(d · Σ m_i).
func (e *Encoder) Encode(features []float64) ([][]float64, error) {
	if len(features) != e.dim {
		return nil, fmt.Errorf("Encode: got %d features, want %d: %w", len(features), e.dim, ErrDimensionMismatch)
	}
	for j, x := range features {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("Encode: feature[%d]=%v: %w", j, x, ErrNonFinite)
		}
	}

	out := make([][]float64, len(e.moduli))
	for i, m := range e.moduli {
		logits := make([]float64, m)
		for v := range logits {
			s := e.biases[i][v]
			for d, w := range e.weights[i][v] {
				s += w * features[d]
			}
			logits[v] = s / e.temperature
		}
		out[i] = softmax(logits)
	}

	return out, nil
}

// ExpectedResidues returns Σ_v v·P_i(v) for each distribution.
func (e *Encoder) ExpectedResidues(dists [][]float64) []float64 {
	return ExpectedResidues(dists)
}

// ExpectedResidues is the encoder-independent form of Encoder.ExpectedResidues.
func ExpectedResidues(dists [][]float64) []float64 {
	out := make([]float64, len(dists))
	for i, p := range dists {
		var s float64
		for v, pv := range p {
			s += float64(v) * pv
		}
		out[i] = s
	}

	return out
}

// ArgmaxResidues returns the most probable residue per modulus; ties resolve
// to the smallest residue.
func ArgmaxResidues(dists [][]float64) []uint64 {
	out := make([]uint64, len(dists))
	for i, p := range dists {
		best := 0
		for v := 1; v < len(p); v++ {
			if p[v] > p[best] {
				best = v
			}
		}
		out[i] = uint64(best)
	}

	return out
}

// softmax is the max-shifted, overflow-safe normalization.
func softmax(logits []float64) []float64 {
	maxL := math.Inf(-1)
	for _, l := range logits {
		if l > maxL {
			maxL = l
		}
	}
	out := make([]float64, len(logits))
	var sum float64
	for v, l := range logits {
		out[v] = math.Exp(l - maxL)
		sum += out[v]
	}
	for v := range out {
		out[v] /= sum
	}

	return out
}
