// SPDX-License-Identifier: MIT

package crt

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"

	"github.com/katalvlaran/crtfuse/modarith"
)

// Reconstructor holds a validated moduli set and its CRT coefficients.
type Reconstructor struct {
	moduli  []uint64
	coeffs  []Coefficient
	product *big.Int

	// weights[i] = M_i · (M_i⁻¹ mod m_i) mod P, the basis vector for channel i.
	weights []*big.Int

	// 64-bit fast path, valid only when fits.
	fits      bool
	product64 uint64
	weights64 []uint64
}

// NewReconstructor validates moduli and precomputes P and the coefficients.
//
// Stage 1 (Validate): count ≥ MinModuli, every m_i ≥ 2, pairwise coprime.
// Stage 2 (Prepare):  P = ∏ m_i in arbitrary precision.
// Stage 3 (Execute):  M_i, M_i⁻¹ mod m_i and the basis weights.
//
// Complexity: O(k²·log m) validation plus O(k) big-integer work.
func NewReconstructor(moduli []uint64) (*Reconstructor, error) {
	if len(moduli) < MinModuli {
		return nil, fmt.Errorf("NewReconstructor: %d moduli, need ≥ %d: %w", len(moduli), MinModuli, ErrInvalidModuli)
	}
	for idx, m := range moduli {
		if m < 2 {
			return nil, fmt.Errorf("NewReconstructor: modulus[%d]=%d: %w", idx, m, ErrInvalidModuli)
		}
	}
	if i, j, ok := modarith.PairwiseCoprime(moduli); !ok {
		return nil, fmt.Errorf("NewReconstructor: gcd(%d,%d) != 1: %w", moduli[i], moduli[j], ErrInvalidModuli)
	}

	r := &Reconstructor{
		moduli:  append([]uint64(nil), moduli...),
		coeffs:  make([]Coefficient, len(moduli)),
		weights: make([]*big.Int, len(moduli)),
		product: big.NewInt(1),
	}
	for _, m := range moduli {
		r.product.Mul(r.product, new(big.Int).SetUint64(m))
	}

	for i, m := range r.moduli {
		bm := new(big.Int).SetUint64(m)
		cofactor := new(big.Int).Quo(r.product, bm)
		// Unreachable for a coprime set; kept as the construction-time guard.
		inv, err := modarith.ModInverseBig(cofactor, bm)
		if err != nil {
			return nil, fmt.Errorf("NewReconstructor: cofactor of %d: %w", m, err)
		}
		r.coeffs[i] = Coefficient{Modulus: m, Cofactor: cofactor, Inverse: inv.Uint64()}
		w := new(big.Int).Mul(cofactor, inv)
		r.weights[i] = w.Mod(w, r.product)
	}

	if r.product.IsUint64() {
		r.fits = true
		r.product64 = r.product.Uint64()
		r.weights64 = make([]uint64, len(r.weights))
		for i, w := range r.weights {
			r.weights64[i] = w.Uint64()
		}
	}

	return r, nil
}

// Moduli returns a copy of the moduli set.
func (r *Reconstructor) Moduli() []uint64 {
	return append([]uint64(nil), r.moduli...)
}

// Len returns the number of moduli (residue channels).
func (r *Reconstructor) Len() int { return len(r.moduli) }

// Product returns a copy of P.
func (r *Reconstructor) Product() *big.Int {
	return new(big.Int).Set(r.product)
}

// ProductFits reports whether P < 2^64, i.e. whether Reconstruct is usable.
func (r *Reconstructor) ProductFits() bool { return r.fits }

// Coefficients returns a deep copy of the per-modulus CRT pairs.
func (r *Reconstructor) Coefficients() []Coefficient {
	out := make([]Coefficient, len(r.coeffs))
	for i, c := range r.coeffs {
		out[i] = Coefficient{Modulus: c.Modulus, Cofactor: new(big.Int).Set(c.Cofactor), Inverse: c.Inverse}
	}

	return out
}

// MaxError is the supremum of ReconstructionError: every fractional part is < 1.
func (r *Reconstructor) MaxError() float64 {
	return float64(len(r.moduli))
}

// Reconstruct returns the unique x ∈ [0, P) with x ≡ residues[i] (mod m_i).
// Residues ≥ m_i are reduced first. All arithmetic is 128-bit checked.
//
// Errors: ErrResidueCount, ErrOverflow (use ReconstructBig).
// Complexity: O(k).
func (r *Reconstructor) Reconstruct(residues []uint64) (uint64, error) {
	if len(residues) != len(r.moduli) {
		return 0, fmt.Errorf("Reconstruct: got %d residues for %d moduli: %w", len(residues), len(r.moduli), ErrResidueCount)
	}
	if !r.fits {
		return 0, fmt.Errorf("Reconstruct: P=%v: %w", r.product, ErrOverflow)
	}

	var x uint64
	for i, res := range residues {
		term := mulMod(res%r.moduli[i], r.weights64[i], r.product64)
		x = addMod(x, term, r.product64)
	}

	return x, nil
}

// ReconstructBig is the arbitrary-precision form of Reconstruct.
func (r *Reconstructor) ReconstructBig(residues []uint64) (*big.Int, error) {
	if len(residues) != len(r.moduli) {
		return nil, fmt.Errorf("ReconstructBig: got %d residues for %d moduli: %w", len(residues), len(r.moduli), ErrResidueCount)
	}
	x := new(big.Int)
	term := new(big.Int)
	for i, res := range residues {
		term.SetUint64(res % r.moduli[i])
		term.Mul(term, r.weights[i])
		x.Add(x, term)
	}

	return x.Mod(x, r.product), nil
}

// Residues decomposes x into its residue vector (x mod m_i).
func (r *Reconstructor) Residues(x uint64) []uint64 {
	out := make([]uint64, len(r.moduli))
	for i, m := range r.moduli {
		out[i] = x % m
	}

	return out
}

// ResiduesBig decomposes an arbitrary-precision x; negative x is reduced
// into [0, m_i) per channel.
func (r *Reconstructor) ResiduesBig(x *big.Int) []uint64 {
	out := make([]uint64, len(r.moduli))
	rem := new(big.Int)
	bm := new(big.Int)
	for i, m := range r.moduli {
		bm.SetUint64(m)
		out[i] = rem.Mod(x, bm).Uint64()
	}

	return out
}

// ReconstructionError returns Σ |r_i − trunc(r_i)| over residues.
// NaN and ±Inf contribute a saturated deviation of 1.
func (r *Reconstructor) ReconstructionError(residues []float64) float64 {
	var sum float64
	for _, v := range residues {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			sum++
			continue
		}
		_, frac := math.Modf(v)
		sum += math.Abs(frac)
	}

	return sum
}

// DetectKernel reports whether the residues are inconsistent beyond tau.
func (r *Reconstructor) DetectKernel(residues []float64, tau float64) bool {
	return r.ReconstructionError(residues) > tau
}

// Validate bundles the error, the kernel flag and a validity flag that also
// requires one residue per modulus.
func (r *Reconstructor) Validate(residues []float64, tau float64) Validation {
	e := r.ReconstructionError(residues)
	in := e > tau

	return Validation{
		Valid:    !in && len(residues) == len(r.moduli),
		InKernel: in,
		Error:    e,
	}
}

// mulMod returns a·b mod m for a, b < m using a 128-bit product.
func mulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi, lo, m) // hi < m because a, b < m

	return rem
}

// addMod returns (a + b) mod m for a, b < m.
func addMod(a, b, m uint64) uint64 {
	s, carry := bits.Add64(a, b, 0)
	if carry != 0 || s >= m {
		s -= m
	}

	return s
}
