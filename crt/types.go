package crt

import (
	"errors"
	"math/big"

	"github.com/katalvlaran/crtfuse/modarith"
)

var (
	// ErrInvalidModuli is returned at construction when the moduli are not a
	// valid CRT basis (count < 2, a modulus ≤ 1, or a shared factor).
	ErrInvalidModuli = errors.New("crt: invalid moduli")

	// ErrNotInvertible aliases modarith.ErrNotInvertible so errors.Is matches
	// the construction-time inversion guard from either package.
	ErrNotInvertible = modarith.ErrNotInvertible

	// ErrOverflow is returned by the 64-bit path when P does not fit in uint64.
	ErrOverflow = errors.New("crt: product exceeds 64 bits")

	// ErrResidueCount is returned when the residue vector length differs from
	// the number of moduli.
	ErrResidueCount = errors.New("crt: residue count does not match moduli")
)

// MinModuli is the smallest moduli set accepted by NewReconstructor.
const MinModuli = 2

// Coefficient is the precomputed CRT pair for one modulus.
type Coefficient struct {
	Modulus  uint64   `json:"modulus"`
	Cofactor *big.Int `json:"cofactor"` // M_i = P / m_i
	Inverse  uint64   `json:"inverse"`  // M_i⁻¹ mod m_i
}

// Validation is the outcome of Reconstructor.Validate.
type Validation struct {
	Valid    bool    `json:"valid"`
	InKernel bool    `json:"in_kernel"`
	Error    float64 `json:"error"`
}
