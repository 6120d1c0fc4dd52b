// SPDX-License-Identifier: MIT

package modarith

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

var (
	// ErrBadModulus is returned when a modulus is zero or negative.
	ErrBadModulus = errors.New("modarith: modulus must be > 0")

	// ErrNotInvertible is returned when gcd(a, m) != 1.
	ErrNotInvertible = errors.New("modarith: value is not invertible")
)

// ExtendedGCD returns g = gcd(a, b) together with Bézout coefficients x, y
// such that a·x + b·y = g. The returned g is non-negative for every input
// except one family: when a and b are both in {0, math.MinInt64} and not both
// 0, the gcd is 2^63, which int64 cannot hold. ExtendedGCD then returns
// g = math.MinInt64 with coefficients that satisfy the identity exactly
// (no wrapping). Callers that accept arbitrary int64 input check g < 0.
// ExtendedGCD(0, 0) is (0, 1, 0).
//
// Complexity: O(log min(|a|, |b|)).
func ExtendedGCD(a, b int64) (g, x, y int64) {
	oldR, r := a, b
	oldS, s := int64(1), int64(0)
	oldT, t := int64(0), int64(1)
	for r != 0 {
		q := oldR / r // truncated division keeps the invariant oldR = a·oldS + b·oldT
		oldR, r = r, oldR-q*r
		oldS, s = s, oldS-q*s
		oldT, t = t, oldT-q*t
	}
	if oldR == math.MinInt64 {
		return oldR, oldS, oldT
	}
	if oldR < 0 {
		return -oldR, -oldS, -oldT
	}

	return oldR, oldS, oldT
}

// GCD returns the greatest common divisor of a and b. It is non-negative
// except for the 2^63 case documented on ExtendedGCD, where it is math.MinInt64.
func GCD(a, b int64) int64 {
	g, _, _ := ExtendedGCD(a, b)

	return g
}

// AreCoprime reports whether gcd(a, b) == 1.
func AreCoprime(a, b int64) bool {
	return GCD(a, b) == 1
}

// ModInverse returns the unique value inv in [0, m) with a·inv ≡ 1 (mod m).
// Negative a is normalized into [0, m) first. For m == 1 the inverse is 0.
//
// Errors: ErrBadModulus when m <= 0, ErrNotInvertible when gcd(a, m) != 1.
func ModInverse(a, m int64) (int64, error) {
	if m <= 0 {
		return 0, fmt.Errorf("ModInverse(%d,%d): %w", a, m, ErrBadModulus)
	}
	a %= m
	if a < 0 {
		a += m
	}
	g, x, _ := ExtendedGCD(a, m)
	if g != 1 {
		return 0, fmt.Errorf("ModInverse(%d,%d): gcd=%d: %w", a, m, g, ErrNotInvertible)
	}
	x %= m
	if x < 0 {
		x += m
	}

	return x, nil
}

// ModInverseBig is the arbitrary-precision counterpart of ModInverse.
// The result is a fresh *big.Int in [0, m); inputs are not modified.
func ModInverseBig(a, m *big.Int) (*big.Int, error) {
	if m == nil || m.Sign() <= 0 {
		return nil, fmt.Errorf("ModInverseBig: %w", ErrBadModulus)
	}
	norm := new(big.Int).Mod(a, m) // Mod is Euclidean, result in [0, m)
	if m.Cmp(big.NewInt(1)) == 0 {
		return new(big.Int), nil
	}
	inv := new(big.Int).ModInverse(norm, m)
	if inv == nil {
		return nil, fmt.Errorf("ModInverseBig(%v,%v): %w", a, m, ErrNotInvertible)
	}

	return inv, nil
}

// gcdUint64 is Euclid on unsigned values; moduli are uint64
// throughout the engine and may exceed math.MaxInt64.
func gcdUint64(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}

// PairwiseCoprime checks every pair of moduli. When a pair shares a factor it
// returns its indices (i < j) and ok=false; otherwise ok=true.
//
// Complexity: O(k²·log max(m)).
func PairwiseCoprime(moduli []uint64) (i, j int, ok bool) {
	for i = 0; i < len(moduli); i++ {
		for j = i + 1; j < len(moduli); j++ {
			if gcdUint64(moduli[i], moduli[j]) != 1 {
				return i, j, false
			}
		}
	}

	return -1, -1, true
}
