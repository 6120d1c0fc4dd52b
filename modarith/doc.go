// Package modarith provides the number-theoretic primitives shared by the
// residue engine: extended Euclid, modular inverse and coprimality checks.
//
// What:
//
//   - ExtendedGCD:     Bézout coefficients (g, x, y) with a·x + b·y = g;
//     g is math.MinInt64 only when the true gcd is 2^63.
//   - ModInverse:      the unique inverse of a modulo m in [0, m).
//   - AreCoprime:      gcd(a, b) == 1.
//   - PairwiseCoprime: first offending pair in a moduli set, if any.
//   - ModInverseBig:   arbitrary-precision inverse for cofactors that do not
//     fit in 64 bits.
//
// Errors:
//
//   - ErrBadModulus     modulus is not strictly positive
//   - ErrNotInvertible  gcd(a, m) != 1
//
// Complexity:
//
//   - ExtendedGCD, ModInverse: O(log min(a, b))
//   - PairwiseCoprime:         O(k² · log max(m))
//
// All functions are pure and safe for concurrent use.
package modarith
