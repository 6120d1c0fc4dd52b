// Package crt reconstructs integers from residues modulo a pairwise-coprime
// moduli set (Chinese Remainder Theorem) and scores how far a vector of
// real-valued residue estimates is from an exact integer witness.
//
// A Reconstructor is built once from its moduli; construction precomputes the
// product P and, per modulus, the cofactor M_i = P/m_i and its inverse
// M_i⁻¹ mod m_i. Construction fails with ErrInvalidModuli when the set has
// fewer than two moduli, contains a modulus ≤ 1, or two moduli share a
// factor. After construction a Reconstructor is read-only and safe for
// concurrent use.
//
// Reconstruction:
//
//	x = (Σ r_i · M_i · M_i⁻¹) mod P,   x ∈ [0, P)
//
// Reconstruct works in checked 64-bit arithmetic (128-bit intermediate
// products) and refuses with ErrOverflow when P ≥ 2^64; ReconstructBig is
// exact for any P.
//
// Consistency scoring:
//
//	error(r) = Σ |r_i − trunc(r_i)|
//
// is 0 exactly when every residue is an integer and grows with deviation from
// integrality. A vector is a kernel member when error > τ.
package crt
