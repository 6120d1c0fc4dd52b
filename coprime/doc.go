// Package coprime chooses sets of pairwise-coprime moduli for the CRT engine.
//
// A Selector answers three kinds of requests:
//
//   - SelectMinimal(k)        the k smallest pairwise-coprime integers (the first k primes)
//   - SelectForProduct(limit) greedy prefix of primes whose product stays ≤ limit
//   - SelectForDomain(name)   a named preset looked up in the Selector's Registry
//
// The preset Registry is an explicitly constructed object owned by the
// Selector; there is no package-level mutable table. DefaultRegistry returns a
// fresh copy of the built-in presets every time, and Registry.LoadYAML merges
// presets from a YAML document of the form:
//
//	presets:
//	  sensor: [7, 11, 13]
//	  audio:  [3, 5, 17, 257]
//
// Primality uses deterministic Miller-Rabin witnesses; modular exponentiation
// is delegated to lattigo's ring.ModExp.
package coprime
