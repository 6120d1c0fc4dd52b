package coprime

import (
	"math/big"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// smallPrimes double as trial divisors and as the deterministic Miller-Rabin
// witness set, which is exact for every n < 3.3·10²⁴.
var smallPrimes = [...]uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}

// barrettLimit keeps ring.ModExp inside the operand range of its Barrett reduction.
const barrettLimit = uint64(1) << 62

// IsPrime reports whether n is prime.
//
// Stage 1: trial division by the witness primes.
// Stage 2: n ≥ 2^62 defers to math/big, exact below 2^64.
// Stage 3: Miller-Rabin with the fixed witness set.
//
// Complexity: O(log³ n).
func IsPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	for _, p := range smallPrimes {
		if n == p {
			return true
		}
		if n%p == 0 {
			return false
		}
	}
	if n >= barrettLimit {
		return new(big.Int).SetUint64(n).ProbablyPrime(0)
	}

	// n-1 = d·2^s with d odd
	d, s := n-1, 0
	for d%2 == 0 {
		d /= 2
		s++
	}
	for _, a := range smallPrimes {
		if !millerRabinRound(a, d, s, n) {
			return false
		}
	}

	return true
}

// millerRabinRound returns false when a witnesses that n is composite.
func millerRabinRound(a, d uint64, s int, n uint64) bool {
	x := ring.ModExp(a, d, n)
	if x == 1 || x == n-1 {
		return true
	}
	for r := 1; r < s; r++ {
		x = ring.ModExp(x, 2, n)
		if x == n-1 {
			return true
		}
	}

	return false
}

// nextPrime returns the smallest prime strictly greater than n.
func nextPrime(n uint64) uint64 {
	if n < 2 {
		return 2
	}
	c := n + 1
	if c > 2 && c%2 == 0 {
		c++
	}
	for !IsPrime(c) {
		c += 2
	}

	return c
}
