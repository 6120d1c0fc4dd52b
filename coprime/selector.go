package coprime

import (
	"fmt"
	"math/bits"
)

// Selector picks moduli sets. The zero value is not usable; call NewSelector.
type Selector struct {
	registry *Registry
}

// NewSelector returns a Selector backed by DefaultRegistry unless
// WithRegistry supplies another one.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{registry: DefaultRegistry()}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Registry exposes the preset registry owned by s.
func (s *Selector) Registry() *Registry {
	return s.registry
}

// SelectMinimal returns the k smallest pairwise-coprime integers ≥ 2,
// which are the first k primes.
//
// Complexity: one IsPrime call per odd candidate up to the k-th prime.
func (s *Selector) SelectMinimal(k int) ([]uint64, error) {
	if k < 1 || k > MaxMinimalCount {
		return nil, fmt.Errorf("SelectMinimal(%d): %w", k, ErrBadCount)
	}
	out := make([]uint64, 0, k)
	var p uint64
	for len(out) < k {
		p = nextPrime(p)
		out = append(out, p)
	}

	return out, nil
}

// SelectForProduct greedily accumulates primes 2, 3, 5, ... while the running
// product stays ≤ target. The product is overflow-checked so the loop also
// stops at the 64-bit boundary.
func (s *Selector) SelectForProduct(target uint64) ([]uint64, error) {
	if target < 2 {
		return nil, fmt.Errorf("SelectForProduct(%d): %w", target, ErrTargetTooSmall)
	}
	var (
		out     []uint64
		product uint64 = 1
		p       uint64
	)
	for {
		p = nextPrime(p)
		hi, lo := bits.Mul64(product, p)
		if hi != 0 || lo > target {
			break
		}
		product = lo
		out = append(out, p)
	}

	return out, nil
}

// SelectForDomain returns the preset registered under name.
func (s *Selector) SelectForDomain(name string) ([]uint64, error) {
	m, err := s.registry.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("SelectForDomain: %w", err)
	}

	return m, nil
}
