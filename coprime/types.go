package coprime

import "errors"

// MaxMinimalCount bounds SelectMinimal; larger moduli sets overflow any
// practical reconstruction range long before this.
const MaxMinimalCount = 4096

var (
	// ErrBadCount is returned when SelectMinimal is asked for k < 1 or k > MaxMinimalCount.
	ErrBadCount = errors.New("coprime: count out of range")

	// ErrTargetTooSmall is returned when even the smallest candidate exceeds the product limit.
	ErrTargetTooSmall = errors.New("coprime: target smaller than first candidate")

	// ErrUnknownPreset is returned when a preset name is not registered.
	ErrUnknownPreset = errors.New("coprime: unknown preset")

	// ErrInvalidPreset is returned when a preset has fewer than two moduli,
	// a modulus ≤ 1, or a pair sharing a factor.
	ErrInvalidPreset = errors.New("coprime: invalid preset")
)

// Option configures a Selector.
type Option func(*Selector)

// WithRegistry installs a caller-owned preset registry.
// A nil registry is ignored and the default presets are kept.
func WithRegistry(r *Registry) Option {
	return func(s *Selector) {
		if r != nil {
			s.registry = r
		}
	}
}
