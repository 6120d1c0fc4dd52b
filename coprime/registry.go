// SPDX-License-Identifier: MIT

package coprime

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/crtfuse/modarith"
)

// builtinPresets are copied into every DefaultRegistry.
// byte and word cover 2^8 and 2^16 ranges with Fermat primes.
var builtinPresets = map[string][]uint64{
	"minimal":  {2, 3, 5},
	"small":    {2, 3, 5, 7},
	"byte":     {3, 5, 17},
	"word":     {3, 5, 17, 257},
	"standard": {7, 11, 13, 15, 17},
	"extended": {11, 13, 17, 19, 23, 29, 31},
	"wide":     {2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53},
}

// Registry maps preset names to moduli sets.
// It is safe for concurrent use; lookups return copies.
type Registry struct {
	mu      sync.RWMutex
	presets map[string][]uint64
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{presets: make(map[string][]uint64)}
}

// DefaultRegistry returns a new Registry holding the built-in presets.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for name, m := range builtinPresets {
		r.presets[name] = append([]uint64(nil), m...)
	}

	return r
}

// Register adds or replaces a preset after validating it.
func (r *Registry) Register(name string, moduli []uint64) error {
	if err := validatePreset(name, moduli); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presets[name] = append([]uint64(nil), moduli...)

	return nil
}

// Lookup returns a copy of the named preset.
func (r *Registry) Lookup(name string) ([]uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.presets[name]
	if !ok {
		return nil, fmt.Errorf("Lookup(%q): %w", name, ErrUnknownPreset)
	}

	return append([]uint64(nil), m...), nil
}

// Names returns the registered preset names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)

	return names
}

// presetDocument is the YAML shape accepted by LoadYAML.
type presetDocument struct {
	Presets map[string][]uint64 `yaml:"presets"`
}

// LoadYAML merges every preset of a YAML document into r. Either all presets
// are accepted or none is: validation runs before the first write.
func (r *Registry) LoadYAML(src io.Reader) error {
	var doc presetDocument
	dec := yaml.NewDecoder(src)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("coprime: decode presets: %w", err)
	}
	for name, m := range doc.Presets {
		if err := validatePreset(name, m); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for name, m := range doc.Presets {
		r.presets[name] = append([]uint64(nil), m...)
	}

	return nil
}

func validatePreset(name string, moduli []uint64) error {
	if name == "" {
		return fmt.Errorf("preset with empty name: %w", ErrInvalidPreset)
	}
	if len(moduli) < 2 {
		return fmt.Errorf("preset %q has %d moduli: %w", name, len(moduli), ErrInvalidPreset)
	}
	for _, m := range moduli {
		if m < 2 {
			return fmt.Errorf("preset %q has modulus %d: %w", name, m, ErrInvalidPreset)
		}
	}
	if i, j, ok := modarith.PairwiseCoprime(moduli); !ok {
		return fmt.Errorf("preset %q: moduli %d and %d share a factor: %w",
			name, moduli[i], moduli[j], ErrInvalidPreset)
	}

	return nil
}
