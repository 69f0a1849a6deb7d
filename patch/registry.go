package patch

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-webaudio/offline"
)

// Factory creates the proxy for one patch node on b's context.
type Factory func(b *Builder, p Params) (offline.AudioNode, error)

// Registry maps node type names to their factories.
type Registry struct {
	factories map[string]Factory
}

var errDuplicateType = errors.New("duplicate node type")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given node type.
func (r *Registry) Register(nodeType string, factory Factory) error {
	if nodeType == "" {
		return errors.New("empty node type")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[nodeType]; exists {
		return fmt.Errorf("%w: %s", errDuplicateType, nodeType)
	}

	r.factories[nodeType] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(nodeType string, factory Factory) {
	err := r.Register(nodeType, factory)
	if err != nil {
		panic("patch registry: " + err.Error())
	}
}

// Lookup returns the factory for the given node type, or nil.
func (r *Registry) Lookup(nodeType string) Factory {
	return r.factories[nodeType]
}

// DefaultRegistry returns a Registry with the gain, biquad, buffer-source
// and iir node types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister("gain", newGain)
	r.MustRegister("biquad", newBiquad)
	r.MustRegister("buffer-source", newBufferSource)
	r.MustRegister("iir", newIIR)

	return r
}
