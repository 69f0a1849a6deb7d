package patch

import (
	"testing"

	"github.com/cwbudde/algo-webaudio/offline"
)

func dummyFactory(b *Builder, _ Params) (offline.AudioNode, error) {
	return b.Context().CreateGain(), nil
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	err := r.Register("tone", dummyFactory)
	if err != nil {
		t.Fatalf("Register returned unexpected error: %v", err)
	}

	if r.Lookup("tone") == nil {
		t.Fatal("Lookup returned nil for registered type")
	}

	if r.Lookup("other") != nil {
		t.Fatal("Lookup returned a factory for an unregistered type")
	}

	if r.Register("", dummyFactory) == nil {
		t.Error("expected error for empty node type")
	}

	if r.Register("x", nil) == nil {
		t.Error("expected error for nil factory")
	}

	if r.Register("tone", dummyFactory) == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()

	r := DefaultRegistry()
	r.MustRegister("gain", dummyFactory)
}

func TestDefaultRegistryTypes(t *testing.T) {
	r := DefaultRegistry()
	for _, typ := range []string{"gain", "biquad", "buffer-source", "iir"} {
		if r.Lookup(typ) == nil {
			t.Errorf("missing factory for %q", typ)
		}
	}
}
