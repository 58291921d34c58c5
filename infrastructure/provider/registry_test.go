package provider

import (
	"errors"
	"testing"

	domainprovider "github.com/felixgeelhaar/workflow-go/domain/provider"
)

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	for _, key := range domainprovider.AllKeys() {
		adapter, err := r.Lookup(key)
		if err != nil {
			t.Errorf("Lookup(%s) error = %v", key, err)
			continue
		}
		if adapter.Name() != key {
			t.Errorf("Lookup(%s).Name() = %s", key, adapter.Name())
		}
	}
}

func TestRegistry_Lookup_Unknown(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	_, err := r.Lookup(domainprovider.Key("palm"))
	var unsupported *domainprovider.UnsupportedProviderError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Lookup() error = %v, want UnsupportedProviderError", err)
	}
}

func TestRegistry_Register_Replaces(t *testing.T) {
	t.Parallel()

	r := NewEmptyRegistry()
	a := NewOllama()
	r.Register(a)

	got, err := r.Lookup(domainprovider.KeyOllama)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got != Adapter(a) {
		t.Error("Lookup() returned a different adapter")
	}
	if len(r.Keys()) != 1 {
		t.Errorf("Keys() = %v, want one entry", r.Keys())
	}
}
