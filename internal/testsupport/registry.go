package testsupport

import (
	"testing"

	"taglog/internal/config"
	"taglog/internal/registry"
)

// MustOpenRegistry opens the registry configured by cfg and registers the
// seed entries.
func MustOpenRegistry(t testing.TB, cfg *config.Config, seed map[string]string) *registry.Registry {
	t.Helper()

	reg, err := registry.Open(cfg.Paths.RegistryFile, nil)
	if err != nil {
		t.Fatalf("registry.Open: %v", err)
	}
	for id, name := range seed {
		if err := reg.Set(id, name); err != nil {
			t.Fatalf("registry.Set(%q): %v", id, err)
		}
	}
	return reg
}
