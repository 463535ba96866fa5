package modkit_test

import (
	"testing"

	"osmwatch/internal/modkit"
	phttp "osmwatch/internal/platform/net/http"
)

// statsStub is the smallest thing that counts as a module
type statsStub struct {
	mounted int
	ports   any
}

func (s *statsStub) MountRoutes(_ phttp.Router) { s.mounted++ }
func (s *statsStub) Ports() any                 { return s.ports }
func (s *statsStub) Name() string               { return "stats" }

var _ modkit.Module = (*statsStub)(nil)

func TestModule_Contract(t *testing.T) {
	t.Parallel()

	m := &statsStub{ports: []string{"Berlin", "Nairobi"}}

	var r phttp.Router // nil router is fine, MountRoutes only records the call
	m.MountRoutes(r)
	m.MountRoutes(r)
	if m.mounted != 2 {
		t.Fatalf("MountRoutes ran %d times, want 2", m.mounted)
	}

	if m.Name() != "stats" {
		t.Fatalf("Name = %q", m.Name())
	}
	roster, ok := m.Ports().([]string)
	if !ok || len(roster) != 2 {
		t.Fatalf("Ports = %#v", m.Ports())
	}
}

// Builder accepts the zero Deps, which is how module tests construct things
func TestBuilder_ZeroDeps(t *testing.T) {
	t.Parallel()

	var gotDeps modkit.Deps
	var b modkit.Builder = func(d modkit.Deps, _ ...modkit.Option) modkit.Module {
		gotDeps = d
		return &statsStub{ports: "ready"}
	}

	m := b(modkit.Deps{})
	if m == nil {
		t.Fatal("builder returned nil module")
	}
	if gotDeps.PG != nil || gotDeps.CH != nil {
		t.Fatalf("zero Deps should carry nil stores, got %+v", gotDeps)
	}
	if p := m.Ports(); p != "ready" {
		t.Fatalf("Ports = %v", p)
	}
}
