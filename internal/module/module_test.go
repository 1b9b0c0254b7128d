package module

import (
	"testing"

	"github.com/s0cks/gel/internal/heap"
	"github.com/s0cks/gel/internal/local"
)

func TestRegisterRejectsDuplicateUnversioned(t *testing.T) {
	r := NewRegistry()
	a := &Module{Name: "core", Scope: local.NewScope(nil)}
	b := &Module{Name: "core", Scope: local.NewScope(nil)}
	if err := r.Register(a); err != nil {
		t.Fatalf("Register(a): %v", err)
	}
	if err := r.Register(b); err == nil {
		t.Fatalf("Register(b): want error registering duplicate unversioned module")
	}
}

func TestRegisterAllowsSemverUpgrade(t *testing.T) {
	r := NewRegistry()
	v1 := &Module{Name: "core", Version: "v1.0.0", Scope: local.NewScope(nil)}
	v2 := &Module{Name: "core", Version: "v1.1.0", Scope: local.NewScope(nil)}
	if err := r.Register(v1); err != nil {
		t.Fatalf("Register(v1): %v", err)
	}
	if err := r.Register(v2); err != nil {
		t.Fatalf("Register(v2): %v", err)
	}
	got, ok := r.Lookup("core")
	if !ok || got.Version != "v1.1.0" {
		t.Fatalf("Lookup(core) = %+v, %v, want v1.1.0", got, ok)
	}
}

func TestRegisterRejectsDowngrade(t *testing.T) {
	r := NewRegistry()
	v2 := &Module{Name: "core", Version: "v1.1.0", Scope: local.NewScope(nil)}
	v1 := &Module{Name: "core", Version: "v1.0.0", Scope: local.NewScope(nil)}
	if err := r.Register(v2); err != nil {
		t.Fatalf("Register(v2): %v", err)
	}
	if err := r.Register(v1); err == nil {
		t.Fatalf("Register(v1): want error registering a downgrade")
	}
}

func TestNamespaceQualifiedName(t *testing.T) {
	root := NewNamespace("gel")
	io := root.Child("io")
	fs := io.Child("fs")
	if got, want := fs.QualifiedName(), "gel:io:fs"; got != want {
		t.Fatalf("QualifiedName() = %q, want %q", got, want)
	}
	if got, want := fs.Qualify("read-file"), "gel:io:fs:read-file"; got != want {
		t.Fatalf("Qualify() = %q, want %q", got, want)
	}
}

func TestRegistryVisitPointersVisitsEveryModule(t *testing.T) {
	r := NewRegistry()
	scope := local.NewScope(nil)
	if _, err := scope.Add("x", heap.Address(7)); err != nil {
		t.Fatalf("scope.Add: %v", err)
	}
	if err := r.Register(&Module{Name: "core", Scope: scope}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	var seen []heap.Address
	r.VisitPointers(func(a *heap.Address) bool {
		seen = append(seen, *a)
		return true
	})
	if len(seen) != 1 || seen[0] != heap.Address(7) {
		t.Fatalf("VisitPointers visited %v, want [7]", seen)
	}
}
