// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"slices"
	"testing"
)

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register(Backend{Name: "test", Priority: 50, Factory: RecorderFactory})

	b, ok := r.Get("test")
	if !ok {
		t.Fatal("registered backend not found")
	}
	if b.Name != "test" {
		t.Errorf("Name = %s, want test", b.Name)
	}
	if b.Priority != 50 {
		t.Errorf("Priority = %d, want 50", b.Priority)
	}
}

func TestRegistryIgnoresNilFactory(t *testing.T) {
	r := NewRegistry()
	r.Register(Backend{Name: "broken"})
	if _, ok := r.Get("broken"); ok {
		t.Error("backend without a factory should not be registered")
	}
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register(Backend{Name: "temp", Factory: RecorderFactory})
	r.Unregister("temp")
	if _, ok := r.Get("temp"); ok {
		t.Error("backend should not exist after unregister")
	}
}

func TestRegistryNamesOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(Backend{Name: "low", Priority: 10, Factory: RecorderFactory})
	r.Register(Backend{Name: "high", Priority: 100, Factory: RecorderFactory})
	r.Register(Backend{Name: "mid-b", Priority: 50, Factory: RecorderFactory})
	r.Register(Backend{Name: "mid-a", Priority: 50, Factory: RecorderFactory})

	want := []string{"high", "mid-a", "mid-b", "low"}
	if got := r.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Lookup(""); !errors.Is(err, ErrNoBackend) {
		t.Errorf("Lookup(\"\") on empty registry = %v, want ErrNoBackend", err)
	}

	r.Register(Backend{Name: "rec", Priority: 1, Factory: RecorderFactory})
	f, err := r.Lookup("")
	if err != nil {
		t.Fatalf("Lookup(\"\") = %v", err)
	}
	s, err := f(4, 3)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if s.Width() != 4 || s.Height() != 3 {
		t.Errorf("surface size = %dx%d, want 4x3", s.Width(), s.Height())
	}

	_, err = r.Lookup("missing")
	var nf *BackendNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Lookup(missing) = %v, want *BackendNotFoundError", err)
	}
	if nf.Name != "missing" {
		t.Errorf("Name = %q, want missing", nf.Name)
	}
}

func TestGlobalBuiltins(t *testing.T) {
	names := Backends()
	if len(names) < 2 || names[0] != BackendGG {
		t.Fatalf("Backends() = %v, want gg first", names)
	}
	if !slices.Contains(names, BackendRecorder) {
		t.Errorf("Backends() = %v, missing recorder", names)
	}
	f, err := Lookup(BackendRecorder)
	if err != nil {
		t.Fatalf("Lookup(recorder) = %v", err)
	}
	s, err := f(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*Recorder); !ok {
		t.Errorf("recorder backend produced %T", s)
	}
}
