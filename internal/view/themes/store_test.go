package themes

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T, defaultTheme string) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prefs.db"), defaultTheme)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGet_DefaultWhenUnset(t *testing.T) {
	s := openTestStore(t, Dark)
	got, err := s.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != Dark {
		t.Errorf("theme = %q, want configured default", got)
	}
}

func TestOpen_InvalidDefaultFallsBackToLight(t *testing.T) {
	s := openTestStore(t, "sepia")
	got, err := s.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != Light {
		t.Errorf("theme = %q, want light", got)
	}
}

func TestSetGet(t *testing.T) {
	s := openTestStore(t, Light)

	if err := s.Set(Dark); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != Dark {
		t.Errorf("theme = %q, want dark", got)
	}

	// Overwrite.
	if err := s.Set(Light); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ = s.Get(); got != Light {
		t.Errorf("theme = %q, want light", got)
	}
}

func TestSet_RejectsInvalid(t *testing.T) {
	s := openTestStore(t, Light)
	if err := s.Set("neon"); err == nil {
		t.Error("expected error for invalid theme")
	}
}

func TestToggle(t *testing.T) {
	s := openTestStore(t, Light)

	got, err := s.Toggle()
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got != Dark {
		t.Errorf("first toggle = %q, want dark", got)
	}

	if got, _ = s.Toggle(); got != Light {
		t.Errorf("second toggle = %q, want light", got)
	}

	// Toggle persists.
	stored, _ := s.Get()
	if stored != Light {
		t.Errorf("stored theme = %q, want light", stored)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")

	s, err := Open(path, Light)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(Dark); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	s, err = Open(path, Light)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != Dark {
		t.Errorf("theme = %q, want dark after reopen", got)
	}
}
