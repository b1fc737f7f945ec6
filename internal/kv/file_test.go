package kv

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_GetMissing(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	_, ok, err := s.Get("versions")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Errorf("expected missing key, got found")
	}
}

func TestFileStore_SetGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	want := []byte(`{"versions":[],"activeVersionId":""}`)
	if err := s.Set("versions", want); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok, err := s.Get("versions")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected key to exist")
	}
	if string(got) != string(want) {
		t.Errorf("Get = %q; want %q", got, want)
	}

	// No temp file should survive the rename.
	if _, err := os.Stat(filepath.Join(dir, "versions.json.tmp")); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestFileStore_Delete(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if err := s.Set("trash", []byte(`{"entries":[]}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Delete("trash"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := s.Get("trash"); ok {
		t.Errorf("expected key gone after delete")
	}

	// Deleting an absent key is a no-op.
	if err := s.Delete("trash"); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}
}
