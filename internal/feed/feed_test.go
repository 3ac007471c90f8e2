package feed

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFeed(t *testing.T, content string) *Feed {
	t.Helper()
	path := filepath.Join(t.TempDir(), "addresses.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return New(path)
}

func TestLoad_FirstSnapshotOnly(t *testing.T) {
	f := writeFeed(t, `[
		{"timestamp": "2024-03-15 10:00:00", "addresses": ["a1", "a2", "a3"]},
		{"timestamp": "2024-03-15 09:55:00", "addresses": ["stale"]}
	]`)

	got := f.Load()
	if len(got) != 3 {
		t.Fatalf("Expected 3 addresses, got %d", len(got))
	}
	if got[0] != "a1" || got[2] != "a3" {
		t.Errorf("Unexpected addresses: %v", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "nope.json"))
	if got := f.Load(); got != nil {
		t.Errorf("Expected nil for missing file, got %v", got)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	f := writeFeed(t, `{"not": "an array"`)
	if got := f.Load(); got != nil {
		t.Errorf("Expected nil for malformed feed, got %v", got)
	}
}

func TestLoad_EmptyArray(t *testing.T) {
	f := writeFeed(t, `[]`)
	if got := f.Load(); got != nil {
		t.Errorf("Expected nil for empty feed, got %v", got)
	}
}

func TestReset(t *testing.T) {
	f := writeFeed(t, `[{"timestamp": "t", "addresses": ["a1"]}]`)

	if err := f.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if got := f.Load(); got != nil {
		t.Errorf("Expected no addresses after reset, got %v", got)
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("Reset must write an empty array, got %q", string(data))
	}
}
