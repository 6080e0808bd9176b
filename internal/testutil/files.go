package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// SetupIngestBase returns a fresh base path for the ingestion directories.
// Nothing is created below it; the ingestion router builds its own layout.
func SetupIngestBase(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "ingest")
}

// WriteFile writes data to dir/name, creating dir if needed, and returns the full path.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// ListFiles returns the sorted names of the regular files directly inside dir.
// A missing directory yields an empty list.
func ListFiles(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}
	}
	if err != nil {
		t.Fatalf("Failed to list %s: %v", dir, err)
	}

	names := []string{}
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// ReadFile returns the contents of path, failing the test on error.
func ReadFile(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return data
}
