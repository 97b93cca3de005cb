// Package testutil provides test helpers for CLI tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

// TempDir creates a temporary directory for tests and returns a cleanup function.
func TempDir(t *testing.T) (string, func()) {
	t.Helper()
	dir, err := os.MkdirTemp("", "nicky-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	return dir, func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Logf("warning: failed to remove temp dir %s: %v", dir, err)
		}
	}
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content of dir/name, failing the test if it is missing.
func ReadFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(data)
}

// TemplateRoot returns an in-memory templates root holding a minimal TR3F
// set with a package.json and a WORKFLOWS set. Extra entries are merged
// in and override the defaults; a nil value deletes a default entry.
func TemplateRoot(extra map[string]*fstest.MapFile) fstest.MapFS {
	root := fstest.MapFS{
		"TR3F/package.json":       {Data: []byte("{\n  \"name\": \"tr3f-app\",\n  \"version\": \"0.1.0\",\n  \"scripts\": {\n    \"dev\": \"vite\"\n  }\n}\n"), Mode: 0o644},
		"TR3F/src/App.tsx":        {Data: []byte("export default function App() { return null }\n"), Mode: 0o644},
		"WORKFLOWS/n8n/flow.json": {Data: []byte("{\"name\": \"flow\"}\n"), Mode: 0o644},
	}
	for name, f := range extra {
		if f == nil {
			delete(root, name)
			continue
		}
		root[name] = f
	}
	return root
}
