package scaffold

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/nickyball/cli/internal/errors"
	"github.com/nickyball/cli/internal/testutil"
)

func TestResolveTemplate(t *testing.T) {
	root := testutil.TemplateRoot(map[string]*fstest.MapFile{
		"JSW/index.html": {Data: []byte("<html>")},
	})

	tests := []struct {
		name         string
		requested    string
		wantResolved string
		wantFallback bool
	}{
		{name: "exact", requested: "JSW", wantResolved: "JSW"},
		{name: "case-insensitive", requested: "jsw", wantResolved: "JSW"},
		{name: "trimmed", requested: "  tr3f ", wantResolved: "TR3F"},
		{name: "empty means default", requested: "", wantResolved: "TR3F"},
		{name: "unknown falls back", requested: "React", wantResolved: "TR3F", wantFallback: true},
		{name: "root is not a template", requested: ".", wantResolved: "TR3F", wantFallback: true},
		{name: "internal set is not a project type", requested: "workflows", wantResolved: "TR3F", wantFallback: true},
		{name: "nested path is not a template", requested: "TR3F/src", wantResolved: "TR3F", wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := ResolveTemplate(root, tt.requested)
			require.NoError(t, err)
			assert.Equal(t, tt.wantResolved, sel.ResolvedType)
			assert.Equal(t, tt.wantResolved, sel.Path)
			assert.Equal(t, tt.wantFallback, sel.UsedFallback)
		})
	}
}

func TestResolveTemplate_DefaultMissing(t *testing.T) {
	root := fstest.MapFS{"JSW/index.html": {Data: []byte("<html>")}}

	for _, requested := range []string{"React", "TR3F"} {
		t.Run(requested, func(t *testing.T) {
			sel, err := ResolveTemplate(root, requested)

			require.Error(t, err)
			assert.ErrorIs(t, err, oerrors.ErrTemplateMissing)
			assert.ErrorIs(t, err, oerrors.ErrNotFound)
			assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))
			assert.Empty(t, sel.ResolvedType)
		})
	}
}

func TestCopyTree(t *testing.T) {
	root := fstest.MapFS{
		"TR3F/package.json":     {Data: []byte("{}"), Mode: 0o644},
		"TR3F/src/App.tsx":      {Data: []byte("app"), Mode: 0o644},
		"TR3F/bin/run.sh":       {Data: []byte("#!/bin/sh"), Mode: 0o755},
		"TR3F/readonly.txt":     {Data: []byte("ro"), Mode: 0o444},
		"TR3F/scripts/seed.txt": {Data: []byte("seed"), Mode: 0o644},
		"OTHER/ignored.txt":     {Data: []byte("no")},
	}
	dest := t.TempDir()

	// Conflicting file created earlier must be overwritten.
	testutil.WriteFile(t, dest, "package.json", "old")

	files, err := CopyTree(root, "TR3F", dest)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"package.json", "src/App.tsx", "bin/run.sh", "readonly.txt", "scripts/seed.txt"}, files)
	assert.Equal(t, "{}", testutil.ReadFile(t, dest, "package.json"))
	assert.Equal(t, "app", testutil.ReadFile(t, dest, "src/App.tsx"))
	assert.NoFileExists(t, filepath.Join(dest, "ignored.txt"))

	info, err := os.Stat(filepath.Join(dest, "bin", "run.sh"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o100, "executable bit preserved")

	info, err = os.Stat(filepath.Join(dest, "readonly.txt"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o200, "copies are owner-writable")
}

func TestCopyTree_FromRoot(t *testing.T) {
	root := fstest.MapFS{
		"TR3F/package.json":   {Data: []byte("{}")},
		"WORKFLOWS/flow.json": {Data: []byte("{}")},
	}
	dest := t.TempDir()

	files, err := CopyTree(root, ".", dest)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"TR3F/package.json", "WORKFLOWS/flow.json"}, files)
	assert.FileExists(t, filepath.Join(dest, "TR3F", "package.json"))
	assert.FileExists(t, filepath.Join(dest, "WORKFLOWS", "flow.json"))
}

func TestRelativeTo(t *testing.T) {
	assert.Equal(t, ".", relativeTo("TR3F", "TR3F"))
	assert.Equal(t, "src/App.tsx", relativeTo("TR3F", "TR3F/src/App.tsx"))
	assert.Equal(t, "TR3F/src/App.tsx", relativeTo(".", "TR3F/src/App.tsx"))
	assert.Equal(t, ".", relativeTo(".", "."))
}

func TestCopyTree_MissingSource(t *testing.T) {
	_, err := CopyTree(fstest.MapFS{}, "NOPE", t.TempDir())
	assert.Error(t, err)
}
