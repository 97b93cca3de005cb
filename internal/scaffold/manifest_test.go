package scaffold

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/nickyball/cli/internal/errors"
	"github.com/nickyball/cli/internal/testutil"
)

func manifestLayout(t *testing.T, content string) Layout {
	t.Helper()
	l := PlanLayout(t.TempDir(), "demo")
	require.NoError(t, l.Create())
	if content != "" {
		testutil.WriteFile(t, l.Root, "package.json", content)
	}
	return l
}

func readScripts(t *testing.T, l Layout) map[string]string {
	t.Helper()
	var m struct {
		Scripts map[string]string `json:"scripts"`
	}
	require.NoError(t, json.Unmarshal([]byte(testutil.ReadFile(t, l.Root, "package.json")), &m))
	return m.Scripts
}

func TestPatchManifest_Absent(t *testing.T) {
	l := manifestLayout(t, "")

	patch, err := PatchManifest(l)

	require.NoError(t, err)
	assert.True(t, patch.Skipped)
	assert.NoFileExists(t, l.Path("package.json"))
}

func TestPatchManifest_AddsScripts(t *testing.T) {
	l := manifestLayout(t, `{"name": "demo", "version": "1.0.0"}`)

	patch, err := PatchManifest(l)
	require.NoError(t, err)

	assert.False(t, patch.Skipped)
	assert.True(t, patch.StartDevAdded)
	scripts := readScripts(t, l)
	assert.Equal(t, "vite", scripts["start:dev"])
	assert.Equal(t, GenerateAICommand, scripts["generate:ai"])
}

func TestPatchManifest_PreservesStartDevAndOverwritesGenerate(t *testing.T) {
	l := manifestLayout(t, `{
  "name": "demo",
  "scripts": {
    "start:dev": "next dev",
    "generate:ai": "echo old",
    "build": "vite build && tsc"
  }
}`)

	patch, err := PatchManifest(l)
	require.NoError(t, err)

	assert.False(t, patch.StartDevAdded)
	scripts := readScripts(t, l)
	assert.Equal(t, "next dev", scripts["start:dev"])
	assert.Equal(t, GenerateAICommand, scripts["generate:ai"])
	assert.Equal(t, "vite build && tsc", scripts["build"])
}

func TestPatchManifest_Formatting(t *testing.T) {
	l := manifestLayout(t, `{"name":"demo","version":"1.0.0","scripts":{"build":"a && b"},"count":3}`)

	_, err := PatchManifest(l)
	require.NoError(t, err)

	out := testutil.ReadFile(t, l.Root, "package.json")
	assert.True(t, strings.HasSuffix(out, "}\n"), "trailing newline")
	assert.Contains(t, out, "\n  \"name\": \"demo\"", "two-space indent")
	assert.Contains(t, out, "a && b", "no HTML escaping")
	assert.Contains(t, out, "\"count\": 3", "numbers kept as written")
}

func TestPatchManifest_KeepsOtherKeys(t *testing.T) {
	l := manifestLayout(t, `{"name": "demo", "dependencies": {"three": "^0.164.0"}, "private": true}`)

	_, err := PatchManifest(l)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(testutil.ReadFile(t, l.Root, "package.json")), &m))
	assert.Equal(t, true, m["private"])
	assert.Equal(t, map[string]any{"three": "^0.164.0"}, m["dependencies"])
}

func TestPatchManifest_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid json", content: `{"name": `},
		{name: "array", content: `["not", "an", "object"]`},
		{name: "string", content: `"hello"`},
		{name: "scripts not object", content: `{"name": "demo", "scripts": ["build"]}`},
		{name: "trailing data", content: `{"name": "demo"} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := manifestLayout(t, tt.content)

			_, err := PatchManifest(l)

			require.Error(t, err)
			assert.ErrorIs(t, err, oerrors.ErrManifestCorrupt)
			assert.Equal(t, oerrors.ExitScaffoldError, oerrors.ExitCodeFromError(err))
			assert.Equal(t, tt.content, testutil.ReadFile(t, l.Root, "package.json"), "corrupt manifest untouched")
		})
	}
}

func TestPatchManifest_NullScripts(t *testing.T) {
	l := manifestLayout(t, `{"name": "demo", "scripts": null}`)

	_, err := PatchManifest(l)
	require.NoError(t, err)

	assert.Equal(t, GenerateAICommand, readScripts(t, l)["generate:ai"])
}

func TestPatchManifest_SchemaWarnings(t *testing.T) {
	l := manifestLayout(t, `{"version": 2}`)

	patch, err := PatchManifest(l)
	require.NoError(t, err, "schema findings never fail the step")

	require.NotEmpty(t, patch.Warnings)
	joined := strings.Join(patch.Warnings, "\n")
	assert.Contains(t, joined, "name")
	assert.Contains(t, joined, "/version")
}

func TestCheckManifest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		findings, err := CheckManifest([]byte(`{"name": "demo", "version": "0.1.0", "scripts": {"dev": "vite"}}`))
		require.NoError(t, err)
		assert.Empty(t, findings)
	})

	t.Run("bad name and script type", func(t *testing.T) {
		findings, err := CheckManifest([]byte(`{"name": "Not Valid", "scripts": {"dev": 1}}`))
		require.NoError(t, err)
		joined := strings.Join(findings, "\n")
		assert.Contains(t, joined, "/name")
		assert.Contains(t, joined, "/scripts/dev")
	})
}
