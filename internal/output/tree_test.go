package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderFileTree_Empty(t *testing.T) {
	assert.Equal(t, "", RenderFileTree("demo", nil))
}

func TestRenderFileTree_Structure(t *testing.T) {
	out := RenderFileTree("demo", map[string]string{
		"README.md":              "Project overview",
		"scripts/generation.txt": "Generation prompt",
		"tools/":                 "",
		"assets/":                "",
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "demo/", lines[0])
	// Directories sort before files.
	assert.Contains(t, lines[1], "assets/")
	assert.Contains(t, out, "generation.txt")
	assert.Contains(t, out, "Generation prompt")
	assert.Contains(t, lines[len(lines)-1], "README.md")
	assert.Contains(t, out, "tools/")
}
