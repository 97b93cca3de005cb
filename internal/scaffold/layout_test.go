package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/nickyball/cli/internal/errors"
)

func TestPlanLayout(t *testing.T) {
	l := PlanLayout("/work", "demo")

	assert.Equal(t, filepath.Join("/work", "demo"), l.Root)
	assert.Equal(t, []string{"assets", "scripts", "tools"}, l.Subdirs)
	assert.Equal(t, filepath.Join("/work", "demo", "scripts", "generation.txt"), l.Path("scripts/generation.txt"))
}

func TestLayout_Create(t *testing.T) {
	t.Run("creates parent, root and subdirectories", func(t *testing.T) {
		work := filepath.Join(t.TempDir(), "missing-parent")
		l := PlanLayout(work, "demo")

		require.NoError(t, l.Create())

		for _, d := range Subdirectories() {
			info, err := os.Stat(filepath.Join(l.Root, d))
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		l := PlanLayout(t.TempDir(), "demo")
		require.NoError(t, l.Create())
		require.NoError(t, os.WriteFile(l.Path("assets/keep.txt"), []byte("x"), 0o644))

		require.NoError(t, l.Create())

		_, err := os.Stat(l.Path("assets/keep.txt"))
		assert.NoError(t, err)
	})

	t.Run("blocked by a file", func(t *testing.T) {
		work := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(work, "demo"), []byte("not a dir"), 0o644))

		err := PlanLayout(work, "demo").Create()

		require.Error(t, err)
		assert.ErrorIs(t, err, oerrors.ErrPath)
		assert.Equal(t, oerrors.ExitScaffoldError, oerrors.ExitCodeFromError(err))
	})
}
