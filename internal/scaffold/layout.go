package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	oerrors "github.com/nickyball/cli/internal/errors"
)

// Fixed project subdirectories.
const (
	DirAssets  = "assets"
	DirScripts = "scripts"
	DirTools   = "tools"
)

// Subdirectories returns the fixed subdirectories in creation order.
func Subdirectories() []string {
	return []string{DirAssets, DirScripts, DirTools}
}

// Layout is the directory layout of a new project.
type Layout struct {
	Root    string
	Subdirs []string
}

// PlanLayout computes the layout for projectName under workingDir.
func PlanLayout(workingDir, projectName string) Layout {
	return Layout{
		Root:    filepath.Join(workingDir, projectName),
		Subdirs: Subdirectories(),
	}
}

// Path returns the absolute path of a slash-separated path inside the root.
func (l Layout) Path(rel string) string {
	return filepath.Join(l.Root, filepath.FromSlash(rel))
}

// Create makes the parent of the root, the root and every subdirectory.
// Existing directories are left as they are.
func (l Layout) Create() error {
	dirs := []string{filepath.Dir(l.Root), l.Root}
	for _, d := range l.Subdirs {
		dirs = append(dirs, filepath.Join(l.Root, d))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w: %w", dir, oerrors.ErrPath, err)
		}
	}

	return nil
}
