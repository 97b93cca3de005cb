package scaffold

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	oerrors "github.com/nickyball/cli/internal/errors"
	"github.com/nickyball/cli/internal/templates"
)

// TemplateSelection records how the requested type was resolved.
type TemplateSelection struct {
	RequestedType string
	ResolvedType  string
	// Path is the template directory inside the templates root.
	Path         string
	UsedFallback bool
}

// ResolveTemplate maps requested to a template directory in root. An
// absent type falls back to templates.DefaultType; an absent default is
// ErrTemplateMissing. Internal sets are never project types.
func ResolveTemplate(root fs.FS, requested string) (TemplateSelection, error) {
	sel := TemplateSelection{RequestedType: templates.Normalize(requested)}
	if sel.RequestedType == "" {
		sel.RequestedType = templates.DefaultType
	}

	if isProjectType(root, sel.RequestedType) {
		sel.ResolvedType = sel.RequestedType
		sel.Path = sel.RequestedType
		return sel, nil
	}

	if sel.RequestedType != templates.DefaultType && templates.Exists(root, templates.DefaultType) {
		sel.ResolvedType = templates.DefaultType
		sel.Path = templates.DefaultType
		sel.UsedFallback = true
		return sel, nil
	}

	return sel, &oerrors.DetailError{
		Type:     "template missing",
		Message:  fmt.Sprintf("template %s not found and default template %s is missing", sel.RequestedType, templates.DefaultType),
		Location: sel.RequestedType,
		Hint:     "check --templates-dir or run 'nicky-ball template list'",
		Cause:    oerrors.ErrTemplateMissing,
	}
}

func isProjectType(root fs.FS, name string) bool {
	return !templates.Describe(name).Internal && templates.Exists(root, name)
}

// CopyTree copies every entry below src in root into dest, overwriting
// existing files. It returns the copied file paths relative to dest.
func CopyTree(root fs.FS, src, dest string) ([]string, error) {
	var copied []string

	err := fs.WalkDir(root, src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel := relativeTo(src, p)
		target := filepath.Join(dest, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		if err := copyFile(root, p, target, info.Mode().Perm()); err != nil {
			return err
		}
		copied = append(copied, rel)
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("copying %s: %w", src, err)
	}

	return copied, nil
}

func relativeTo(base, p string) string {
	if p == base {
		return "."
	}
	if base == "." {
		return path.Clean(p)
	}
	return path.Clean(strings.TrimPrefix(p, base+"/"))
}

// copyFile copies one file. Read-only sources such as embedded files
// still produce owner-writable copies.
func copyFile(root fs.FS, src, dst string, perm fs.FileMode) error {
	in, err := root.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	if perm == 0 {
		perm = 0o644
	}
	perm |= 0o200

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	if err := out.Close(); err != nil {
		return err
	}

	// OpenFile only applies perm to new files; keep overwritten files in sync.
	return os.Chmod(dst, perm)
}
