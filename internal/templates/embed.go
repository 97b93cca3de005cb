package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed all:sets
var embedded embed.FS

// Embedded returns the built-in template sets. Each top-level directory is
// one template.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "sets")
	if err != nil {
		// The embed directive guarantees "sets" exists.
		panic(fmt.Sprintf("templates: embedded sets missing: %v", err))
	}
	return sub
}

// Root returns the templates root for dir. An empty dir selects the
// embedded sets. The second return value describes the source for logging.
func Root(dir string) (fs.FS, string, error) {
	if dir == "" {
		return Embedded(), "embedded", nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, "", fmt.Errorf("templates directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, "", fmt.Errorf("templates directory %s: not a directory", dir)
	}

	return os.DirFS(dir), dir, nil
}

// Exists reports whether root contains a template directory called name.
// Only a single top-level path element names a template.
func Exists(root fs.FS, name string) bool {
	if name == "" || name == "." || strings.Contains(name, "/") || !fs.ValidPath(name) {
		return false
	}
	info, err := fs.Stat(root, name)
	return err == nil && info.IsDir()
}

// List returns every template found in root, merged with known metadata.
// Known templates missing from root are included with Available=false.
func List(root fs.FS) ([]Template, error) {
	entries, err := fs.ReadDir(root, ".")
	if err != nil {
		return nil, fmt.Errorf("reading templates root: %w", err)
	}

	seen := make(map[string]bool)
	var list []Template
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		t := Describe(e.Name())
		t.Name = e.Name()
		t.Available = true
		seen[Normalize(e.Name())] = true
		list = append(list, t)
	}

	for _, t := range Known() {
		if !seen[t.Name] {
			list = append(list, t)
		}
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// ListFiles returns every regular file of a template, relative to the
// template directory, in lexical order.
func ListFiles(root fs.FS, name string) ([]string, error) {
	if !Exists(root, name) {
		return nil, fmt.Errorf("template %q not found", name)
	}

	var files []string
	err := fs.WalkDir(root, name, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := p[len(name):]
		files = append(files, path.Clean(rel[1:]))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
