package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binary string

func TestMain(m *testing.M) {
	// Build the binary once for all tests
	tmpDir, err := os.MkdirTemp("", "nicky-ball-e2e-*")
	if err != nil {
		panic("failed to create temp dir: " + err.Error())
	}

	binary = filepath.Join(tmpDir, "nicky-ball")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	cmd := exec.CommandContext(ctx, "go", "build", "-o", binary, ".")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		cancel()
		os.RemoveAll(tmpDir)
		panic("failed to build nicky-ball binary: " + err.Error())
	}
	cancel() // Call cancel explicitly before os.Exit

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// run executes the binary in workDir with an isolated HOME.
func run(t *testing.T, workDir string, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	return runEnv(t, workDir, nil, args...)
}

// runEnv is run with extra environment entries that override the defaults.
func runEnv(t *testing.T, workDir string, env []string, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(),
		"HOME="+t.TempDir(),
		"NICKY_CONFIG=",
		"NICKY_TEMPLATES_DIR=",
		"NICKY_DEFAULT_TYPE=",
		"NICKY_PACKAGE_MANAGER=",
		"NICKY_INSTALL=",
	)
	cmd.Env = append(cmd.Env, env...)

	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf

	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(out), errBuf.String(), exitErr.ExitCode()
	}
	require.NoError(t, err)
	return string(out), errBuf.String(), 0
}

func TestE2E_Create(t *testing.T) {
	dir := t.TempDir()

	stdout, stderr, code := run(t, dir, "create", "demo", "--no-install", "--with-workflows")
	require.Equal(t, 0, code, "stderr: %s", stderr)

	root := filepath.Join(dir, "demo")
	assert.FileExists(t, filepath.Join(root, "README.md"))
	assert.FileExists(t, filepath.Join(root, "package.json"))
	assert.FileExists(t, filepath.Join(root, "docker-compose.yml"))
	assert.FileExists(t, filepath.Join(root, "scripts", "generation.txt"))
	assert.DirExists(t, filepath.Join(root, "assets"))
	assert.Contains(t, stdout, "Next steps:")

	manifest, err := os.ReadFile(filepath.Join(root, "package.json"))
	require.NoError(t, err)
	var pkg struct {
		Scripts map[string]string `json:"scripts"`
	}
	require.NoError(t, json.Unmarshal(manifest, &pkg))
	assert.Contains(t, pkg.Scripts, "start:dev")
	assert.Contains(t, pkg.Scripts, "generate:ai")
}

func TestE2E_Create_FallbackJSON(t *testing.T) {
	dir := t.TempDir()

	stdout, stderr, code := run(t, dir, "create", "demo", "--type=React", "--no-install", "-o", "json")
	require.Equal(t, 0, code, "stderr: %s", stderr)

	var report struct {
		Template     string `json:"template"`
		UsedFallback bool   `json:"usedFallback"`
		Status       string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "TR3F", report.Template)
	assert.True(t, report.UsedFallback)
	assert.Equal(t, "completed-with-warnings", report.Status)
}

func TestE2E_Create_JSONWithInstall(t *testing.T) {
	dir := t.TempDir()

	bin := t.TempDir()
	stub := "#!/bin/sh\nif [ \"$1\" = \"--version\" ]; then echo 10.9.0; exit 0; fi\necho \"added 42 packages in 1s\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(bin, "npm"), []byte(stub), 0o755))

	env := []string{"PATH=" + bin + string(os.PathListSeparator) + os.Getenv("PATH")}
	stdout, stderr, code := runEnv(t, dir, env, "create", "demo", "-o", "json")
	require.Equal(t, 0, code, "stderr: %s", stderr)

	var report struct {
		Steps []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"steps"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report), "stdout: %s", stdout)
	assert.Contains(t, stderr, "added 42 packages")

	for _, s := range report.Steps {
		if s.Name == "install" {
			assert.Equal(t, "ok", s.Status)
		}
	}
}

func TestE2E_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"invalid name", []string{"create", "bad/name", "--no-install"}, 2},
		{"invalid package manager", []string{"create", "demo", "--package-manager", "bower"}, 2},
		{"unknown template", []string{"template", "show", "NOPE"}, 5},
		{"missing config", []string{"config", "vet"}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, code := run(t, t.TempDir(), tt.args...)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestE2E_ConfigInitThenVet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	_, stderr, code := run(t, dir, "config", "init", "--config", path)
	require.Equal(t, 0, code, "stderr: %s", stderr)

	stdout, stderr, code := run(t, dir, "config", "vet", "--config", path)
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Configuration is valid")
}
