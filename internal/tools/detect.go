package tools

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrToolNotFound is returned when a tool is not in PATH.
var ErrToolNotFound = errors.New("tool not found in PATH")

// minimums holds the lowest supported version of each known tool.
var minimums = map[string]string{
	"npm":  "7.0.0",
	"pnpm": "7.0.0",
	"yarn": "1.22.0",
	"git":  "2.0.0",
}

// versionRegex matches the first dotted version in tool output,
// e.g. "git version 2.43.0" or "10.2.4".
var versionRegex = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z.]+)?)`)

// Info describes a detected external tool.
type Info struct {
	Name       string `json:"name"`
	Path       string `json:"path,omitempty"`
	Version    string `json:"version,omitempty"`
	Minimum    string `json:"minimum,omitempty"`
	Found      bool   `json:"found"`
	Compatible bool   `json:"compatible"`
	Message    string `json:"message,omitempty"`
}

// Minimum returns the minimum supported version for name, or "" when
// nicky-ball does not check it.
func Minimum(name string) string {
	return minimums[name]
}

// Detect locates name in PATH, asks it for its version and compares the
// result against the known minimum. Only a missing binary is an error;
// an unparseable or old version yields Compatible=false.
func Detect(ctx context.Context, runner CommandRunner, name string) (Info, error) {
	info := Info{Name: name, Minimum: Minimum(name)}

	path, err := runner.LookPath(name)
	if err != nil {
		info.Message = fmt.Sprintf("%s not found in PATH", name)
		return info, fmt.Errorf("%s: %w", name, ErrToolNotFound)
	}
	info.Path = path
	info.Found = true

	res, err := runner.Run(ctx, path, []string{"--version"}, RunOpts{})
	if err != nil || res.ExitCode != 0 {
		info.Message = fmt.Sprintf("could not query %s version", name)
		return info, nil
	}

	version, err := ExtractVersion(res.Stdout + res.Stderr)
	if err != nil {
		info.Message = err.Error()
		return info, nil
	}
	info.Version = version

	info.Compatible, info.Message = CheckMinimum(name, version)
	return info, nil
}

// ExtractVersion pulls the first version number out of command output.
func ExtractVersion(output string) (string, error) {
	m := versionRegex.FindStringSubmatch(strings.TrimSpace(output))
	if m == nil {
		return "", fmt.Errorf("failed to parse version from output: %q", strings.TrimSpace(output))
	}
	return m[1], nil
}

// CheckMinimum compares version against the minimum for name.
// Tools without a minimum are always compatible.
func CheckMinimum(name, version string) (bool, string) {
	minimum := Minimum(name)
	if minimum == "" {
		return true, ""
	}

	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return false, fmt.Sprintf("unrecognized %s version %q", name, version)
	}

	constraint, err := semver.NewConstraint(">= " + minimum)
	if err != nil {
		return false, err.Error()
	}

	if !constraint.Check(v) {
		return false, fmt.Sprintf("%s %s is older than the supported minimum %s", name, v, minimum)
	}
	return true, fmt.Sprintf("%s %s", name, v)
}
