// Package version provides version information for the nicky-ball CLI.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/nickyball/cli/internal/tools"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// CUESDKVersion is the version of the CUE SDK used for config validation.
const CUESDKVersion = "v0.15.4"

// Info contains version information.
type Info struct {
	// Version is the CLI version (set via ldflags).
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"gitCommit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"buildDate"`

	// GoVersion is the Go version used to build.
	GoVersion string `json:"goVersion"`

	// CUESDKVersion is the CUE SDK version (embedded at build time).
	CUESDKVersion string `json:"cueSDKVersion"`
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:       Version,
		GitCommit:     GitCommit,
		BuildDate:     BuildDate,
		GoVersion:     runtime.Version(),
		CUESDKVersion: CUESDKVersion,
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("nicky-ball %s\n  Commit:    %s\n  Built:     %s\n  Go:        %s\n  CUE SDK:   %s",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.CUESDKVersion)
}

// ToolLine formats one detected tool for version output.
func ToolLine(t tools.Info) string {
	name := fmt.Sprintf("%-6s", t.Name)
	switch {
	case !t.Found:
		return fmt.Sprintf("  %s not found", name)
	case t.Version == "":
		return fmt.Sprintf("  %s unknown version (%s)", name, t.Path)
	case !t.Compatible:
		return fmt.Sprintf("  %s %s (%s)", name, t.Version, t.Message)
	default:
		return fmt.Sprintf("  %s %s", name, t.Version)
	}
}

// FullVersionString returns version information followed by the detected
// external tools.
func FullVersionString(info Info, detected []tools.Info) string {
	var b strings.Builder
	b.WriteString(info.String())
	if len(detected) == 0 {
		return b.String()
	}
	b.WriteString("\n\nTools:")
	for _, t := range detected {
		b.WriteString("\n")
		b.WriteString(ToolLine(t))
	}
	return b.String()
}
