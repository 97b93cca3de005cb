// Package cmdutil provides shared command utilities for nicky-ball subcommands.
// It centralizes flag group management, error presentation and the
// translation of pipeline results into reports.
package cmdutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nickyball/cli/internal/config"
	"github.com/nickyball/cli/internal/output"
)

// ScaffoldFlags holds the flags of the create command.
type ScaffoldFlags struct {
	Type           string
	WithWorkflows  bool
	Generate       bool
	GenImages      bool
	RenderDiagrams bool
	NoInstall      bool
	PackageManager string
	TemplatesDir   string
	Timeout        time.Duration
	Output         string
	ShowDiff       bool
}

// AddTo registers the scaffold flags on the given cobra command.
func (f *ScaffoldFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Type, "type", "t", config.DefaultProjectType,
		"Project type (template set name)")
	cmd.Flags().BoolVar(&f.WithWorkflows, "with-workflows", false,
		"Include n8n/Flowise docker-compose and example flows")
	cmd.Flags().BoolVar(&f.Generate, "generate", false,
		"Run the local model to fill scripts/ai_overview.md")
	cmd.Flags().BoolVar(&f.GenImages, "gen-images", false,
		"Request image generation (implies --generate)")
	cmd.Flags().BoolVar(&f.RenderDiagrams, "render-diagrams", false,
		"Render PlantUML diagrams (not supported, recorded as skipped)")
	cmd.Flags().BoolVar(&f.NoInstall, "no-install", false,
		"Do not run the package manager")
	cmd.Flags().StringVar(&f.PackageManager, "package-manager", config.DefaultPackageManager,
		fmt.Sprintf("Package manager (%s)", strings.Join(config.ValidPackageManagers(), "|")))
	cmd.Flags().StringVar(&f.TemplatesDir, "templates-dir", "",
		"Directory holding template sets (default: built-in templates)")
	cmd.Flags().DurationVar(&f.Timeout, "timeout", 0,
		"Timeout for each external command (0 = none)")
	cmd.Flags().StringVarP(&f.Output, "output", "o", string(output.FormatText),
		fmt.Sprintf("Report format (%s)", strings.Join(output.ValidFormats(), ", ")))
	cmd.Flags().BoolVar(&f.ShowDiff, "show-diff", false,
		"Show the package.json changes")
}

// Changed returns value when the named flag was set explicitly, otherwise "".
// Unset flags must not shadow env or config values during resolution.
func Changed(cmd *cobra.Command, name, value string) string {
	if cmd.Flags().Changed(name) {
		return value
	}
	return ""
}

// Validate checks flag values that cobra cannot check itself.
func (f *ScaffoldFlags) Validate() error {
	if f.Timeout < 0 {
		return fmt.Errorf("--timeout must not be negative, got %s", f.Timeout)
	}
	if !output.ParseOutputFormat(f.Output).Valid() {
		return fmt.Errorf("invalid --output %q (valid: %s)", f.Output, strings.Join(output.ValidFormats(), ", "))
	}
	return nil
}
