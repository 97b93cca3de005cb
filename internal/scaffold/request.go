// Package scaffold implements the project scaffolding pipeline behind
// nicky-ball create: directory layout, template copy, generated content,
// manifest patching, workflow assets and the external setup commands.
package scaffold

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/nickyball/cli/internal/config"
	oerrors "github.com/nickyball/cli/internal/errors"
	"github.com/nickyball/cli/internal/templates"
)

// Request describes one scaffold run. It is not modified once Run starts.
type Request struct {
	// ProjectName is the directory and package name of the new project.
	ProjectName string

	// WorkingDir is the absolute directory the project is created in.
	WorkingDir string

	// ProjectType is the requested template type, case-insensitive.
	ProjectType string

	// WithWorkflows installs docker-compose.yml and tools/workflows.
	WithWorkflows bool

	// Install runs "<PackageManager> install" in the project root.
	Install bool

	// PackageManager is one of npm, pnpm or yarn.
	PackageManager string

	// Generate runs the local model to fill scripts/ai_overview.md.
	Generate bool

	// GenImages requests image generation. Implies Generate.
	GenImages bool

	// RenderDiagrams requests PlantUML rendering.
	RenderDiagrams bool

	// CommitMessage is the message of the initial git commit.
	CommitMessage string

	// GenerateEndpoint and GenerateModel configure the local model.
	GenerateEndpoint string
	GenerateModel    string

	// CommandTimeout bounds each external command. Zero means no timeout.
	CommandTimeout time.Duration
}

// NewRequest returns a Request with the documented defaults.
func NewRequest(projectName, workingDir string) Request {
	return Request{
		ProjectName:      projectName,
		WorkingDir:       workingDir,
		ProjectType:      templates.DefaultType,
		Install:          true,
		PackageManager:   config.DefaultPackageManager,
		CommitMessage:    config.DefaultCommitMessage,
		GenerateEndpoint: config.DefaultGenerateEndpoint,
		GenerateModel:    config.DefaultGenerateModel,
	}
}

// withDefaults fills empty fields and applies flag implications.
func (r Request) withDefaults() Request {
	if strings.TrimSpace(r.ProjectType) == "" {
		r.ProjectType = templates.DefaultType
	}
	if r.PackageManager == "" {
		r.PackageManager = config.DefaultPackageManager
	}
	if r.CommitMessage == "" {
		r.CommitMessage = config.DefaultCommitMessage
	}
	if r.GenerateEndpoint == "" {
		r.GenerateEndpoint = config.DefaultGenerateEndpoint
	}
	if r.GenerateModel == "" {
		r.GenerateModel = config.DefaultGenerateModel
	}
	if r.GenImages {
		r.Generate = true
	}
	return r
}

// Validate checks the request before any filesystem work happens.
func (r Request) Validate() error {
	if err := ValidateProjectName(r.ProjectName); err != nil {
		return err
	}

	if !filepath.IsAbs(r.WorkingDir) {
		return oerrors.NewValidationError(
			fmt.Sprintf("working directory %q is not absolute", r.WorkingDir),
			r.WorkingDir,
			"",
		)
	}

	if r.PackageManager != "" && !config.IsValidPackageManager(r.PackageManager) {
		return oerrors.NewValidationError(
			fmt.Sprintf("unsupported package manager %q", r.PackageManager),
			"",
			"use one of: "+strings.Join(config.ValidPackageManagers(), ", "),
		)
	}

	if r.CommandTimeout < 0 {
		return oerrors.NewValidationError("timeout must not be negative", "", "")
	}

	return nil
}

// ValidateProjectName checks that name is usable as a directory and
// package name: letters, digits, '-', '_' and '.', starting and ending
// with a letter or digit, at most 63 characters.
func ValidateProjectName(name string) error {
	if name == "" {
		return oerrors.NewValidationError("project name must not be empty", "", "nicky-ball create <project-name>")
	}

	if msgs := validation.IsValidLabelValue(name); len(msgs) > 0 {
		return oerrors.NewValidationError(
			fmt.Sprintf("invalid project name %q: %s", name, strings.Join(msgs, "; ")),
			"",
			"use letters, digits, '-', '_' or '.', e.g. my-app",
		)
	}

	return nil
}
