package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates invalid user input (project name, flag value, config).
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a template, file, or executable was not found.
	ErrNotFound = errors.New("not found")

	// ErrPath indicates the filesystem blocked creating or writing project paths.
	ErrPath = errors.New("path error")

	// ErrTemplateMissing indicates neither the requested nor the default template exists.
	ErrTemplateMissing = fmt.Errorf("template missing: %w", ErrNotFound)

	// ErrManifestCorrupt indicates an existing package.json could not be parsed.
	ErrManifestCorrupt = errors.New("manifest corrupt")

	// ErrWorkflow indicates requested workflow assets could not be installed.
	ErrWorkflow = errors.New("workflow install failed")

	// ErrOptionalStep indicates a recovered failure of an optional step.
	ErrOptionalStep = errors.New("optional step failed")
)
