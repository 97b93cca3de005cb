// Package cmdtypes provides shared types for the cmd package and its sub-packages.
// It is separate from internal/cmd to avoid import cycles between internal/cmd
// and its sub-packages (internal/cmd/create, internal/cmd/config, internal/cmd/template).
package cmdtypes

import (
	"github.com/nickyball/cli/internal/config"
	oerrors "github.com/nickyball/cli/internal/errors"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every sub-command
// constructor.
type GlobalConfig struct {
	// Config is the loaded config file. Never nil after startup; a missing
	// file yields an empty Config.
	Config *config.Config

	// ConfigErr is set when the config file exists but could not be loaded.
	ConfigErr error

	// ConfigPath is the resolved config file path with its source.
	ConfigPath config.ResolvedValue

	// ConfigFlag is the raw --config flag value.
	ConfigFlag string

	Verbose bool
}

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess         = oerrors.ExitSuccess
	ExitGeneralError    = oerrors.ExitGeneralError
	ExitValidationError = oerrors.ExitValidationError
	ExitNotFound        = oerrors.ExitNotFound
	ExitScaffoldError   = oerrors.ExitScaffoldError
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError
