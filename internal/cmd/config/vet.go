package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nickyball/cli/internal/cmdtypes"
	"github.com/nickyball/cli/internal/cmdutil"
	"github.com/nickyball/cli/internal/config"
	oerrors "github.com/nickyball/cli/internal/errors"
	"github.com/nickyball/cli/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the nicky-ball configuration file.

Checks performed:
  1. Config file exists at the resolved path
  2. Config file is valid YAML
  3. Every key is known and every value matches the schema
  4. Values from NICKY_* environment variables resolve cleanly

The config path is resolved using precedence:
  --config flag > NICKY_CONFIG env > ~/.nicky-ball/config.yaml

Examples:
  # Validate default configuration
  nicky-ball config vet

  # Validate custom config path
  nicky-ball config vet --config /path/to/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runConfigVet(c, cfg)
		},
	}
}

func runConfigVet(c *cobra.Command, cfg *cmdtypes.GlobalConfig) error {
	path, err := configPath(cfg)
	if err != nil {
		return cmdutil.PrintError("could not resolve config path", err)
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return cmdutil.PrintError("could not expand config path", err)
	}

	output.Debug("validating config", "path", expanded)

	if _, err := os.Stat(expanded); errors.Is(err, os.ErrNotExist) {
		return cmdutil.PrintError("config vet failed", oerrors.NewNotFoundError(
			"configuration file not found", expanded, "Run 'nicky-ball config init' to create default configuration"))
	}

	validator, err := config.NewValidator()
	if err != nil {
		return cmdutil.PrintError("config vet failed", err)
	}

	if err := validator.ValidateFile(expanded); err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			return cmdutil.PrintError("config vet failed", &oerrors.DetailError{
				Type:     "validation failed",
				Message:  verrs.Error(),
				Location: expanded,
				Hint:     "Compare with 'nicky-ball config init --config /tmp/defaults.yaml'",
				Cause:    oerrors.ErrValidation,
			})
		}
		return cmdutil.PrintError("config vet failed", err)
	}

	loaded, err := config.NewLoader().Load(expanded)
	if err != nil {
		return cmdutil.PrintError("config vet failed", oerrors.NewValidationError(err.Error(), expanded, ""))
	}
	if _, err := config.ResolveAll(config.ResolveAllOptions{ConfigFlag: expanded, Config: loaded}); err != nil {
		return cmdutil.PrintError("config vet failed", oerrors.NewValidationError(err.Error(), expanded,
			"check the NICKY_* environment variables"))
	}

	fmt.Fprintln(c.OutOrStdout(), "Configuration is valid: "+expanded)
	return nil
}
