package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/nickyball/cli/internal/cmdtypes"
	"github.com/nickyball/cli/internal/cmdutil"
	"github.com/nickyball/cli/internal/config"
	oerrors "github.com/nickyball/cli/internal/errors"
)

// configHeader is written above the generated YAML.
const configHeader = `# nicky-ball configuration
# Precedence: flags > NICKY_* environment variables > this file > defaults.

`

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Create a nicky-ball configuration file with default values.

The file is created at ~/.nicky-ball/config.yaml by default.
Use --config or NICKY_CONFIG to choose a different location.

Examples:
  # Initialize configuration
  nicky-ball config init

  # Overwrite existing configuration
  nicky-ball config init --force`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runConfigInit(c, cfg, force)
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")

	return c
}

func runConfigInit(c *cobra.Command, cfg *cmdtypes.GlobalConfig, force bool) error {
	path, err := configPath(cfg)
	if err != nil {
		return cmdutil.PrintError("could not resolve config path", err)
	}

	expanded, err := config.ExpandPath(path)
	if err != nil {
		return cmdutil.PrintError("could not expand config path", err)
	}

	exists, err := config.ConfigFileExists(expanded)
	if err != nil {
		return cmdutil.PrintError("could not check config file", err)
	}
	if exists && !force {
		return cmdutil.PrintError("config init failed", &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: expanded,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    oerrors.ErrValidation,
		})
	}

	if err := os.MkdirAll(filepath.Dir(expanded), 0o700); err != nil {
		return cmdutil.PrintError("config init failed", fmt.Errorf("%w: creating config directory: %w", oerrors.ErrPath, err))
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return cmdutil.PrintError("config init failed", fmt.Errorf("marshaling config: %w", err))
	}

	if err := os.WriteFile(expanded, append([]byte(configHeader), data...), 0o600); err != nil {
		return cmdutil.PrintError("config init failed", fmt.Errorf("%w: writing config file: %w", oerrors.ErrPath, err))
	}

	fmt.Fprintf(c.OutOrStdout(), "Config file created: %s\n", expanded)
	fmt.Fprintln(c.OutOrStdout(), "Validate with: nicky-ball config vet")
	return nil
}
