// Package config provides CLI command implementations for the config command group.
package config

import (
	"github.com/spf13/cobra"

	"github.com/nickyball/cli/internal/cmdtypes"
	"github.com/nickyball/cli/internal/config"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Configuration management for the nicky-ball CLI.`,
	}

	c.AddCommand(NewConfigInitCmd(cfg))
	c.AddCommand(NewConfigVetCmd(cfg))

	return c
}

// configPath returns the resolved config file path, falling back to the
// default location when the global flags were not processed.
func configPath(cfg *cmdtypes.GlobalConfig) (string, error) {
	if cfg != nil && cfg.ConfigPath.Value != "" {
		return cfg.ConfigPath.Value, nil
	}
	var flag string
	if cfg != nil {
		flag = cfg.ConfigFlag
	}
	rv, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: flag})
	if err != nil {
		return "", err
	}
	return rv.Value, nil
}
