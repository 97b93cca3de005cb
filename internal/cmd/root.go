// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	cmdconfig "github.com/nickyball/cli/internal/cmd/config"
	"github.com/nickyball/cli/internal/cmd/create"
	"github.com/nickyball/cli/internal/cmd/template"
	"github.com/nickyball/cli/internal/cmdtypes"
	"github.com/nickyball/cli/internal/config"
	"github.com/nickyball/cli/internal/output"
	"github.com/nickyball/cli/internal/version"
)

// rootFlags holds the global flags.
type rootFlags struct {
	config     string
	verbose    bool
	timestamps bool
}

// NewRootCmd creates the root command for the nicky-ball CLI.
func NewRootCmd() *cobra.Command {
	var flags rootFlags
	cfg := &cmdtypes.GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "nicky-ball",
		Short: "Project scaffolder",
		Long: `nicky-ball creates new web projects from templates.

It copies a template set, writes project documentation and model prompts,
patches package.json, and optionally installs dependencies and creates the
first git commit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return initializeGlobals(c, &flags, cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.config, "config", "", "Path to config file (env: NICKY_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&flags.timestamps, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(create.NewCreateCmd(cfg))
	rootCmd.AddCommand(template.NewTemplateCmd(cfg))
	rootCmd.AddCommand(cmdconfig.NewConfigCmd(cfg))
	rootCmd.AddCommand(NewVersionCmd(cfg))

	return rootCmd
}

// initializeGlobals sets up logging and loads the configuration file.
func initializeGlobals(c *cobra.Command, flags *rootFlags, cfg *cmdtypes.GlobalConfig) error {
	cfg.ConfigFlag = flags.config
	cfg.Verbose = flags.verbose

	configPath, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: flags.config})
	if err != nil {
		return err
	}
	cfg.ConfigPath = configPath

	// Commands that do not need config must still work with a broken file.
	loaded, err := config.NewLoader().Load(configPath.Value)
	if err != nil {
		cfg.ConfigErr = err
		loaded = &config.Config{}
	}
	cfg.Config = loaded

	// Timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: flags.verbose}
	if c.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(flags.timestamps)
	} else if loaded.Log.Timestamps != nil {
		logCfg.Timestamps = loaded.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	info := version.Get()
	output.Debug("nicky-ball started",
		"version", info.Version,
		"config", configPath.Value,
		"config_source", configPath.Source,
	)
	if cfg.ConfigErr != nil {
		output.Debug("config load error", "error", cfg.ConfigErr)
	}

	return nil
}
