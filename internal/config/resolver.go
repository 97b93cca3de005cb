package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/nickyball/cli/internal/output"
)

// Environment variables recognized by nicky-ball.
const (
	EnvConfig           = "NICKY_CONFIG"
	EnvTemplatesDir     = "NICKY_TEMPLATES_DIR"
	EnvDefaultType      = "NICKY_DEFAULT_TYPE"
	EnvPackageManager   = "NICKY_PACKAGE_MANAGER"
	EnvInstall          = "NICKY_INSTALL"
	EnvCommitMessage    = "NICKY_COMMIT_MESSAGE"
	EnvGenerateEndpoint = "NICKY_GENERATE_ENDPOINT"
	EnvGenerateModel    = "NICKY_GENERATE_MODEL"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue records a resolved configuration value and where it came from.
type ResolvedValue struct {
	Key    string
	Value  string
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// resolveString resolves a single value using precedence:
// flag > env > config > default. Empty values are treated as unset.
func resolveString(key, flagValue, envVar, configValue, defaultValue string) ResolvedValue {
	rv := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]string)}

	candidates := []struct {
		source ConfigSource
		value  string
	}{
		{SourceFlag, flagValue},
		{SourceEnv, envValue(envVar)},
		{SourceConfig, configValue},
		{SourceDefault, defaultValue},
	}

	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if rv.Source == "" {
			rv.Value = c.value
			rv.Source = c.source
			continue
		}
		rv.Shadowed[c.source] = c.value
	}

	return rv
}

func envValue(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) NICKY_CONFIG env, (3) ~/.nicky-ball/config.yaml default
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolvedValue, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return ResolvedValue{}, err
	}
	return resolveString("config", opts.FlagValue, EnvConfig, "", paths.ConfigFile), nil
}

// ResolveAllOptions carries the flag values that participate in resolution.
// Flag values must be empty unless the user set the flag explicitly.
type ResolveAllOptions struct {
	ConfigFlag         string
	TemplatesDirFlag   string
	TypeFlag           string
	PackageManagerFlag string
	// NoInstallFlag is true when --no-install was given.
	NoInstallFlag bool
	// Config is the loaded config file. Nil means no file.
	Config *Config
}

// ResolvedConfig is the effective configuration after applying precedence.
type ResolvedConfig struct {
	ConfigPath       ResolvedValue
	TemplatesDir     ResolvedValue
	DefaultType      ResolvedValue
	PackageManager   ResolvedValue
	Install          ResolvedValue
	CommitMessage    ResolvedValue
	GenerateEndpoint ResolvedValue
	GenerateModel    ResolvedValue
}

// ResolveAll resolves every configuration value.
func ResolveAll(opts ResolveAllOptions) (*ResolvedConfig, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = &Config{}
	}
	defaults := DefaultConfig()

	configPath, err := ResolveConfigPath(ResolveConfigPathOptions{FlagValue: opts.ConfigFlag})
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	installFlag := ""
	if opts.NoInstallFlag {
		installFlag = "false"
	}
	installConfig := ""
	if cfg.Install != nil {
		installConfig = strconv.FormatBool(*cfg.Install)
	}

	rc := &ResolvedConfig{
		ConfigPath:       configPath,
		TemplatesDir:     resolveString("templatesDir", opts.TemplatesDirFlag, EnvTemplatesDir, cfg.TemplatesDir, ""),
		DefaultType:      resolveString("defaultType", opts.TypeFlag, EnvDefaultType, cfg.DefaultType, defaults.DefaultType),
		PackageManager:   resolveString("packageManager", opts.PackageManagerFlag, EnvPackageManager, cfg.PackageManager, defaults.PackageManager),
		Install:          resolveString("install", installFlag, EnvInstall, installConfig, "true"),
		CommitMessage:    resolveString("commitMessage", "", EnvCommitMessage, cfg.CommitMessage, defaults.CommitMessage),
		GenerateEndpoint: resolveString("generate.endpoint", "", EnvGenerateEndpoint, cfg.Generate.Endpoint, defaults.Generate.Endpoint),
		GenerateModel:    resolveString("generate.model", "", EnvGenerateModel, cfg.Generate.Model, defaults.Generate.Model),
	}

	if _, err := strconv.ParseBool(rc.Install.Value); err != nil {
		return nil, fmt.Errorf("invalid install value %q from %s", rc.Install.Value, rc.Install.Source)
	}
	if !IsValidPackageManager(rc.PackageManager.Value) {
		return nil, fmt.Errorf("unsupported package manager %q from %s (valid: npm, pnpm, yarn)",
			rc.PackageManager.Value, rc.PackageManager.Source)
	}

	return rc, nil
}

// InstallEnabled reports whether dependency installation is enabled.
func (r *ResolvedConfig) InstallEnabled() bool {
	b, err := strconv.ParseBool(r.Install.Value)
	return err == nil && b
}

// Values returns every resolved value in a stable order.
func (r *ResolvedConfig) Values() []ResolvedValue {
	return []ResolvedValue{
		r.ConfigPath,
		r.TemplatesDir,
		r.DefaultType,
		r.PackageManager,
		r.Install,
		r.CommitMessage,
		r.GenerateEndpoint,
		r.GenerateModel,
	}
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		if v.Source == "" {
			continue
		}
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
