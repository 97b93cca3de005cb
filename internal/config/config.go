// Package config provides configuration loading and management.
package config

// Supported package managers.
const (
	PackageManagerNPM  = "npm"
	PackageManagerPNPM = "pnpm"
	PackageManagerYarn = "yarn"
)

// Built-in defaults.
const (
	DefaultProjectType      = "TR3F"
	DefaultPackageManager   = PackageManagerNPM
	DefaultCommitMessage    = "chore: scaffold project with nicky-ball"
	DefaultGenerateEndpoint = "http://localhost:11434/api/generate"
	DefaultGenerateModel    = "llama3"
)

// ValidPackageManagers returns the supported package manager names.
func ValidPackageManagers() []string {
	return []string{PackageManagerNPM, PackageManagerPNPM, PackageManagerYarn}
}

// IsValidPackageManager reports whether name is a supported package manager.
func IsValidPackageManager(name string) bool {
	switch name {
	case PackageManagerNPM, PackageManagerPNPM, PackageManagerYarn:
		return true
	default:
		return false
	}
}

// GenerateConfig contains local-model generation settings.
type GenerateConfig struct {
	// Endpoint is the HTTP generation endpoint (Ollama-compatible).
	// Env: NICKY_GENERATE_ENDPOINT
	Endpoint string `json:"endpoint,omitempty" mapstructure:"endpoint"`

	// Model is the model name sent with each request.
	// Env: NICKY_GENERATE_MODEL
	Model string `json:"model,omitempty" mapstructure:"model"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `json:"timestamps,omitempty" mapstructure:"timestamps"`
}

// Config represents the nicky-ball configuration file (~/.nicky-ball/config.yaml).
type Config struct {
	// TemplatesDir is a directory of template sets used instead of the built-in ones.
	// Env: NICKY_TEMPLATES_DIR
	TemplatesDir string `json:"templatesDir,omitempty" mapstructure:"templatesDir"`

	// DefaultType is the project type used when --type is not given.
	// Env: NICKY_DEFAULT_TYPE
	DefaultType string `json:"defaultType,omitempty" mapstructure:"defaultType"`

	// PackageManager is the package manager used for dependency installation.
	// Env: NICKY_PACKAGE_MANAGER
	PackageManager string `json:"packageManager,omitempty" mapstructure:"packageManager"`

	// Install controls whether dependencies are installed after scaffolding.
	// Env: NICKY_INSTALL
	Install *bool `json:"install,omitempty" mapstructure:"install"`

	// CommitMessage is the message of the initial commit.
	// Env: NICKY_COMMIT_MESSAGE
	CommitMessage string `json:"commitMessage,omitempty" mapstructure:"commitMessage"`

	// Generate contains local-model generation settings.
	Generate GenerateConfig `json:"generate,omitempty" mapstructure:"generate"`

	// Log contains logging-related settings.
	Log LogConfig `json:"log,omitempty" mapstructure:"log"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `nicky-ball config init` to generate the initial config file.
func DefaultConfig() *Config {
	install := true
	return &Config{
		DefaultType:    DefaultProjectType,
		PackageManager: DefaultPackageManager,
		Install:        &install,
		CommitMessage:  DefaultCommitMessage,
		Generate: GenerateConfig{
			Endpoint: DefaultGenerateEndpoint,
			Model:    DefaultGenerateModel,
		},
	}
}
