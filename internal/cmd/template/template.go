// Package template provides the `nicky-ball template` command group.
package template

import (
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/nickyball/cli/internal/cmdtypes"
	"github.com/nickyball/cli/internal/cmdutil"
	"github.com/nickyball/cli/internal/config"
	oerrors "github.com/nickyball/cli/internal/errors"
	"github.com/nickyball/cli/internal/templates"
)

// NewTemplateCmd creates the template command group.
func NewTemplateCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "template",
		Short: "Template operations",
		Long:  `Commands for inspecting the template sets used by nicky-ball create.`,
	}

	c.PersistentFlags().String("templates-dir", "", "Directory holding template sets (default: built-in templates)")

	c.AddCommand(
		NewListCmd(cfg),
		NewShowCmd(cfg),
	)

	return c
}

// templatesRoot resolves the active templates root for a template subcommand.
func templatesRoot(c *cobra.Command, cfg *cmdtypes.GlobalConfig) (fs.FS, string, error) {
	dirFlag, _ := c.Flags().GetString("templates-dir")

	var fileCfg *config.Config
	if cfg != nil {
		fileCfg = cfg.Config
	}
	resolved, err := config.ResolveAll(config.ResolveAllOptions{
		TemplatesDirFlag: cmdutil.Changed(c, "templates-dir", dirFlag),
		Config:           fileCfg,
	})
	if err != nil {
		return nil, "", oerrors.NewValidationError(err.Error(), "", "run 'nicky-ball config vet'")
	}

	root, source, err := templates.Root(resolved.TemplatesDir.Value)
	if err != nil {
		return nil, "", oerrors.NewNotFoundError(err.Error(), resolved.TemplatesDir.Value,
			"check --templates-dir or NICKY_TEMPLATES_DIR")
	}
	return root, source, nil
}
