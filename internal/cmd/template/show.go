package template

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nickyball/cli/internal/cmdtypes"
	"github.com/nickyball/cli/internal/cmdutil"
	oerrors "github.com/nickyball/cli/internal/errors"
	"github.com/nickyball/cli/internal/output"
	"github.com/nickyball/cli/internal/templates"
)

// NewShowCmd creates the template show command.
func NewShowCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "show <type>",
		Short: "Show the files of a template",
		Long: `Show the metadata and file tree of a template set.

Examples:
  nicky-ball template show TR3F
  nicky-ball template show jsw --templates-dir ./my-templates`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runShow(c, cfg, args[0])
		},
	}
}

func runShow(c *cobra.Command, cfg *cmdtypes.GlobalConfig, requested string) error {
	root, _, err := templatesRoot(c, cfg)
	if err != nil {
		return cmdutil.PrintError("templates directory unavailable", err)
	}

	name := templates.Normalize(requested)
	if !templates.Exists(root, name) {
		return cmdutil.PrintError("template not found", &oerrors.DetailError{
			Type:     "not found",
			Message:  fmt.Sprintf("template %s not found", name),
			Location: name,
			Hint:     "run 'nicky-ball template list' to see available templates",
			Cause:    oerrors.ErrTemplateMissing,
		})
	}

	files, err := templates.ListFiles(root, name)
	if err != nil {
		return cmdutil.PrintError("could not read template", err)
	}

	meta := templates.Describe(name)
	out := c.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n", name, meta.Description)
	if meta.UseCase != "" {
		fmt.Fprintf(out, "Use case: %s\n", meta.UseCase)
	}
	fmt.Fprintln(out)

	entries := make(map[string]string, len(files))
	for _, f := range files {
		entries[f] = ""
	}
	fmt.Fprint(out, output.RenderFileTree(name, entries))
	return nil
}
