package template

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/nickyball/cli/internal/cmdtypes"
	"github.com/nickyball/cli/internal/cmdutil"
	oerrors "github.com/nickyball/cli/internal/errors"
	"github.com/nickyball/cli/internal/output"
	"github.com/nickyball/cli/internal/templates"
)

// NewListCmd creates the template list command.
func NewListCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var outputFlag string

	c := &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		Long: `List the template sets in the active templates root.

Built-in project types missing from a custom --templates-dir are listed as
unavailable; creating one of them falls back to the default template.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runList(c, cfg, outputFlag)
		},
	}

	c.Flags().StringVarP(&outputFlag, "output", "o", string(output.FormatText),
		fmt.Sprintf("Output format (%s)", strings.Join(output.ValidFormats(), ", ")))

	return c
}

func runList(c *cobra.Command, cfg *cmdtypes.GlobalConfig, outputFlag string) error {
	format := output.ParseOutputFormat(outputFlag)
	if !format.Valid() {
		return cmdutil.PrintError("invalid flags", oerrors.NewValidationError(
			fmt.Sprintf("invalid --output %q", outputFlag), "", "valid formats: "+strings.Join(output.ValidFormats(), ", ")))
	}

	root, source, err := templatesRoot(c, cfg)
	if err != nil {
		return cmdutil.PrintError("templates directory unavailable", err)
	}
	output.Debug("templates root", "source", source)

	list, err := templates.List(root)
	if err != nil {
		return cmdutil.PrintError("could not list templates", err)
	}

	out := c.OutOrStdout()
	switch format {
	case output.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(list)
	case output.FormatYAML:
		data, err := yaml.Marshal(list)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	tbl := output.NewTable("TYPE", "DESCRIPTION", "USE CASE", "STATUS")
	for _, t := range list {
		if t.Internal {
			continue
		}
		tbl.Row(t.Name, t.Description, t.UseCase, status(t))
	}
	fmt.Fprintln(out, tbl.String())
	return nil
}

func status(t templates.Template) string {
	switch {
	case !t.Available:
		return "unavailable"
	case t.Default:
		return "available (default)"
	default:
		return "available"
	}
}
