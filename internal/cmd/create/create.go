// Package create provides the `nicky-ball create` command.
package create

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nickyball/cli/internal/cmdtypes"
	"github.com/nickyball/cli/internal/cmdutil"
	"github.com/nickyball/cli/internal/config"
	oerrors "github.com/nickyball/cli/internal/errors"
	"github.com/nickyball/cli/internal/output"
	"github.com/nickyball/cli/internal/scaffold"
	"github.com/nickyball/cli/internal/templates"
	"github.com/nickyball/cli/internal/tools"
)

// deps are the collaborators of the create command, replaceable in tests.
type deps struct {
	runner    tools.CommandRunner
	generator scaffold.Generator
}

// NewCreateCmd creates the create command.
func NewCreateCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return newCreateCmd(cfg, deps{runner: tools.NewExecRunner()})
}

func newCreateCmd(cfg *cmdtypes.GlobalConfig, d deps) *cobra.Command {
	var flags cmdutil.ScaffoldFlags

	c := &cobra.Command{
		Use:   "create <project-name>",
		Short: "Create a new project from a template",
		Long: `Create a new project in ./<project-name> from a template set.

Steps:
  layout           create the project root and assets/, scripts/, tools/
  template         copy the template (falls back to TR3F when missing)
  content          write README.md, the model prompt and AI placeholders
  manifest         add start:dev and generate:ai scripts to package.json
  workflows        add docker-compose.yml and example flows (--with-workflows)
  generate         ask the local model for an overview (--generate)
  install          run the package manager (disable with --no-install)
  git              git init, add and the first commit

Failures of generate, install and git are reported as warnings and the
command still succeeds.

Examples:
  # Create a React Three Fiber TypeScript project
  nicky-ball create demo

  # Create a vanilla JavaScript project without installing dependencies
  nicky-ball create demo --type JSW --no-install

  # Include the n8n and Flowise workflow stack and use pnpm
  nicky-ball create demo --with-workflows --package-manager pnpm`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runCreate(c, args[0], &flags, cfg, d)
		},
	}

	flags.AddTo(c)

	return c
}

func runCreate(c *cobra.Command, name string, flags *cmdutil.ScaffoldFlags, cfg *cmdtypes.GlobalConfig, d deps) error {
	if err := flags.Validate(); err != nil {
		return cmdutil.PrintError("invalid flags", oerrors.NewValidationError(err.Error(), "", "run 'nicky-ball create --help'"))
	}
	if cfg.ConfigErr != nil {
		return cmdutil.PrintError("could not load config", oerrors.NewValidationError(
			cfg.ConfigErr.Error(), cfg.ConfigPath.Value, "run 'nicky-ball config vet' to check the file"))
	}

	resolved, err := config.ResolveAll(config.ResolveAllOptions{
		ConfigFlag:         cfg.ConfigFlag,
		TemplatesDirFlag:   cmdutil.Changed(c, "templates-dir", flags.TemplatesDir),
		TypeFlag:           cmdutil.Changed(c, "type", flags.Type),
		PackageManagerFlag: cmdutil.Changed(c, "package-manager", flags.PackageManager),
		NoInstallFlag:      flags.NoInstall,
		Config:             cfg.Config,
	})
	if err != nil {
		return cmdutil.PrintError("invalid configuration", oerrors.NewValidationError(err.Error(), "",
			fmt.Sprintf("valid package managers: %s", strings.Join(config.ValidPackageManagers(), ", "))))
	}
	config.LogResolvedValues(resolved.Values())

	root, source, err := templates.Root(resolved.TemplatesDir.Value)
	if err != nil {
		return cmdutil.PrintError("templates directory unavailable", oerrors.NewNotFoundError(
			err.Error(), resolved.TemplatesDir.Value, "check --templates-dir or NICKY_TEMPLATES_DIR"))
	}
	output.Debug("templates root", "source", source)

	wd, err := os.Getwd()
	if err != nil {
		return cmdutil.PrintError("could not determine working directory", err)
	}

	req := scaffold.NewRequest(name, wd)
	req.ProjectType = resolved.DefaultType.Value
	req.WithWorkflows = flags.WithWorkflows
	req.Install = resolved.InstallEnabled()
	req.PackageManager = resolved.PackageManager.Value
	req.Generate = flags.Generate
	req.GenImages = flags.GenImages
	req.RenderDiagrams = flags.RenderDiagrams
	req.CommitMessage = resolved.CommitMessage.Value
	req.GenerateEndpoint = resolved.GenerateEndpoint.Value
	req.GenerateModel = resolved.GenerateModel.Value
	req.CommandTimeout = flags.Timeout

	format := output.ParseOutputFormat(flags.Output)
	out := c.OutOrStdout()

	// Structured reports own stdout; attached commands print to stderr.
	commandOutput := out
	if format != output.FormatText {
		commandOutput = c.ErrOrStderr()
	}

	pipeline := scaffold.New(scaffold.Options{
		Templates:     root,
		Runner:        d.runner,
		Generator:     d.generator,
		ShowDiff:      flags.ShowDiff || cfg.Verbose,
		CommandOutput: commandOutput,
	})

	res, err := pipeline.Run(c.Context(), req)
	if err != nil {
		if res != nil && format != output.FormatText {
			_ = output.WriteRunReport(cmdutil.BuildReport(res), output.ReportOptions{Format: format, Writer: out})
		}
		return cmdutil.PrintError("scaffold failed", err)
	}

	if format != output.FormatText {
		if err := output.WriteRunReport(cmdutil.BuildReport(res), output.ReportOptions{Format: format, Writer: out}); err != nil {
			return cmdutil.PrintError("could not write report", err)
		}
		return nil
	}

	return writeSummary(out, res)
}

func writeSummary(w io.Writer, res *scaffold.Result) error {
	fmt.Fprintln(w, output.FormatCheckmark(fmt.Sprintf("Created project '%s' in %s", res.Request.ProjectName, res.Layout.Root)))
	fmt.Fprintln(w)

	files, err := cmdutil.ProjectFiles(res.Layout.Root)
	if err != nil {
		output.Debug("could not list project files", "error", err)
	} else {
		fmt.Fprint(w, output.RenderFileTree(res.Request.ProjectName, files))
		fmt.Fprintln(w)
	}

	if err := output.WriteRunReport(cmdutil.BuildReport(res), output.ReportOptions{Format: output.FormatText, Writer: w}); err != nil {
		return cmdutil.PrintError("could not write report", err)
	}

	fmt.Fprintln(w, "\nNext steps:")
	for _, step := range cmdutil.NextSteps(res) {
		fmt.Fprintf(w, "  %s\n", step)
	}
	return nil
}
