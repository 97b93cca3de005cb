package scaffold

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	oerrors "github.com/nickyball/cli/internal/errors"
	"github.com/nickyball/cli/internal/output"
	"github.com/nickyball/cli/internal/tools"
)

// CommandError reports a command that ran and exited non-zero.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	if s := lastLine(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// Process runs the external setup commands of a scaffold run.
// Every failure is returned as a failed StepResult, never as an error.
type Process struct {
	Runner tools.CommandRunner
	// Timeout bounds each command. Zero means no timeout.
	Timeout time.Duration
	// Stdout receives the output of attached commands. Nil means os.Stdout.
	Stdout io.Writer
	// LogWriter receives step log lines. Nil means the global log output.
	LogWriter io.Writer
}

// Install runs "<pm> install" in the project root attached to the terminal.
func (p *Process) Install(ctx context.Context, layout Layout, pm string) StepResult {
	step := StepResult{Name: StepInstall}
	hint := fmt.Sprintf("run `%s install` manually in %s", pm, layout.Root)
	log := p.logger(StepInstall)

	path, err := p.Runner.LookPath(pm)
	if err != nil {
		return step.fail(fmt.Sprintf("%s not found in PATH", pm), hint, err)
	}

	p.checkVersion(ctx, log, pm)

	log.Info("installing dependencies", "command", pm+" install", "dir", layout.Root)
	if err := p.run(ctx, path, []string{"install"}, tools.RunOpts{Dir: layout.Root, Inherit: true, Stdout: p.Stdout}); err != nil {
		return step.fail(fmt.Sprintf("%s install failed", pm), hint, err)
	}

	step.Status = StepOK
	step.Detail = pm + " install"
	return step
}

// gitTrio returns the bootstrap commands in order.
func gitTrio(message string) [][]string {
	return [][]string{
		{"init"},
		{"add", "."},
		{"commit", "-m", message},
	}
}

// GitBootstrap runs git init, git add . and git commit under one guard:
// the first failure stops the remaining commands.
func (p *Process) GitBootstrap(ctx context.Context, layout Layout, message string) StepResult {
	step := StepResult{Name: StepGit}
	hint := fmt.Sprintf("git not available or commit failed; run `git init && git add . && git commit` in %s", layout.Root)
	log := p.logger(StepGit)

	path, err := p.Runner.LookPath("git")
	if err != nil {
		return step.fail("git not found in PATH", hint, err)
	}

	p.checkVersion(ctx, log, "git")

	for _, args := range gitTrio(message) {
		log.Debug("running", "command", "git "+strings.Join(args, " "), "dir", layout.Root)
		if err := p.run(ctx, path, args, tools.RunOpts{Dir: layout.Root}); err != nil {
			return step.fail(fmt.Sprintf("git %s failed", args[0]), hint, err)
		}
	}

	step.Status = StepOK
	step.Detail = "initial commit created"
	return step
}

func (p *Process) logger(step string) *log.Logger {
	l := output.StepLogger(step)
	if p.LogWriter != nil {
		l.SetOutput(p.LogWriter)
	}
	return l
}

// checkVersion warns when a tool is older than the supported minimum.
func (p *Process) checkVersion(ctx context.Context, log *log.Logger, name string) {
	info, err := tools.Detect(ctx, p.Runner, name)
	if err != nil || info.Version == "" {
		return
	}
	if !info.Compatible {
		log.Warn("unsupported tool version", "tool", name, "version", info.Version, "minimum", info.Minimum)
	}
}

func (p *Process) run(ctx context.Context, name string, args []string, opts tools.RunOpts) error {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	res, err := p.Runner.Run(ctx, name, args, opts)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &CommandError{
			Command:  strings.TrimSpace(filepath.Base(name) + " " + strings.Join(args, " ")),
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}
	return nil
}

// optionalErr marks err as a recovered optional-step failure.
func optionalErr(err error) error {
	return fmt.Errorf("%w: %w", oerrors.ErrOptionalStep, err)
}
