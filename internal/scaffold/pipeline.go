package scaffold

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	oerrors "github.com/nickyball/cli/internal/errors"
	"github.com/nickyball/cli/internal/generate"
	"github.com/nickyball/cli/internal/output"
	"github.com/nickyball/cli/internal/tools"
)

// Step names in execution order.
const (
	StepLayout         = "layout"
	StepTemplate       = "template"
	StepContent        = "content"
	StepManifest       = "manifest"
	StepWorkflows      = "workflows"
	StepGenerate       = "generate"
	StepGenImages      = "gen-images"
	StepRenderDiagrams = "render-diagrams"
	StepInstall        = "install"
	StepGit            = "git"
)

// StepStatus is the outcome of one step.
type StepStatus string

const (
	StepOK      StepStatus = "ok"
	StepSkipped StepStatus = "skipped"
	StepFailed  StepStatus = "failed"
)

// StepResult records what one step did.
type StepResult struct {
	Name      string
	Status    StepStatus
	Detail    string
	Mandatory bool
	Hint      string
	Err       error
	Duration  time.Duration
}

// fail marks an optional step as failed.
func (s StepResult) fail(detail, hint string, err error) StepResult {
	s.Status = StepFailed
	s.Detail = detail
	s.Hint = hint
	s.Err = optionalErr(err)
	return s
}

// Outcome is the overall status of a run.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeWarnings Outcome = "completed-with-warnings"
	OutcomeFailed   Outcome = "failed"
)

// Result is the outcome of a pipeline run.
type Result struct {
	Request  Request
	Layout   Layout
	Template TemplateSelection
	Manifest *ManifestPatch
	Steps    []StepResult
	Status   Outcome
}

// Step returns the result of the named step.
func (r *Result) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// FailedOptional returns the optional steps that failed.
func (r *Result) FailedOptional() []StepResult {
	var failed []StepResult
	for _, s := range r.Steps {
		if s.Status == StepFailed && !s.Mandatory {
			failed = append(failed, s)
		}
	}
	return failed
}

// Warnings aggregates every optional failure into one error, or nil.
func (r *Result) Warnings() error {
	var errs []error
	for _, s := range r.FailedOptional() {
		errs = append(errs, fmt.Errorf("%s: %w", s.Name, s.Err))
	}
	return utilerrors.NewAggregate(errs)
}

// StepError is returned when a mandatory step fails.
type StepError struct {
	Step string
	Hint string
	Err  error

	// Root and Template describe the project at the time of failure.
	Root     string
	Template string
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Generator produces the AI overview text.
type Generator interface {
	Overview(ctx context.Context, prompt string) generate.Result
}

// Options configures a Pipeline.
type Options struct {
	// Templates is the templates root. Each top-level directory is a template.
	Templates fs.FS

	// Runner runs external commands. Defaults to tools.NewExecRunner().
	Runner tools.CommandRunner

	// Generator is used by the generate step. Defaults to a generate.Client
	// built from the request.
	Generator Generator

	// ShowDiff logs a structural diff of the patched manifest.
	ShowDiff bool

	// CommandOutput receives the output of attached commands such as the
	// package manager install. Nil means os.Stdout.
	CommandOutput io.Writer
}

// Pipeline sequences the scaffold steps.
type Pipeline struct {
	opts Options
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	if opts.Runner == nil {
		opts.Runner = tools.NewExecRunner()
	}
	return &Pipeline{opts: opts}
}

// Run executes every step in order. It stops at the first mandatory
// failure and returns the partial Result together with a *StepError.
// Optional failures are recorded in the Result and never returned.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	req = req.withDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if p.opts.Templates == nil {
		return nil, fmt.Errorf("no templates root configured")
	}

	layout := PlanLayout(req.WorkingDir, req.ProjectName)
	res := &Result{Request: req, Layout: layout, Status: OutcomeOK}
	proc := &Process{Runner: p.opts.Runner, Timeout: req.CommandTimeout, Stdout: p.opts.CommandOutput}

	output.Info(fmt.Sprintf("scaffolding project %s", output.StyleNoun.Render(req.ProjectName)), "root", layout.Root)

	mandatory := []struct {
		name string
		fn   func() (string, error)
	}{
		{StepLayout, func() (string, error) {
			if err := layout.Create(); err != nil {
				return "", err
			}
			return layout.Root, nil
		}},
		{StepTemplate, func() (string, error) { return p.copyTemplate(req, layout, res) }},
		{StepContent, func() (string, error) { return p.writeContent(req, layout, res.Template) }},
		{StepManifest, func() (string, error) { return p.patchManifest(layout, res) }},
		{StepWorkflows, func() (string, error) { return p.installWorkflows(req, layout) }},
	}

	for _, m := range mandatory {
		step, err := runMandatory(ctx, m.name, m.fn)
		res.Steps = append(res.Steps, step)
		if err != nil {
			res.Status = OutcomeFailed
			return res, res.annotate(err)
		}
	}

	res.Steps = append(res.Steps, timed(func() StepResult { return p.generate(ctx, req, layout) }))
	res.Steps = append(res.Steps, skippedUnless(req.GenImages, StepGenImages,
		"image generation is not supported by the text endpoint", "generate images with your image tool and place them in assets/"))
	res.Steps = append(res.Steps, skippedUnless(req.RenderDiagrams, StepRenderDiagrams,
		"diagram rendering requires an external PlantUML renderer", "render diagrams with docker run plantuml/plantuml"))

	if req.Install {
		res.Steps = append(res.Steps, timed(func() StepResult { return proc.Install(ctx, layout, req.PackageManager) }))
	} else {
		res.Steps = append(res.Steps, StepResult{Name: StepInstall, Status: StepSkipped, Detail: "disabled by --no-install"})
	}
	if err := ctx.Err(); err != nil {
		return p.cancelled(res, StepInstall, err)
	}

	// Git log lines are held back until the spinner has cleared the line.
	var gitLog bytes.Buffer
	gitProc := *proc
	gitProc.LogWriter = &gitLog

	var gitStep StepResult
	_ = output.RunWithSpinner(ctx, func() error {
		gitStep = timed(func() StepResult { return gitProc.GitBootstrap(ctx, layout, req.CommitMessage) })
		return nil
	}, output.WithTitle("Initializing git repository..."))
	_, _ = gitLog.WriteTo(output.LogOutput())
	if gitStep.Name == "" {
		gitStep = StepResult{Name: StepGit, Status: StepFailed, Err: ctx.Err()}
	}
	res.Steps = append(res.Steps, gitStep)
	if err := ctx.Err(); err != nil {
		return p.cancelled(res, StepGit, err)
	}

	for _, s := range res.FailedOptional() {
		output.StepLogger(s.Name).Warn(s.Detail, "err", s.Err, "hint", s.Hint)
	}

	if len(res.FailedOptional()) > 0 || res.Template.UsedFallback {
		res.Status = OutcomeWarnings
	}

	return res, nil
}

// runMandatory runs fn as a mandatory step.
func runMandatory(ctx context.Context, name string, fn func() (string, error)) (StepResult, *StepError) {
	step := StepResult{Name: name, Mandatory: true}
	start := time.Now()

	if err := ctx.Err(); err != nil {
		step.Status = StepFailed
		step.Err = err
		return step, &StepError{Step: name, Err: err}
	}

	detail, err := fn()
	step.Duration = time.Since(start)

	if errors.Is(err, errSkipped) {
		step.Status = StepSkipped
		step.Detail = detail
		output.Debug("step skipped", "step", name, "detail", detail)
		return step, nil
	}

	if err != nil {
		step.Status = StepFailed
		step.Err = err
		step.Hint = hintOf(err)
		return step, &StepError{Step: name, Hint: step.Hint, Err: err}
	}

	step.Status = StepOK
	step.Detail = detail
	output.Debug("step complete", "step", name, "duration", step.Duration)
	return step, nil
}

// errSkipped is returned by a mandatory step that had nothing to do.
var errSkipped = errors.New("skipped")

func hintOf(err error) string {
	var detail *oerrors.DetailError
	if errors.As(err, &detail) {
		return detail.Hint
	}
	return ""
}

func timed(fn func() StepResult) StepResult {
	start := time.Now()
	step := fn()
	step.Duration = time.Since(start)
	return step
}

func skippedUnless(requested bool, name, detail, hint string) StepResult {
	step := StepResult{Name: name, Status: StepSkipped}
	if requested {
		step.Detail = detail
		step.Hint = hint
		output.StepLogger(name).Warn(detail, "hint", hint)
	} else {
		step.Detail = "not requested"
	}
	return step
}

func (p *Pipeline) cancelled(res *Result, name string, err error) (*Result, error) {
	res.Status = OutcomeFailed
	for i := range res.Steps {
		if res.Steps[i].Name == name {
			res.Steps[i].Status = StepFailed
			res.Steps[i].Err = err
		}
	}
	return res, res.annotate(&StepError{Step: name, Err: err})
}

// annotate fills the project details of a *StepError.
func (r *Result) annotate(err *StepError) *StepError {
	err.Root = r.Layout.Root
	err.Template = r.Template.ResolvedType
	return err
}

func (p *Pipeline) copyTemplate(req Request, layout Layout, res *Result) (string, error) {
	sel, err := ResolveTemplate(p.opts.Templates, req.ProjectType)
	res.Template = sel
	if err != nil {
		return "", err
	}

	log := output.StepLogger(StepTemplate)
	if sel.UsedFallback {
		log.Warn(fmt.Sprintf("template %s not found, falling back to %s", sel.RequestedType, sel.ResolvedType))
	}

	files, err := CopyTree(p.opts.Templates, sel.Path, layout.Root)
	if err != nil {
		return "", fmt.Errorf("%w: %w", oerrors.ErrPath, err)
	}
	log.Debug("template copied", "template", sel.ResolvedType, "files", len(files))

	detail := fmt.Sprintf("%s (%d files)", sel.ResolvedType, len(files))
	if sel.UsedFallback {
		detail = fmt.Sprintf("%s (fallback from %s, %d files)", sel.ResolvedType, sel.RequestedType, len(files))
	}
	return detail, nil
}

// writeContent renders the generated files with the resolved template type.
func (p *Pipeline) writeContent(req Request, layout Layout, sel TemplateSelection) (string, error) {
	artifacts, err := Artifacts(req.ProjectName, sel.ResolvedType)
	if err != nil {
		return "", err
	}
	if err := WriteArtifacts(layout, artifacts); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d files", len(artifacts)), nil
}

func (p *Pipeline) patchManifest(layout Layout, res *Result) (string, error) {
	patch, err := PatchManifest(layout)
	if err != nil {
		return "", err
	}
	res.Manifest = patch

	if patch.Skipped {
		return "no package.json", errSkipped
	}

	log := output.StepLogger(StepManifest)
	for _, w := range patch.Warnings {
		log.Warn(w)
	}

	if p.opts.ShowDiff {
		diff, err := output.DocumentDiff("package.json (template)", patch.Before, "package.json (patched)", patch.After, output.IsTTY())
		if err != nil {
			log.Debug("could not diff manifest", "err", err)
		} else if diff != "" {
			output.Details(output.IndentDiff(diff, "  "))
		}
	}

	detail := "scripts patched"
	if len(patch.Warnings) > 0 {
		detail = fmt.Sprintf("scripts patched, %d schema warning(s)", len(patch.Warnings))
	}
	return detail, nil
}

func (p *Pipeline) installWorkflows(req Request, layout Layout) (string, error) {
	if !req.WithWorkflows {
		return "not requested", errSkipped
	}
	files, err := InstallWorkflows(p.opts.Templates, layout)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s + %d workflow files", PathCompose, len(files)), nil
}

func (p *Pipeline) generate(ctx context.Context, req Request, layout Layout) StepResult {
	step := StepResult{Name: StepGenerate}
	if !req.Generate {
		step.Status = StepSkipped
		step.Detail = "not requested"
		return step
	}

	gen := p.opts.Generator
	if gen == nil {
		gen = generate.NewClient(req.GenerateEndpoint, req.GenerateModel)
	}

	hint := "start a local model server and run `npm run generate:ai`"
	prompt, err := os.ReadFile(layout.Path(PathGenerationPrompt))
	if err != nil {
		return step.fail("could not read generation prompt", hint, err)
	}

	output.StepLogger(StepGenerate).Info("generating overview", "endpoint", req.GenerateEndpoint, "model", req.GenerateModel)
	out := gen.Overview(ctx, string(prompt))

	if err := writeFile(layout.Path(PathAIOverview), []byte(out.Content), 0o644); err != nil {
		return step.fail("could not write overview", hint, err)
	}

	summary, err := encodeSummary(AISummary{Generated: !out.Fallback, Model: req.GenerateModel, Fallback: out.Fallback})
	if err == nil {
		err = writeFile(layout.Path(PathAISummary), summary, 0o644)
	}
	if err != nil {
		return step.fail("could not write summary", hint, err)
	}

	if out.Fallback {
		return step.fail("model unreachable, wrote prompt as fallback", hint, out.Err)
	}

	step.Status = StepOK
	step.Detail = PathAIOverview
	return step
}
