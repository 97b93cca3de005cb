package scaffold

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/nickyball/cli/internal/errors"
	"github.com/nickyball/cli/internal/generate"
	"github.com/nickyball/cli/internal/output"
	"github.com/nickyball/cli/internal/testutil"
	"github.com/nickyball/cli/internal/tools"
)

type fakeGenerator struct {
	result generate.Result
	prompt string
}

func (f *fakeGenerator) Overview(_ context.Context, prompt string) generate.Result {
	f.prompt = prompt
	return f.result
}

func newTestPipeline(root fstest.MapFS, runner *testutil.FakeRunner) *Pipeline {
	return New(Options{Templates: root, Runner: runner})
}

func statuses(res *Result) map[string]StepStatus {
	out := make(map[string]StepStatus)
	for _, s := range res.Steps {
		out[s.Name] = s.Status
	}
	return out
}

func TestPipeline_Success(t *testing.T) {
	work := t.TempDir()
	runner := testutil.NewFakeRunner()

	res, err := newTestPipeline(testutil.TemplateRoot(nil), runner).Run(context.Background(), NewRequest("demo", work))
	require.NoError(t, err)

	assert.Equal(t, OutcomeOK, res.Status)
	assert.Equal(t, filepath.Join(work, "demo"), res.Layout.Root)

	for _, d := range Subdirectories() {
		assert.DirExists(t, filepath.Join(res.Layout.Root, d))
	}
	assert.FileExists(t, res.Layout.Path("src/App.tsx"))
	assert.FileExists(t, res.Layout.Path("README.md"))
	assert.FileExists(t, res.Layout.Path("scripts/generation.txt"))
	assert.FileExists(t, res.Layout.Path("tools/call_local_model.js"))
	assert.NoFileExists(t, res.Layout.Path("docker-compose.yml"))
	assert.NoDirExists(t, res.Layout.Path("tools/workflows"))

	assert.Equal(t, []string{
		StepLayout, StepTemplate, StepContent, StepManifest, StepWorkflows,
		StepGenerate, StepGenImages, StepRenderDiagrams, StepInstall, StepGit,
	}, stepNames(res))

	st := statuses(res)
	assert.Equal(t, StepOK, st[StepManifest])
	assert.Equal(t, StepSkipped, st[StepWorkflows])
	assert.Equal(t, StepOK, st[StepInstall])
	assert.Equal(t, StepOK, st[StepGit])

	assert.Equal(t, []string{
		"npm --version", "npm install",
		"git --version", "git init", "git add .", commitKey,
	}, runner.Commands())
	assert.NoError(t, res.Warnings())
}

func stepNames(res *Result) []string {
	names := make([]string, 0, len(res.Steps))
	for _, s := range res.Steps {
		names = append(names, s.Name)
	}
	return names
}

// create demo --type=React --no-install with no React template.
func TestPipeline_FallbackExample(t *testing.T) {
	work := t.TempDir()
	runner := testutil.NewFakeRunner()

	req := NewRequest("demo", work)
	req.ProjectType = "React"
	req.Install = false

	res, err := newTestPipeline(testutil.TemplateRoot(nil), runner).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, OutcomeWarnings, res.Status)
	assert.True(t, res.Template.UsedFallback)
	assert.Equal(t, "REACT", res.Template.RequestedType)
	assert.Equal(t, "TR3F", res.Template.ResolvedType)

	for _, d := range []string{"assets", "scripts", "tools"} {
		assert.DirExists(t, filepath.Join(work, "demo", d))
	}

	readme := testutil.ReadFile(t, res.Layout.Root, "README.md")
	assert.Contains(t, readme, "demo")
	assert.Contains(t, readme, "TR3F")

	install, ok := res.Step(StepInstall)
	require.True(t, ok)
	assert.Equal(t, StepSkipped, install.Status)
	assert.NotContains(t, runner.Commands(), "npm install")

	assert.Empty(t, res.FailedOptional())
}

func TestPipeline_NonTemplateTypesFallBack(t *testing.T) {
	for _, projectType := range []string{".", "workflows", "TR3F/src"} {
		t.Run(projectType, func(t *testing.T) {
			work := t.TempDir()

			req := NewRequest("demo", work)
			req.ProjectType = projectType
			req.Install = false

			res, err := newTestPipeline(testutil.TemplateRoot(nil), testutil.NewFakeRunner()).Run(context.Background(), req)
			require.NoError(t, err)

			assert.Equal(t, OutcomeWarnings, res.Status)
			assert.True(t, res.Template.UsedFallback)
			assert.Equal(t, "TR3F", res.Template.ResolvedType)
			assert.FileExists(t, filepath.Join(res.Layout.Root, "package.json"))
			assert.FileExists(t, filepath.Join(res.Layout.Root, "src", "App.tsx"))
			assert.NoDirExists(t, filepath.Join(res.Layout.Root, "TR3F"))
			assert.NoDirExists(t, filepath.Join(res.Layout.Root, "3F"))
			assert.NoDirExists(t, filepath.Join(res.Layout.Root, "n8n"))
		})
	}
}

func TestPipeline_CommandOutput(t *testing.T) {
	var out, logs bytes.Buffer
	output.SetupLogging(output.LogConfig{Verbose: true})
	output.SetLogWriter(&logs)
	t.Cleanup(func() { output.SetupLogging(output.LogConfig{}) })

	runner := testutil.NewFakeRunner()
	p := New(Options{Templates: testutil.TemplateRoot(nil), Runner: runner, CommandOutput: &out})

	res, err := p.Run(context.Background(), NewRequest("demo", t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, res.Status)

	for _, c := range runner.Calls {
		if c.String() == "npm install" {
			assert.Same(t, &out, c.Opts.Stdout)
		}
	}
	assert.Contains(t, logs.String(), "git init")
	assert.Contains(t, logs.String(), "git add .")
}

func TestPipeline_TemplatesMissing(t *testing.T) {
	work := t.TempDir()
	root := fstest.MapFS{"JSW/index.html": {Data: []byte("<html>")}}

	res, err := newTestPipeline(root, testutil.NewFakeRunner()).Run(context.Background(), func() Request {
		r := NewRequest("demo", work)
		r.ProjectType = "React"
		return r
	}())

	require.Error(t, err)
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepTemplate, stepErr.Step)
	assert.ErrorIs(t, err, oerrors.ErrTemplateMissing)
	assert.NotEmpty(t, stepErr.Hint)

	assert.Equal(t, OutcomeFailed, res.Status)
	assert.Equal(t, []string{StepLayout, StepTemplate}, stepNames(res))
	assert.NoFileExists(t, filepath.Join(work, "demo", "README.md"))
	assert.NoFileExists(t, filepath.Join(work, "demo", "scripts", "generation.txt"))
}

func TestPipeline_WithWorkflows(t *testing.T) {
	req := NewRequest("demo", t.TempDir())
	req.WithWorkflows = true

	res, err := newTestPipeline(testutil.TemplateRoot(nil), testutil.NewFakeRunner()).Run(context.Background(), req)
	require.NoError(t, err)

	assert.FileExists(t, res.Layout.Path("docker-compose.yml"))
	assert.FileExists(t, res.Layout.Path("tools/workflows/n8n/flow.json"))

	step, _ := res.Step(StepWorkflows)
	assert.Equal(t, StepOK, step.Status)
	assert.True(t, step.Mandatory)
}

func TestPipeline_WorkflowsMissingAborts(t *testing.T) {
	req := NewRequest("demo", t.TempDir())
	req.WithWorkflows = true
	root := testutil.TemplateRoot(map[string]*fstest.MapFile{"WORKFLOWS/n8n/flow.json": nil})
	runner := testutil.NewFakeRunner()

	res, err := newTestPipeline(root, runner).Run(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrWorkflow)
	assert.Equal(t, OutcomeFailed, res.Status)
	assert.Empty(t, runner.Calls, "no external commands after a mandatory failure")
}

func TestPipeline_InstallFailureContinuesToGit(t *testing.T) {
	runner := testutil.NewFakeRunner().On("npm install", testutil.FakeResponse{
		Result: tools.CmdResult{ExitCode: 1},
	})

	res, err := newTestPipeline(testutil.TemplateRoot(nil), runner).Run(context.Background(), NewRequest("demo", t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, OutcomeWarnings, res.Status)
	st := statuses(res)
	assert.Equal(t, StepFailed, st[StepInstall])
	assert.Equal(t, StepOK, st[StepGit])
	assert.Contains(t, runner.Commands(), commitKey)

	warnings := res.Warnings()
	require.Error(t, warnings)
	assert.ErrorIs(t, warnings, oerrors.ErrOptionalStep)
	assert.Contains(t, warnings.Error(), "install")
}

func TestPipeline_GitFailureIsRecovered(t *testing.T) {
	runner := testutil.NewFakeRunner().On("git init", testutil.FakeResponse{
		Result: tools.CmdResult{ExitCode: 128},
	})

	res, err := newTestPipeline(testutil.TemplateRoot(nil), runner).Run(context.Background(), NewRequest("demo", t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, OutcomeWarnings, res.Status)
	assert.NotContains(t, runner.Commands(), "git add .")
	require.Len(t, res.FailedOptional(), 1)
	assert.Equal(t, StepGit, res.FailedOptional()[0].Name)
}

func TestPipeline_CorruptManifestAborts(t *testing.T) {
	root := testutil.TemplateRoot(map[string]*fstest.MapFile{
		"TR3F/package.json": {Data: []byte("{not json")},
	})
	runner := testutil.NewFakeRunner()

	res, err := newTestPipeline(root, runner).Run(context.Background(), NewRequest("demo", t.TempDir()))

	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrManifestCorrupt)
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepManifest, stepErr.Step)
	assert.Equal(t, res.Layout.Root, stepErr.Root)
	assert.Equal(t, "TR3F", stepErr.Template)
	assert.Equal(t, OutcomeFailed, res.Status)
	assert.Empty(t, runner.Calls)
}

func TestPipeline_NoManifestIsSkipped(t *testing.T) {
	root := testutil.TemplateRoot(map[string]*fstest.MapFile{"TR3F/package.json": nil})

	res, err := newTestPipeline(root, testutil.NewFakeRunner()).Run(context.Background(), NewRequest("demo", t.TempDir()))
	require.NoError(t, err)

	step, _ := res.Step(StepManifest)
	assert.Equal(t, StepSkipped, step.Status)
	assert.True(t, res.Manifest.Skipped)
}

func TestPipeline_InvalidName(t *testing.T) {
	work := t.TempDir()

	res, err := newTestPipeline(testutil.TemplateRoot(nil), testutil.NewFakeRunner()).Run(context.Background(), NewRequest("../escape", work))

	assert.Nil(t, res)
	assert.ErrorIs(t, err, oerrors.ErrValidation)
	assert.NoDirExists(t, filepath.Join(work, "..", "escape"))
}

func TestPipeline_Generate(t *testing.T) {
	t.Run("writes overview", func(t *testing.T) {
		gen := &fakeGenerator{result: generate.Result{Content: "# Demo overview\n"}}
		req := NewRequest("demo", t.TempDir())
		req.Generate = true
		req.Install = false

		p := New(Options{Templates: testutil.TemplateRoot(nil), Runner: testutil.NewFakeRunner(), Generator: gen})
		res, err := p.Run(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, GenerationPrompt("demo", "TR3F"), gen.prompt)
		assert.Equal(t, "# Demo overview\n", testutil.ReadFile(t, res.Layout.Root, "scripts/ai_overview.md"))
		assert.Contains(t, testutil.ReadFile(t, res.Layout.Root, "scripts/ai_summary.json"), `"generated": true`)
		assert.Equal(t, OutcomeOK, res.Status)
	})

	t.Run("fallback is a warning", func(t *testing.T) {
		gen := &fakeGenerator{result: generate.Result{
			Content:  generate.FallbackHeader + "prompt",
			Fallback: true,
			Err:      errors.New("connection refused"),
		}}
		req := NewRequest("demo", t.TempDir())
		req.GenImages = true
		req.Install = false

		p := New(Options{Templates: testutil.TemplateRoot(nil), Runner: testutil.NewFakeRunner(), Generator: gen})
		res, err := p.Run(context.Background(), req)
		require.NoError(t, err)

		st := statuses(res)
		assert.Equal(t, StepFailed, st[StepGenerate])
		assert.Equal(t, StepSkipped, st[StepGenImages])
		assert.Equal(t, OutcomeWarnings, res.Status)
		assert.Contains(t, testutil.ReadFile(t, res.Layout.Root, "scripts/ai_overview.md"), "AUTOGEN FALLBACK")
		assert.Contains(t, testutil.ReadFile(t, res.Layout.Root, "scripts/ai_summary.json"), `"generated": false`)
	})

	t.Run("not requested", func(t *testing.T) {
		gen := &fakeGenerator{}
		req := NewRequest("demo", t.TempDir())
		req.Install = false

		p := New(Options{Templates: testutil.TemplateRoot(nil), Runner: testutil.NewFakeRunner(), Generator: gen})
		res, err := p.Run(context.Background(), req)
		require.NoError(t, err)

		assert.Empty(t, gen.prompt)
		assert.Equal(t, AIOverviewPlaceholder, testutil.ReadFile(t, res.Layout.Root, "scripts/ai_overview.md"))
	})
}

func TestPipeline_RenderDiagramsRecordedAsSkipped(t *testing.T) {
	req := NewRequest("demo", t.TempDir())
	req.RenderDiagrams = true
	req.Install = false

	res, err := newTestPipeline(testutil.TemplateRoot(nil), testutil.NewFakeRunner()).Run(context.Background(), req)
	require.NoError(t, err)

	step, ok := res.Step(StepRenderDiagrams)
	require.True(t, ok)
	assert.Equal(t, StepSkipped, step.Status)
	assert.NotEmpty(t, step.Hint)
	assert.Equal(t, OutcomeOK, res.Status)
}

func TestPipeline_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := testutil.NewFakeRunner()

	res, err := newTestPipeline(testutil.TemplateRoot(nil), runner).Run(ctx, NewRequest("demo", t.TempDir()))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, OutcomeFailed, res.Status)
	assert.Empty(t, runner.Calls)
}

func TestPipeline_NoTemplatesRoot(t *testing.T) {
	_, err := New(Options{Runner: testutil.NewFakeRunner()}).Run(context.Background(), NewRequest("demo", t.TempDir()))
	assert.Error(t, err)
}
