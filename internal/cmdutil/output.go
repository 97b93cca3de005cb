package cmdutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	oerrors "github.com/nickyball/cli/internal/errors"
	"github.com/nickyball/cli/internal/output"
	"github.com/nickyball/cli/internal/scaffold"
)

// ExitErrorFor converts err into an *ExitError with the matching exit code.
// A mandatory step failure becomes a DetailError naming the step.
func ExitErrorFor(err error) *oerrors.ExitError {
	if err == nil {
		return nil
	}

	var exitErr *oerrors.ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	code := oerrors.ExitCodeFromError(err)

	var stepErr *scaffold.StepError
	if errors.As(err, &stepErr) {
		detail := &oerrors.DetailError{
			Type:    "scaffold failed",
			Step:    stepErr.Step,
			Message: stepErr.Err.Error(),
			Hint:    stepErr.Hint,
			Context: stepContext(stepErr),
			Cause:   err,
		}
		var inner *oerrors.DetailError
		if errors.As(stepErr.Err, &inner) {
			detail.Type = inner.Type
			detail.Message = inner.Message
			detail.Location = inner.Location
			if detail.Hint == "" {
				detail.Hint = inner.Hint
			}
		}
		return oerrors.NewExitError(detail, code)
	}

	return oerrors.NewExitError(err, code)
}

// stepContext lists the project details of a failed step, or nil.
func stepContext(stepErr *scaffold.StepError) map[string]string {
	ctx := make(map[string]string)
	if stepErr.Root != "" {
		ctx["Root"] = stepErr.Root
	}
	if stepErr.Template != "" {
		ctx["Template"] = stepErr.Template
	}
	if len(ctx) == 0 {
		return nil
	}
	return ctx
}

// PrintError logs err and marks it as printed so main does not repeat it.
func PrintError(msg string, err error) *oerrors.ExitError {
	exitErr := ExitErrorFor(err)
	if exitErr == nil {
		return nil
	}

	var detail *oerrors.DetailError
	if errors.As(exitErr.Err, &detail) {
		output.Error(msg)
		output.Details(detail.Error())
	} else {
		output.Error(msg, "error", exitErr.Err)
	}
	output.Debug("exiting", "code", exitErr.Code, "reason", oerrors.ExitCodeName(exitErr.Code))
	exitErr.Printed = true
	return exitErr
}

// BuildReport converts a pipeline result into a report.
func BuildReport(res *scaffold.Result) *output.RunReport {
	report := &output.RunReport{
		Project:       res.Request.ProjectName,
		Root:          res.Layout.Root,
		RequestedType: res.Template.RequestedType,
		Template:      res.Template.ResolvedType,
		UsedFallback:  res.Template.UsedFallback,
		Status:        string(res.Status),
	}

	for _, s := range res.Steps {
		step := output.ReportStep{
			Name:       s.Name,
			Status:     string(s.Status),
			Mandatory:  s.Mandatory,
			Detail:     s.Detail,
			Hint:       s.Hint,
			DurationMS: s.Duration.Milliseconds(),
		}
		if s.Err != nil {
			step.Error = s.Err.Error()
		}
		report.Steps = append(report.Steps, step)
	}

	if res.Template.UsedFallback {
		report.Warnings = append(report.Warnings,
			"template "+res.Template.RequestedType+" not found, used "+res.Template.ResolvedType)
	}
	for _, s := range res.FailedOptional() {
		warning := s.Name + ": " + s.Detail
		if s.Hint != "" {
			warning += " (" + s.Hint + ")"
		}
		report.Warnings = append(report.Warnings, warning)
	}

	return report
}

// fileDescriptions annotates well-known files in the project tree.
var fileDescriptions = map[string]string{
	scaffold.PathReadme:           "Project overview",
	scaffold.PathGenerationPrompt: "Model prompt",
	scaffold.PathAIOverview:       "AI overview",
	scaffold.PathAISummary:        "AI generation status",
	scaffold.PathModelHelper:      "Local model helper",
	scaffold.ManifestFile:         "Package manifest",
	scaffold.PathCompose:          "n8n + Flowise services",
	scaffold.PathWorkflows + "/":  "Example workflows",
}

// skipDirs are not descended into when listing a project.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// ProjectFiles lists the files under root for RenderFileTree. Directories
// holding workflow examples are collapsed into a single entry.
func ProjectFiles(root string) (map[string]string, error) {
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			if desc, ok := fileDescriptions[rel+"/"]; ok {
				files[rel+"/"] = desc
				return filepath.SkipDir
			}
			if isEmptyDir(path) {
				files[rel+"/"] = ""
			}
			return nil
		}

		files[rel] = fileDescriptions[rel]
		return nil
	})
	return files, err
}

func isEmptyDir(path string) bool {
	entries, err := os.ReadDir(path)
	return err == nil && len(entries) == 0
}

// NextSteps returns the commands a user runs after a successful scaffold.
func NextSteps(res *scaffold.Result) []string {
	steps := []string{"cd " + res.Request.ProjectName}

	if install, ok := res.Step(scaffold.StepInstall); !ok || install.Status != scaffold.StepOK {
		steps = append(steps, res.Request.PackageManager+" install")
	}
	steps = append(steps, res.Request.PackageManager+" run "+scaffold.ScriptStartDev)
	if res.Request.WithWorkflows {
		steps = append(steps, "docker compose up -d")
	}
	if gen, ok := res.Step(scaffold.StepGenerate); !ok || gen.Status != scaffold.StepOK {
		steps = append(steps, res.Request.PackageManager+" run "+scaffold.ScriptGenerateAI)
	}
	return steps
}
