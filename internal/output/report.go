package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/yaml"
)

// ReportOptions controls how a run report is written.
type ReportOptions struct {
	// Format selects text, JSON or YAML output.
	Format OutputFormat
	// Writer is the output destination.
	Writer io.Writer
}

// RunReport is the structured summary of one scaffold run.
type RunReport struct {
	Project       string       `json:"project"`
	Root          string       `json:"root"`
	RequestedType string       `json:"requestedType"`
	Template      string       `json:"template,omitempty"`
	UsedFallback  bool         `json:"usedFallback"`
	Status        string       `json:"status"`
	Steps         []ReportStep `json:"steps"`
	Warnings      []string     `json:"warnings,omitempty"`
}

// ReportStep is one step of a RunReport.
type ReportStep struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Mandatory  bool   `json:"mandatory"`
	Detail     string `json:"detail,omitempty"`
	Hint       string `json:"hint,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"durationMs"`
}

// WriteRunReport writes report in the requested format.
func WriteRunReport(report *RunReport, opts ReportOptions) error {
	switch opts.Format {
	case FormatJSON:
		encoder := json.NewEncoder(opts.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case FormatYAML:
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		_, err = opts.Writer.Write(data)
		return err
	case FormatText, "":
		return writeReportText(report, opts.Writer)
	default:
		return fmt.Errorf("unsupported output format %q", opts.Format)
	}
}

func writeReportText(report *RunReport, w io.Writer) error {
	var sb strings.Builder

	rows := make([]StepRow, 0, len(report.Steps))
	for _, s := range report.Steps {
		rows = append(rows, StepRow{Name: s.Name, Status: s.Status, Detail: s.Detail})
	}
	sb.WriteString(RenderStepTable(rows))
	sb.WriteString("\n")

	if len(report.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warning := range report.Warnings {
			sb.WriteString("  " + FormatWarningMark(warning) + "\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
