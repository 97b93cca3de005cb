package scaffold

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	oerrors "github.com/nickyball/cli/internal/errors"
)

//go:embed assets/README.md.tmpl
var readmeTemplate string

//go:embed assets/call_local_model.js
var modelHelperScript []byte

// ArtifactKind identifies a generated file.
type ArtifactKind string

const (
	ArtifactReadme           ArtifactKind = "README"
	ArtifactGenerationPrompt ArtifactKind = "generationPrompt"
	ArtifactAIOverview       ArtifactKind = "aiOverviewPlaceholder"
	ArtifactAISummary        ArtifactKind = "aiSummaryPlaceholder"
	ArtifactModelHelper      ArtifactKind = "modelHelperScript"
)

// Fixed artifact paths relative to the project root.
const (
	PathReadme           = "README.md"
	PathGenerationPrompt = "scripts/generation.txt"
	PathAIOverview       = "scripts/ai_overview.md"
	PathAISummary        = "scripts/ai_summary.json"
	PathModelHelper      = "tools/call_local_model.js"
)

// AIOverviewPlaceholder is written until the overview is generated.
const AIOverviewPlaceholder = "# AI Overview\n\n(Will be generated)\n"

// Artifact is a generated file.
type Artifact struct {
	Kind    ArtifactKind
	Path    string
	Content []byte
	Mode    os.FileMode
}

// placeholderRegex matches {{name}} with optional inner spaces.
var placeholderRegex = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// RenderTemplate substitutes {{name}} placeholders from vars.
// Placeholders without a value are left as written.
func RenderTemplate(tpl string, vars map[string]string) string {
	return placeholderRegex.ReplaceAllStringFunc(tpl, func(m string) string {
		name := placeholderRegex.FindStringSubmatch(m)[1]
		if v, ok := vars[name]; ok {
			return v
		}
		return m
	})
}

// Title turns a project name like "my-cool_app" into "My Cool App".
func Title(projectName string) string {
	words := strings.FieldsFunc(projectName, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	if len(words) == 0 {
		return projectName
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// GenerationPrompt returns the prompt used to generate the project overview.
func GenerationPrompt(projectName, projectType string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a professional project overview for a project named %s.\n\n", projectName)
	fmt.Fprintf(&b, "Project type: %s\n\n", projectType)
	b.WriteString("Include:\n")
	b.WriteString("- 3-paragraph overview\n")
	b.WriteString("- target users and audiences (bulleted)\n")
	b.WriteString("- 3 suggested next steps for development and deployment\n")
	b.WriteString("- mention of stack and any integrations (n8n, Flowise, Ollama/LMStudio/Jan)\n")
	return b.String()
}

// AISummary is the content of scripts/ai_summary.json.
type AISummary struct {
	Generated bool   `json:"generated"`
	Model     string `json:"model,omitempty"`
	Fallback  bool   `json:"fallback,omitempty"`
}

func encodeSummary(s AISummary) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Artifacts returns every generated file for a project.
func Artifacts(projectName, projectType string) ([]Artifact, error) {
	summary, err := encodeSummary(AISummary{Generated: false})
	if err != nil {
		return nil, fmt.Errorf("encoding ai summary: %w", err)
	}

	readme := RenderTemplate(readmeTemplate, map[string]string{
		"projectName": projectName,
		"type":        projectType,
		"title":       Title(projectName),
	})

	return []Artifact{
		{Kind: ArtifactReadme, Path: PathReadme, Content: []byte(readme), Mode: 0o644},
		{Kind: ArtifactGenerationPrompt, Path: PathGenerationPrompt, Content: []byte(GenerationPrompt(projectName, projectType)), Mode: 0o644},
		{Kind: ArtifactAIOverview, Path: PathAIOverview, Content: []byte(AIOverviewPlaceholder), Mode: 0o644},
		{Kind: ArtifactAISummary, Path: PathAISummary, Content: summary, Mode: 0o644},
		{Kind: ArtifactModelHelper, Path: PathModelHelper, Content: modelHelperScript, Mode: 0o755},
	}, nil
}

// WriteArtifacts writes each artifact under layout, replacing existing files.
func WriteArtifacts(layout Layout, artifacts []Artifact) error {
	for _, a := range artifacts {
		if err := writeFile(layout.Path(a.Path), a.Content, a.Mode); err != nil {
			return fmt.Errorf("writing %s: %w: %w", a.Path, oerrors.ErrPath, err)
		}
	}
	return nil
}

func writeFile(path string, data []byte, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, mode)
}
