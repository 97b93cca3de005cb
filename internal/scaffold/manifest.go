package scaffold

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	oerrors "github.com/nickyball/cli/internal/errors"
)

// Manifest script keys and values.
const (
	ManifestFile = "package.json"

	ScriptStartDev    = "start:dev"
	DefaultStartDev   = "vite"
	ScriptGenerateAI  = "generate:ai"
	GenerateAICommand = "node ./tools/call_local_model.js --input ./scripts/generation.txt --output ./scripts/ai_overview.md"
)

//go:embed schema/package.schema.json
var manifestSchemaBytes []byte

var (
	manifestSchema     *jsonschema.Schema
	manifestSchemaOnce sync.Once
	manifestSchemaErr  error
	printer            = message.NewPrinter(language.English)
)

// ManifestPatch describes what PatchManifest did.
type ManifestPatch struct {
	// Path is the manifest location.
	Path string
	// Skipped is true when the project has no manifest.
	Skipped bool
	// Before and After hold the raw manifest around the patch.
	Before []byte
	After  []byte
	// StartDevAdded is true when start:dev was absent and got the default.
	StartDevAdded bool
	// Warnings are schema findings on the patched manifest. They never fail the step.
	Warnings []string
}

// PatchManifest adds the nicky-ball scripts to layout's package.json.
// A missing manifest is skipped. An unparseable manifest, or one whose
// scripts value is not an object, is ErrManifestCorrupt.
func PatchManifest(layout Layout) (*ManifestPatch, error) {
	patch := &ManifestPatch{Path: layout.Path(ManifestFile)}

	before, err := os.ReadFile(patch.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			patch.Skipped = true
			return patch, nil
		}
		return nil, fmt.Errorf("reading %s: %w: %w", ManifestFile, oerrors.ErrPath, err)
	}
	patch.Before = before

	manifest, err := decodeManifest(before)
	if err != nil {
		return nil, &oerrors.DetailError{
			Type:     "manifest corrupt",
			Message:  err.Error(),
			Location: patch.Path,
			Hint:     "fix or remove package.json in the template and run create again",
			Cause:    oerrors.ErrManifestCorrupt,
		}
	}

	scripts, err := scriptsOf(manifest)
	if err != nil {
		return nil, &oerrors.DetailError{
			Type:     "manifest corrupt",
			Message:  err.Error(),
			Location: patch.Path,
			Hint:     `"scripts" must be a JSON object`,
			Cause:    oerrors.ErrManifestCorrupt,
		}
	}

	if _, ok := scripts[ScriptStartDev]; !ok {
		scripts[ScriptStartDev] = DefaultStartDev
		patch.StartDevAdded = true
	}
	scripts[ScriptGenerateAI] = GenerateAICommand
	manifest["scripts"] = scripts

	after, err := encodeManifest(manifest)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", ManifestFile, err)
	}
	patch.After = after

	if err := os.WriteFile(patch.Path, after, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w: %w", ManifestFile, oerrors.ErrPath, err)
	}

	warnings, err := CheckManifest(after)
	if err != nil {
		patch.Warnings = []string{fmt.Sprintf("schema check unavailable: %v", err)}
	} else {
		patch.Warnings = warnings
	}

	return patch, nil
}

func decodeManifest(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parsing %s: trailing data after JSON value", ManifestFile)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s is not a JSON object", ManifestFile)
	}
	return obj, nil
}

func scriptsOf(manifest map[string]any) (map[string]any, error) {
	raw, ok := manifest["scripts"]
	if !ok || raw == nil {
		return make(map[string]any), nil
	}
	scripts, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf(`"scripts" in %s is not an object`, ManifestFile)
	}
	return scripts, nil
}

// encodeManifest writes two-space indented JSON with a trailing newline,
// without HTML escaping so "&&" in scripts stays readable.
func encodeManifest(manifest map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(manifest); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func getManifestSchema() (*jsonschema.Schema, error) {
	manifestSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(manifestSchemaBytes))
		if err != nil {
			manifestSchemaErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("package.schema.json", doc); err != nil {
			manifestSchemaErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		manifestSchema, manifestSchemaErr = c.Compile("package.schema.json")
		if manifestSchemaErr != nil {
			manifestSchemaErr = fmt.Errorf("compiling schema: %w", manifestSchemaErr)
		}
	})
	return manifestSchema, manifestSchemaErr
}

// CheckManifest validates manifest JSON against the embedded package.json
// schema and returns one message per finding.
func CheckManifest(data []byte) ([]string, error) {
	schema, err := getManifestSchema()
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	var findings []string
	seen := make(map[string]bool)
	collectFindings(ve, &findings, seen)
	if len(findings) == 0 {
		findings = append(findings, ve.Error())
	}
	return findings, nil
}

func collectFindings(ve *jsonschema.ValidationError, findings *[]string, seen map[string]bool) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectFindings(cause, findings, seen)
		}
		return
	}

	location := "/" + strings.Join(ve.InstanceLocation, "/")
	msg := ve.Error()
	if ve.ErrorKind != nil {
		msg = ve.ErrorKind.LocalizedString(printer)
	}

	finding := fmt.Sprintf("package.json %s: %s", location, msg)
	if !seen[finding] {
		seen[finding] = true
		*findings = append(*findings, finding)
	}
}
