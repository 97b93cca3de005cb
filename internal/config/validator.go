package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"sigs.k8s.io/yaml"
)

//go:embed schema/config.cue
var configSchemaCUE []byte

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Validator validates configuration against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator creates a new configuration validator.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	compiled := ctx.CompileBytes(configSchemaCUE, cue.Filename("config.cue"))
	if compiled.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", compiled.Err())
	}

	schema := compiled.LookupPath(cue.ParsePath("#Config"))
	if !schema.Exists() {
		return nil, fmt.Errorf("schema is missing #Config definition")
	}

	return &Validator{
		ctx:    ctx,
		schema: schema,
	}, nil
}

// Validate validates the given configuration.
func (v *Validator) Validate(cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return v.validateJSON(data)
}

// ValidateFile validates a YAML configuration file at the given path.
// Unknown keys are reported as errors.
func (v *Validator) ValidateFile(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	raw, err := os.ReadFile(expanded)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	data, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return ValidationErrors{{Field: "(file)", Message: fmt.Sprintf("invalid YAML: %v", err)}}
	}
	if strings.TrimSpace(string(data)) == "null" {
		// Empty file.
		return nil
	}

	return v.validateJSON(data)
}

func (v *Validator) validateJSON(data []byte) error {
	value := v.ctx.CompileBytes(data, cue.Filename("config.json"))
	if value.Err() != nil {
		return ValidationErrors{{Field: "(file)", Message: value.Err().Error()}}
	}

	if errs := unknownFields(v.schema, value, nil); len(errs) > 0 {
		return errs
	}

	unified := v.schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return toValidationErrors(err)
	}

	return nil
}

// unknownFields walks data and reports every field the schema does not allow.
func unknownFields(schema, data cue.Value, path []string) ValidationErrors {
	iter, err := data.Fields()
	if err != nil {
		return nil
	}

	var errs ValidationErrors
	for iter.Next() {
		name := iter.Selector().Unquoted()
		fieldPath := append(append([]string{}, path...), name)

		if !schema.Allows(cue.Str(name)) {
			errs = append(errs, ValidationError{
				Field:   strings.Join(fieldPath, "."),
				Message: "field not allowed",
			})
			continue
		}

		if iter.Value().IncompleteKind() == cue.StructKind {
			sub := schema.LookupPath(cue.MakePath(cue.Str(name).Optional()))
			if sub.Exists() {
				errs = append(errs, unknownFields(sub, iter.Value(), fieldPath)...)
			}
		}
	}
	return errs
}

func toValidationErrors(err error) ValidationErrors {
	var errs ValidationErrors
	for _, e := range cueerrors.Errors(err) {
		field := strings.Join(e.Path(), ".")
		field = strings.TrimPrefix(field, "#Config.")
		if field == "" || field == "#Config" {
			field = "(root)"
		}
		format, args := e.Msg()
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
		})
	}
	if len(errs) == 0 {
		errs = append(errs, ValidationError{Field: "(root)", Message: err.Error()})
	}
	return errs
}
