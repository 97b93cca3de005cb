// Package templates provides the project template repository used by nicky-ball create.
package templates

// Template represents a project template with its metadata.
type Template struct {
	// Name is the template identifier (TR3F, R3F, JSW, ...). Always upper-case.
	Name string `json:"name"`

	// Description explains the template's purpose.
	Description string `json:"description"`

	// UseCase describes when to use this template.
	UseCase string `json:"useCase"`

	// Default indicates if this is the fallback template.
	Default bool `json:"default,omitempty"`

	// Available is true when the template directory exists in the active root.
	Available bool `json:"available"`

	// Internal marks template sets that are not project types (WORKFLOWS).
	Internal bool `json:"internal,omitempty"`
}
