package templates

import (
	"sort"
	"strings"
)

const (
	// DefaultType is the template used when the requested type is absent.
	DefaultType = "TR3F"

	// WorkflowsSet is the template set copied into tools/workflows.
	WorkflowsSet = "WORKFLOWS"
)

// known holds metadata for template names nicky-ball knows about,
// whether or not the active root provides them.
var known = map[string]Template{
	"TR3F": {
		Name:        "TR3F",
		Description: "TypeScript + React Three Fiber on Vite",
		UseCase:     "Typed 3D web apps and interactive scenes",
		Default:     true,
	},
	"R3F": {
		Name:        "R3F",
		Description: "JavaScript + React Three Fiber on Vite",
		UseCase:     "Quick 3D prototypes without a type checker",
	},
	"REACT": {
		Name:        "REACT",
		Description: "Plain React single page app",
		UseCase:     "Classic UI projects",
	},
	"RETYPE": {
		Name:        "RETYPE",
		Description: "Retype documentation site",
		UseCase:     "Project documentation",
	},
	"JSW": {
		Name:        "JSW",
		Description: "Vanilla JavaScript web page on Vite",
		UseCase:     "Small static sites and experiments",
	},
	WorkflowsSet: {
		Name:        WorkflowsSet,
		Description: "Example n8n and Flowise flows",
		UseCase:     "Copied into tools/workflows by --with-workflows",
		Internal:    true,
	},
}

// Normalize returns the canonical template name for a requested type.
func Normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Describe returns metadata for a template name. Unknown names get a
// generic description.
func Describe(name string) Template {
	name = Normalize(name)
	if t, ok := known[name]; ok {
		return t
	}
	return Template{
		Name:        name,
		Description: "Custom template",
		UseCase:     "Provided by the templates directory",
	}
}

// Known returns the metadata of every built-in template name, sorted.
func Known() []Template {
	list := make([]Template, 0, len(known))
	for _, t := range known {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
