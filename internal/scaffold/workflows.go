package scaffold

import (
	"bytes"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	oerrors "github.com/nickyball/cli/internal/errors"
	"github.com/nickyball/cli/internal/templates"
)

// Workflow asset paths relative to the project root.
const (
	PathCompose   = "docker-compose.yml"
	PathWorkflows = "tools/workflows"
)

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
	Volumes  map[string]struct{}       `yaml:"volumes"`
}

type composeService struct {
	Image       string   `yaml:"image"`
	Restart     string   `yaml:"restart,omitempty"`
	Ports       []string `yaml:"ports,omitempty"`
	Environment []string `yaml:"environment,omitempty"`
	Volumes     []string `yaml:"volumes,omitempty"`
	ExtraHosts  []string `yaml:"extra_hosts,omitempty"`
}

// ComposeDefinition returns the n8n + Flowise compose file.
func ComposeDefinition() ([]byte, error) {
	hostGateway := []string{"host.docker.internal:host-gateway"}

	def := composeFile{
		Services: map[string]composeService{
			"n8n": {
				Image:   "n8nio/n8n:latest",
				Restart: "unless-stopped",
				Ports:   []string{"5678:5678"},
				Environment: []string{
					"N8N_HOST=localhost",
					"N8N_PORT=5678",
					"GENERIC_TIMEZONE=UTC",
				},
				Volumes:    []string{"n8n_data:/home/node/.n8n"},
				ExtraHosts: hostGateway,
			},
			"flowise": {
				Image:       "flowiseai/flowise:latest",
				Restart:     "unless-stopped",
				Ports:       []string{"3000:3000"},
				Environment: []string{"PORT=3000"},
				Volumes:     []string{"flowise_data:/root/.flowise"},
				ExtraHosts:  hostGateway,
			},
		},
		Volumes: map[string]struct{}{
			"n8n_data":     {},
			"flowise_data": {},
		},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(def); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// InstallWorkflows writes docker-compose.yml and copies the WORKFLOWS
// template set into tools/workflows. It returns the copied workflow files.
func InstallWorkflows(root fs.FS, layout Layout) ([]string, error) {
	compose, err := ComposeDefinition()
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w: %w", PathCompose, oerrors.ErrWorkflow, err)
	}

	if err := writeFile(layout.Path(PathCompose), compose, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w: %w", PathCompose, oerrors.ErrWorkflow, err)
	}

	if !templates.Exists(root, templates.WorkflowsSet) {
		return nil, &oerrors.DetailError{
			Type:     "workflow install failed",
			Message:  fmt.Sprintf("template set %s not found", templates.WorkflowsSet),
			Location: templates.WorkflowsSet,
			Hint:     "add a WORKFLOWS directory to the templates root or drop --with-workflows",
			Cause:    oerrors.ErrWorkflow,
		}
	}

	files, err := CopyTree(root, templates.WorkflowsSet, layout.Path(PathWorkflows))
	if err != nil {
		return files, fmt.Errorf("%w: %w", oerrors.ErrWorkflow, err)
	}

	return files, nil
}
