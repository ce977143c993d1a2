package stackctl

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Topology is the minimal slice of a compose file these commands care about:
// which services exist, which are built from local source and which images
// back them. Everything else in the file is passed through to the engine
// untouched.
type Topology struct {
	Services map[string]TopologyService `yaml:"services"`
}

type TopologyService struct {
	Image string `yaml:"image,omitempty"`
	Build *struct {
		Context    string `yaml:"context,omitempty"`
		Dockerfile string `yaml:"dockerfile,omitempty"`
	} `yaml:"build,omitempty"`
	Ports       []string `yaml:"ports,omitempty"`
	Environment []string `yaml:"environment,omitempty"`
}

// LoadTopology parses the compose file at path.
func LoadTopology(path string) (*Topology, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Topology
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(t.Services) == 0 {
		return nil, fmt.Errorf("%s declares no services", path)
	}
	return &t, nil
}

// ServiceNames returns the declared service names, sorted.
func (t *Topology) ServiceNames() []string {
	names := make([]string, 0, len(t.Services))
	for name := range t.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasService reports whether the topology declares the named service.
func (t *Topology) HasService(name string) bool {
	_, ok := t.Services[name]
	return ok
}

// BuiltServices returns the names of services built from local source, the
// ones whose images carry the project prefix after a compose build.
func (t *Topology) BuiltServices() []string {
	var names []string
	for name, svc := range t.Services {
		if svc.Build != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
