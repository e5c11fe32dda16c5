package description

import (
	"gopkg.in/yaml.v3"
)

// Kilnfile represents the structure of the kiln.yaml build description.
type Kilnfile struct {
	Version string       `yaml:"version"`
	Targets []*TargetDTO `yaml:"targets"`
}

// TargetDTO represents a target definition in the build description.
type TargetDTO struct {
	Name      string          `yaml:"name"`
	Kind      string          `yaml:"kind"`
	Path      string          `yaml:"path,omitempty"`
	Sources   []string        `yaml:"sources,omitempty"`
	Deps      []DependencyRef `yaml:"deps,omitempty"`
	Inputs    []string        `yaml:"inputs,omitempty"`
	Links     []LinkDTO       `yaml:"links,omitempty"`
	Compiler  string          `yaml:"compiler,omitempty"`
	Linker    string          `yaml:"linker,omitempty"`
	Discover  string          `yaml:"discover,omitempty"`
	Interface string          `yaml:"interface,omitempty"`
	Language  string          `yaml:"language,omitempty"`
	CPlusPlus bool            `yaml:"cplusplus,omitempty"`
	Args      []string        `yaml:"args,omitempty"`
}

// LinkDTO is a library link request.
type LinkDTO struct {
	Name   string `yaml:"name"`
	Static bool   `yaml:"static,omitempty"`
}

// DependencyRef names another target. A nested list is kept as written so the
// target model can reject it with a useful message.
type DependencyRef struct {
	Name   string
	Nested []string
}

// UnmarshalYAML accepts a scalar name or, for error reporting, a sequence.
func (d *DependencyRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		return node.Decode(&d.Nested)
	}
	return node.Decode(&d.Name)
}

// MarshalYAML writes the reference back as a scalar name.
func (d DependencyRef) MarshalYAML() (any, error) {
	if d.Nested != nil {
		return d.Nested, nil
	}
	return d.Name, nil
}

// Discovery modes.
const (
	DiscoverNone       = "none"
	DiscoverDirect     = "direct"
	DiscoverTransitive = "transitive"
)
