package recipe

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Metadata is a package descriptor. It is read once per release and never
// mutated by the tool.
type Metadata struct {
	Name           string      `yaml:"name"`
	Version        string      `yaml:"version"`
	License        string      `yaml:"license,omitempty"`
	Author         string      `yaml:"author,omitempty"`
	URL            string      `yaml:"url,omitempty"`
	Description    string      `yaml:"description,omitempty"`
	ExportsSources Patterns    `yaml:"exports_sources"`
	NoCopySource   bool        `yaml:"no_copy_source"`
	Package        PackageStep `yaml:"package,omitempty"`
	PackageID      string      `yaml:"package_id,omitempty"` // header_only (default) or full

	// Path is the file the descriptor was loaded from, empty for built-ins
	Path string `yaml:"-"`
}

// PackageStep configures what the package step copies out of the source folder
type PackageStep struct {
	Copy Patterns `yaml:"copy,omitempty"`
}

// Patterns is a list of glob patterns. In YAML it may be written as a single
// string or as a sequence.
type Patterns []string

// UnmarshalYAML accepts both `include/*` and `[include/*, src/*]`.
func (p *Patterns) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		if s == "" {
			*p = nil
			return nil
		}
		*p = Patterns{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*p = list
		return nil
	default:
		return fmt.Errorf("line %d: patterns must be a string or a list of strings", value.Line)
	}
}

// MarshalYAML writes a single pattern back as a plain string.
func (p Patterns) MarshalYAML() (interface{}, error) {
	if len(p) == 1 {
		return p[0], nil
	}
	return []string(p), nil
}
