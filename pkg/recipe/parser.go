package recipe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/package-url/packageurl-go"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRecipe indicates a descriptor that cannot identify a package
var ErrInvalidRecipe = errors.New("invalid recipe")

// Default returns the built-in descriptor for wildcat-ws.
func Default() *Metadata {
	return &Metadata{
		Name:           "wildcat-ws",
		Version:        "0.1.1",
		License:        "MIT",
		Author:         "<Ross Bennett> <rossbennett34@gmail.com>",
		URL:            "https://github.com/rossb34/wildcat-ws",
		Description:    "Web socket library",
		ExportsSources: Patterns{"include/*"},
		NoCopySource:   true,
		Package:        PackageStep{Copy: DefaultPackageCopy},
		PackageID:      PolicyHeaderOnly,
	}
}

// Parse decodes a YAML descriptor and fills in defaults.
func Parse(data []byte) (*Metadata, error) {
	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing recipe: %w", err)
	}

	if m.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidRecipe)
	}
	if m.Version == "" {
		return nil, fmt.Errorf("%w: version is required", ErrInvalidRecipe)
	}

	switch m.PackageID {
	case "":
		m.PackageID = PolicyHeaderOnly
	case PolicyHeaderOnly, PolicyFull:
	default:
		return nil, fmt.Errorf("%w: unknown package_id policy %q", ErrInvalidRecipe, m.PackageID)
	}

	if len(m.Package.Copy) == 0 {
		m.Package.Copy = DefaultPackageCopy
	}

	return &m, nil
}

// Load reads a descriptor from disk. A directory is resolved to the
// DefaultFile inside it.
func Load(path string) (*Metadata, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path

	return m, nil
}

// Save writes the descriptor as YAML.
func Save(m *Metadata, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling recipe: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing recipe: %w", err)
	}
	return nil
}

// Reference returns name/version, the key a package index stores it under.
func (m *Metadata) Reference() string {
	return m.Name + "/" + m.Version
}

// PURL returns the package URL, e.g. pkg:conan/wildcat-ws@0.1.1
func (m *Metadata) PURL() string {
	return packageurl.NewPackageURL(PURLType, "", m.Name, m.Version, nil, "").ToString()
}

// HeaderOnly reports whether the package identity ignores build settings.
func (m *Metadata) HeaderOnly() bool {
	return m.PackageID == "" || m.PackageID == PolicyHeaderOnly
}
