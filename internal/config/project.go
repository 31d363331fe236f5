package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jpetrucciani/beartype/internal/utils"
)

// Project represents the top-level bear.yaml configuration.
type Project struct {
	// Paths are the module search roots, relative to the project file.
	Paths []string `yaml:"paths,omitempty"`

	// Packages lists the dotted package names whose modules are
	// instrumented on load. Subpackages are covered implicitly.
	Packages []string `yaml:"packages,omitempty"`

	// All instruments every loaded module, regardless of Packages.
	All bool `yaml:"all,omitempty"`

	// Debug dumps generated wrapper sources through the logger.
	Debug bool `yaml:"debug,omitempty"`

	// WarnOnly downgrades call-time violations to logged warnings.
	WarnOnly bool `yaml:"warn_only,omitempty"`
}

// LoadProject reads and parses a bear.yaml file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseProject(data, path)
}

// ParseProject parses bear.yaml content from bytes.
// The path argument is used only for error messages.
func ParseProject(data []byte, path string) (*Project, error) {
	var proj Project
	if err := yaml.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := proj.validate(path); err != nil {
		return nil, err
	}
	proj.setDefaults()
	return &proj, nil
}

// FindProject searches for bear.yaml starting from dir and walking up
// to parent directories. Returns the path to the config file and nil
// error if found, or empty string and nil error if not found.
func FindProject(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ProjectFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

func (p *Project) validate(path string) error {
	for i, pkg := range p.Packages {
		if !utils.IsDottedIdentifier(pkg) {
			return fmt.Errorf("%s: packages[%d]: %q is not a dotted package name", path, i, pkg)
		}
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (p *Project) setDefaults() {
	if len(p.Paths) == 0 {
		p.Paths = []string{"."}
	}
}

// Conf builds the checking configuration the project requests.
func (p *Project) Conf() *Conf {
	return &Conf{IsDebug: p.Debug, IsWarningOnly: p.WarnOnly}
}

// SearchRoots resolves Paths against the directory of the project file.
func (p *Project) SearchRoots(projectPath string) []string {
	base := filepath.Dir(projectPath)
	roots := make([]string, 0, len(p.Paths))
	for _, rel := range p.Paths {
		if filepath.IsAbs(rel) {
			roots = append(roots, rel)
			continue
		}
		roots = append(roots, filepath.Join(base, rel))
	}
	return roots
}
