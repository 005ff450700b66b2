package alire

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// ManifestFile is the crate manifest alr writes at the crate root.
const ManifestFile = "alire.toml"

// Manifest is the subset of alire.toml haligen reads back after running alr.
type Manifest struct {
	Name    string
	Version string
	// Dependencies lists crate names in the order of their [[depends-on]] tables.
	Dependencies []string
}

type rawManifest struct {
	Name      string           `toml:"name"`
	Version   string           `toml:"version"`
	DependsOn []map[string]any `toml:"depends-on"`
}

// ReadManifest parses <crateDir>/alire.toml.
func ReadManifest(crateDir string) (*Manifest, error) {
	path := filepath.Join(crateDir, ManifestFile)

	var raw rawManifest
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("read crate manifest: %w", err)
	}

	m := &Manifest{Name: raw.Name, Version: raw.Version}
	for _, table := range raw.DependsOn {
		// Keys inside one table have no defined order; sort them for stable output.
		names := make([]string, 0, len(table))
		for name := range table {
			names = append(names, name)
		}
		sort.Strings(names)
		m.Dependencies = append(m.Dependencies, names...)
	}
	return m, nil
}

// HasDependency reports whether dep is listed in the manifest.
func (m *Manifest) HasDependency(dep string) bool {
	for _, d := range m.Dependencies {
		if d == dep {
			return true
		}
	}
	return false
}
