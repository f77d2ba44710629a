// Package crates resolves crate registration specs into a mapping
// from crate name to root directory.
package crates

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Roots maps a crate's logical name to its root directory (the
// directory containing Cargo.toml and src/).
type Roots map[string]string

// cargoManifest is the slice of Cargo.toml needed to learn a crate's
// package name.
type cargoManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

// FromSpecs parses crate registration specs. Each spec is either
// "name=dir", registering dir under an explicit name, or a bare
// directory whose Cargo.toml supplies the name. Paths may start with
// "~" for the home directory.
func FromSpecs(specs []string) (Roots, error) {
	roots := make(Roots, len(specs))
	for _, spec := range specs {
		name, dir, err := parseSpec(spec)
		if err != nil {
			return nil, err
		}
		if existing, ok := roots[name]; ok && existing != dir {
			return nil, fmt.Errorf("crate %q registered twice: %s and %s", name, existing, dir)
		}
		roots[name] = dir
	}
	return roots, nil
}

func parseSpec(spec string) (name, dir string, err error) {
	if n, d, ok := strings.Cut(spec, "="); ok {
		d, err = expandHome(d)
		if err != nil {
			return "", "", err
		}
		if strings.TrimSpace(n) == "" {
			return "", "", fmt.Errorf("invalid crate spec %q: empty name", spec)
		}
		return strings.TrimSpace(n), d, nil
	}

	dir, err = expandHome(spec)
	if err != nil {
		return "", "", err
	}
	name, err = packageName(dir)
	if err != nil {
		return "", "", err
	}
	return name, dir, nil
}

// packageName reads [package].name from the crate's Cargo.toml.
func packageName(dir string) (string, error) {
	manifestPath := filepath.Join(dir, "Cargo.toml")

	var manifest cargoManifest
	if _, err := toml.DecodeFile(manifestPath, &manifest); err != nil {
		return "", fmt.Errorf("reading crate manifest %s: %w", manifestPath, err)
	}
	if manifest.Package.Name == "" {
		return "", fmt.Errorf("crate manifest %s has no package name", manifestPath)
	}
	return manifest.Package.Name, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Merge overlays other onto r, with other winning conflicts. Used to
// let command-line --crate flags override configured crates.
func (r Roots) Merge(other Roots) Roots {
	merged := make(Roots, len(r)+len(other))
	for name, dir := range r {
		merged[name] = dir
	}
	for name, dir := range other {
		merged[name] = dir
	}
	return merged
}

// Names returns the registered crate names, sorted.
func (r Roots) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
