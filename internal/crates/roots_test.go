package crates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test: Explicit name=dir specs
func TestFromSpecs_NamedSpec(t *testing.T) {
	t.Parallel()

	roots, err := FromSpecs([]string{"widgets=/some/dir", "gadgets=/other/dir"})
	require.NoError(t, err)
	assert.Equal(t, Roots{
		"widgets": "/some/dir",
		"gadgets": "/other/dir",
	}, roots)
}

// Test: Bare directory specs read the name from Cargo.toml
func TestFromSpecs_CargoToml(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifest := `[package]
name = "widgets"
version = "0.1.0"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(manifest), 0o644))

	roots, err := FromSpecs([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, Roots{"widgets": dir}, roots)
}

// Test: Missing or nameless manifests are reported with the path
func TestFromSpecs_BadManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := FromSpecs([]string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cargo.toml")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte("[package]\n"), 0o644))
	_, err = FromSpecs([]string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no package name")
}

// Test: Conflicting registrations for one name fail
func TestFromSpecs_Conflict(t *testing.T) {
	t.Parallel()

	_, err := FromSpecs([]string{"widgets=/a", "widgets=/b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registered twice")

	// The same registration twice is harmless.
	roots, err := FromSpecs([]string{"widgets=/a", "widgets=/a"})
	require.NoError(t, err)
	assert.Len(t, roots, 1)
}

// Test: Merge lets the overlay win conflicts
func TestRoots_Merge(t *testing.T) {
	t.Parallel()

	base := Roots{"widgets": "/from/config", "gadgets": "/g"}
	flags := Roots{"widgets": "/from/flag"}

	merged := base.Merge(flags)
	assert.Equal(t, "/from/flag", merged["widgets"])
	assert.Equal(t, "/g", merged["gadgets"])
	assert.Equal(t, []string{"gadgets", "widgets"}, merged.Names())
}
