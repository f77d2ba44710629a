package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test: Defaults apply when no config file exists
func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, cfg.Crates)
	assert.Equal(t, "src", cfg.Book.Src)
	assert.Equal(t, "book", cfg.Book.Out)
	assert.Equal(t, []string{"**/*.rs"}, cfg.Source.Include)
	assert.Equal(t, []string{"target/**"}, cfg.Source.Ignore)
}

// Test: Config file values override defaults
func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := `crates:
  widgets: ../widgets
book:
  src: chapters
  out: rendered
source:
  ignore:
    - target/**
    - generated/**
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rust-doc.yml"), []byte(content), 0o644))

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"widgets": "../widgets"}, cfg.Crates)
	assert.Equal(t, "chapters", cfg.Book.Src)
	assert.Equal(t, "rendered", cfg.Book.Out)
	assert.Equal(t, []string{"target/**", "generated/**"}, cfg.Source.Ignore)
}

// Test: Environment variables win over file values
func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	content := `book:
  out: from-file
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rust-doc.yml"), []byte(content), 0o644))

	t.Setenv("MDBOOK_RUST_DOC_BOOK_OUT", "from-env")

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Book.Out)
}

// Test: Invalid values are rejected with descriptive errors
func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, Validate(cfg))

	cfg = Default()
	cfg.Crates = map[string]string{"widgets": "  "}
	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyCratePath)

	cfg = Default()
	cfg.Source.Include = []string{"[unclosed"}
	err = Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPattern)

	cfg = Default()
	cfg.Book.Src = ""
	err = Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyBookPath)
}
