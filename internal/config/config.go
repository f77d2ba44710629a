// Package config loads tool configuration from rust-doc.yml with
// environment variable overrides.
package config

// Config is the complete mdbook-rust-doc configuration.
type Config struct {
	// Crates maps logical crate names to crate root directories.
	Crates map[string]string `yaml:"crates" mapstructure:"crates"`

	Book   BookConfig   `yaml:"book" mapstructure:"book"`
	Source SourceConfig `yaml:"source" mapstructure:"source"`
}

// BookConfig locates the book's markdown sources and build output.
type BookConfig struct {
	Src string `yaml:"src" mapstructure:"src"` // chapter sources
	Out string `yaml:"out" mapstructure:"out"` // build output directory
}

// SourceConfig controls which files count as crate sources.
type SourceConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns, relative to src/
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Crates: map[string]string{},
		Book: BookConfig{
			Src: "src",
			Out: "book",
		},
		Source: SourceConfig{
			Include: []string{"**/*.rs"},
			Ignore:  []string{"target/**"},
		},
	}
}
