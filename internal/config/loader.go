package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables.
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a configuration loader rooted at the book
// directory (where rust-doc.yml lives).
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load loads configuration with the following priority (highest to
// lowest):
//  1. Environment variables (MDBOOK_RUST_DOC_*)
//  2. Config file (rust-doc.yml or rust-doc.yaml in the root dir)
//  3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("rust-doc")
	v.SetConfigType("yaml")
	v.AddConfigPath(l.rootDir)

	v.SetEnvPrefix("MDBOOK_RUST_DOC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("book.src")
	v.BindEnv("book.out")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine: defaults plus flags and env
		// vars cover the lookup use case.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("book.src", defaults.Book.Src)
	v.SetDefault("book.out", defaults.Book.Out)
	v.SetDefault("source.include", defaults.Source.Include)
	v.SetDefault("source.ignore", defaults.Source.Ignore)
}

// LoadFromDir loads configuration from a specific directory.
func LoadFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}

// LoadFromCwd loads configuration from the current working directory.
func LoadFromCwd() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}
