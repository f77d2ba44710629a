package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrEmptyCratePath indicates a crate registered with no directory.
	ErrEmptyCratePath = errors.New("empty crate path")

	// ErrInvalidPattern indicates a source glob pattern that does not compile.
	ErrInvalidPattern = errors.New("invalid source pattern")

	// ErrEmptyBookPath indicates a missing book src or out directory.
	ErrEmptyBookPath = errors.New("empty book path")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	for name, dir := range cfg.Crates {
		if strings.TrimSpace(dir) == "" {
			errs = append(errs, fmt.Errorf("%w: crate %q", ErrEmptyCratePath, name))
		}
	}

	if strings.TrimSpace(cfg.Book.Src) == "" {
		errs = append(errs, fmt.Errorf("%w: book.src is required", ErrEmptyBookPath))
	}
	if strings.TrimSpace(cfg.Book.Out) == "" {
		errs = append(errs, fmt.Errorf("%w: book.out is required", ErrEmptyBookPath))
	}

	for _, pattern := range cfg.Source.Include {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}
	for _, pattern := range cfg.Source.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear
// formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
