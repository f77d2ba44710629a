package rustdoc

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for each failure class. Concrete error types below
// unwrap to these so callers can branch with errors.Is while tests and
// error messages keep the structured context.
var (
	ErrUnknownCrate  = errors.New("unknown crate")
	ErrPathNotFound  = errors.New("path not found")
	ErrMissingDoc    = errors.New("missing documentation")
	ErrDuplicateDecl = errors.New("duplicate declaration")
)

// UnknownCrateError reports a lookup against a crate name that was
// never registered.
type UnknownCrateError struct {
	Crate string
	Known []string
}

func (e *UnknownCrateError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown crate %q (no crates are registered)", e.Crate)
	}
	return fmt.Sprintf("unknown crate %q (known crates: %s)", e.Crate, strings.Join(e.Known, ", "))
}

func (e *UnknownCrateError) Unwrap() error { return ErrUnknownCrate }

// PathNotFoundError reports the exact segment at which resolution
// broke, along with the longest prefix that did resolve.
type PathNotFoundError struct {
	Crate   string
	Path    Path
	Prefix  Path
	Segment string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path %s not found: %q has no member %q",
		e.Path, e.Prefix, e.Segment)
}

func (e *PathNotFoundError) Unwrap() error { return ErrPathNotFound }

// MissingDocError reports a path that resolved to a declaration with
// no doc comment attached.
type MissingDocError struct {
	Path Path
	Kind Kind
	File string
	Line int
}

func (e *MissingDocError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s %s (%s:%d) has no documentation", e.Kind, e.Path, e.File, e.Line)
	}
	return fmt.Sprintf("%s %s has no documentation", e.Kind, e.Path)
}

func (e *MissingDocError) Unwrap() error { return ErrMissingDoc }

// DuplicateDeclError reports two non-module declarations claiming the
// same fully-qualified path.
type DuplicateDeclError struct {
	Path  string
	Kinds [2]Kind
	Files [2]string
}

func (e *DuplicateDeclError) Error() string {
	return fmt.Sprintf("duplicate declaration %s: %s in %s conflicts with %s in %s",
		e.Path, e.Kinds[0], e.Files[0], e.Kinds[1], e.Files[1])
}

func (e *DuplicateDeclError) Unwrap() error { return ErrDuplicateDecl }
