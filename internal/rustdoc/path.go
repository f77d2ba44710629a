package rustdoc

import (
	"fmt"
	"strings"
)

// Path is a parsed item path such as "widgets::shapes::Circle::radius".
// The first segment names the crate; the rest descend through modules,
// types, and members. Both "::" and "." are accepted as separators on
// input; "::" is the canonical form.
type Path []string

// ParsePath splits a raw dotted path into segments.
func ParsePath(raw string) (Path, error) {
	normalized := strings.ReplaceAll(raw, ".", "::")
	segments := strings.Split(normalized, "::")

	parts := make(Path, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			return nil, fmt.Errorf("invalid path %q: empty segment", raw)
		}
		parts = append(parts, seg)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("invalid path %q: no segments", raw)
	}
	return parts, nil
}

// Head returns the first segment (the crate name).
func (p Path) Head() string {
	return p[0]
}

// Tail returns everything after the first segment, or nil when the
// path names the crate itself.
func (p Path) Tail() Path {
	if len(p) <= 1 {
		return nil
	}
	return p[1:]
}

// Prefix returns the first n segments.
func (p Path) Prefix(n int) Path {
	if n > len(p) {
		n = len(p)
	}
	return p[:n]
}

func (p Path) String() string {
	return strings.Join(p, "::")
}
