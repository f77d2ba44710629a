// Package book splices resolved Rust doc comments into a book's
// markdown chapters wherever a {{#rust_doc path}} directive appears.
package book

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/mythmon/mdbook-rust-doc/internal/rustdoc"
)

// directivePattern matches {{#rust_doc crate::module::Item}} with
// either :: or . separators in the path.
var directivePattern = regexp.MustCompile(`\{\{#rust_doc\s+([A-Za-z0-9_:.]+)\s*\}\}`)

// Splicer replaces directives in chapter text with resolved doc
// comments. Directives inside fenced code blocks, indented code
// blocks, or inline code spans are left alone so the directive syntax
// itself can be documented.
type Splicer struct {
	resolver *rustdoc.Resolver
}

// NewSplicer creates a splicer backed by the given resolver.
func NewSplicer(r *rustdoc.Resolver) *Splicer {
	return &Splicer{resolver: r}
}

// Splice processes one chapter's content. Any directive that fails to
// resolve aborts with an error naming the directive and its line; the
// caller must treat that as a build failure.
func (s *Splicer) Splice(content []byte) ([]byte, error) {
	matches := directivePattern.FindAllSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, nil
	}

	protected := protectedSpans(content)

	var out bytes.Buffer
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if inSpans(protected, start) {
			continue
		}

		path := string(content[m[2]:m[3]])
		doc, err := s.resolver.Resolve(path)
		if err != nil {
			line := 1 + bytes.Count(content[:start], []byte("\n"))
			return nil, fmt.Errorf("line %d: {{#rust_doc %s}}: %w", line, path, err)
		}

		out.Write(content[last:start])
		out.WriteString(doc)
		last = end
	}
	out.Write(content[last:])
	return out.Bytes(), nil
}

type span struct {
	start, end int
}

// protectedSpans parses the markdown and collects the byte ranges of
// code blocks and code spans, where directives must not be expanded.
func protectedSpans(content []byte) []span {
	md := goldmark.New()
	reader := text.NewReader(content)
	doc := md.Parser().Parse(reader)

	var spans []span
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				spans = append(spans, span{start: seg.Start, end: seg.Stop})
			}
		case ast.KindCodeSpan:
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					spans = append(spans, span{start: t.Segment.Start, end: t.Segment.Stop})
				}
			}
		}
		return ast.WalkContinue, nil
	})
	return spans
}

func inSpans(spans []span, offset int) bool {
	for _, sp := range spans {
		if offset >= sp.start && offset < sp.end {
			return true
		}
	}
	return false
}
