package rustdoc

import "strings"

// stripLineMarker removes a line comment marker ("///" or "//!") and
// the single alignment space that conventionally follows it. Interior
// spacing is preserved so indented doc content (code blocks, lists)
// survives intact.
func stripLineMarker(line, marker string) string {
	line = strings.TrimPrefix(line, marker)
	line = strings.TrimPrefix(line, " ")
	return strings.TrimRight(line, " \t")
}

// blockDocLines splits a block doc comment ("/** ... */" or
// "/*! ... */") into cleaned lines. Leading alignment whitespace and
// the conventional " * " gutter are stripped per line; interior blank
// lines are preserved.
func blockDocLines(text, marker string) []string {
	text = strings.TrimPrefix(text, marker)
	text = strings.TrimSuffix(text, "*/")

	rawLines := strings.Split(text, "\n")
	lines := make([]string, 0, len(rawLines))
	for _, line := range rawLines {
		line = strings.TrimLeft(line, " \t")
		if after, ok := strings.CutPrefix(line, "*"); ok {
			line = strings.TrimPrefix(after, " ")
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
	}

	// Drop a leading and trailing blank produced by the markers being
	// on their own lines, without touching interior blanks.
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	// An empty block comment is still an explicit doc block.
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

// docFromLines joins collected doc lines into the final doc text.
// present distinguishes "no doc block" (nil) from an explicitly empty
// one (pointer to "").
func docFromLines(lines []string, present bool) *string {
	if !present {
		return nil
	}
	joined := strings.Join(lines, "\n")
	joined = strings.TrimRight(joined, "\n")
	return &joined
}

// joinDocs combines two doc blocks for the same declaration (an outer
// `/// mod` comment plus the file's inner `//!` block, say), keeping
// nil when neither exists.
func joinDocs(a, b *string) *string {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *a == "":
		return b
	case *b == "":
		return a
	}
	joined := *a + "\n" + *b
	return &joined
}
