package rustdoc

// Kind tags the declaration variant a Decl represents.
type Kind string

const (
	KindModule    Kind = "module"
	KindStruct    Kind = "struct"
	KindEnum      Kind = "enum"
	KindVariant   Kind = "variant"
	KindField     Kind = "field"
	KindFunction  Kind = "function"
	KindMethod    Kind = "method"
	KindTrait     Kind = "trait"
	KindConst     Kind = "const"
	KindStatic    Kind = "static"
	KindTypeAlias Kind = "type"

	// KindImpl is a grafting placeholder: an impl block's items are
	// folded into the implemented type when the index is built, and
	// the impl node itself never appears in the final tree.
	KindImpl Kind = "impl"
)

// Decl is one named declaration recovered from source: a module, type,
// field, function, constant, or enum variant.
type Decl struct {
	Name string
	Kind Kind

	// Doc is the doc comment block attached to the declaration with
	// markers stripped. nil means no doc block was present; a pointer
	// to "" means an explicitly empty block was written.
	Doc *string

	// Children in source order. For modules merged from several files,
	// file-lexical order then source order.
	Children []*Decl

	// File and Line locate the declaration for error messages.
	File string
	Line int
}

// Child returns the named child, or nil.
func (d *Decl) Child(name string) *Decl {
	for _, c := range d.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// HasDoc reports whether any doc block (even an empty one) is attached.
func (d *Decl) HasDoc() bool {
	return d.Doc != nil
}

// SourceFile is one Rust file discovered under a crate root, together
// with the module prefix its location implies.
type SourceFile struct {
	// Path is the absolute location on disk.
	Path string

	// Rel is the slash-separated path relative to the crate's src
	// directory, used for deterministic ordering.
	Rel string

	// Module is the dotted-path prefix derived from Rel: lib.rs and
	// main.rs map to the crate root, foo.rs and foo/mod.rs to "foo",
	// foo/bar.rs to "foo::bar".
	Module []string

	Text []byte
}
