package rustdoc

import (
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// Parser turns Rust source text into a Decl forest. It is a tolerant
// structural scan: only declaration shapes and their doc comments are
// recognized, and unparseable regions are skipped rather than fatal.
type Parser struct {
	language *sitter.Language
}

// NewParser creates a parser backed by the tree-sitter Rust grammar.
func NewParser() *Parser {
	return &Parser{
		language: sitter.NewLanguage(rust.Language()),
	}
}

// FileDecls is the result of parsing one source file: the top-level
// declarations and the file's own inner (//!) doc block, which
// documents the module the file backs.
type FileDecls struct {
	Decls []*Decl
	Doc   *string
}

// Parse parses one source file into its declaration forest.
func (p *Parser) Parse(file SourceFile) (*FileDecls, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(p.language)

	tree := parser.Parse(file.Text, nil)
	if tree == nil {
		return nil, fmt.Errorf("parsing %s: tree-sitter produced no tree", file.Path)
	}
	defer tree.Close()

	s := &fileScan{source: file.Text, file: file.Rel}
	decls, doc := s.scanContainer(tree.RootNode())
	return &FileDecls{Decls: decls, Doc: doc}, nil
}

// fileScan carries per-file state through the recursive scan.
type fileScan struct {
	source []byte
	file   string
}

// scanContainer walks the ordered children of a declaration container
// (a source file, module body, impl body, or trait body), pairing each
// declaration with the doc comment block immediately above it. A blank
// line or an unrelated node breaks the pending block; attribute lines
// between docs and declaration do not.
func (s *fileScan) scanContainer(container *sitter.Node) (decls []*Decl, innerDoc *string) {
	var pending []string
	havePending := false
	var innerLines []string
	haveInner := false
	prevEndRow := -1

	reset := func() {
		pending = nil
		havePending = false
	}

	for i := 0; i < int(container.ChildCount()); i++ {
		child := container.Child(uint(i))
		startRow := int(child.StartPosition().Row)

		// A blank line detaches any comment block above it.
		if prevEndRow >= 0 && startRow > prevEndRow+1 {
			reset()
		}
		prevEndRow = int(child.EndPosition().Row)

		switch child.Kind() {
		case "line_comment":
			text := s.text(child)
			switch {
			case strings.HasPrefix(text, "///"):
				pending = append(pending, stripLineMarker(text, "///"))
				havePending = true
			case strings.HasPrefix(text, "//!"):
				innerLines = append(innerLines, stripLineMarker(text, "//!"))
				haveInner = true
			default:
				// Plain comments separate a doc block from the
				// declaration below.
				reset()
			}

		case "block_comment":
			text := s.text(child)
			switch {
			case strings.HasPrefix(text, "/**") && text != "/**/":
				pending = append(pending, blockDocLines(text, "/**")...)
				havePending = true
			case strings.HasPrefix(text, "/*!"):
				innerLines = append(innerLines, blockDocLines(text, "/*!")...)
				haveInner = true
			default:
				reset()
			}

		case "attribute_item", "inner_attribute_item", "visibility_modifier":
			// Attributes may sit between a doc block and its item.

		case "{", "}", "(", ")", ",", ";":

		case "ERROR":
			// Unparseable region: skip it, but rescue any complete
			// declarations tree-sitter recovered inside it so their
			// paths stay resolvable.
			reset()
			rescued, _ := s.scanContainer(child)
			decls = append(decls, rescued...)

		default:
			doc := docFromLines(pending, havePending)
			reset()
			if decl := s.scanItem(child, doc); decl != nil {
				decls = append(decls, decl)
			}
		}
	}

	return decls, docFromLines(innerLines, haveInner)
}

// scanItem builds a Decl for one recognized declaration node. Nodes
// with no structural meaning for doc lookup (use declarations, macro
// invocations, ERROR regions) yield nil.
func (s *fileScan) scanItem(node *sitter.Node, doc *string) *Decl {
	switch node.Kind() {
	case "mod_item":
		return s.scanMod(node, doc)
	case "struct_item":
		return s.scanStruct(node, doc)
	case "enum_item":
		return s.scanEnum(node, doc)
	case "function_item", "function_signature_item":
		return s.named(node, KindFunction, doc)
	case "const_item":
		return s.named(node, KindConst, doc)
	case "static_item":
		return s.named(node, KindStatic, doc)
	case "type_item", "associated_type":
		return s.named(node, KindTypeAlias, doc)
	case "trait_item":
		return s.scanTrait(node, doc)
	case "impl_item":
		return s.scanImpl(node)
	}
	return nil
}

// named builds a leaf Decl for any node carrying a "name" field.
func (s *fileScan) named(node *sitter.Node, kind Kind, doc *string) *Decl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	return &Decl{
		Name: s.text(nameNode),
		Kind: kind,
		Doc:  doc,
		File: s.file,
		Line: int(node.StartPosition().Row) + 1,
	}
}

func (s *fileScan) scanMod(node *sitter.Node, doc *string) *Decl {
	decl := s.named(node, KindModule, doc)
	if decl == nil {
		return nil
	}

	// A `mod foo;` declaration has no body: its contents come from
	// the file named after it, which the index merges in by path.
	if body := node.ChildByFieldName("body"); body != nil {
		children, inner := s.scanContainer(body)
		decl.Children = children
		decl.Doc = joinDocs(decl.Doc, inner)
	}
	return decl
}

func (s *fileScan) scanStruct(node *sitter.Node, doc *string) *Decl {
	decl := s.named(node, KindStruct, doc)
	if decl == nil {
		return nil
	}
	if body := node.ChildByFieldName("body"); body != nil {
		decl.Children = s.scanFields(body)
	}
	return decl
}

// scanFields handles both named field lists and tuple field lists.
// Tuple fields are addressed by position, so they are named "0", "1",
// and so on.
func (s *fileScan) scanFields(list *sitter.Node) []*Decl {
	var fields []*Decl
	var pending []string
	havePending := false
	prevEndRow := -1
	tupleIndex := 0

	reset := func() {
		pending = nil
		havePending = false
	}

	for i := 0; i < int(list.ChildCount()); i++ {
		child := list.Child(uint(i))
		startRow := int(child.StartPosition().Row)
		if prevEndRow >= 0 && startRow > prevEndRow+1 {
			reset()
		}
		prevEndRow = int(child.EndPosition().Row)

		switch child.Kind() {
		case "line_comment":
			text := s.text(child)
			if strings.HasPrefix(text, "///") {
				pending = append(pending, stripLineMarker(text, "///"))
				havePending = true
			} else {
				reset()
			}

		case "block_comment":
			text := s.text(child)
			if strings.HasPrefix(text, "/**") && text != "/**/" {
				pending = append(pending, blockDocLines(text, "/**")...)
				havePending = true
			} else {
				reset()
			}

		case "field_declaration":
			doc := docFromLines(pending, havePending)
			reset()
			if f := s.named(child, KindField, doc); f != nil {
				fields = append(fields, f)
			}

		case "attribute_item", "visibility_modifier":

		case "{", "}", "(", ")", ",", ";":

		default:
			// In a tuple field list the remaining named nodes are the
			// field types themselves.
			if list.Kind() == "ordered_field_declaration_list" && child.IsNamed() {
				doc := docFromLines(pending, havePending)
				reset()
				fields = append(fields, &Decl{
					Name: strconv.Itoa(tupleIndex),
					Kind: KindField,
					Doc:  doc,
					File: s.file,
					Line: int(child.StartPosition().Row) + 1,
				})
				tupleIndex++
			} else {
				reset()
			}
		}
	}
	return fields
}

func (s *fileScan) scanEnum(node *sitter.Node, doc *string) *Decl {
	decl := s.named(node, KindEnum, doc)
	if decl == nil {
		return nil
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return decl
	}

	var pending []string
	havePending := false
	prevEndRow := -1
	reset := func() {
		pending = nil
		havePending = false
	}

	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		startRow := int(child.StartPosition().Row)
		if prevEndRow >= 0 && startRow > prevEndRow+1 {
			reset()
		}
		prevEndRow = int(child.EndPosition().Row)

		switch child.Kind() {
		case "line_comment":
			text := s.text(child)
			if strings.HasPrefix(text, "///") {
				pending = append(pending, stripLineMarker(text, "///"))
				havePending = true
			} else {
				reset()
			}

		case "block_comment":
			text := s.text(child)
			if strings.HasPrefix(text, "/**") && text != "/**/" {
				pending = append(pending, blockDocLines(text, "/**")...)
				havePending = true
			} else {
				reset()
			}

		case "enum_variant":
			variantDoc := docFromLines(pending, havePending)
			reset()
			variant := s.named(child, KindVariant, variantDoc)
			if variant == nil {
				continue
			}
			if vbody := child.ChildByFieldName("body"); vbody != nil {
				variant.Children = s.scanFields(vbody)
			}
			decl.Children = append(decl.Children, variant)

		case "attribute_item":

		case "{", "}", ",":

		default:
			reset()
		}
	}
	return decl
}

func (s *fileScan) scanTrait(node *sitter.Node, doc *string) *Decl {
	decl := s.named(node, KindTrait, doc)
	if decl == nil {
		return nil
	}
	if body := node.ChildByFieldName("body"); body != nil {
		children, inner := s.scanContainer(body)
		decl.Children = children
		decl.Doc = joinDocs(decl.Doc, inner)
	}
	return decl
}

// scanImpl collects an impl block's items under a placeholder Decl
// named after the implemented type. The index later folds these items
// into the type's own node; the placeholder never survives indexing.
func (s *fileScan) scanImpl(node *sitter.Node) *Decl {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return nil
	}
	typeName := implTypeName(typeNode, s.source)
	if typeName == "" {
		return nil
	}

	decl := &Decl{
		Name: typeName,
		Kind: KindImpl,
		File: s.file,
		Line: int(node.StartPosition().Row) + 1,
	}

	if body := node.ChildByFieldName("body"); body != nil {
		children, _ := s.scanContainer(body)
		for _, c := range children {
			if c.Kind == KindFunction {
				c.Kind = KindMethod
			}
			decl.Children = append(decl.Children, c)
		}
	}
	return decl
}

func (s *fileScan) text(node *sitter.Node) string {
	return string(s.source[node.StartByte():node.EndByte()])
}

// implTypeName extracts the bare type name an impl block targets,
// unwrapping generics, references, and path qualifiers.
func implTypeName(node *sitter.Node, source []byte) string {
	switch node.Kind() {
	case "type_identifier", "primitive_type":
		return string(source[node.StartByte():node.EndByte()])
	case "generic_type":
		if inner := node.ChildByFieldName("type"); inner != nil {
			return implTypeName(inner, source)
		}
	case "reference_type":
		if inner := node.ChildByFieldName("type"); inner != nil {
			return implTypeName(inner, source)
		}
	case "scoped_type_identifier":
		if name := node.ChildByFieldName("name"); name != nil {
			return string(source[name.StartByte():name.EndByte()])
		}
	}
	return ""
}
