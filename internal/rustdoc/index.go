package rustdoc

// Index is the flattened symbol table of one crate: every reachable
// declaration keyed by its fully-qualified dotted path. Built once per
// run and read-only afterward.
type Index struct {
	crate  string
	root   *Decl
	byPath map[string]*Decl
}

// BuildIndex parses every source file of a crate and merges the
// per-file forests into one tree rooted at the crate itself. Module
// nodes sharing a dotted path are unioned (children concatenated in
// file-lexical then source order); impl items fold into the type they
// implement; any other collision is a DuplicateDeclError.
func BuildIndex(crate string, files []SourceFile, parser *Parser) (*Index, error) {
	root := &Decl{Name: crate, Kind: KindModule}

	for _, file := range files {
		parsed, err := parser.Parse(file)
		if err != nil {
			return nil, err
		}

		target := graftPoint(root, file.Module, file.Rel)
		target.Doc = joinDocs(target.Doc, parsed.Doc)
		target.Children = append(target.Children, parsed.Decls...)
	}

	if err := mergeModules(root); err != nil {
		return nil, err
	}
	if err := foldImpls(root); err != nil {
		return nil, err
	}
	if err := checkSiblings(root, crate); err != nil {
		return nil, err
	}

	idx := &Index{
		crate:  crate,
		root:   root,
		byPath: make(map[string]*Decl),
	}
	idx.accumulate(root, Path{crate})
	return idx, nil
}

// graftPoint descends (creating synthetic module nodes as needed) to
// the module a file's path prefix names.
func graftPoint(root *Decl, prefix []string, file string) *Decl {
	node := root
	for _, name := range prefix {
		child := node.Child(name)
		if child == nil || child.Kind != KindModule {
			child = &Decl{Name: name, Kind: KindModule, File: file}
			node.Children = append(node.Children, child)
		}
		node = child
	}
	return node
}

// mergeModules unions sibling module nodes that share a name: the
// `mod shapes;` declaration in lib.rs, the synthetic node from
// src/shapes.rs, and any inline `mod shapes { ... }` body all become
// one logical module. Child order stays stable: first occurrence wins
// the slot, later occurrences append their children.
func mergeModules(node *Decl) error {
	merged := make([]*Decl, 0, len(node.Children))
	byName := make(map[string]*Decl)

	for _, child := range node.Children {
		if child.Kind != KindModule {
			merged = append(merged, child)
			continue
		}
		if existing, ok := byName[child.Name]; ok {
			existing.Doc = joinDocs(existing.Doc, child.Doc)
			existing.Children = append(existing.Children, child.Children...)
			continue
		}
		byName[child.Name] = child
		merged = append(merged, child)
	}
	node.Children = merged

	for _, child := range node.Children {
		if child.Kind == KindModule {
			if err := mergeModules(child); err != nil {
				return err
			}
		}
	}
	return nil
}

// foldImpls moves each impl placeholder's items into the sibling type
// it implements. An impl whose target type is not declared in the same
// module is dropped: its methods become unresolvable paths, which
// surfaces later as PathNotFound rather than a crash.
func foldImpls(node *Decl) error {
	kept := make([]*Decl, 0, len(node.Children))
	for _, child := range node.Children {
		if child.Kind != KindImpl {
			kept = append(kept, child)
			continue
		}
		target := findImplTarget(node, child.Name)
		if target == nil {
			continue
		}
		target.Children = append(target.Children, child.Children...)
	}
	node.Children = kept

	for _, child := range node.Children {
		if err := foldImpls(child); err != nil {
			return err
		}
	}
	return nil
}

func findImplTarget(node *Decl, name string) *Decl {
	for _, c := range node.Children {
		if c.Name != name {
			continue
		}
		switch c.Kind {
		case KindStruct, KindEnum, KindTrait, KindTypeAlias:
			return c
		}
	}
	return nil
}

// checkSiblings enforces the sibling-uniqueness invariant: after
// module merging and impl folding, two declarations at the same path
// are an authoring error, never silently resolved.
func checkSiblings(node *Decl, path string) error {
	seen := make(map[string]*Decl, len(node.Children))
	for _, child := range node.Children {
		if prev, ok := seen[child.Name]; ok {
			return &DuplicateDeclError{
				Path:  path + "::" + child.Name,
				Kinds: [2]Kind{prev.Kind, child.Kind},
				Files: [2]string{prev.File, child.File},
			}
		}
		seen[child.Name] = child
	}

	for _, child := range node.Children {
		if err := checkSiblings(child, path+"::"+child.Name); err != nil {
			return err
		}
	}
	return nil
}

func (idx *Index) accumulate(node *Decl, path Path) {
	idx.byPath[path.String()] = node
	for _, child := range node.Children {
		idx.accumulate(child, append(path[:len(path):len(path)], child.Name))
	}
}

// Lookup resolves a full dotted path (crate name included) against the
// index, reporting the exact failing segment when resolution breaks.
func (idx *Index) Lookup(p Path) (*Decl, error) {
	node := idx.root
	for i, segment := range p.Tail() {
		child := node.Child(segment)
		if child == nil {
			return nil, &PathNotFoundError{
				Crate:   idx.crate,
				Path:    p,
				Prefix:  p.Prefix(i + 1),
				Segment: segment,
			}
		}
		node = child
	}
	return node, nil
}

// Len reports how many paths the index holds.
func (idx *Index) Len() int {
	return len(idx.byPath)
}
