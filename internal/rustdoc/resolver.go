package rustdoc

import (
	"log"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
)

// crateLoader abstracts source discovery so tests can count or fake
// filesystem access.
type crateLoader interface {
	Load(root string) ([]SourceFile, error)
}

// Resolver answers doc lookups for a fixed set of registered crates.
// Each crate's load-parse-index pipeline runs lazily, at most once per
// Resolver lifetime; a failed build is cached and replayed so a broken
// crate is not re-parsed on every directive that references it.
type Resolver struct {
	crates  map[string]string
	loader  crateLoader
	parser  *Parser
	verbose bool

	group singleflight.Group

	mu    sync.Mutex
	built map[string]*crateState
}

type crateState struct {
	index *Index
	err   error
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLoader overrides the source loader.
func WithLoader(l crateLoader) Option {
	return func(r *Resolver) { r.loader = l }
}

// WithVerbose enables per-crate build logging.
func WithVerbose(verbose bool) Option {
	return func(r *Resolver) { r.verbose = verbose }
}

// NewResolver creates a resolver over the given crate-name to
// root-directory mapping. The mapping is copied; later mutation of the
// caller's map does not affect the resolver.
func NewResolver(crates map[string]string, opts ...Option) (*Resolver, error) {
	loader, err := NewLoader(nil, DefaultIgnore)
	if err != nil {
		return nil, err
	}

	r := &Resolver{
		crates: make(map[string]string, len(crates)),
		loader: loader,
		parser: NewParser(),
		built:  make(map[string]*crateState),
	}
	for name, root := range crates {
		r.crates[name] = root
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Crates returns the registered crate names, sorted.
func (r *Resolver) Crates() []string {
	names := make([]string, 0, len(r.crates))
	for name := range r.crates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve looks up the doc text for a raw dotted path whose head
// segment names the crate. A declaration with no doc block is an
// error; an explicitly empty doc block resolves to "".
func (r *Resolver) Resolve(raw string) (string, error) {
	path, err := ParsePath(raw)
	if err != nil {
		return "", err
	}
	return r.ResolvePath(path)
}

// ResolvePath is Resolve for an already-parsed path.
func (r *Resolver) ResolvePath(path Path) (string, error) {
	crate := path.Head()
	root, ok := r.crates[crate]
	if !ok {
		return "", &UnknownCrateError{Crate: crate, Known: r.Crates()}
	}

	idx, err := r.index(crate, root)
	if err != nil {
		return "", err
	}

	decl, err := idx.Lookup(path)
	if err != nil {
		return "", err
	}
	if decl.Doc == nil {
		return "", &MissingDocError{
			Path: path,
			Kind: decl.Kind,
			File: decl.File,
			Line: decl.Line,
		}
	}
	return *decl.Doc, nil
}

// index returns the crate's symbol index, building it on first use.
// Concurrent resolutions against a not-yet-built crate share a single
// build via singleflight.
func (r *Resolver) index(crate, root string) (*Index, error) {
	r.mu.Lock()
	if state, ok := r.built[crate]; ok {
		r.mu.Unlock()
		return state.index, state.err
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do(crate, func() (interface{}, error) {
		idx, err := r.build(crate, root)
		r.mu.Lock()
		r.built[crate] = &crateState{index: idx, err: err}
		r.mu.Unlock()
		return idx, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*Index), nil
}

func (r *Resolver) build(crate, root string) (*Index, error) {
	files, err := r.loader.Load(root)
	if err != nil {
		return nil, err
	}

	idx, err := BuildIndex(crate, files, r.parser)
	if err != nil {
		return nil, err
	}

	if r.verbose {
		log.Printf("indexed crate %s: %d files, %d symbols", crate, len(files), idx.Len())
	}
	return idx, nil
}
