package rustdoc

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Resolver:
// - Documented declarations of every kind resolve to their doc text
// - Unknown crates fail with UnknownCrate naming the known crates
// - Stale paths fail with PathNotFound citing prefix and segment
// - Structurally valid but undocumented items fail with MissingDoc
// - Explicitly empty doc blocks resolve to ""
// - A crate is loaded and parsed at most once per resolver
// - Concurrent resolutions share a single crate build
// - A failed crate build is cached and replayed

const widgetsRoot = "../../testdata/crates/widgets"

func widgetsResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	r, err := NewResolver(map[string]string{"widgets": widgetsRoot}, opts...)
	require.NoError(t, err)
	return r
}

// Test: Documented declarations resolve for every kind
func TestResolver_ResolvesAllKinds(t *testing.T) {
	t.Parallel()

	r := widgetsResolver(t)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"crate root", "widgets", "A crate full of widgets, used to exercise doc extraction."},
		{"module", "widgets::crustaceans", "All sorts of crustaceans."},
		{"merged module doc", "widgets::shapes", "Geometric building blocks.\nShapes that widgets are made of."},
		{"struct", "widgets::shapes::Circle", "A circle."},
		{"field", "widgets::shapes::Circle::radius", "radius in mm"},
		{"method", "widgets::shapes::Circle::area", "The area of the circle in square mm."},
		{"const", "widgets::WIDGET_LIMIT", "The maximum number of widgets one crate can hold."},
		{"function", "widgets::assemble", "Assembles a widget from loose parts.\n\nReturns the number of parts used."},
		{"multi-line field", "widgets::crustaceans::Crab::num_legs", "The number of legs this crab has. Probably 8, but there are some weird\ncrabs out there!"},
		{"tuple field", "widgets::crustaceans::CookedCrab::0", "The crab that was cooked."},
		{"enum", "widgets::crustaceans::LobsterColor", "Lobster colors, according to Wikipedia."},
		{"unit variant", "widgets::crustaceans::LobsterColor::Albino", "Also called white; translucent; ghost; crystal."},
		{"struct variant field", "widgets::crustaceans::LobsterColor::SplitColored::primary", "The color that is more prevalent on the lobster."},
		{"tuple variant field", "widgets::crustaceans::LobsterColor::Red::0", "A description of the intensity of the red"},
		{"impl method", "widgets::crustaceans::LobsterColor::halloween", "A common split colored lobster."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := r.Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc)
		})
	}
}

// Test: Unknown crate names the known crates
func TestResolver_UnknownCrate(t *testing.T) {
	t.Parallel()

	r := widgetsResolver(t)

	_, err := r.Resolve("gadgets::whatever")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCrate)

	var unknown *UnknownCrateError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "gadgets", unknown.Crate)
	assert.Equal(t, []string{"widgets"}, unknown.Known)
}

// Test: Stale path cites the longest resolving prefix and the failing segment
func TestResolver_PathNotFound(t *testing.T) {
	t.Parallel()

	r := widgetsResolver(t)

	_, err := r.Resolve("widgets::shapes::Circle::color")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPathNotFound)

	var notFound *PathNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "widgets::shapes::Circle", notFound.Prefix.String())
	assert.Equal(t, "color", notFound.Segment)
	assert.Contains(t, err.Error(), "color")
}

// Test: Valid path to an undocumented item is an error
func TestResolver_MissingDoc(t *testing.T) {
	t.Parallel()

	r := widgetsResolver(t)

	_, err := r.Resolve("widgets::shapes::Circle::legs")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingDoc)

	var missing *MissingDocError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "widgets::shapes::Circle::legs", missing.Path.String())

	_, err = r.Resolve("widgets::undocumented_helper")
	assert.ErrorIs(t, err, ErrMissingDoc)
}

// Test: Explicitly empty doc block resolves to the empty string
func TestResolver_EmptyDocBlock(t *testing.T) {
	t.Parallel()

	r := widgetsResolver(t)

	doc, err := r.Resolve("widgets::Blank")
	require.NoError(t, err)
	assert.Equal(t, "", doc)
}

// countingLoader wraps a loader and counts Load invocations.
type countingLoader struct {
	inner crateLoader
	calls atomic.Int32
}

func (c *countingLoader) Load(root string) ([]SourceFile, error) {
	c.calls.Add(1)
	return c.inner.Load(root)
}

// Test: Repeat lookups do not reload or re-parse the crate
func TestResolver_LoadsOncePerCrate(t *testing.T) {
	t.Parallel()

	inner, err := NewLoader(nil, nil)
	require.NoError(t, err)
	counting := &countingLoader{inner: inner}

	r := widgetsResolver(t, WithLoader(counting))

	first, err := r.Resolve("widgets::shapes::Circle::radius")
	require.NoError(t, err)
	second, err := r.Resolve("widgets::shapes::Circle::radius")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = r.Resolve("widgets::crustaceans::Crab")
	require.NoError(t, err)

	assert.Equal(t, int32(1), counting.calls.Load())
}

// Test: Concurrent resolutions share one crate build
func TestResolver_ConcurrentResolutions(t *testing.T) {
	t.Parallel()

	inner, err := NewLoader(nil, nil)
	require.NoError(t, err)
	counting := &countingLoader{inner: inner}

	r := widgetsResolver(t, WithLoader(counting))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := r.Resolve("widgets::shapes::Circle::radius")
			assert.NoError(t, err)
			assert.Equal(t, "radius in mm", doc)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), counting.calls.Load())
}

// Test: A broken crate is not re-parsed; the failure is cached
func TestResolver_FailureCached(t *testing.T) {
	t.Parallel()

	inner, err := NewLoader(nil, nil)
	require.NoError(t, err)
	counting := &countingLoader{inner: inner}

	r, err := NewResolver(map[string]string{"broken": "../../testdata/does-not-exist"},
		WithLoader(counting))
	require.NoError(t, err)

	_, err1 := r.Resolve("broken::anything")
	require.Error(t, err1)
	_, err2 := r.Resolve("broken::anything")
	require.Error(t, err2)
	assert.Equal(t, err1.Error(), err2.Error())

	assert.Equal(t, int32(1), counting.calls.Load())
}
