package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arlojansen/uheap/sink"
)

// variantFactories enumerates the three placement strategies so shared
// behavior (Allocate/Free/Reallocate contracts, invariants) can be exercised
// identically against each one.
var variantFactories = map[string]func(*sink.Sink, Config) (Allocator, error){
	"explicit": func(s *sink.Sink, cfg Config) (Allocator, error) { return NewExplicit(s, cfg) },
	"segregated": func(s *sink.Sink, cfg Config) (Allocator, error) {
		return NewSegregatedFit(s, cfg)
	},
	"buddy": func(s *sink.Sink, cfg Config) (Allocator, error) { return NewBuddy(s, cfg) },
}

func newAllocatorForTest(t testing.TB, variant string, cfg Config) Allocator {
	t.Helper()
	factory, ok := variantFactories[variant]
	require.True(t, ok, "unknown variant %q", variant)
	a, err := factory(sink.New(), cfg)
	require.NoError(t, err, "failed to construct %s allocator", variant)
	return a
}

// assertInvariants fails the test immediately if the allocator's internal
// structures are inconsistent.
func assertInvariants(t testing.TB, a Allocator) {
	t.Helper()
	require.NoError(t, a.CheckInvariants())
}

// fillPattern writes a repeating byte pattern into the size bytes at p.
func fillPattern(a Allocator, p Ptr, size int, b byte) {
	bytes := a.Bytes()
	for i := 0; i < size; i++ {
		bytes[int(p)+i] = b
	}
}

// expectPattern asserts that the size bytes at p all equal b.
func expectPattern(t testing.TB, a Allocator, p Ptr, size int, b byte) {
	t.Helper()
	bytes := a.Bytes()
	for i := 0; i < size; i++ {
		require.Equal(t, b, bytes[int(p)+i], "byte %d of block at %d corrupted", i, p)
	}
}

func forEachVariant(t *testing.T, f func(t *testing.T, variant string)) {
	for variant := range variantFactories {
		variant := variant
		t.Run(variant, func(t *testing.T) { f(t, variant) })
	}
}
