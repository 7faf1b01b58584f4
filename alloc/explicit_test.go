package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlojansen/uheap/sink"
)

func Test_Explicit_FirstFitReturnsEarliestCandidate(t *testing.T) {
	a, err := NewExplicit(sink.New(), Config{FitPolicy: FirstFit, ChunkSize: 512})
	require.NoError(t, err)

	// Carve the initial free block into three pieces, free the first and
	// third, and confirm a request that fits either is served by whichever
	// sits earlier in the list (the most recently freed, since insertion is
	// LIFO).
	p1, err := a.Allocate(32)
	require.NoError(t, err)
	p2, err := a.Allocate(32)
	require.NoError(t, err)
	p3, err := a.Allocate(32)
	require.NoError(t, err)

	require.NoError(t, a.Free(p1))
	require.NoError(t, a.Free(p3))

	got, err := a.Allocate(32)
	require.NoError(t, err)
	assert.Equal(t, p3, got, "first-fit should return the most recently freed block")
	_ = p2
	assertInvariants(t, a)
}

func Test_Explicit_BestFitPrefersSmallestSufficientBlock(t *testing.T) {
	a, err := NewExplicit(sink.New(), Config{FitPolicy: BestFit, ChunkSize: 4096})
	require.NoError(t, err)

	// Interleave a pinned allocation between each freed block so none of
	// them coalesce with each other — isolating the free-list search.
	small, err := a.Allocate(32)
	require.NoError(t, err)
	pin1, err := a.Allocate(8)
	require.NoError(t, err)
	large, err := a.Allocate(512)
	require.NoError(t, err)
	pin2, err := a.Allocate(8)
	require.NoError(t, err)
	mid, err := a.Allocate(128)
	require.NoError(t, err)
	_ = pin1
	_ = pin2

	require.NoError(t, a.Free(small))
	require.NoError(t, a.Free(large))
	require.NoError(t, a.Free(mid))
	assertInvariants(t, a)

	got, err := a.Allocate(24)
	require.NoError(t, err)
	assert.Equal(t, small, got, "best-fit should prefer the smallest sufficiently large free block")
	assertInvariants(t, a)
}

func Test_Explicit_ForwardCoalescing(t *testing.T) {
	a, err := NewExplicit(sink.New(), Config{ChunkSize: 4096})
	require.NoError(t, err)

	p1, err := a.Allocate(64)
	require.NoError(t, err)
	p2, err := a.Allocate(64)
	require.NoError(t, err)

	require.NoError(t, a.Free(p1))
	sizeAfterFirstFree, _ := readHeader(a.Bytes(), p1)

	require.NoError(t, a.Free(p2))
	sizeAfterCoalesce, _ := readHeader(a.Bytes(), p1)

	assert.Greater(t, sizeAfterCoalesce, sizeAfterFirstFree, "freeing p2 should coalesce into p1's block")
	assertInvariants(t, a)
}

func Test_Explicit_BackwardCoalescing(t *testing.T) {
	a, err := NewExplicit(sink.New(), Config{ChunkSize: 4096})
	require.NoError(t, err)

	p1, err := a.Allocate(64)
	require.NoError(t, err)
	p2, err := a.Allocate(64)
	require.NoError(t, err)

	require.NoError(t, a.Free(p2))
	require.NoError(t, a.Free(p1))

	size, allocated := readHeader(a.Bytes(), p1)
	assert.False(t, allocated)
	assert.Greater(t, size, uint32(64))
	assertInvariants(t, a)
}

func Test_Explicit_ReallocateExtendsInPlaceIntoFreeNeighbor(t *testing.T) {
	a, err := NewExplicit(sink.New(), Config{ChunkSize: 4096})
	require.NoError(t, err)

	p, err := a.Allocate(32)
	require.NoError(t, err)
	neighbor, err := a.Allocate(256)
	require.NoError(t, err)
	require.NoError(t, a.Free(neighbor))

	fillPattern(a, p, 32, 0x7A)
	grown, err := a.Reallocate(p, 200)
	require.NoError(t, err)

	assert.Equal(t, p, grown, "growing into a free neighbor should not relocate the block")
	expectPattern(t, a, grown, 32, 0x7A)
	assertInvariants(t, a)
}

func Test_Explicit_GrowHeapOnExhaustion(t *testing.T) {
	a, err := NewExplicit(sink.New(), Config{ChunkSize: 64})
	require.NoError(t, err)

	before := a.Stats().GrowCalls
	_, err = a.Allocate(4096)
	require.NoError(t, err)
	assert.Greater(t, a.Stats().GrowCalls, before)
	assertInvariants(t, a)
}
