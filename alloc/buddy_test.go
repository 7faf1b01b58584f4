package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlojansen/uheap/sink"
)

func Test_Buddy_AllocatedBlockSizeIsPowerOfTwo(t *testing.T) {
	a, err := NewBuddy(sink.New(), Config{ChunkSize: 4096})
	require.NoError(t, err)

	for _, size := range []int{1, 7, 8, 9, 100, 1000, 3000} {
		p, err := a.Allocate(size)
		require.NoError(t, err)
		blockSize := blockSize(a.Bytes(), p)
		assert.Equal(t, blockSize&(blockSize-1), uint32(0), "block size %d for request %d is not a power of two", blockSize, size)
	}
	assertInvariants(t, a)
}

func Test_Buddy_SplitThenMergeRestoresOriginalBlock(t *testing.T) {
	a, err := NewBuddy(sink.New(), Config{ChunkSize: 4096})
	require.NoError(t, err)

	statsBefore := a.Stats()

	p1, err := a.Allocate(100)
	require.NoError(t, err)
	p2, err := a.Allocate(100)
	require.NoError(t, err)

	require.NoError(t, a.Free(p1))
	require.NoError(t, a.Free(p2))
	assertInvariants(t, a)

	assert.Equal(t, statsBefore.HeapBytes, a.Stats().HeapBytes, "no growth should have occurred")
}

func Test_Buddy_BuddyOfFreeBlockMustBeAllocatedOrDifferentSize(t *testing.T) {
	a, err := NewBuddy(sink.New(), Config{ChunkSize: 4096})
	require.NoError(t, err)

	p, err := a.Allocate(50)
	require.NoError(t, err)

	require.NoError(t, a.Free(p))
	assertInvariants(t, a)
}

func Test_Buddy_FindFitReturnsFirstNonEmptyClassAtOrAboveTarget(t *testing.T) {
	a, err := NewBuddy(sink.New(), Config{ChunkSize: 8192})
	require.NoError(t, err)

	p, err := a.Allocate(40)
	require.NoError(t, err)
	require.NoError(t, a.Free(p))

	got, err := a.Allocate(2000)
	require.NoError(t, err)
	require.NotEqual(t, NilPtr, got)
	assertInvariants(t, a)
}

func Test_Buddy_ReallocateAlwaysRelocates(t *testing.T) {
	a, err := NewBuddy(sink.New(), Config{ChunkSize: 4096})
	require.NoError(t, err)

	p, err := a.Allocate(40)
	require.NoError(t, err)
	fillPattern(a, p, 40, 0x99)

	grown, err := a.Reallocate(p, 40)
	require.NoError(t, err)
	// Requesting the same usable size a buddy block already provides must
	// still go through the generic fallback — buddy never extends in place.
	assert.NotEqual(t, p, grown)
	expectPattern(t, a, grown, 40, 0x99)
	assertInvariants(t, a)
}

func Test_Buddy_GrowsByPowerOfTwoRelativeToOrigin(t *testing.T) {
	a, err := NewBuddy(sink.New(), Config{ChunkSize: 100})
	require.NoError(t, err)

	// ChunkSize 100 must have been rounded up to a power of two for the
	// very first extension, or later buddy-address computation would be
	// misaligned.
	_, err = a.Allocate(64)
	require.NoError(t, err)
	assertInvariants(t, a)
}
