package alloc

import "github.com/arlojansen/uheap/internal/layout"

// placeBoundaryTag commits asize bytes of the free block at bp to
// allocated use, splitting off and re-freeing the remainder when it is at
// least MinBlockSize — the same split-or-absorb rule every boundary-tag
// placer in this allocator's lineage uses.
func placeBoundaryTag(b []byte, idx boundaryTagIndex, bp Ptr, asize uint32, stats *Stats) {
	chunkSize := blockSize(b, bp)
	idx.remove(b, bp, chunkSize)

	remainder := chunkSize - asize
	if remainder >= layout.MinBlockSize {
		writeBoth(b, bp, asize, true)
		rest := nextBlock(b, bp)
		writeBoth(b, rest, remainder, false)
		idx.insert(b, rest, remainder)
		stats.SplitCount++
		return
	}
	writeBoth(b, bp, chunkSize, true)
}
