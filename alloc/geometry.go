package alloc

import "github.com/arlojansen/uheap/internal/layout"

// Boundary-tag block geometry shared by ExplicitAllocator and
// SegregatedAllocator. Every block of theirs is laid out as:
//
//	[ header word ][ payload ... ][ footer word ]
//
// bp always addresses the first payload byte, matching the C convention
// this allocator's placement algorithms are ported from: the header lives
// at bp-WordSize and the footer at bp+size-DoubleWordSize.

func headerOff(bp Ptr) int { return int(bp) - layout.WordSize }

func footerOff(bp Ptr, size uint32) int { return int(bp) + int(size) - layout.DoubleWordSize }

// readHeader returns the size and allocated bit stored in bp's header.
func readHeader(b []byte, bp Ptr) (size uint32, allocated bool) {
	w := layout.Word(b, headerOff(bp))
	return layout.Size(w), layout.Allocated(w)
}

// writeHeader packs and stores size/allocated into bp's header.
func writeHeader(b []byte, bp Ptr, size uint32, allocated bool) {
	layout.PutHeader(b, headerOff(bp), size, allocated)
}

// readFooter returns the size and allocated bit stored in bp's footer,
// given bp's own size (needed to locate the footer).
func readFooter(b []byte, bp Ptr, size uint32) (uint32, bool) {
	w := layout.Word(b, footerOff(bp, size))
	return layout.Size(w), layout.Allocated(w)
}

// writeFooter packs and stores size/allocated into bp's footer.
func writeFooter(b []byte, bp Ptr, size uint32, allocated bool) {
	layout.PutHeader(b, footerOff(bp, size), size, allocated)
}

// writeBoth writes matching header and footer words for bp in one call.
func writeBoth(b []byte, bp Ptr, size uint32, allocated bool) {
	writeHeader(b, bp, size, allocated)
	writeFooter(b, bp, size, allocated)
}

// blockSize returns bp's size as recorded in its header.
func blockSize(b []byte, bp Ptr) uint32 {
	size, _ := readHeader(b, bp)
	return size
}

// isAllocated reports whether bp's header marks it allocated.
func isAllocated(b []byte, bp Ptr) bool {
	_, allocated := readHeader(b, bp)
	return allocated
}

// nextBlock returns the block physically following bp.
func nextBlock(b []byte, bp Ptr) Ptr {
	return bp + Ptr(blockSize(b, bp))
}

// prevBlock returns the block physically preceding bp, read via its
// footer at bp-DoubleWordSize.
func prevBlock(b []byte, bp Ptr) Ptr {
	prevSize := layout.Size(layout.Word(b, int(bp)-layout.DoubleWordSize))
	return bp - Ptr(prevSize)
}
