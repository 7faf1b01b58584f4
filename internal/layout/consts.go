package layout

// Word-level geometry shared by every allocator variant. The heap is a flat
// byte slice addressed by 32-bit offsets; every block begins and (for the
// explicit and segregated-fit variants) ends with a 4-byte header/footer word
// packing a size and an allocated bit, mirroring the boundary-tag scheme the
// allocators below are built around.
const (
	// WordSize is the size in bytes of a header/footer/pointer word.
	WordSize = 4

	// DoubleWordSize is the minimum payload granularity and the alignment
	// boundary every block size is rounded up to.
	DoubleWordSize = 8

	// AllocBit is the low bit of a packed header/footer word, set when the
	// block it describes is currently allocated.
	AllocBit = 0x1

	// SizeMask clears the allocated bit to recover the raw block size from a
	// packed word.
	SizeMask = ^uint32(AllocBit)

	// MinBlockSize is the smallest block any boundary-tag allocator can hand
	// out: header + footer + one double word of payload.
	MinBlockSize = 2 * DoubleWordSize
)

// AlignmentMask is the bitmask used by Align8 (DoubleWordSize - 1).
const AlignmentMask = DoubleWordSize - 1
