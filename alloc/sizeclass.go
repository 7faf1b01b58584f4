package alloc

// NumSizeClasses is the number of segregated free lists SegregatedAllocator
// and BuddyAllocator each maintain. SegregatedAllocator's last class takes
// every block of 2^23 bytes or more; BuddyAllocator's takes every block of
// 2^19 bytes or more.
const NumSizeClasses = 20

// minClassSize is the smallest block size held by size class 0.
const minClassSize = 16

// classOf returns the size class index for a block of the given size,
// where class i covers 2^(i+4) <= size < 2^(i+5) and the last class is
// open-ended above. SegregatedAllocator uses this mapping (BuddyAllocator
// uses buddyClassOf); it corrects a quirk in the get_class loop it's
// modeled on, which starts comparing at class 1 and so never actually
// returns class 0 for any reachable size. Every class here is reachable.
func classOf(size uint32) int {
	class := 0
	bound := uint32(2 * minClassSize)
	for size >= bound && class < NumSizeClasses-1 {
		bound <<= 1
		class++
	}
	return class
}

// classSize returns the block size a buddy class holds (always a power of
// two), the inverse of buddyClassOf. SegregatedAllocator's classes are
// ranges rather than exact sizes, so this applies to buddy classes only.
func classSize(class int) uint32 {
	return uint32(1) << uint(class)
}

// buddyClassOf returns the size class index BuddyAllocator files a block of
// the given size under: the smallest i with 2^i >= size. Unlike classOf,
// there is no minClassSize floor, since the buddy variant's own get_class
// starts its power-of-two doubling at 1, not 16 — a 16-byte block lands in
// class 4 here, not class 0.
func buddyClassOf(size uint32) int {
	class := 0
	pow := uint32(1)
	for pow < size && class < NumSizeClasses-1 {
		pow <<= 1
		class++
	}
	return class
}
