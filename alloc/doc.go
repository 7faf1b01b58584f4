// Package alloc implements user-space dynamic memory allocation over a flat
// byte heap (package sink), the same boundary-tag style of allocator a
// process's C runtime builds on top of brk/sbrk.
//
// # Overview
//
// The core abstraction is the Allocator interface, implemented by three
// independent placement strategies that share a payload-embedded,
// doubly-linked free-list representation and a common boundary-tag block
// header:
//
//   - ExplicitAllocator: a single LIFO free list, scanned with a
//     configurable fit policy (first/best/worst fit).
//   - SegregatedAllocator: twenty power-of-two size-classed free lists,
//     searched in ascending order from the requesting size's own class.
//   - BuddyAllocator: power-of-two block sizes with address-XOR buddy
//     coalescing and no block footers.
//
// # Usage
//
//	s := sink.New()
//	a, err := alloc.NewExplicit(s, alloc.Config{FitPolicy: alloc.BestFit})
//	if err != nil {
//	    return err
//	}
//
//	p, err := a.Allocate(128)
//	if err != nil {
//	    return err
//	}
//	// ... use a.Bytes()[p:p+128] ...
//	err = a.Free(p)
//
// # Block layout
//
// Every block (explicit and segregated-fit) is bracketed by a header and
// footer word packing its size and allocated bit; a free block additionally
// stores predecessor and successor pointers in its first two payload words.
// The buddy allocator drops the footer since buddy coalescing locates a
// block's partner by address arithmetic rather than by walking physical
// neighbors.
//
// # Thread safety
//
// Allocator implementations are not safe for concurrent use. Callers must
// synchronize access externally; this package has no goroutines and takes
// no locks of its own.
package alloc
