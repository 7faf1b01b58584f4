package alloc

import "errors"

var (
	// ErrOutOfMemory indicates that no free block large enough was found
	// and growing the backing sink also failed.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrInvalidPtr names a Ptr that does not reference a block. No
	// Allocator in this package returns it: Free treats NilPtr as a no-op,
	// Reallocate treats it as Allocate, and neither checks that any other
	// Ptr lies within the heap or on a block boundary.
	ErrInvalidPtr = errors.New("alloc: invalid pointer")

	// ErrNotAllocated indicates Free or Reallocate was called on a block
	// that is already free.
	ErrNotAllocated = errors.New("alloc: block is not allocated")

	// ErrInvalidSize indicates Allocate was given a negative size. A zero
	// size is not an error: Allocate returns NilPtr and a nil error.
	ErrInvalidSize = errors.New("alloc: invalid size")
)
