package alloc

import "log/slog"

// Ptr is a byte offset into the heap's backing sink, relative to its
// HeapLo(). It stands in for the raw payload pointer a C allocator would
// hand back from malloc — arithmetic on it is ordinary integer arithmetic
// rather than unsafe.Pointer manipulation.
type Ptr int32

// NilPtr is the sentinel Ptr value meaning "no block" — an empty free-list
// chain link, or the result of a failed allocation.
const NilPtr Ptr = -1

// FitPolicy selects how ExplicitAllocator and SegregatedAllocator choose
// among multiple free blocks that are all large enough to satisfy a
// request.
type FitPolicy int

const (
	// FirstFit returns the first sufficiently large free block encountered
	// while scanning. Cheapest to evaluate, most prone to fragmentation.
	FirstFit FitPolicy = iota

	// BestFit returns the smallest sufficiently large free block, scanning
	// every candidate before deciding. Minimizes wasted space per
	// allocation at the cost of a full scan.
	BestFit

	// WorstFit returns the largest free block, on the theory that the
	// leftover split-off remainder stays usefully large. Also scans every
	// candidate.
	WorstFit
)

// Config configures the shared behavior of every Allocator implementation.
// Not every field applies to every variant; fields a given variant ignores
// are documented on that variant's constructor.
type Config struct {
	// FitPolicy selects the placement strategy for ExplicitAllocator and
	// SegregatedAllocator. BuddyAllocator ignores it: buddy placement has
	// only one candidate block size class to pick from.
	FitPolicy FitPolicy

	// ChunkSize is the minimum number of bytes requested from the sink
	// each time the heap must grow to satisfy an allocation. Defaults to
	// 4096 if zero.
	ChunkSize int

	// InitialExtensionBias adds extra bytes to the very first heap
	// extension performed by SegregatedAllocator, beyond ChunkSize. The
	// original implementation this variant is modeled on hard-codes this
	// to 2*DoubleWordSize to avoid an extra heap growth on a specific
	// small-request workload; exposed here as a tunable rather than a
	// hidden constant. Ignored by the other two variants.
	InitialExtensionBias int

	// Logger receives debug-level allocator tracing (grow, allocate and
	// free events) when set. With a nil Logger, tracing goes to stderr if
	// the UHEAP_LOG_ALLOC environment variable is non-empty and is
	// discarded otherwise.
	Logger *slog.Logger
}

// Allocator is implemented by every placement strategy in this package.
type Allocator interface {
	// Allocate reserves a block of at least size usable bytes and returns
	// a Ptr to its payload. A zero size returns NilPtr and a nil error; a
	// negative size returns ErrInvalidSize.
	Allocate(size int) (Ptr, error)

	// Free releases a previously allocated block back to the heap. p must
	// be a Ptr previously returned by Allocate or Reallocate and not yet
	// freed.
	Free(p Ptr) error

	// Reallocate resizes the block at p to hold at least size usable
	// bytes, preserving min(old payload size, size) bytes of content, and
	// returns a (possibly different) Ptr to the resized block. A NilPtr p
	// behaves like Allocate(size); a zero size behaves like Free(p) and
	// returns NilPtr.
	Reallocate(p Ptr, size int) (Ptr, error)

	// Bytes exposes the live heap bytes backing every Ptr this allocator
	// has handed out. The returned slice is invalidated by any subsequent
	// call that grows the heap.
	Bytes() []byte

	// Stats reports cumulative counters for observability and testing.
	Stats() Stats

	// CheckInvariants walks the allocator's internal structures and
	// returns a descriptive error at the first violation found, or nil if
	// none are found. Intended for tests and debugging, not hot paths.
	CheckInvariants() error
}
