package alloc

import (
	"fmt"
	"log/slog"

	"github.com/arlojansen/uheap/internal/layout"
	"github.com/arlojansen/uheap/sink"
)

// ExplicitAllocator places blocks using a single LIFO free list threaded
// through the payload of every free block, scanned according to the
// configured FitPolicy. It is the most direct translation of the
// boundary-tag explicit free-list allocator this package's placement,
// coalescing, and splitting logic is modeled on.
type ExplicitAllocator struct {
	s        *sink.Sink
	freeHead Ptr
	firstBp  Ptr
	cfg      Config
	stats    Stats
	log      *slog.Logger
}

var _ Allocator = (*ExplicitAllocator)(nil)

// NewExplicit creates an ExplicitAllocator over s, laying down the
// prologue/epilogue sentinels and performing the first heap extension.
// cfg.InitialExtensionBias is ignored by this variant.
func NewExplicit(s *sink.Sink, cfg Config) (*ExplicitAllocator, error) {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 4096
	}
	a := &ExplicitAllocator{s: s, freeHead: NilPtr, cfg: cfg, log: resolveLogger(cfg)}
	if err := a.init(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *ExplicitAllocator) bytes() []byte { return a.s.Bytes() }

// insert and remove implement boundaryTagIndex for the single free list.
func (a *ExplicitAllocator) insert(b []byte, bp Ptr, _ uint32) {
	insertFront(b, varRoot{&a.freeHead}, bp)
}

func (a *ExplicitAllocator) remove(b []byte, bp Ptr, _ uint32) {
	removeFromList(b, varRoot{&a.freeHead}, bp)
}

// init lays down alignment padding, a minimal allocated prologue block,
// and an epilogue header, wrapping a single 16-byte free block that the
// first extendHeap call immediately coalesces into a larger one.
func (a *ExplicitAllocator) init() error {
	base, err := a.s.Extend(8 * layout.WordSize)
	if err != nil {
		return err
	}
	b := a.bytes()
	layout.PutWord(b, base, 0)
	layout.PutHeader(b, base+1*layout.WordSize, layout.DoubleWordSize, true)
	layout.PutHeader(b, base+2*layout.WordSize, layout.DoubleWordSize, true)

	firstBp := Ptr(base + 4*layout.WordSize)
	writeBoth(b, firstBp, uint32(4*layout.WordSize), false)
	setPred(b, firstBp, NilPtr)
	setSucc(b, firstBp, NilPtr)
	layout.PutHeader(b, base+7*layout.WordSize, 0, true)
	a.freeHead = firstBp
	a.firstBp = firstBp

	_, err = a.extendHeap(a.cfg.ChunkSize)
	return err
}

// extendHeap grows the sink by n bytes (rounded up to an 8-byte, at-least
// MinBlockSize multiple), lays down a new free block in the space and
// slides the epilogue header to the new end, then coalesces the new block
// with whatever free block preceded it.
func (a *ExplicitAllocator) extendHeap(n int) (Ptr, error) {
	n = layout.Align8(n)
	if n < layout.MinBlockSize {
		n = layout.MinBlockSize
	}
	off, err := a.s.Extend(n)
	if err != nil {
		return NilPtr, err
	}
	b := a.bytes()
	bp := Ptr(off)
	writeBoth(b, bp, uint32(n), false)
	writeHeader(b, nextBlock(b, bp), 0, true)

	a.stats.GrowCalls++
	a.stats.HeapBytes = uint64(a.s.Size())
	a.log.Debug("heap grown", "bytes", n, "heap_bytes", a.stats.HeapBytes)
	return coalesceBoundaryTag(b, a, bp, &a.stats), nil
}

// adjustedSize converts a requested payload size into the aligned block
// size (including header and footer) that find_fit/place operate on.
func adjustedSize(size int) uint32 {
	if size <= layout.DoubleWordSize {
		return uint32(layout.MinBlockSize)
	}
	return uint32(layout.Align8(size + layout.DoubleWordSize))
}

func (a *ExplicitAllocator) Allocate(size int) (Ptr, error) {
	if size == 0 {
		return NilPtr, nil
	}
	if size < 0 {
		return NilPtr, ErrInvalidSize
	}
	asize := adjustedSize(size)

	acc := newFitAccumulator(a.cfg.FitPolicy)
	scanChain(a.bytes(), a.freeHead, asize, acc)
	bp := acc.result()

	if bp == NilPtr {
		extendSize := int(asize)
		if a.cfg.ChunkSize > extendSize {
			extendSize = a.cfg.ChunkSize
		}
		grown, err := a.extendHeap(extendSize)
		if err != nil {
			return NilPtr, ErrOutOfMemory
		}
		bp = grown
	}

	b := a.bytes()
	placeBoundaryTag(b, a, bp, asize, &a.stats)
	a.stats.AllocCalls++
	a.stats.BytesInUse += uint64(blockSize(b, bp))
	a.log.Debug("allocated", "ptr", bp, "size", asize)
	return bp, nil
}

func (a *ExplicitAllocator) Free(p Ptr) error {
	if p == NilPtr {
		return nil
	}
	b := a.bytes()
	size, allocated := readHeader(b, p)
	if !allocated {
		return ErrNotAllocated
	}
	a.stats.BytesInUse -= uint64(size)
	writeBoth(b, p, size, false)
	coalesceBoundaryTag(b, a, p, &a.stats)
	a.stats.FreeCalls++
	a.log.Debug("freed", "ptr", p, "size", size)
	return nil
}

func (a *ExplicitAllocator) Reallocate(p Ptr, size int) (Ptr, error) {
	if p == NilPtr {
		return a.Allocate(size)
	}
	if size <= 0 {
		if err := a.Free(p); err != nil {
			return NilPtr, err
		}
		return NilPtr, nil
	}

	b := a.bytes()
	originSize, allocated := readHeader(b, p)
	if !allocated {
		return NilPtr, ErrNotAllocated
	}
	asize := adjustedSize(size)
	if asize <= originSize {
		return p, nil
	}

	next := nextBlock(b, p)
	nextSize, nextAllocated := readHeader(b, next)
	if !nextAllocated {
		addSize := originSize + nextSize
		if asize <= addSize {
			a.remove(b, next, nextSize)
			writeBoth(b, p, addSize, true)
			a.stats.BytesInUse += uint64(addSize - originSize)
			return p, nil
		}
	}

	newPtr, err := a.Allocate(size)
	if err != nil {
		return NilPtr, err
	}
	b = a.bytes()
	copyLen := int(originSize) - layout.DoubleWordSize
	if size < copyLen {
		copyLen = size
	}
	copy(b[int(newPtr):int(newPtr)+copyLen], b[int(p):int(p)+copyLen])
	if err := a.Free(p); err != nil {
		return NilPtr, err
	}
	return newPtr, nil
}

func (a *ExplicitAllocator) Bytes() []byte { return a.bytes() }

func (a *ExplicitAllocator) Stats() Stats { return a.stats }

// CheckInvariants walks the physical block chain and the free list,
// verifying header/footer agreement, that no two physically adjacent
// blocks are both free (coalescing is always immediate), and that every
// block the free list names is actually marked free.
func (a *ExplicitAllocator) CheckInvariants() error {
	b := a.bytes()
	bp := a.firstBp
	prevFree := false
	for {
		size, allocated := readHeader(b, bp)
		if size == 0 {
			break // epilogue
		}
		if fsize, falloc := readFooter(b, bp, size); fsize != size || falloc != allocated {
			return fmt.Errorf("alloc: header/footer mismatch at %d", bp)
		}
		if !allocated && prevFree {
			return fmt.Errorf("alloc: uncoalesced adjacent free blocks at %d", bp)
		}
		prevFree = !allocated
		bp = nextBlock(b, bp)
	}

	seen := make(map[Ptr]bool)
	for bp := a.freeHead; bp != NilPtr; bp = getSucc(b, bp) {
		if seen[bp] {
			return fmt.Errorf("alloc: cycle in free list at %d", bp)
		}
		seen[bp] = true
		if isAllocated(b, bp) {
			return fmt.Errorf("alloc: free list references allocated block %d", bp)
		}
	}
	return nil
}
