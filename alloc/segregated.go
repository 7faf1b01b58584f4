package alloc

import (
	"fmt"
	"log/slog"

	"github.com/arlojansen/uheap/internal/layout"
	"github.com/arlojansen/uheap/sink"
)

// SegregatedAllocator places blocks using NumSizeClasses power-of-two-sized
// free lists, whose roots live inside the heap's prologue block payload
// rather than as Go-level fields. A request is served by scanning its own
// size class and, failing that, every larger class in ascending order,
// according to the configured FitPolicy.
type SegregatedAllocator struct {
	s         *sink.Sink
	rootsBase int
	firstBp   Ptr
	cfg       Config
	stats     Stats
	extended  bool
	log       *slog.Logger
}

var _ Allocator = (*SegregatedAllocator)(nil)

// NewSegregatedFit creates a SegregatedAllocator over s.
func NewSegregatedFit(s *sink.Sink, cfg Config) (*SegregatedAllocator, error) {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 4096
	}
	a := &SegregatedAllocator{s: s, cfg: cfg, log: resolveLogger(cfg)}
	if err := a.init(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *SegregatedAllocator) bytes() []byte { return a.s.Bytes() }

func (a *SegregatedAllocator) root(class int) heapRoot {
	return heapRoot{bytes: a.bytes, off: a.rootsBase + class*layout.WordSize}
}

func (a *SegregatedAllocator) insert(b []byte, bp Ptr, size uint32) {
	insertFront(b, a.root(classOf(size)), bp)
}

func (a *SegregatedAllocator) remove(b []byte, bp Ptr, size uint32) {
	removeFromList(b, a.root(classOf(size)), bp)
}

// init lays down alignment padding, a prologue block carrying
// NumSizeClasses free-list roots in its payload, and an epilogue header,
// then performs the first heap extension (biased by
// cfg.InitialExtensionBias).
func (a *SegregatedAllocator) init() error {
	prologueWords := NumSizeClasses + 2
	base, err := a.s.Extend((prologueWords + 2) * layout.WordSize)
	if err != nil {
		return err
	}
	b := a.bytes()
	layout.PutWord(b, base, 0)
	layout.PutHeader(b, base+1*layout.WordSize, uint32(prologueWords*layout.WordSize), true)

	a.rootsBase = base + 2*layout.WordSize
	for i := 0; i < NumSizeClasses; i++ {
		nilPtr := int32(NilPtr)
		layout.PutWord(b, a.rootsBase+i*layout.WordSize, uint32(nilPtr))
	}

	layout.PutHeader(b, base+(2+NumSizeClasses)*layout.WordSize, uint32(prologueWords*layout.WordSize), true)
	layout.PutHeader(b, base+(3+NumSizeClasses)*layout.WordSize, 0, true)
	a.firstBp = Ptr(base + (4+NumSizeClasses)*layout.WordSize)

	_, err = a.extendHeap(a.cfg.ChunkSize)
	return err
}

func (a *SegregatedAllocator) extendHeap(n int) (Ptr, error) {
	if !a.extended {
		n += a.cfg.InitialExtensionBias
		a.extended = true
	}
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

func (a *SegregatedAllocator) findFit(asize uint32) Ptr {
	b := a.bytes()
	acc := newFitAccumulator(a.cfg.FitPolicy)
	for class := classOf(asize); class < NumSizeClasses; class++ {
		scanChain(b, a.root(class).get(), asize, acc)
		if acc.done() {
			break
		}
	}
	return acc.result()
}

func (a *SegregatedAllocator) Allocate(size int) (Ptr, error) {
	if size == 0 {
		return NilPtr, nil
	}
	if size < 0 {
		return NilPtr, ErrInvalidSize
	}
	asize := adjustedSize(size)

	bp := a.findFit(asize)
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

func (a *SegregatedAllocator) Free(p Ptr) error {
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

func (a *SegregatedAllocator) Reallocate(p Ptr, size int) (Ptr, error) {
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

func (a *SegregatedAllocator) Bytes() []byte { return a.bytes() }

func (a *SegregatedAllocator) Stats() Stats { return a.stats }

// CheckInvariants walks the physical block chain verifying header/footer
// agreement and immediate coalescing, then walks every size class's free
// list verifying each entry is both unallocated and filed under the class
// its own size maps to.
func (a *SegregatedAllocator) CheckInvariants() error {
	b := a.bytes()
	bp := a.firstBp
	prevFree := false
	for {
		size, allocated := readHeader(b, bp)
		if size == 0 {
			break
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
	for class := 0; class < NumSizeClasses; class++ {
		for bp := a.root(class).get(); bp != NilPtr; bp = getSucc(b, bp) {
			if seen[bp] {
				return fmt.Errorf("alloc: cycle in free list class %d at %d", class, bp)
			}
			seen[bp] = true
			if isAllocated(b, bp) {
				return fmt.Errorf("alloc: free list class %d references allocated block %d", class, bp)
			}
			if got := classOf(blockSize(b, bp)); got != class {
				return fmt.Errorf("alloc: block %d of size %d filed under class %d, wants %d", bp, blockSize(b, bp), class, got)
			}
		}
	}
	return nil
}
