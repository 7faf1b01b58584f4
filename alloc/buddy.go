package alloc

import (
	"fmt"
	"log/slog"

	"github.com/arlojansen/uheap/internal/layout"
	"github.com/arlojansen/uheap/sink"
)

// BuddyAllocator places blocks using the binary buddy system: every block
// is an exact power of two in size, and a freed block is merged with its
// buddy — the block of identical size it was split from — whenever that
// buddy is also free. Unlike ExplicitAllocator and SegregatedAllocator,
// buddy blocks carry no footer; a block's partner is found by flipping the
// bit in its offset (relative to a fixed origin) corresponding to its
// size, not by reading a physical neighbor's boundary tag. cfg.FitPolicy
// is ignored: every size class is either empty or holds blocks of exactly
// one size, so there is nothing to compare once a non-empty class is
// found.
type BuddyAllocator struct {
	s         *sink.Sink
	rootsBase int
	originOff int
	firstBp   Ptr
	cfg       Config
	stats     Stats
	log       *slog.Logger
}

var _ Allocator = (*BuddyAllocator)(nil)

// NewBuddy creates a BuddyAllocator over s. cfg.FitPolicy and
// cfg.InitialExtensionBias are ignored by this variant.
func NewBuddy(s *sink.Sink, cfg Config) (*BuddyAllocator, error) {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 4096
	}
	a := &BuddyAllocator{s: s, cfg: cfg, log: resolveLogger(cfg)}
	if err := a.init(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *BuddyAllocator) bytes() []byte { return a.s.Bytes() }

func (a *BuddyAllocator) root(class int) heapRoot {
	return heapRoot{bytes: a.bytes, off: a.rootsBase + class*layout.WordSize}
}

func (a *BuddyAllocator) insert(b []byte, bp Ptr, size uint32) {
	insertFront(b, a.root(buddyClassOf(size)), bp)
}

func (a *BuddyAllocator) remove(b []byte, bp Ptr, size uint32) {
	removeFromList(b, a.root(buddyClassOf(size)), bp)
}

func (a *BuddyAllocator) init() error {
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
	a.originOff = base + (3+NumSizeClasses)*layout.WordSize
	layout.PutHeader(b, a.originOff, 0, true)
	a.firstBp = Ptr(a.originOff + layout.WordSize)

	_, err = a.extendHeap(a.cfg.ChunkSize)
	return err
}

// nextPowerOfTwo rounds n up to the next power of two, with a floor of
// MinBlockSize. Every buddy block size must be a power of two for the
// XOR-based buddy address computation to line up, so extension requests
// are rounded the same way a buddy-bound allocation size is.
func nextPowerOfTwo(n int) uint32 {
	size := uint32(layout.MinBlockSize)
	for int(size) < n {
		size <<= 1
	}
	return size
}

func (a *BuddyAllocator) extendHeap(n int) (Ptr, error) {
	size := nextPowerOfTwo(n)
	off, err := a.s.Extend(int(size))
	if err != nil {
		return NilPtr, err
	}
	b := a.bytes()
	bp := Ptr(off)
	writeHeader(b, bp, size, false)
	writeHeader(b, nextBlock(b, bp), 0, true)

	a.stats.GrowCalls++
	a.stats.HeapBytes = uint64(a.s.Size())
	a.log.Debug("heap grown", "bytes", size, "heap_bytes", a.stats.HeapBytes)
	return a.coalesce(bp), nil
}

// coalesce merges bp with its buddy, repeatedly, for as long as the buddy
// is free and the same size — the address-XOR variant of boundary-tag
// coalescing that a footerless buddy block requires.
func (a *BuddyAllocator) coalesce(bp Ptr) Ptr {
	b := a.bytes()
	size := blockSize(b, bp)
	a.insert(b, bp, size)

	for {
		var left, right Ptr
		if (int(bp)-a.originOff)&int(size) != 0 {
			left, right = bp-Ptr(size), bp
		} else {
			left, right = bp, bp+Ptr(size)
		}

		leftSize, leftAllocated := readHeader(b, left)
		rightSize, rightAllocated := readHeader(b, right)
		if leftAllocated || rightAllocated || leftSize != size || rightSize != size {
			break
		}

		a.remove(b, left, leftSize)
		a.remove(b, right, rightSize)
		size <<= 1
		writeHeader(b, left, size, false)
		a.insert(b, left, size)
		a.stats.CoalesceCount++
		bp = left
	}
	return bp
}

// place commits bp, already sized to the power of two at or above asize,
// to allocated use, repeatedly halving off and freeing its upper buddy
// until the remaining half is exactly asize.
func (a *BuddyAllocator) place(bp Ptr, asize uint32) {
	b := a.bytes()
	chunkSize := blockSize(b, bp)
	a.remove(b, bp, chunkSize)

	for chunkSize != asize {
		chunkSize >>= 1
		buddy := bp + Ptr(chunkSize)
		writeHeader(b, buddy, chunkSize, false)
		a.insert(b, buddy, chunkSize)
		a.stats.SplitCount++
	}
	writeHeader(b, bp, chunkSize, true)
}

func (a *BuddyAllocator) findFit(asize uint32) Ptr {
	for class := buddyClassOf(asize); class < NumSizeClasses; class++ {
		if head := a.root(class).get(); head != NilPtr {
			return head
		}
	}
	return NilPtr
}

func (a *BuddyAllocator) Allocate(size int) (Ptr, error) {
	if size == 0 {
		return NilPtr, nil
	}
	if size < 0 {
		return NilPtr, ErrInvalidSize
	}
	asize := nextPowerOfTwo(size + layout.DoubleWordSize)

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

	a.place(bp, asize)
	a.stats.AllocCalls++
	a.stats.BytesInUse += uint64(asize)
	a.log.Debug("allocated", "ptr", bp, "size", asize)
	return bp, nil
}

func (a *BuddyAllocator) Free(p Ptr) error {
	if p == NilPtr {
		return nil
	}
	b := a.bytes()
	size, allocated := readHeader(b, p)
	if !allocated {
		return ErrNotAllocated
	}
	a.stats.BytesInUse -= uint64(size)
	writeHeader(b, p, size, false)
	a.coalesce(p)
	a.stats.FreeCalls++
	a.log.Debug("freed", "ptr", p, "size", size)
	return nil
}

// Reallocate follows the generic fallback every buddy realloc in this
// allocator's lineage uses: allocate fresh, copy min(old payload, size)
// bytes, free the original. Buddy block sizes are powers of two, so
// growing or shrinking in place would still require relocating to a
// differently-sized class in the common case; no in-place path is
// attempted.
func (a *BuddyAllocator) Reallocate(p Ptr, size int) (Ptr, error) {
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

func (a *BuddyAllocator) Bytes() []byte { return a.bytes() }

func (a *BuddyAllocator) Stats() Stats { return a.stats }

// CheckInvariants walks the physical block chain verifying every block's
// size is a power of two and that no block and its buddy are both free
// (coalescing is always immediate), then walks every size class's free
// list verifying membership and exact size agreement.
func (a *BuddyAllocator) CheckInvariants() error {
	b := a.bytes()
	bp := a.firstBp
	for {
		size, allocated := readHeader(b, bp)
		if size == 0 {
			break
		}
		if size&(size-1) != 0 {
			return fmt.Errorf("alloc: block %d has non-power-of-two size %d", bp, size)
		}
		if !allocated {
			var buddy Ptr
			if (int(bp)-a.originOff)&int(size) != 0 {
				buddy = bp - Ptr(size)
			} else {
				buddy = bp + Ptr(size)
			}
			if buddySize, buddyAllocated := readHeader(b, buddy); !buddyAllocated && buddySize == size {
				return fmt.Errorf("alloc: uncoalesced buddies at %d and %d", bp, buddy)
			}
		}
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
			if got := buddyClassOf(blockSize(b, bp)); got != class {
				return fmt.Errorf("alloc: block %d of size %d filed under class %d, wants %d", bp, blockSize(b, bp), class, got)
			}
		}
	}
	return nil
}
