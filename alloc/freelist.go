package alloc

import "github.com/arlojansen/uheap/internal/layout"

// Free-block pred/succ pointers, stored in the first two payload words of
// every free block — the same in-payload doubly-linked representation used
// by all three allocator variants, differing only in how many list roots
// each keeps and where those roots live.

func getPred(b []byte, bp Ptr) Ptr {
	return Ptr(int32(layout.Word(b, int(bp))))
}

func setPred(b []byte, bp Ptr, v Ptr) {
	layout.PutWord(b, int(bp), uint32(int32(v)))
}

func getSucc(b []byte, bp Ptr) Ptr {
	return Ptr(int32(layout.Word(b, int(bp)+layout.WordSize)))
}

func setSucc(b []byte, bp Ptr, v Ptr) {
	layout.PutWord(b, int(bp)+layout.WordSize, uint32(int32(v)))
}

// rootRef abstracts a single free-list root slot so the same insert/remove
// logic serves ExplicitAllocator's one Go-level root field and the
// segregated/buddy allocators' K roots embedded in heap bytes.
type rootRef interface {
	get() Ptr
	set(Ptr)
}

// varRoot is a rootRef backed by a Go variable — ExplicitAllocator's single
// free_listp equivalent.
type varRoot struct{ p *Ptr }

func (r varRoot) get() Ptr  { return *r.p }
func (r varRoot) set(v Ptr) { *r.p = v }

// heapRoot is a rootRef backed by a word stored inside the heap itself —
// one slot of the segregated/buddy allocators' prologue-embedded root
// table. bytes is called on every access rather than captured once, since
// a heap growth may reallocate the backing slice.
type heapRoot struct {
	bytes func() []byte
	off   int
}

func (r heapRoot) get() Ptr  { return Ptr(int32(layout.Word(r.bytes(), r.off))) }
func (r heapRoot) set(v Ptr) { layout.PutWord(r.bytes(), r.off, uint32(int32(v))) }

// insertFront pushes bp onto the front of the free list rooted at root,
// LIFO — new free blocks become the list head. Mirrors add_free_block.
func insertFront(b []byte, root rootRef, bp Ptr) {
	head := root.get()
	setPred(b, bp, NilPtr)
	setSucc(b, bp, head)
	if head != NilPtr {
		setPred(b, head, bp)
	}
	root.set(bp)
}

// removeFromList unlinks bp from the free list rooted at root. Mirrors
// remove_free_block.
func removeFromList(b []byte, root rootRef, bp Ptr) {
	pred := getPred(b, bp)
	succ := getSucc(b, bp)
	if bp == root.get() {
		root.set(succ)
	} else {
		setSucc(b, pred, succ)
	}
	if succ != NilPtr {
		setPred(b, succ, pred)
	}
}
