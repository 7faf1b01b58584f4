package alloc

// fitAccumulator tracks the best candidate seen so far while scanning one
// or more free-list chains for a block of at least a target size, per the
// configured FitPolicy. Factored out because SegregatedAllocator's search
// must keep one accumulator running across several size-class chains
// without resetting between them — the original implementation's
// best/worst-fit scans never stop at the first class with a hit, they
// consider every class from the request's own class upward.
type fitAccumulator struct {
	policy   FitPolicy
	best     Ptr
	bestSize uint32
	found    bool
}

func newFitAccumulator(policy FitPolicy) *fitAccumulator {
	return &fitAccumulator{policy: policy, best: NilPtr}
}

func (a *fitAccumulator) consider(bp Ptr, size uint32) {
	switch a.policy {
	case FirstFit:
		if !a.found {
			a.best, a.bestSize, a.found = bp, size, true
		}
	case BestFit:
		if !a.found || size < a.bestSize {
			a.best, a.bestSize, a.found = bp, size, true
		}
	case WorstFit:
		if !a.found || size > a.bestSize {
			a.best, a.bestSize, a.found = bp, size, true
		}
	}
}

// done reports whether further scanning cannot change the result. Only
// true for FirstFit once a candidate has been found — best/worst fit must
// see every candidate.
func (a *fitAccumulator) done() bool {
	return a.policy == FirstFit && a.found
}

func (a *fitAccumulator) result() Ptr {
	if !a.found {
		return NilPtr
	}
	return a.best
}

// scanChain walks the free-list chain rooted at head, considering every
// block at least asize bytes large, stopping early once acc.done().
func scanChain(b []byte, head Ptr, asize uint32, acc *fitAccumulator) {
	for bp := head; bp != NilPtr; bp = getSucc(b, bp) {
		if acc.done() {
			return
		}
		if size := blockSize(b, bp); asize <= size {
			acc.consider(bp, size)
		}
	}
}
