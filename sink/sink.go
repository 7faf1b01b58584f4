package sink

// Sink is a growable, zero-initialized byte buffer standing in for the heap
// segment a process would request from the kernel via brk/sbrk. It never
// shrinks: an allocator built on top of it, like the operating system, only
// ever asks for more address space and then manages reuse within it itself.
type Sink struct {
	data []byte
	max  int
	cap  int
}

// New creates an empty Sink. No bytes are live until the first Extend call;
// opts may preallocate backing capacity or cap the sink's maximum size.
func New(opts ...Option) *Sink {
	s := &Sink{}
	for _, opt := range opts {
		opt(s)
	}
	if s.cap > 0 {
		s.data = make([]byte, 0, s.cap)
	}
	return s
}

// Extend grows the sink by n bytes, zero-initialized, and returns the
// offset at which the new region begins. It is the sink's only growth
// primitive, mirroring sbrk(n)'s contract: n must be positive, and the
// returned offset is where the extension starts (the old heap's length).
func (s *Sink) Extend(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidExtend
	}
	at := len(s.data)
	newLen := at + n
	if s.max > 0 && newLen > s.max {
		return 0, ErrExhausted
	}
	if newLen <= cap(s.data) {
		s.data = s.data[:newLen]
		return at, nil
	}
	grown := make([]byte, newLen)
	copy(grown, s.data)
	s.data = grown
	return at, nil
}

// Bytes returns the live heap bytes. The slice is valid until the next
// Extend call, which may reallocate the backing array.
func (s *Sink) Bytes() []byte { return s.data }

// Size returns the number of live heap bytes.
func (s *Sink) Size() int { return len(s.data) }

// HeapLo returns the offset of the first live byte, always 0 for the
// lifetime of a Sink.
func (s *Sink) HeapLo() int { return 0 }

// HeapHi returns the offset one past the last live byte.
func (s *Sink) HeapHi() int { return len(s.data) }
