package sink

// Option configures a Sink at construction time.
type Option func(*Sink)

// WithInitialCapacity preallocates cap bytes of backing storage up front,
// before any heap bytes are considered live. Growth beyond cap still works;
// this only avoids early reallocation of the underlying slice.
func WithInitialCapacity(cap int) Option {
	return func(s *Sink) {
		if cap > 0 {
			s.cap = cap
		}
	}
}

// WithMaxSize caps how large the sink is allowed to grow. Extend requests
// that would exceed max fail with ErrExhausted. A max of 0 (the default)
// means unbounded.
func WithMaxSize(max int) Option {
	return func(s *Sink) {
		s.max = max
	}
}
