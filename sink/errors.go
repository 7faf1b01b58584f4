package sink

import "errors"

var (
	// ErrExhausted indicates that a requested extension would grow the sink
	// past its configured maximum size.
	ErrExhausted = errors.New("sink: heap exhausted")

	// ErrInvalidExtend indicates a non-positive extension request.
	ErrInvalidExtend = errors.New("sink: invalid extend size")
)
