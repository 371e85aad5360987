package overlay

import "errors"

var (
	// ErrBadInput reports a nil or inconsistent Input.
	ErrBadInput = errors.New("overlay: bad input")

	// ErrArrangement reports traced polylines that do not assemble into a
	// consistent subdivision, typically from a failed upstream trace.
	ErrArrangement = errors.New("overlay: inconsistent edge arrangement")
)
