package transfer

import "errors"

var (
	// ErrNilInput is returned when a required argument is nil.
	ErrNilInput = errors.New("transfer: nil input")

	// ErrDegenerateFace is returned when a face has zero area and no
	// cotangent weight can be formed for it.
	ErrDegenerateFace = errors.New("transfer: degenerate face")

	// ErrGeometryMismatch is returned when a geometry does not belong to the
	// mesh an operator expects it on.
	ErrGeometryMismatch = errors.New("transfer: geometry mismatch")
)
