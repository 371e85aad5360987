package surface

import "errors"

// Sentinel errors for surface point and geometry operations.
var (
	// ErrBadBarycentric indicates barycentric coordinates that are negative
	// or do not sum to one within tolerance.
	ErrBadBarycentric = errors.New("surface: invalid barycentric coordinates")

	// ErrPointType indicates a Point whose tag does not match the requested
	// operation.
	ErrPointType = errors.New("surface: unexpected point type")

	// ErrPositionCount indicates a position slice whose length differs from
	// the mesh vertex count.
	ErrPositionCount = errors.New("surface: position count does not match vertex count")

	// ErrDegenerateFace indicates a face whose edge lengths violate the
	// triangle inequality or collapse to zero area.
	ErrDegenerateFace = errors.New("surface: degenerate face")
)
