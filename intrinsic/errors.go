package intrinsic

import "errors"

// Sentinel errors for triangulation construction and queries.
var (
	// ErrUnknownBackend indicates a backend identifier that names no
	// implemented backend.
	ErrUnknownBackend = errors.New("intrinsic: unknown backend")

	// ErrNilInput indicates a nil input mesh or geometry.
	ErrNilInput = errors.New("intrinsic: nil input mesh or geometry")

	// ErrTraceFailed indicates an edge trace that could not be completed,
	// typically because floating point drift walked it off the surface.
	ErrTraceFailed = errors.New("intrinsic: edge trace failed")

	// ErrInsertFailed indicates a Steiner insertion whose location on the
	// input surface could not be determined.
	ErrInsertFailed = errors.New("intrinsic: vertex insertion failed")
)
