package mesh

import "errors"

// Sentinel errors for mesh construction and mutation.
var (
	// ErrInvalidFaceList indicates a face list that cannot describe any mesh:
	// out-of-range vertex indices, faces with fewer than three sides,
	// repeated vertices within a face, or vertices referenced by no face.
	ErrInvalidFaceList = errors.New("mesh: invalid face list")

	// ErrNonManifold indicates an edge shared by more than two faces or a
	// vertex whose incident faces do not form a single fan.
	ErrNonManifold = errors.New("mesh: input is not manifold")

	// ErrNonOrientable indicates two faces inducing the same orientation on
	// a shared edge; the connectivity admits no consistent orientation.
	ErrNonOrientable = errors.New("mesh: input is not orientable")

	// ErrNotTriangulated indicates a non-triangular face where triangles are
	// required.
	ErrNotTriangulated = errors.New("mesh: face is not a triangle")

	// ErrUnflippable indicates an edge that cannot be flipped: it is a
	// boundary edge, an adjacent face is not a triangle, or the flip would
	// create a duplicate edge.
	ErrUnflippable = errors.New("mesh: edge is not flippable")

	// ErrBadHandle indicates an element handle outside the arena.
	ErrBadHandle = errors.New("mesh: handle out of range")
)
