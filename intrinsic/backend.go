package intrinsic

import "github.com/meshweave/intrimesh/mesh"

// backend receives mutation notifications so each representation can keep
// its auxiliary state current. The signpost backend carries no state beyond
// the shared signpost/length tables, so its hooks are no-ops.
type backend interface {
	// exact reports whether the backend tracks exact crossing counts.
	exact() bool

	// beforeFlip snapshots whatever the backend needs from the pre-flip
	// configuration of edge e. Called only when the flip will proceed.
	beforeFlip(t *Triangulation, e mesh.Edge)

	// afterFlip updates backend state once the mesh and lengths reflect
	// the flipped edge e.
	afterFlip(t *Triangulation, e mesh.Edge)

	// grewEdges tells the backend the mesh now has n edges. New edges
	// start with unknown coordinates until setCoord is called.
	grewEdges(n int)

	// setCoord records the exact input-edge crossing count for edge e;
	// -1 marks an edge lying along an input edge.
	setCoord(e mesh.Edge, n int)

	// coord returns the crossing count for e. ok is false when the
	// backend does not track exact coordinates.
	coord(e mesh.Edge) (n int, ok bool)
}

// signpostBackend relies entirely on the shared floating-point state.
type signpostBackend struct{}

func (signpostBackend) exact() bool                          { return false }
func (signpostBackend) beforeFlip(*Triangulation, mesh.Edge) {}
func (signpostBackend) afterFlip(*Triangulation, mesh.Edge)  {}
func (signpostBackend) grewEdges(int)                        {}
func (signpostBackend) setCoord(mesh.Edge, int)              {}
func (signpostBackend) coord(mesh.Edge) (int, bool)          { return 0, false }

// NormalCoordinate returns the number of transversal crossings between
// intrinsic edge e and the input edge set, with -1 meaning e lies along an
// input edge. ok is false under the signpost backend, which does not track
// exact crossing counts.
func (t *Triangulation) NormalCoordinate(e mesh.Edge) (n int, ok bool) {
	return t.be.coord(e)
}
