package intrinsic

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"github.com/meshweave/intrimesh/mesh"
	"github.com/meshweave/intrimesh/overlay"
	"github.com/meshweave/intrimesh/surface"
)

// delaunayEPS is the slack on the cotangent form of the Delaunay test.
// Exactly cocircular configurations count as Delaunay so they cannot make
// the flipper cycle.
const delaunayEPS = 1e-9

// vertexFrame anchors a tangent coordinate system for an intrinsic vertex
// on the input surface. Original vertices reference the input mesh's own
// anchor halfedge; inserted vertices carry an explicit position and
// reference direction in the layout frame of their containing input face.
type vertexFrame struct {
	atInputVertex bool
	face          mesh.Face // input face (inserted vertices only)
	pos           r2.Point  // position in FaceLayout(face)
	dir           r2.Point  // unit reference direction in FaceLayout(face)
}

// Triangulation is an intrinsic triangulation layered over a read-only
// input mesh and geometry. It owns its own halfedge mesh (initially a
// combinatorial copy of the input), per-edge lengths, and the location of
// every intrinsic vertex on the input surface. All mutation happens in
// place; the cached common subdivision is invalidated by any mutation.
//
// Not safe for concurrent use.
type Triangulation struct {
	kind BackendKind
	be   backend

	input *mesh.Mesh
	geom  *surface.Geometry

	tri       *mesh.Mesh
	lengths   []float64       // per intrinsic edge
	locations []surface.Point // per intrinsic vertex, on the input mesh

	// Signpost state, kept by both backends for point location: per
	// halfedge, the clockwise angle from its origin vertex's reference
	// direction; per vertex, the total cone angle.
	signposts []float64
	angleSums []float64
	frames    []vertexFrame

	subdiv      *overlay.CommonSubdivision
	subdivValid bool
}

// New builds the intrinsic triangulation over input geometry geom, starting
// as a combinatorial copy of the input mesh with the input's edge lengths.
// The input must be a triangulated manifold; geom must wrap the same mesh.
// Both are read-only collaborators and must outlive the triangulation.
func New(input *mesh.Mesh, geom *surface.Geometry, opts ...Option) (*Triangulation, error) {
	if input == nil || geom == nil {
		return nil, ErrNilInput
	}
	if geom.Mesh() != input {
		return nil, fmt.Errorf("%w: geometry wraps a different mesh", ErrNilInput)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	for f := 0; f < input.FaceCount(); f++ {
		if input.FaceDegree(mesh.Face(f)) != 3 {
			return nil, fmt.Errorf("%w: face %d", mesh.ErrNotTriangulated, f)
		}
	}

	t := &Triangulation{
		kind:      o.backend,
		input:     input,
		geom:      geom,
		tri:       input.Clone(),
		lengths:   geom.EdgeLengths(),
		locations: make([]surface.Point, input.VertexCount()),
		signposts: make([]float64, input.HalfedgeCount()),
		angleSums: make([]float64, input.VertexCount()),
		frames:    make([]vertexFrame, input.VertexCount()),
	}
	for e, l := range t.lengths {
		if !(l > 0) {
			return nil, fmt.Errorf("%w: edge %d has length %g", surface.ErrDegenerateFace, e, l)
		}
	}
	for v := 0; v < input.VertexCount(); v++ {
		t.locations[v] = surface.VertexPoint(mesh.Vertex(v))
		t.frames[v] = vertexFrame{atInputVertex: true}
		t.rebuildVertexSignposts(mesh.Vertex(v))
	}

	switch o.backend {
	case BackendIntegerCoordinates:
		t.be = newIntegerBackend(t)
	case BackendSignpost:
		t.be = signpostBackend{}
	}

	return t, nil
}

// Backend returns the representation backend chosen at construction.
func (t *Triangulation) Backend() BackendKind { return t.kind }

// Mesh returns the intrinsic halfedge mesh. Treat as read-only.
func (t *Triangulation) Mesh() *mesh.Mesh { return t.tri }

// InputMesh returns the input mesh the triangulation sits over.
func (t *Triangulation) InputMesh() *mesh.Mesh { return t.input }

// InputGeometry returns the input geometry.
func (t *Triangulation) InputGeometry() *surface.Geometry { return t.geom }

// VertexCount returns the number of intrinsic vertices.
func (t *Triangulation) VertexCount() int { return t.tri.VertexCount() }

// FaceCount returns the number of intrinsic faces.
func (t *Triangulation) FaceCount() int { return t.tri.FaceCount() }

// EdgeCount returns the number of intrinsic edges.
func (t *Triangulation) EdgeCount() int { return t.tri.EdgeCount() }

// EdgeLength returns the intrinsic length of edge e.
func (t *Triangulation) EdgeLength(e mesh.Edge) float64 { return t.lengths[e] }

// EdgeLengths returns a copy of the intrinsic edge lengths.
func (t *Triangulation) EdgeLengths() []float64 {
	return append([]float64(nil), t.lengths...)
}

// VertexLocation returns where intrinsic vertex v sits on the input surface.
func (t *Triangulation) VertexLocation(v mesh.Vertex) surface.Point { return t.locations[v] }

// VertexLocations returns a copy of all vertex locations.
func (t *Triangulation) VertexLocations() []surface.Point {
	return append([]surface.Point(nil), t.locations...)
}

// faceLengths returns the three side lengths of intrinsic face f in
// halfedge order (l01, l12, l20).
func (t *Triangulation) faceLengths(f mesh.Face) [3]float64 {
	hs, _ := t.tri.TriangleHalfedges(f)

	return [3]float64{
		t.lengths[t.tri.EdgeOf(hs[0])],
		t.lengths[t.tri.EdgeOf(hs[1])],
		t.lengths[t.tri.EdgeOf(hs[2])],
	}
}

// faceMinAngle returns the minimum corner angle of face f, in radians.
func (t *Triangulation) faceMinAngle(f mesh.Face) float64 {
	l := t.faceLengths(f)
	a0 := cornerAngle(l[1], l[0], l[2]) // at corner 0, opposite side 1-2
	a1 := cornerAngle(l[2], l[0], l[1])
	a2 := cornerAngle(l[0], l[1], l[2])

	return math.Min(a0, math.Min(a1, a2))
}

// edgeIsDelaunay tests the local Delaunay condition on e: the two corner
// angles opposite e sum to at most π, expressed through cotangents so no
// inverse trigonometry is needed. Boundary edges are always Delaunay.
func (t *Triangulation) edgeIsDelaunay(e mesh.Edge) bool {
	if t.tri.IsBoundaryEdge(e) {
		return true
	}
	ha := t.tri.HalfedgeOf(e)
	hb := t.tri.Twin(ha)
	lE := t.lengths[e]
	lA1 := t.lengths[t.tri.EdgeOf(t.tri.Next(ha))]
	lA2 := t.lengths[t.tri.EdgeOf(t.tri.Prev(ha))]
	lB1 := t.lengths[t.tri.EdgeOf(t.tri.Next(hb))]
	lB2 := t.lengths[t.tri.EdgeOf(t.tri.Prev(hb))]

	return cornerCot(lE, lA1, lA2)+cornerCot(lE, lB1, lB2) >= -delaunayEPS
}

// IsDelaunay reports whether every intrinsic edge satisfies the local
// Delaunay condition. Complexity: O(E).
func (t *Triangulation) IsDelaunay() bool {
	for e := 0; e < t.tri.EdgeCount(); e++ {
		if !t.edgeIsDelaunay(mesh.Edge(e)) {
			return false
		}
	}

	return true
}

// MinAngleDegrees returns the minimum corner angle over all intrinsic
// faces, in degrees. A quality metric, not a correctness gate.
func (t *Triangulation) MinAngleDegrees() float64 {
	minA := math.Inf(1)
	for f := 0; f < t.tri.FaceCount(); f++ {
		if a := t.faceMinAngle(mesh.Face(f)); a < minA {
			minA = a
		}
	}

	return minA * 180 / math.Pi
}

// markMutated invalidates derived state after any flip or insertion.
func (t *Triangulation) markMutated() {
	t.subdiv = nil
	t.subdivValid = false
}

// MarkDirty discards the cached common subdivision. Mutating operations
// call it automatically; it exists for callers that adjust state through
// the underlying mesh directly.
func (t *Triangulation) MarkDirty() { t.markMutated() }

// CommonSubdivision returns the overlay of the input and intrinsic
// triangulations, building it on first use and after every mutation.
// The returned value is owned by the triangulation and becomes stale on
// the next flip or insertion.
func (t *Triangulation) CommonSubdivision() (*overlay.CommonSubdivision, error) {
	if t.subdivValid {
		return t.subdiv, nil
	}
	traced, err := t.TraceEdges()
	if err != nil {
		return nil, err
	}
	cs, err := overlay.Build(overlay.Input{
		MeshA:      t.input,
		GeomA:      t.geom,
		MeshB:      t.tri,
		LocationsB: t.locations,
		TracedB:    traced,
	})
	if err != nil {
		return nil, err
	}
	t.subdiv = cs
	t.subdivValid = true

	return cs, nil
}

// rebuildVertexSignposts assigns signpost angles for every halfedge
// departing v by accumulating corner angles clockwise from the vertex's
// anchor halfedge, whose direction defines the reference. Also refreshes
// the vertex's cone angle. Used at construction and when a vertex is
// created; established vertices are updated incrementally instead, which
// keeps their reference direction fixed.
func (t *Triangulation) rebuildVertexSignposts(v mesh.Vertex) {
	anchor := t.tri.VertexHalfedge(v)
	t.signposts[anchor] = 0
	sum := 0.0
	h := anchor
	for {
		h2 := t.tri.NextOutgoing(h)
		if h2 == anchor {
			// Close the cone with the wedge of the anchor's own face.
			if !t.tri.IsBoundaryHalfedge(anchor) {
				sum += t.cornerAngleAt(anchor)
			}
			break
		}
		if !t.tri.IsBoundaryHalfedge(h2) {
			sum += t.cornerAngleAt(h2)
		}
		t.signposts[h2] = sum
		h = h2
	}
	t.angleSums[v] = sum
}

// cornerAngleAt returns the corner angle at the origin of h within its
// face, from intrinsic lengths.
func (t *Triangulation) cornerAngleAt(h mesh.Halfedge) float64 {
	opp := t.lengths[t.tri.EdgeOf(t.tri.Next(h))]
	b := t.lengths[t.tri.EdgeOf(h)]
	c := t.lengths[t.tri.EdgeOf(t.tri.Prev(h))]

	return cornerAngle(opp, b, c)
}

// normalizeSignpost wraps an accumulated angle into [0, cone angle of v).
func (t *Triangulation) normalizeSignpost(v mesh.Vertex, a float64) float64 {
	theta := t.angleSums[v]
	a = math.Mod(a, theta)
	if a < 0 {
		a += theta
	}

	return a
}
