package surface

import (
	"fmt"

	"github.com/meshweave/intrimesh/mesh"
)

// BaryTolerance is the floating tolerance within which barycentric
// coordinates must be non-negative and sum to one.
const BaryTolerance = 1e-10

// PointType tags the kind of mesh element a Point lives on.
type PointType int

const (
	// AtVertex marks a point coinciding with a mesh vertex.
	AtVertex PointType = iota
	// OnEdge marks a point in the interior of an edge.
	OnEdge
	// InFace marks a point in the interior of a face.
	InFace
)

// String returns the tag name, for diagnostics.
func (t PointType) String() string {
	switch t {
	case AtVertex:
		return "vertex"
	case OnEdge:
		return "edge"
	case InFace:
		return "face"
	default:
		return fmt.Sprintf("PointType(%d)", int(t))
	}
}

// Point is a location on a surface mesh: a vertex, a point on an edge, or a
// point inside a face. Exactly one element handle is meaningful, selected by
// Type. Edge points carry one coordinate EdgeT, the fraction from the edge's
// first halfedge origin toward its target; face points carry three
// coordinates against the face corners in orientation order.
type Point struct {
	Type   PointType
	Vertex mesh.Vertex
	Edge   mesh.Edge
	Face   mesh.Face

	EdgeT    float64
	FaceBary [3]float64
}

// VertexPoint returns the Point at vertex v.
func VertexPoint(v mesh.Vertex) Point {
	return Point{Type: AtVertex, Vertex: v, Edge: mesh.InvalidEdge, Face: mesh.InvalidFace}
}

// EdgePoint returns the Point on edge e at fraction t from the first
// halfedge's origin. t must lie in [0, 1] within BaryTolerance.
func EdgePoint(e mesh.Edge, t float64) (Point, error) {
	if t < -BaryTolerance || t > 1+BaryTolerance {
		return Point{}, fmt.Errorf("%w: edge fraction %g", ErrBadBarycentric, t)
	}

	return Point{Type: OnEdge, Vertex: mesh.InvalidVertex, Edge: e, Face: mesh.InvalidFace, EdgeT: clamp01(t)}, nil
}

// FacePoint returns the Point inside face f with barycentric coordinates b
// against the face corners in orientation order. Coordinates must be
// non-negative and sum to one within BaryTolerance.
func FacePoint(f mesh.Face, b [3]float64) (Point, error) {
	sum := b[0] + b[1] + b[2]
	if sum < 1-1e-6 || sum > 1+1e-6 {
		return Point{}, fmt.Errorf("%w: sum %g", ErrBadBarycentric, sum)
	}
	for i := 0; i < 3; i++ {
		if b[i] < -BaryTolerance {
			return Point{}, fmt.Errorf("%w: coordinate %d = %g", ErrBadBarycentric, i, b[i])
		}
		b[i] = clampPos(b[i])
	}

	return Point{Type: InFace, Vertex: mesh.InvalidVertex, Edge: mesh.InvalidEdge, Face: f, FaceBary: b}, nil
}

// NormalizeInFace returns a face-point representative of p on m. Edge points lift
// into an incident face (the interior one on boundary edges); vertex points
// lift into the face of the vertex's anchor halfedge with coordinates
// (1,0,0) permuted to the matching corner. Face points return unchanged.
// When p lies strictly inside an edge or face, the representative has
// all-positive coordinates on that carrier.
func (p Point) NormalizeInFace(m *mesh.Mesh) (Point, error) {
	switch p.Type {
	case InFace:
		return p, nil

	case OnEdge:
		h := m.HalfedgeOf(p.Edge)
		t := p.EdgeT
		if m.IsBoundaryHalfedge(h) {
			h = m.Twin(h)
			t = 1 - t
		}

		return facePointAtHalfedge(m, h, t)

	case AtVertex:
		h := m.VertexHalfedge(p.Vertex)
		if m.IsBoundaryHalfedge(h) {
			// Boundary anchors have no face; the twin's face touches v at
			// the halfedge's target corner.
			h = m.Twin(h)

			return facePointAtHalfedge(m, h, 1)
		}

		return facePointAtHalfedge(m, h, 0)

	default:
		return Point{}, fmt.Errorf("%w: %v", ErrPointType, p.Type)
	}
}

// facePointAtHalfedge builds the face point of FaceOf(h) located at fraction
// t along h from its origin.
func facePointAtHalfedge(m *mesh.Mesh, h mesh.Halfedge, t float64) (Point, error) {
	f := m.FaceOf(h)
	hs, err := m.TriangleHalfedges(f)
	if err != nil {
		return Point{}, err
	}
	var b [3]float64
	for i, fh := range hs {
		if fh == h {
			b[i] = 1 - t
			b[(i+1)%3] = t
			return FacePoint(f, b)
		}
	}

	return Point{}, fmt.Errorf("%w: halfedge %d not in face %d", ErrPointType, h, f)
}

// ReduceNearEdge collapses a face point with one coordinate within eps of
// zero to the equivalent edge point, and an edge point within eps of an
// endpoint to the vertex point. The interpolated position is preserved
// exactly: surviving coordinates are renormalized to sum to one. Points with
// no near-zero coordinate return unchanged.
func (p Point) ReduceNearEdge(m *mesh.Mesh, eps float64) (Point, error) {
	switch p.Type {
	case AtVertex:
		return p, nil

	case OnEdge:
		if p.EdgeT <= eps {
			v, _ := m.EdgeVertices(p.Edge)
			return VertexPoint(v), nil
		}
		if p.EdgeT >= 1-eps {
			_, w := m.EdgeVertices(p.Edge)
			return VertexPoint(w), nil
		}

		return p, nil

	case InFace:
		hs, err := m.TriangleHalfedges(p.Face)
		if err != nil {
			return Point{}, err
		}
		for i := 0; i < 3; i++ {
			if p.FaceBary[i] > eps {
				continue
			}
			// Corner i vanishes: the point lies on the side from corner
			// i+1 to corner i+2, which is halfedge hs[(i+1)%3].
			h := hs[(i+1)%3]
			a := p.FaceBary[(i+1)%3]
			b := p.FaceBary[(i+2)%3]
			t := b / (a + b)
			if m.HalfedgeOf(m.EdgeOf(h)) != h {
				t = 1 - t // edge's canonical halfedge runs the other way
			}
			ep, err := EdgePoint(m.EdgeOf(h), t)
			if err != nil {
				return Point{}, err
			}

			return ep.ReduceNearEdge(m, eps)
		}

		return p, nil

	default:
		return Point{}, fmt.Errorf("%w: %v", ErrPointType, p.Type)
	}
}

// Validate checks the barycentric invariants of p.
func (p Point) Validate() error {
	switch p.Type {
	case AtVertex:
		if p.Vertex < 0 {
			return fmt.Errorf("%w: vertex point without vertex", ErrPointType)
		}
		return nil

	case OnEdge:
		if p.EdgeT < -BaryTolerance || p.EdgeT > 1+BaryTolerance {
			return fmt.Errorf("%w: edge fraction %g", ErrBadBarycentric, p.EdgeT)
		}
		return nil

	case InFace:
		sum := 0.0
		for i := 0; i < 3; i++ {
			if p.FaceBary[i] < -BaryTolerance {
				return fmt.Errorf("%w: coordinate %d = %g", ErrBadBarycentric, i, p.FaceBary[i])
			}
			sum += p.FaceBary[i]
		}
		if sum < 1-1e-6 || sum > 1+1e-6 {
			return fmt.Errorf("%w: sum %g", ErrBadBarycentric, sum)
		}
		return nil

	default:
		return fmt.Errorf("%w: %v", ErrPointType, p.Type)
	}
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}

	return t
}

func clampPos(x float64) float64 {
	if x < 0 {
		return 0
	}

	return x
}
