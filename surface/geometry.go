package surface

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/meshweave/intrimesh/mesh"
)

// Geometry pairs a mesh with embedded vertex positions. The mesh and the
// positions are read-only collaborators: Geometry never mutates either, and
// both must outlive it.
type Geometry struct {
	m   *mesh.Mesh
	pos []r3.Vector
}

// NewGeometry wraps mesh m with per-vertex positions. The slice is retained,
// not copied. Fails with ErrPositionCount on a length mismatch.
func NewGeometry(m *mesh.Mesh, positions []r3.Vector) (*Geometry, error) {
	if len(positions) != m.VertexCount() {
		return nil, fmt.Errorf("%w: %d positions for %d vertices", ErrPositionCount, len(positions), m.VertexCount())
	}

	return &Geometry{m: m, pos: positions}, nil
}

// Mesh returns the underlying mesh.
func (g *Geometry) Mesh() *mesh.Mesh { return g.m }

// Position returns the embedded position of vertex v.
func (g *Geometry) Position(v mesh.Vertex) r3.Vector { return g.pos[v] }

// Positions returns the backing position slice.
func (g *Geometry) Positions() []r3.Vector { return g.pos }

// EdgeLength returns the embedded length of edge e.
func (g *Geometry) EdgeLength(e mesh.Edge) float64 {
	a, b := g.m.EdgeVertices(e)

	return g.pos[b].Sub(g.pos[a]).Norm()
}

// EdgeLengths returns the lengths of all edges, indexed by edge handle.
func (g *Geometry) EdgeLengths() []float64 {
	out := make([]float64, g.m.EdgeCount())
	for e := range out {
		out[e] = g.EdgeLength(mesh.Edge(e))
	}

	return out
}

// FaceArea returns the embedded area of triangular face f.
func (g *Geometry) FaceArea(f mesh.Face) (float64, error) {
	hs, err := g.m.TriangleHalfedges(f)
	if err != nil {
		return 0, err
	}
	p0 := g.pos[g.m.Origin(hs[0])]
	p1 := g.pos[g.m.Origin(hs[1])]
	p2 := g.pos[g.m.Origin(hs[2])]

	return 0.5 * p1.Sub(p0).Cross(p2.Sub(p0)).Norm(), nil
}

// TotalArea returns the summed area of all faces.
func (g *Geometry) TotalArea() (float64, error) {
	total := 0.0
	for f := 0; f < g.m.FaceCount(); f++ {
		a, err := g.FaceArea(mesh.Face(f))
		if err != nil {
			return 0, err
		}
		total += a
	}

	return total, nil
}

// CornerAngle returns the interior angle, in radians, at the origin of h
// within its face.
func (g *Geometry) CornerAngle(h mesh.Halfedge) float64 {
	v := g.m.Origin(h)
	a := g.pos[g.m.Target(h)].Sub(g.pos[v])
	b := g.pos[g.m.Origin(g.m.Prev(h))].Sub(g.pos[v])

	return float64(a.Angle(b))
}

// VertexAngleSum returns the total corner angle around v over its incident
// faces. On the boundary this is less than 2π in general.
func (g *Geometry) VertexAngleSum(v mesh.Vertex) float64 {
	sum := 0.0
	g.m.ForEachOutgoing(v, func(h mesh.Halfedge) bool {
		if !g.m.IsBoundaryHalfedge(h) {
			sum += g.CornerAngle(h)
		}
		return true
	})

	return sum
}

// FaceLayout maps triangular face f isometrically into the plane: corner 0
// at the origin, corner 1 on the positive x axis, corner 2 above it.
// Fails with ErrDegenerateFace when the triangle has no positive area.
func (g *Geometry) FaceLayout(f mesh.Face) ([3]r2.Point, error) {
	hs, err := g.m.TriangleHalfedges(f)
	if err != nil {
		return [3]r2.Point{}, err
	}
	l01 := g.EdgeLength(g.m.EdgeOf(hs[0]))
	l12 := g.EdgeLength(g.m.EdgeOf(hs[1]))
	l20 := g.EdgeLength(g.m.EdgeOf(hs[2]))

	return LayoutTriangle(l01, l12, l20)
}

// LayoutTriangle places a triangle with side lengths l01, l12, l20 in the
// plane: corner 0 at (0,0), corner 1 at (l01,0), corner 2 at positive y.
func LayoutTriangle(l01, l12, l20 float64) ([3]r2.Point, error) {
	if l01 <= 0 || l12 <= 0 || l20 <= 0 {
		return [3]r2.Point{}, fmt.Errorf("%w: lengths %g %g %g", ErrDegenerateFace, l01, l12, l20)
	}
	x := (l01*l01 + l20*l20 - l12*l12) / (2 * l01)
	y2 := l20*l20 - x*x
	if y2 <= 0 {
		return [3]r2.Point{}, fmt.Errorf("%w: lengths %g %g %g", ErrDegenerateFace, l01, l12, l20)
	}

	return [3]r2.Point{{}, {X: l01}, {X: x, Y: math.Sqrt(y2)}}, nil
}

// Interpolate evaluates the embedded position of surface point p.
func (g *Geometry) Interpolate(p Point) (r3.Vector, error) {
	switch p.Type {
	case AtVertex:
		return g.pos[p.Vertex], nil

	case OnEdge:
		a, b := g.m.EdgeVertices(p.Edge)

		return g.pos[a].Mul(1 - p.EdgeT).Add(g.pos[b].Mul(p.EdgeT)), nil

	case InFace:
		hs, err := g.m.TriangleHalfedges(p.Face)
		if err != nil {
			return r3.Vector{}, err
		}
		out := r3.Vector{}
		for i, h := range hs {
			out = out.Add(g.pos[g.m.Origin(h)].Mul(p.FaceBary[i]))
		}

		return out, nil

	default:
		return r3.Vector{}, fmt.Errorf("%w: %v", ErrPointType, p.Type)
	}
}

// InterpolateScalar evaluates a per-vertex scalar attribute at p.
func (g *Geometry) InterpolateScalar(p Point, vals []float64) (float64, error) {
	if len(vals) != g.m.VertexCount() {
		return 0, fmt.Errorf("%w: %d values for %d vertices", ErrPositionCount, len(vals), g.m.VertexCount())
	}
	switch p.Type {
	case AtVertex:
		return vals[p.Vertex], nil

	case OnEdge:
		a, b := g.m.EdgeVertices(p.Edge)

		return (1-p.EdgeT)*vals[a] + p.EdgeT*vals[b], nil

	case InFace:
		hs, err := g.m.TriangleHalfedges(p.Face)
		if err != nil {
			return 0, err
		}
		out := 0.0
		for i, h := range hs {
			out += p.FaceBary[i] * vals[g.m.Origin(h)]
		}

		return out, nil

	default:
		return 0, fmt.Errorf("%w: %v", ErrPointType, p.Type)
	}
}
