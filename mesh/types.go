// Package mesh: element handles and the halfedge arena.
package mesh

// Vertex is a dense index handle for a mesh vertex.
type Vertex int

// Edge is a dense index handle for a mesh edge.
type Edge int

// Face is a dense index handle for a mesh face.
type Face int

// Halfedge is a dense index handle for a directed halfedge.
// Halfedges are allocated in twin pairs: Twin(h) == h^1, EdgeOf(h) == h>>1.
type Halfedge int

// Invalid handles mark absent elements; boundary halfedges carry InvalidFace.
const (
	InvalidVertex   Vertex   = -1
	InvalidEdge     Edge     = -1
	InvalidFace     Face     = -1
	InvalidHalfedge Halfedge = -1
)

// Mesh is an arena-indexed halfedge mesh. Connectivity is stored in flat
// slices; elements are addressed by dense handles that remain stable across
// flips (splits append new elements, never relocate old ones).
//
// Boundary halfedges are real arena entries with heFace == InvalidFace,
// linked by heNext into boundary loops.
type Mesh struct {
	heNext   []Halfedge // next halfedge within a face loop (or boundary loop)
	heVertex []Vertex   // origin vertex of each halfedge
	heFace   []Face     // incident face; InvalidFace on boundary halfedges

	vHalfedge []Halfedge // one outgoing halfedge per vertex (boundary one if any)
	fHalfedge []Halfedge // one halfedge per face

	nBoundaryHE int // number of halfedges with heFace == InvalidFace
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.vHalfedge) }

// EdgeCount returns the number of edges.
func (m *Mesh) EdgeCount() int { return len(m.heNext) / 2 }

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int { return len(m.fHalfedge) }

// HalfedgeCount returns the number of halfedges, boundary halfedges included.
func (m *Mesh) HalfedgeCount() int { return len(m.heNext) }

// BoundaryHalfedgeCount returns the number of boundary halfedges.
func (m *Mesh) BoundaryHalfedgeCount() int { return m.nBoundaryHE }

// HasBoundary reports whether the mesh has any boundary loop.
func (m *Mesh) HasBoundary() bool { return m.nBoundaryHE > 0 }

// Twin returns the oppositely directed halfedge of h.
func (m *Mesh) Twin(h Halfedge) Halfedge { return h ^ 1 }

// Next returns the halfedge following h in its face (or boundary) loop.
func (m *Mesh) Next(h Halfedge) Halfedge { return m.heNext[h] }

// Prev returns the halfedge preceding h in its face (or boundary) loop.
// Complexity: O(loop length); O(1) amortized on triangles.
func (m *Mesh) Prev(h Halfedge) Halfedge {
	p := h
	for m.heNext[p] != h {
		p = m.heNext[p]
	}

	return p
}

// Origin returns the vertex h departs from.
func (m *Mesh) Origin(h Halfedge) Vertex { return m.heVertex[h] }

// Target returns the vertex h points to.
func (m *Mesh) Target(h Halfedge) Vertex { return m.heVertex[h^1] }

// EdgeOf returns the edge carrying h.
func (m *Mesh) EdgeOf(h Halfedge) Edge { return Edge(h >> 1) }

// FaceOf returns the face incident to h, or InvalidFace on the boundary.
func (m *Mesh) FaceOf(h Halfedge) Face { return m.heFace[h] }

// HalfedgeOf returns the first halfedge of edge e.
func (m *Mesh) HalfedgeOf(e Edge) Halfedge { return Halfedge(e << 1) }

// VertexHalfedge returns an outgoing halfedge of v. For boundary vertices it
// is the outgoing boundary halfedge, which makes circulation deterministic.
func (m *Mesh) VertexHalfedge(v Vertex) Halfedge { return m.vHalfedge[v] }

// FaceHalfedge returns a halfedge of face f.
func (m *Mesh) FaceHalfedge(f Face) Halfedge { return m.fHalfedge[f] }

// NextOutgoing steps clockwise to the next halfedge departing the same
// vertex. The orbit closes over boundary halfedges, so it visits every
// outgoing halfedge at interior and boundary vertices alike.
func (m *Mesh) NextOutgoing(h Halfedge) Halfedge { return m.heNext[h^1] }

// IsBoundaryHalfedge reports whether h lies on a boundary loop.
func (m *Mesh) IsBoundaryHalfedge(h Halfedge) bool { return m.heFace[h] == InvalidFace }

// IsBoundaryEdge reports whether e has exactly one incident face.
func (m *Mesh) IsBoundaryEdge(e Edge) bool {
	h := m.HalfedgeOf(e)

	return m.heFace[h] == InvalidFace || m.heFace[h^1] == InvalidFace
}

// IsBoundaryVertex reports whether v lies on a boundary loop.
func (m *Mesh) IsBoundaryVertex(v Vertex) bool {
	return m.heFace[m.vHalfedge[v]] == InvalidFace
}

// EdgeVertices returns the two endpoints of e, in halfedge order.
func (m *Mesh) EdgeVertices(e Edge) (Vertex, Vertex) {
	h := m.HalfedgeOf(e)

	return m.heVertex[h], m.heVertex[h^1]
}

// FaceDegree returns the number of sides of face f.
func (m *Mesh) FaceDegree(f Face) int {
	d := 0
	h := m.fHalfedge[f]
	for {
		d++
		h = m.heNext[h]
		if h == m.fHalfedge[f] {
			return d
		}
	}
}

// FaceVertices returns the vertices of face f in orientation order.
func (m *Mesh) FaceVertices(f Face) []Vertex {
	var vs []Vertex
	h := m.fHalfedge[f]
	for {
		vs = append(vs, m.heVertex[h])
		h = m.heNext[h]
		if h == m.fHalfedge[f] {
			return vs
		}
	}
}

// TriangleHalfedges returns the three halfedges of triangular face f
// starting at its canonical halfedge. Returns ErrNotTriangulated for
// polygons with more sides.
func (m *Mesh) TriangleHalfedges(f Face) ([3]Halfedge, error) {
	h0 := m.fHalfedge[f]
	h1 := m.heNext[h0]
	h2 := m.heNext[h1]
	if m.heNext[h2] != h0 {
		return [3]Halfedge{}, ErrNotTriangulated
	}

	return [3]Halfedge{h0, h1, h2}, nil
}

// VertexDegree returns the number of edges incident to v.
func (m *Mesh) VertexDegree(v Vertex) int {
	d := 0
	h := m.vHalfedge[v]
	for {
		d++
		h = m.NextOutgoing(h)
		if h == m.vHalfedge[v] {
			return d
		}
	}
}

// ForEachOutgoing calls fn for every halfedge departing v, in orbit order,
// stopping early if fn returns false.
func (m *Mesh) ForEachOutgoing(v Vertex, fn func(Halfedge) bool) {
	h := m.vHalfedge[v]
	for {
		if !fn(h) {
			return
		}
		h = m.NextOutgoing(h)
		if h == m.vHalfedge[v] {
			return
		}
	}
}

// HalfedgeBetween returns the halfedge from a to b, or InvalidHalfedge if
// the two vertices are not adjacent. Complexity: O(deg a).
func (m *Mesh) HalfedgeBetween(a, b Vertex) Halfedge {
	found := InvalidHalfedge
	m.ForEachOutgoing(a, func(h Halfedge) bool {
		if m.Target(h) == b {
			found = h
			return false
		}
		return true
	})

	return found
}

// FaceVertexList exports faces as vertex index lists, in face order.
func (m *Mesh) FaceVertexList() [][]int {
	out := make([][]int, m.FaceCount())
	for f := 0; f < m.FaceCount(); f++ {
		vs := m.FaceVertices(Face(f))
		row := make([]int, len(vs))
		for i, v := range vs {
			row[i] = int(v)
		}
		out[f] = row
	}

	return out
}

// Clone returns an independent deep copy of the connectivity.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		heNext:      append([]Halfedge(nil), m.heNext...),
		heVertex:    append([]Vertex(nil), m.heVertex...),
		heFace:      append([]Face(nil), m.heFace...),
		vHalfedge:   append([]Halfedge(nil), m.vHalfedge...),
		fHalfedge:   append([]Halfedge(nil), m.fHalfedge...),
		nBoundaryHE: m.nBoundaryHE,
	}

	return c
}
