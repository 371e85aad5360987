package mesh

import "fmt"

// sideKey packs an ordered vertex pair into a map key.
func sideKey(a, b int) uint64 { return uint64(uint32(a))<<32 | uint64(uint32(b)) }

// NewFromFaces builds a halfedge mesh from an indexed face list.
//
// Faces are vertex index cycles with a consistent orientation. The input
// must describe an oriented manifold: every edge borders at most two faces
// with opposite induced orientations, and the faces around every vertex
// form a single fan. Boundary is allowed; boundary halfedges are created
// and linked into loops.
//
// Stage 1 (Validate): face list shape and index ranges.
// Stage 2 (Allocate): one halfedge pair per edge, detecting non-manifold
// and non-orientable gluings.
// Stage 3 (Link): face loops, boundary loops, vertex anchors.
// Stage 4 (Verify): single-fan condition at every vertex.
// Complexity: O(V + E + F).
func NewFromFaces(nVertices int, faces [][]int) (*Mesh, error) {
	// Stage 1: shape validation.
	if nVertices <= 0 || len(faces) == 0 {
		return nil, fmt.Errorf("%w: %d vertices, %d faces", ErrInvalidFaceList, nVertices, len(faces))
	}
	for fi, face := range faces {
		if len(face) < 3 {
			return nil, fmt.Errorf("%w: face %d has %d sides", ErrInvalidFaceList, fi, len(face))
		}
		for i, v := range face {
			if v < 0 || v >= nVertices {
				return nil, fmt.Errorf("%w: face %d references vertex %d", ErrInvalidFaceList, fi, v)
			}
			for j := 0; j < i; j++ {
				if face[j] == v {
					return nil, fmt.Errorf("%w: face %d repeats vertex %d", ErrInvalidFaceList, fi, v)
				}
			}
		}
	}

	// Stage 2: allocate halfedge pairs, one per undirected edge. The first
	// side seen claims the even slot of its pair; the opposite side claims
	// the odd slot. A repeated directed side means inconsistent orientation;
	// a third side on one edge means a non-manifold edge.
	m := &Mesh{vHalfedge: make([]Halfedge, nVertices)}
	for v := range m.vHalfedge {
		m.vHalfedge[v] = InvalidHalfedge
	}

	firstSide := make(map[uint64]Halfedge) // directed first side -> its even halfedge
	useCount := make(map[uint64]int)       // undirected edge -> sides seen

	halfedgeOfSide := func(a, b, fi int) (Halfedge, error) {
		lo, hi := a, b
		if lo > hi {
			lo, hi = hi, lo
		}
		useCount[sideKey(lo, hi)]++
		switch useCount[sideKey(lo, hi)] {
		case 1:
			h := Halfedge(len(m.heNext))
			m.heNext = append(m.heNext, InvalidHalfedge, InvalidHalfedge)
			m.heVertex = append(m.heVertex, Vertex(a), Vertex(b))
			m.heFace = append(m.heFace, InvalidFace, InvalidFace)
			firstSide[sideKey(a, b)] = h

			return h, nil
		case 2:
			h, ok := firstSide[sideKey(b, a)]
			if !ok {
				// Same directed side twice: the two faces induce the same
				// orientation on this edge.
				return 0, fmt.Errorf("%w: edge %d-%d (face %d)", ErrNonOrientable, a, b, fi)
			}

			return h ^ 1, nil
		default:
			return 0, fmt.Errorf("%w: edge %d-%d borders more than two faces", ErrNonManifold, lo, hi)
		}
	}

	// Stage 3a: face loops.
	m.fHalfedge = make([]Halfedge, len(faces))
	for fi, face := range faces {
		loop := make([]Halfedge, len(face))
		for i := range face {
			a, b := face[i], face[(i+1)%len(face)]
			h, err := halfedgeOfSide(a, b, fi)
			if err != nil {
				return nil, err
			}
			if m.heFace[h] != InvalidFace {
				return nil, fmt.Errorf("%w: edge %d-%d borders more than two faces", ErrNonManifold, a, b)
			}
			m.heFace[h] = Face(fi)
			loop[i] = h
		}
		for i, h := range loop {
			m.heNext[h] = loop[(i+1)%len(loop)]
			if m.vHalfedge[m.heVertex[h]] == InvalidHalfedge {
				m.vHalfedge[m.heVertex[h]] = h
			}
		}
		m.fHalfedge[fi] = loop[0]
	}

	// Stage 3b: boundary loops. Unclaimed halfedges are boundary; link each
	// to the unique boundary halfedge departing its target vertex.
	boundaryOut := make(map[Vertex]Halfedge)
	for h := Halfedge(0); int(h) < len(m.heNext); h++ {
		if m.heFace[h] != InvalidFace {
			continue
		}
		m.nBoundaryHE++
		v := m.heVertex[h]
		if _, dup := boundaryOut[v]; dup {
			return nil, fmt.Errorf("%w: vertex %d touches two boundary loops", ErrNonManifold, v)
		}
		boundaryOut[v] = h
		m.vHalfedge[v] = h // boundary halfedge anchors boundary vertices
	}
	for h := Halfedge(0); int(h) < len(m.heNext); h++ {
		if m.heFace[h] != InvalidFace {
			continue
		}
		next, ok := boundaryOut[m.heVertex[h^1]]
		if !ok {
			return nil, fmt.Errorf("%w: open boundary at vertex %d", ErrNonManifold, m.heVertex[h^1])
		}
		m.heNext[h] = next
	}

	// Stage 3c: every vertex must be referenced.
	for v, h := range m.vHalfedge {
		if h == InvalidHalfedge {
			return nil, fmt.Errorf("%w: vertex %d belongs to no face", ErrInvalidFaceList, v)
		}
	}

	// Stage 4: single-fan condition. The outgoing orbit from the anchor
	// must reach every halfedge departing the vertex.
	outDeg := make([]int, nVertices)
	for h := Halfedge(0); int(h) < len(m.heNext); h++ {
		outDeg[m.heVertex[h]]++
	}
	for v := Vertex(0); int(v) < nVertices; v++ {
		seen := 0
		h := m.vHalfedge[v]
		for {
			seen++
			if seen > outDeg[v] {
				break
			}
			h = m.NextOutgoing(h)
			if h == m.vHalfedge[v] {
				break
			}
		}
		if seen != outDeg[v] {
			return nil, fmt.Errorf("%w: vertex %d has a disconnected fan", ErrNonManifold, v)
		}
	}

	return m, nil
}

// NewTriangleMeshFromFaces builds a halfedge mesh and requires every face to
// be a triangle, as the intrinsic triangulation machinery does.
func NewTriangleMeshFromFaces(nVertices int, faces [][]int) (*Mesh, error) {
	for fi, face := range faces {
		if len(face) != 3 {
			return nil, fmt.Errorf("%w: face %d has %d sides", ErrNotTriangulated, fi, len(face))
		}
	}

	return NewFromFaces(nVertices, faces)
}

// Validate checks structural invariants: face and boundary loops close,
// orbit circulation reaches every outgoing halfedge, and anchors point back
// at their elements. Intended for tests and post-mutation assertions.
func (m *Mesh) Validate() error {
	for h := Halfedge(0); int(h) < len(m.heNext); h++ {
		n := m.heNext[h]
		if n < 0 || int(n) >= len(m.heNext) {
			return fmt.Errorf("%w: next of halfedge %d", ErrBadHandle, h)
		}
		if m.heFace[n] != m.heFace[h] {
			return fmt.Errorf("mesh: halfedge %d and its next disagree on face", h)
		}
		if m.heVertex[n] != m.heVertex[h^1] {
			return fmt.Errorf("mesh: halfedge %d next does not start at its target", h)
		}
	}
	for f := Face(0); int(f) < len(m.fHalfedge); f++ {
		if m.heFace[m.fHalfedge[f]] != f {
			return fmt.Errorf("mesh: face %d anchor points elsewhere", f)
		}
	}
	for v := Vertex(0); int(v) < len(m.vHalfedge); v++ {
		if m.heVertex[m.vHalfedge[v]] != v {
			return fmt.Errorf("mesh: vertex %d anchor points elsewhere", v)
		}
	}

	return nil
}
