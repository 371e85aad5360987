package mesh

import "fmt"

// isTriangle reports whether the face loop through h has exactly three sides.
func (m *Mesh) isTriangle(h Halfedge) bool {
	return m.heNext[m.heNext[m.heNext[h]]] == h
}

// CanFlip reports whether FlipEdge would accept e: the edge is interior,
// both incident faces are distinct triangles, the endpoints keep degree
// at least two, and the replacement diagonal does not already exist.
func (m *Mesh) CanFlip(e Edge) bool {
	if e < 0 || int(e) >= m.EdgeCount() {
		return false
	}
	ha := m.HalfedgeOf(e)
	hb := ha ^ 1
	if m.heFace[ha] == InvalidFace || m.heFace[hb] == InvalidFace {
		return false
	}
	if m.heFace[ha] == m.heFace[hb] {
		return false
	}
	if !m.isTriangle(ha) || !m.isTriangle(hb) {
		return false
	}
	k := m.Target(m.heNext[ha]) // apex opposite e in face of ha
	l := m.Target(m.heNext[hb]) // apex opposite e in face of hb
	if k == l {
		return false
	}
	if m.HalfedgeBetween(k, l) != InvalidHalfedge {
		return false
	}

	return true
}

// FlipEdge replaces e, the shared diagonal of two adjacent triangles, by the
// opposite diagonal. Element indices are stable: e becomes the new diagonal,
// the two faces are reused, and no element is created or destroyed. Rejected
// flips leave the mesh untouched.
//
//	    k                k
//	   / \              /|\
//	  i─e─j     =>     i e j
//	   \ /              \|/
//	    l                l
//
// Complexity: O(deg) for the duplicate-diagonal check, O(1) rewiring.
func (m *Mesh) FlipEdge(e Edge) error {
	if !m.CanFlip(e) {
		return fmt.Errorf("%w: edge %d", ErrUnflippable, e)
	}

	ha := m.HalfedgeOf(e) // i -> j in face F1 = (i, j, k)
	hb := ha ^ 1          // j -> i in face F2 = (j, i, l)
	a1 := m.heNext[ha]    // j -> k
	a2 := m.heNext[a1]    // k -> i
	b1 := m.heNext[hb]    // i -> l
	b2 := m.heNext[b1]    // l -> j

	i := m.heVertex[ha]
	j := m.heVertex[hb]
	k := m.heVertex[a2]
	l := m.heVertex[b2]
	f1 := m.heFace[ha]
	f2 := m.heFace[hb]

	// Rewire: F1 = (k, l, j) around ha, F2 = (l, k, i) around hb.
	m.heVertex[ha] = k
	m.heVertex[hb] = l

	m.heNext[ha] = b2
	m.heNext[b2] = a1
	m.heNext[a1] = ha
	m.heFace[b2] = f1

	m.heNext[hb] = a2
	m.heNext[a2] = b1
	m.heNext[b1] = hb
	m.heFace[a2] = f2

	m.fHalfedge[f1] = ha
	m.fHalfedge[f2] = hb

	// i and j lost ha/hb as outgoing halfedges; re-anchor if needed.
	if m.vHalfedge[i] == ha {
		m.vHalfedge[i] = b1
	}
	if m.vHalfedge[j] == hb {
		m.vHalfedge[j] = a1
	}

	return nil
}

// appendPair allocates a new halfedge pair a->b / b->a and returns the even
// halfedge (a->b). Faces start out invalid.
func (m *Mesh) appendPair(a, b Vertex) Halfedge {
	h := Halfedge(len(m.heNext))
	m.heNext = append(m.heNext, InvalidHalfedge, InvalidHalfedge)
	m.heVertex = append(m.heVertex, a, b)
	m.heFace = append(m.heFace, InvalidFace, InvalidFace)

	return h
}

// setFaceLoop wires a triangle loop h0 -> h1 -> h2 -> h0 into face f.
func (m *Mesh) setFaceLoop(f Face, h0, h1, h2 Halfedge) {
	m.heNext[h0], m.heNext[h1], m.heNext[h2] = h1, h2, h0
	m.heFace[h0], m.heFace[h1], m.heFace[h2] = f, f, f
	m.fHalfedge[f] = h0
}

// SplitFace inserts a new vertex inside triangular face f, connecting it to
// the three corners. Face f is reused for one of the three sub-triangles;
// two faces, three edges and one vertex are appended. Returns the new vertex.
func (m *Mesh) SplitFace(f Face) (Vertex, error) {
	if f < 0 || int(f) >= m.FaceCount() {
		return InvalidVertex, fmt.Errorf("%w: face %d", ErrBadHandle, f)
	}
	hs, err := m.TriangleHalfedges(f)
	if err != nil {
		return InvalidVertex, fmt.Errorf("%w: face %d", ErrNotTriangulated, f)
	}
	h0, h1, h2 := hs[0], hs[1], hs[2] // (i->j, j->k, k->i)
	i := m.heVertex[h0]
	j := m.heVertex[h1]
	k := m.heVertex[h2]

	c := Vertex(len(m.vHalfedge))
	m.vHalfedge = append(m.vHalfedge, InvalidHalfedge)

	t0 := m.appendPair(i, c) // t0: i->c, t0^1: c->i
	t1 := m.appendPair(j, c)
	t2 := m.appendPair(k, c)

	fA := Face(len(m.fHalfedge))
	fB := fA + 1
	m.fHalfedge = append(m.fHalfedge, InvalidHalfedge, InvalidHalfedge)

	m.setFaceLoop(f, h0, t1, t0^1)  // (i, j, c)
	m.setFaceLoop(fA, h1, t2, t1^1) // (j, k, c)
	m.setFaceLoop(fB, h2, t0, t2^1) // (k, i, c)

	m.vHalfedge[c] = t0 ^ 1

	return c, nil
}

// SplitEdge inserts a new vertex on edge e, splitting each incident triangle
// in two. Edge e is reused for the sub-edge at the origin of its interior
// halfedge; the sub-edge toward the old target and the spokes are appended. Works on
// boundary edges (splitting the single incident triangle and the boundary
// loop). Returns the new vertex.
func (m *Mesh) SplitEdge(e Edge) (Vertex, error) {
	if e < 0 || int(e) >= m.EdgeCount() {
		return InvalidVertex, fmt.Errorf("%w: edge %d", ErrBadHandle, e)
	}
	ha := m.HalfedgeOf(e)
	hb := ha ^ 1
	// Orient so ha is interior; a fully wire-frame edge cannot be split.
	if m.heFace[ha] == InvalidFace {
		ha, hb = hb, ha
	}
	if m.heFace[ha] == InvalidFace {
		return InvalidVertex, fmt.Errorf("%w: edge %d has no incident face", ErrNotTriangulated, e)
	}
	if !m.isTriangle(ha) || (m.heFace[hb] != InvalidFace && !m.isTriangle(hb)) {
		return InvalidVertex, fmt.Errorf("%w: edge %d", ErrNotTriangulated, e)
	}

	j := m.heVertex[hb]
	a1 := m.heNext[ha] // j -> k
	a2 := m.heNext[a1] // k -> i
	k := m.heVertex[a2]
	f1 := m.heFace[ha]

	boundarySplit := m.heFace[hb] == InvalidFace
	prevLoop := InvalidHalfedge
	if boundarySplit {
		// Locate hb's predecessor on the boundary loop while circulation
		// around j is still intact.
		prevLoop = m.incomingBoundary(j)
	}

	c := Vertex(len(m.vHalfedge))
	m.vHalfedge = append(m.vHalfedge, InvalidHalfedge)

	q := m.appendPair(c, j) // q: c->j, q^1: j->c
	r := m.appendPair(c, k) // spoke into face f1's far corner

	// Edge e shrinks to (i, c).
	m.heVertex[hb] = c

	fA := Face(len(m.fHalfedge))
	m.fHalfedge = append(m.fHalfedge, InvalidHalfedge)
	m.setFaceLoop(f1, ha, r, a2)  // (i, c, k)
	m.setFaceLoop(fA, q, a1, r^1) // (c, j, k)

	if boundarySplit {
		// hb was the boundary side. Splice (j->c, c->i) into the loop;
		// hb keeps its next, which still departs i.
		m.nBoundaryHE++
		m.heFace[q^1] = InvalidFace
		m.heNext[prevLoop] = q ^ 1
		m.heNext[q^1] = hb
		if m.vHalfedge[j] == hb {
			m.vHalfedge[j] = q ^ 1
		}
		m.vHalfedge[c] = hb // boundary anchor
	} else {
		// Interior: split face F2 = (j, i, l) as well.
		b1 := m.heNext[hb] // i -> l
		b2 := m.heNext[b1] // l -> j
		l := m.heVertex[b2]
		f2 := m.heFace[hb]

		s := m.appendPair(c, l)
		fB := Face(len(m.fHalfedge))
		m.fHalfedge = append(m.fHalfedge, InvalidHalfedge)
		m.setFaceLoop(f2, hb, b1, s^1)  // (c, i, l)
		m.setFaceLoop(fB, q^1, s, b2)   // (j, c, l)
		if m.vHalfedge[j] == hb {
			m.vHalfedge[j] = q ^ 1
		}
		m.vHalfedge[c] = hb
	}

	return c, nil
}

// incomingBoundary returns the boundary halfedge arriving at v.
// Precondition: v lies on the boundary.
func (m *Mesh) incomingBoundary(v Vertex) Halfedge {
	in := InvalidHalfedge
	m.ForEachOutgoing(v, func(h Halfedge) bool {
		if m.heFace[h^1] == InvalidFace {
			in = h ^ 1
			return false
		}
		return true
	})

	return in
}
