package intrinsic

import "github.com/meshweave/intrimesh/mesh"

// integerBackend tracks one integer per intrinsic edge: the number of
// transversal crossings with input edges, or -1 for an edge lying along an
// input edge. Flips update the counts exactly, with no dependence on
// floating-point tracing, which is what keeps long flip sequences robust.
type integerBackend struct {
	coords []int

	// pre-flip snapshot, valid between beforeFlip and afterFlip
	snap quadCoords
}

// quadCoords holds the crossing counts of the five edges of a flip quad
// (i, k, j, l) with old diagonal e = i-j: a = (j,k), b = (k,i), c = (i,l),
// d = (l,j).
type quadCoords struct {
	e, a, b, c, d int
}

func newIntegerBackend(t *Triangulation) *integerBackend {
	be := &integerBackend{coords: make([]int, t.tri.EdgeCount())}
	// Every starting intrinsic edge coincides with its input edge.
	for i := range be.coords {
		be.coords[i] = -1
	}

	return be
}

func (be *integerBackend) exact() bool { return true }

func (be *integerBackend) grewEdges(n int) {
	for len(be.coords) < n {
		be.coords = append(be.coords, 0)
	}
}

func (be *integerBackend) setCoord(e mesh.Edge, n int)   { be.coords[e] = n }
func (be *integerBackend) coord(e mesh.Edge) (int, bool) { return be.coords[e], true }

func (be *integerBackend) beforeFlip(t *Triangulation, e mesh.Edge) {
	ha := t.tri.HalfedgeOf(e)
	hb := t.tri.Twin(ha)
	be.snap = quadCoords{
		e: be.coords[e],
		a: be.coords[t.tri.EdgeOf(t.tri.Next(ha))],
		b: be.coords[t.tri.EdgeOf(t.tri.Prev(ha))],
		c: be.coords[t.tri.EdgeOf(t.tri.Next(hb))],
		d: be.coords[t.tri.EdgeOf(t.tri.Prev(hb))],
	}
}

func (be *integerBackend) afterFlip(t *Triangulation, e mesh.Edge) {
	be.coords[e] = flipNormalCoordinate(be.snap)
}

// triArcs is the decomposition of the input-edge arcs inside one triangle
// of the flip quad: gI and gJ arcs cut off the corners at the diagonal's
// endpoints i and j, gOpp arcs cut off the third corner, and rI/rJ/rOpp
// arcs run from a vertex to its opposite side.
type triArcs struct {
	gI, gJ, gOpp int
	rI, rJ, rOpp int
}

// decomposeTriangle splits the crossing counts of a triangle with sides
// (diag, sideJ, sideI) into corner and radial arcs. diag joins i to j,
// sideJ joins j to the opposite vertex, sideI joins the opposite vertex
// to i. Coincident sides carry no transversal crossings.
func decomposeTriangle(diag, sideJ, sideI int) triArcs {
	nE := clampCoord(diag)
	nA := clampCoord(sideJ)
	nB := clampCoord(sideI)

	var a triArcs
	// At most one side can exceed the sum of the other two; its excess is
	// carried by arcs radiating from the opposite vertex.
	a.rOpp = maxInt(0, nE-nA-nB)
	a.rI = maxInt(0, nA-nE-nB)
	a.rJ = maxInt(0, nB-nE-nA)
	nE -= a.rOpp
	nA -= a.rI
	nB -= a.rJ

	a.gI = maxInt(0, (nE+nB-nA)/2)
	a.gJ = maxInt(0, (nE+nA-nB)/2)
	a.gOpp = maxInt(0, (nA+nB-nE)/2)

	return a
}

// flipNormalCoordinate computes the crossing count of the new diagonal
// k-l of a flip quad from the pre-flip counts. Along the old diagonal the
// crossings are ordered from i as corner-i arcs, then radial arcs from the
// far vertex, then corner-j arcs; matching the two triangles' orderings
// classifies every through-running arc. Arcs that cut off k or l, radial
// arcs out of i or j, and corner-to-corner arcs that swap sides all cross
// the new diagonal exactly once. A radial arc leaving k and ending at l is
// an input edge running along the new diagonal, making it coincident.
func flipNormalCoordinate(q quadCoords) int {
	t1 := decomposeTriangle(q.e, q.a, q.b) // triangle (i, j, k)
	t2 := decomposeTriangle(q.e, q.d, q.c) // triangle (j, i, l)

	// Overlapping radial spans along e mean some arc runs k to l.
	lo := maxInt(t1.gI, t2.gI)
	hi := minInt(t1.gI+t1.rOpp, t2.gI+t2.rOpp)
	if hi > lo {
		return -1
	}

	n := t1.gOpp + t2.gOpp +
		t1.rI + t1.rJ + t2.rI + t2.rJ +
		maxInt(0, t1.gI-(t2.gI+t2.rOpp)) +
		maxInt(0, t2.gI-(t1.gI+t1.rOpp))
	if q.e == -1 {
		// The input edge along the old diagonal now crosses the new one.
		n++
	}

	return n
}

// splitSpokeCoord counts the crossings of the spoke joining a point on the
// diagonal to the far corner of one adjacent triangle. pos is the number of
// diagonal crossings between the point and vertex i. Along the diagonal the
// crossings run corner-i arcs, then radials from the far corner, then
// corner-j arcs; the spoke crosses the corner-i and corner-j arcs on the far
// side of the point, every arc cutting off the far corner, and every radial
// arc out of i or j. Radials out of the far corner share its endpoint and
// never cross.
func splitSpokeCoord(a triArcs, pos int) int {
	return maxInt(0, a.gI-pos) + maxInt(0, pos-a.gI-a.rOpp) +
		a.gOpp + a.rI + a.rJ
}

// faceSpokeCoords derives the crossing counts of the second and third spokes
// of a face split from the face's arc decomposition and the count n0 of the
// spoke to the first corner. With pure corner arcs the nested regions are
// totally ordered along any spoke, so n0 pins down the region holding the
// insertion point, up to a tie between the two far corners that the
// barycentric position settles. Radial arcs leave the region underdetermined
// and ok is false.
func faceSpokeCoords(a triArcs, n0 int, bary [3]float64) (n1, n2 int, ok bool) {
	if a.rI != 0 || a.rJ != 0 || a.rOpp != 0 {
		return 0, 0, false
	}
	d := n0 - a.gI
	switch {
	case d <= 0:
		// Inside the corner-i nest, -d arcs deep: both far spokes cross the
		// arcs between the point and the central region on their way out.
		return a.gJ - d, a.gOpp - d, true
	case d <= a.gJ && (d > a.gOpp || bary[1] >= bary[2]):
		return a.gJ - d, a.gOpp + d, true
	case d <= a.gOpp:
		return a.gJ + d, a.gOpp - d, true
	default:
		return 0, 0, false
	}
}

func clampCoord(n int) int {
	if n < 0 {
		return 0
	}

	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}
