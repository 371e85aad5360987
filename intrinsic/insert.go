package intrinsic

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"github.com/meshweave/intrimesh/mesh"
	"github.com/meshweave/intrimesh/surface"
)

// Steiner vertex insertion. A new vertex is located on the input surface by
// tracing from an existing vertex, then spliced into the intrinsic mesh
// with lengths taken from the local planar layout. Spoke signposts are the
// traced directions themselves, so no global resynchronization is needed.
// Under the integer backend the crossing counts of the new edges are
// derived from the pre-split counts by the same arc classification the
// flipper uses; the locating trace contributes only the position of the
// new vertex among the crossings, never an independent recount.

// interiorAngle returns the unsigned angle between two directions.
func interiorAngle(a, b r2.Point) float64 {
	return math.Atan2(math.Abs(cross2(a, b)), a.Dot(b))
}

// intrinsicFaceLayout lays out intrinsic face f from its edge lengths,
// corner m at the origin of its m-th halfedge.
func (t *Triangulation) intrinsicFaceLayout(f mesh.Face) [3]r2.Point {
	l := t.faceLengths(f)

	return layoutFromLengths(l[0], l[1], l[2])
}

// directionAngle returns the absolute signpost angle at corner m of
// intrinsic face f of the direction toward target, a point in f's layout.
// The face wedge at a corner opens clockwise from the side running back to
// the previous corner, whose signpost is already known.
func (t *Triangulation) directionAngle(f mesh.Face, m int, layout [3]r2.Point, target r2.Point) float64 {
	hs, _ := t.tri.TriangleHalfedges(f)
	vm := t.tri.Origin(hs[m])
	ref := t.tri.Twin(hs[(m+2)%3]) // outgoing toward the previous corner
	d1 := layout[(m+2)%3].Sub(layout[m])
	d2 := target.Sub(layout[m])

	return t.normalizeSignpost(vm, t.signposts[ref]+cwAngle(d1, d2))
}

// growTables extends the per-halfedge and per-edge tables to the current
// mesh size after a split. Lengths are appended by the caller with real
// values; signpost slots start at zero and are filled before use.
func (t *Triangulation) growTables() {
	for len(t.signposts) < t.tri.HalfedgeCount() {
		t.signposts = append(t.signposts, 0)
	}
	t.be.grewEdges(t.tri.EdgeCount())
}

// appendVertexState records location and tangent frame for a new vertex,
// with the reference direction pointing back along the arrival ray.
func (t *Triangulation) appendVertexState(loc surface.Point, face mesh.Face, pos, backDir r2.Point) {
	n := backDir.Norm()
	t.locations = append(t.locations, loc)
	t.frames = append(t.frames, vertexFrame{face: face, pos: pos, dir: backDir.Mul(1 / n)})
	t.angleSums = append(t.angleSums, 0)
}

// insertVertexInFace splits intrinsic face f at barycentric point bary.
// The point must lie strictly inside the face.
func (t *Triangulation) insertVertexInFace(f mesh.Face, bary [3]float64) (mesh.Vertex, error) {
	layout := t.intrinsicFaceLayout(f)
	target := layout[0].Mul(bary[0]).Add(layout[1].Mul(bary[1])).Add(layout[2].Mul(bary[2]))

	hs, err := t.tri.TriangleHalfedges(f)
	if err != nil {
		return mesh.InvalidVertex, fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}
	var corners [3]mesh.Vertex
	var theta, d [3]float64
	for m := 0; m < 3; m++ {
		corners[m] = t.tri.Origin(hs[m])
		d[m] = target.Sub(layout[m]).Norm()
		if !(d[m] > 0) {
			return mesh.InvalidVertex, fmt.Errorf("%w: insertion point at corner %d of face %d", ErrInsertFailed, m, f)
		}
		theta[m] = t.directionAngle(f, m, layout, target)
	}

	tr, err := t.traceFromVertex(corners[0], theta[0], d[0])
	if err != nil {
		return mesh.InvalidVertex, err
	}
	var counts [3]int
	counts[0] = len(tr.crossings)
	if t.be.exact() {
		n0, _ := t.be.coord(t.tri.EdgeOf(hs[0]))
		n1, _ := t.be.coord(t.tri.EdgeOf(hs[1]))
		n2, _ := t.be.coord(t.tri.EdgeOf(hs[2]))
		arcs := decomposeTriangle(n0, n1, n2)
		if s1, s2, ok := faceSpokeCoords(arcs, counts[0], bary); ok {
			counts[1], counts[2] = s1, s2
		} else {
			// Radial arcs leave the region of the insertion point
			// underdetermined; fall back to tracing the remaining spokes.
			for m := 1; m < 3; m++ {
				trm, err := t.traceFromVertex(corners[m], theta[m], d[m])
				if err != nil {
					return mesh.InvalidVertex, err
				}
				counts[m] = len(trm.crossings)
			}
		}
	}

	heBase := t.tri.HalfedgeCount()
	c, err := t.tri.SplitFace(f)
	if err != nil {
		return mesh.InvalidVertex, fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}
	// SplitFace appends the spokes in corner order.
	spokes := [3]mesh.Halfedge{mesh.Halfedge(heBase), mesh.Halfedge(heBase + 2), mesh.Halfedge(heBase + 4)}

	t.lengths = append(t.lengths, d[0], d[1], d[2])
	t.appendVertexState(tr.end, tr.endFace, tr.endPos, tr.endDir.Mul(-1))
	t.growTables()
	for m := 0; m < 3; m++ {
		t.signposts[spokes[m]] = theta[m]
		t.be.setCoord(t.tri.EdgeOf(spokes[m]), counts[m])
	}
	t.rebuildVertexSignposts(c)
	t.markMutated()

	return c, nil
}

// insertVertexOnEdge splits intrinsic edge e at distance dist from the
// origin of its interior halfedge. Handles boundary edges and edges lying
// along an input edge.
func (t *Triangulation) insertVertexOnEdge(e mesh.Edge, dist float64) (mesh.Vertex, error) {
	lE := t.lengths[e]
	ha := t.tri.HalfedgeOf(e)
	if t.tri.IsBoundaryHalfedge(ha) {
		ha = t.tri.Twin(ha)
		dist = lE - dist
	}
	if !(dist > 0) || !(dist < lE) {
		return mesh.InvalidVertex, fmt.Errorf("%w: split at %g of length-%g edge %d", ErrInsertFailed, dist, lE, e)
	}
	hb := t.tri.Twin(ha)
	interior := !t.tri.IsBoundaryHalfedge(hb)

	i := t.tri.Origin(ha)
	a1 := t.tri.Next(ha)
	k := t.tri.Target(a1)

	// Unfold the incident triangles with e on the x axis.
	tri1 := layoutFromLengths(lE, t.lengths[t.tri.EdgeOf(a1)], t.lengths[t.tri.EdgeOf(t.tri.Prev(ha))])
	pi, pj, pk := tri1[0], tri1[1], tri1[2]
	pc := r2.Point{X: dist}

	var pl r2.Point
	var l mesh.Vertex
	if interior {
		b1 := t.tri.Next(hb)
		l = t.tri.Target(b1)
		pl = placeAcross(pi, pj, pk,
			t.lengths[t.tri.EdgeOf(b1)], t.lengths[t.tri.EdgeOf(t.tri.Prev(hb))])
	}

	// Absolute spoke directions at the apexes, while the fan is intact.
	thetaKC := t.normalizeSignpost(k,
		t.signposts[t.tri.Twin(a1)]+interiorAngle(pj.Sub(pk), pc.Sub(pk)))
	var thetaLC float64
	if interior {
		b1 := t.tri.Next(hb)
		thetaLC = t.normalizeSignpost(l,
			t.signposts[t.tri.Twin(b1)]+interiorAngle(pi.Sub(pl), pc.Sub(pl)))
	}
	sOldHB := t.signposts[hb]

	host, tI, tJ, coincident, err := t.edgeCoincidence(e, ha)
	if err != nil {
		return mesh.InvalidVertex, err
	}

	var loc surface.Point
	var frFace mesh.Face
	var frPos, frBack r2.Point
	nIC, nCJ := -1, -1
	if coincident {
		loc, frFace, frPos, frBack, err = t.pointOnInputEdge(host, tI, tJ, dist/lE)
		if err != nil {
			return mesh.InvalidVertex, err
		}
	} else {
		tr, terr := t.traceFromVertex(i, t.signposts[ha], dist)
		if terr != nil {
			return mesh.InvalidVertex, terr
		}
		loc, frFace, frPos, frBack = tr.end, tr.endFace, tr.endPos, tr.endDir.Mul(-1)
		nIC = len(tr.crossings)
		nCJ = 0
		if nE, ok := t.be.coord(e); ok {
			// The pre-split count is authoritative; the locating trace only
			// places c among the crossings. The two sub-edge counts must sum
			// back to it exactly.
			nIC = minInt(nIC, nE)
			nCJ = nE - nIC
		}
	}

	// Exact spoke crossing counts, integer backend only. Classify the arcs
	// of each incident triangle and count the ones separating c from the
	// far corner; the counts follow from the pre-split coordinates with no
	// tracing involved, so they stay consistent with the counts of the two
	// sub-edges.
	nKC, nLC := 0, 0
	if t.be.exact() {
		cd := func(e mesh.Edge) int { n, _ := t.be.coord(e); return n }
		pos := maxInt(0, nIC)
		t1 := decomposeTriangle(cd(e),
			cd(t.tri.EdgeOf(a1)), cd(t.tri.EdgeOf(t.tri.Prev(ha))))
		nKC = splitSpokeCoord(t1, pos)
		if interior {
			t2 := decomposeTriangle(cd(e),
				cd(t.tri.EdgeOf(t.tri.Prev(hb))), cd(t.tri.EdgeOf(t.tri.Next(hb))))
			nLC = splitSpokeCoord(t2, pos)
		}
	}

	heBase := t.tri.HalfedgeCount()
	c, err := t.tri.SplitEdge(e)
	if err != nil {
		return mesh.InvalidVertex, fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}
	q := mesh.Halfedge(heBase)     // c -> j
	r := mesh.Halfedge(heBase + 2) // c -> k
	s := mesh.Halfedge(heBase + 4) // c -> l, interior only

	t.lengths[e] = dist
	t.lengths = append(t.lengths, lE-dist, pk.Sub(pc).Norm())
	if interior {
		t.lengths = append(t.lengths, pl.Sub(pc).Norm())
	}
	t.appendVertexState(loc, frFace, frPos, frBack)
	t.growTables()

	// Surviving directions: ha still points i -> c; the j side inherits
	// the old twin's signpost.
	t.signposts[t.tri.Twin(q)] = sOldHB
	t.signposts[t.tri.Twin(r)] = thetaKC
	if interior {
		t.signposts[t.tri.Twin(s)] = thetaLC
	}
	t.rebuildVertexSignposts(c)

	t.be.setCoord(e, nIC)
	t.be.setCoord(t.tri.EdgeOf(q), nCJ)
	t.be.setCoord(t.tri.EdgeOf(r), nKC)
	if interior {
		t.be.setCoord(t.tri.EdgeOf(s), nLC)
	}
	t.markMutated()

	return c, nil
}

// edgeCoincidence decides whether intrinsic edge e runs along an input
// edge, and if so which one and at which parameters its endpoints sit.
// The exact backend answers from the crossing count; the signpost backend
// compares the intrinsic length against the host geometry.
func (t *Triangulation) edgeCoincidence(e mesh.Edge, ha mesh.Halfedge) (host mesh.Edge, tI, tJ float64, coincident bool, err error) {
	i := t.tri.Origin(ha)
	j := t.tri.Target(ha)

	if t.be.exact() {
		if n, _ := t.be.coord(e); n != -1 {
			return mesh.InvalidEdge, 0, 0, false, nil
		}
		host, tI, tJ, ok := t.hostEdgeParams(i, j)
		if !ok {
			return mesh.InvalidEdge, 0, 0, false,
				fmt.Errorf("%w: edge %d marked coincident but no host input edge found", ErrInsertFailed, e)
		}
		return host, tI, tJ, true, nil
	}

	host, tI, tJ, ok := t.hostEdgeParams(i, j)
	if !ok {
		return mesh.InvalidEdge, 0, 0, false, nil
	}
	span := math.Abs(tJ-tI) * t.geom.EdgeLength(host)
	if math.Abs(span-t.lengths[e]) > 1e-7*(1+t.lengths[e]) {
		return mesh.InvalidEdge, 0, 0, false, nil
	}

	return host, tI, tJ, true, nil
}

// hostEdgeParams finds an input edge holding both vertex locations and
// returns their parameters along its canonical halfedge.
func (t *Triangulation) hostEdgeParams(i, j mesh.Vertex) (host mesh.Edge, tI, tJ float64, ok bool) {
	li, lj := t.locations[i], t.locations[j]

	paramOn := func(loc surface.Point, e mesh.Edge) (float64, bool) {
		switch loc.Type {
		case surface.OnEdge:
			if loc.Edge == e {
				return loc.EdgeT, true
			}
		case surface.AtVertex:
			u, v := t.input.EdgeVertices(e)
			if loc.Vertex == u {
				return 0, true
			}
			if loc.Vertex == v {
				return 1, true
			}
		}
		return 0, false
	}

	var candidates []mesh.Edge
	switch {
	case li.Type == surface.OnEdge:
		candidates = []mesh.Edge{li.Edge}
	case lj.Type == surface.OnEdge:
		candidates = []mesh.Edge{lj.Edge}
	case li.Type == surface.AtVertex && lj.Type == surface.AtVertex:
		h := t.input.HalfedgeBetween(li.Vertex, lj.Vertex)
		if h == mesh.InvalidHalfedge {
			return mesh.InvalidEdge, 0, 0, false
		}
		candidates = []mesh.Edge{t.input.EdgeOf(h)}
	default:
		return mesh.InvalidEdge, 0, 0, false
	}

	for _, e := range candidates {
		pI, okI := paramOn(li, e)
		pJ, okJ := paramOn(lj, e)
		if okI && okJ {
			return e, pI, pJ, true
		}
	}

	return mesh.InvalidEdge, 0, 0, false
}

// pointOnInputEdge builds location and tangent frame for a point at
// fraction frac of the way from parameter tI to tJ along input edge host.
// The frame's reference direction points back toward tI.
func (t *Triangulation) pointOnInputEdge(host mesh.Edge, tI, tJ, frac float64) (surface.Point, mesh.Face, r2.Point, r2.Point, error) {
	tC := tI + frac*(tJ-tI)
	if tC < traceParamEPS {
		tC = traceParamEPS
	}
	if tC > 1-traceParamEPS {
		tC = 1 - traceParamEPS
	}
	loc, err := surface.EdgePoint(host, tC)
	if err != nil {
		return surface.Point{}, mesh.InvalidFace, r2.Point{}, r2.Point{}, fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}

	hIn := t.input.HalfedgeOf(host)
	if t.input.IsBoundaryHalfedge(hIn) {
		hIn = t.input.Twin(hIn)
	}
	f := t.input.FaceOf(hIn)
	layout := t.mustLayout(f)
	hs, _ := t.input.TriangleHalfedges(f)
	m := 0
	for idx, hh := range hs {
		if t.input.EdgeOf(hh) == host {
			m = idx
			break
		}
	}
	at := func(p float64) r2.Point {
		s := p
		if hs[m] != t.input.HalfedgeOf(host) {
			s = 1 - p
		}
		a := layout[m]
		return a.Add(layout[(m+1)%3].Sub(a).Mul(s))
	}
	pos := at(tC)
	back := at(tI).Sub(pos)

	return loc, f, pos, back, nil
}
