package intrinsic

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/meshweave/intrimesh/mesh"
)

// FlipResult reports the outcome of a flip pass.
type FlipResult struct {
	// Flips is the number of edges flipped.
	Flips int

	// Attempts counts flip attempts on non-Delaunay edges, including
	// attempts rejected for combinatorial or geometric reasons.
	Attempts int

	// Converged is true when the pass ended with every edge Delaunay.
	// False means the attempt cap fired first, or that some edge remains
	// non-Delaunay because its flip was rejected; either way the
	// triangulation is left in a valid intermediate state.
	Converged bool
}

// quadLayout unfolds the two triangles adjacent to edge EdgeOf(ha) into the
// plane: the edge spans i=(0,0) to j=(length,0), k sits above the axis, l
// below. Handles are pre-flip; ha runs i to j.
func (t *Triangulation) quadLayout(ha mesh.Halfedge) (pi, pj, pk, pl r2.Point, ok bool) {
	hb := t.tri.Twin(ha)
	lE := t.lengths[t.tri.EdgeOf(ha)]
	lJK := t.lengths[t.tri.EdgeOf(t.tri.Next(ha))]
	lKI := t.lengths[t.tri.EdgeOf(t.tri.Prev(ha))]
	lIL := t.lengths[t.tri.EdgeOf(t.tri.Next(hb))]
	lLJ := t.lengths[t.tri.EdgeOf(t.tri.Prev(hb))]

	tri := layoutFromLengths(lE, lJK, lKI)
	pi, pj, pk = tri[0], tri[1], tri[2]
	pl = placeAcross(pi, pj, pk, lIL, lLJ)
	ok = !math.IsNaN(pk.Y) && !math.IsNaN(pl.Y) && pk.Y > 0 && pl.Y < 0

	return pi, pj, pk, pl, ok
}

// FlipEdge flips intrinsic edge e in place, replacing the diagonal of its
// quad by the other diagonal with the correct intrinsic length. Returns
// false without error when the flip is combinatorially impossible
// (boundary or non-flippable configuration) or would produce an inverted
// quad. The input surface is untouched.
func (t *Triangulation) FlipEdge(e mesh.Edge) (bool, error) {
	if !t.tri.CanFlip(e) {
		return false, nil
	}
	ha := t.tri.HalfedgeOf(e)

	_, pj, pk, pl, ok := t.quadLayout(ha)
	if !ok {
		return false, nil
	}
	// The new diagonal must cross the old one strictly inside the quad,
	// otherwise one of the new triangles would be inverted.
	s := pk.Y / (pk.Y - pl.Y)
	x := pk.X + s*(pl.X-pk.X)
	if !(x > 0 && x < pj.X) {
		return false, nil
	}
	newLen := pk.Sub(pl).Norm()
	if !(newLen > 0) || math.IsInf(newLen, 0) {
		return false, nil
	}

	// a1 and b1 survive the flip with their vertices intact; their twins
	// are the signpost anchors for the flipped pair.
	a1 := t.tri.Next(ha)
	b1 := t.tri.Next(t.tri.Twin(ha))

	t.be.beforeFlip(t, e)
	if err := t.tri.FlipEdge(e); err != nil {
		return false, err
	}
	t.lengths[e] = newLen

	// ha now runs k to l and hb l to k. Each flipped halfedge sits one
	// corner clockwise of the surviving spoke at its origin.
	hb := t.tri.Twin(ha)
	k := t.tri.Origin(ha)
	l := t.tri.Origin(hb)
	t.signposts[ha] = t.normalizeSignpost(k, t.signposts[t.tri.Twin(a1)]+t.cornerAngleAt(ha))
	t.signposts[hb] = t.normalizeSignpost(l, t.signposts[t.tri.Twin(b1)]+t.cornerAngleAt(hb))

	t.be.afterFlip(t, e)
	t.markMutated()

	return true, nil
}

// FlipToDelaunay flips non-Delaunay edges until none remain, processing a
// FIFO worklist seeded with every edge. Terminates on closed surfaces by
// the monotone decrease of the Delaunay energy; an attempt cap of
// 10·E + 1000 guards against floating-point livelock and is reported as
// non-convergence, never as an error.
func (t *Triangulation) FlipToDelaunay() (FlipResult, error) {
	seed := make([]mesh.Edge, t.tri.EdgeCount())
	for e := range seed {
		seed[e] = mesh.Edge(e)
	}

	return t.flipWorklist(seed)
}

// flipWorklist runs the Delaunay flipper over a seed set; each successful
// flip re-enqueues the four surrounding quad edges.
func (t *Triangulation) flipWorklist(seed []mesh.Edge) (FlipResult, error) {
	nE := t.tri.EdgeCount()
	queue := make([]mesh.Edge, 0, len(seed))
	inQueue := make([]bool, nE)
	for _, e := range seed {
		if !inQueue[e] {
			queue = append(queue, e)
			inQueue[e] = true
		}
	}
	push := func(e mesh.Edge) {
		if !inQueue[e] {
			queue = append(queue, e)
			inQueue[e] = true
		}
	}

	var res FlipResult
	maxAttempts := 10*nE + 1000
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		inQueue[e] = false
		if t.edgeIsDelaunay(e) {
			continue
		}
		if res.Attempts >= maxAttempts {
			return res, nil
		}
		res.Attempts++

		flipped, err := t.FlipEdge(e)
		if err != nil {
			return res, err
		}
		if !flipped {
			continue
		}
		res.Flips++

		ha := t.tri.HalfedgeOf(e)
		hb := t.tri.Twin(ha)
		push(t.tri.EdgeOf(t.tri.Next(ha)))
		push(t.tri.EdgeOf(t.tri.Prev(ha)))
		push(t.tri.EdgeOf(t.tri.Next(hb)))
		push(t.tri.EdgeOf(t.tri.Prev(hb)))
	}
	// A drained queue is not proof of success: FlipEdge declines edges whose
	// flip is combinatorially impossible or would invert the quad, and such
	// an edge can still violate the Delaunay condition. Verify instead of
	// assuming.
	res.Converged = t.IsDelaunay()

	return res, nil
}
