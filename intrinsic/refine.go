package intrinsic

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/meshweave/intrimesh/mesh"
)

// RefineResult reports the outcome of DelaunayRefine.
type RefineResult struct {
	// Inserted is the number of Steiner vertices added.
	Inserted int

	// Flips counts edge flips performed during refinement, including the
	// initial pass that establishes the Delaunay property.
	Flips int

	// Converged is true when no face violates the quality thresholds and
	// every edge is Delaunay. False means an insertion or flip cap fired,
	// or a needed flip was rejected; the triangulation is left valid
	// either way.
	Converged bool

	// BoundaryWarning is set when the input has boundary. Refinement of
	// meshes with boundary is best-effort: quality guarantees near the
	// boundary do not hold, though every operation remains safe.
	BoundaryWarning bool
}

// maxWalkSteps caps the circumcenter walk; past this many triangles the
// longest-edge midpoint of the last face is used instead.
const maxWalkSteps = 32

// needsRefine applies the quality test to face f.
func (t *Triangulation) needsRefine(f mesh.Face, minAngleRad, maxRadius float64) bool {
	if t.faceMinAngle(f) < minAngleRad {
		return true
	}
	if math.IsInf(maxRadius, 1) {
		return false
	}
	l := t.faceLengths(f)

	return circumradius(l[0], l[1], l[2]) > maxRadius
}

// DelaunayRefine performs Chew-style Delaunay refinement: while some face
// violates the minimum-angle or circumradius threshold, insert a vertex at
// (or toward) its intrinsic circumcenter, restore the Delaunay property
// locally, and recheck the neighborhood. The default 25° target terminates
// on closed surfaces; thresholds of 30° and above may not. All caps are
// reported through the result, never as errors.
//
// Without WithMaxInsertions a safety cap of 100·F + 10000 insertions (F the
// face count before refinement) still applies, so a non-terminating
// threshold surfaces as Converged == false rather than an endless loop.
func (t *Triangulation) DelaunayRefine(opts ...RefineOption) (RefineResult, error) {
	o := defaultRefineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	minAngleRad := o.angleDeg * math.Pi / 180

	var res RefineResult
	for e := 0; e < t.tri.EdgeCount(); e++ {
		if t.tri.IsBoundaryEdge(mesh.Edge(e)) {
			res.BoundaryWarning = true
			break
		}
	}

	fl, err := t.FlipToDelaunay()
	res.Flips += fl.Flips
	if err != nil {
		return res, err
	}
	if !fl.Converged {
		return res, nil
	}

	insertionCap := o.maxInsertions
	if insertionCap < 0 {
		insertionCap = 100*t.tri.FaceCount() + 10000
	}

	queue := make([]mesh.Face, 0, t.tri.FaceCount())
	inQueue := make([]bool, t.tri.FaceCount())
	push := func(f mesh.Face) {
		for int(f) >= len(inQueue) {
			inQueue = append(inQueue, false)
		}
		if !inQueue[f] {
			queue = append(queue, f)
			inQueue[f] = true
		}
	}
	for f := 0; f < t.tri.FaceCount(); f++ {
		push(mesh.Face(f))
	}

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		inQueue[f] = false
		// Face handles are stable but contents change; recheck on pop.
		if !t.needsRefine(f, minAngleRad, o.circumradius) {
			continue
		}
		if res.Inserted >= insertionCap {
			return res, nil
		}

		c, err := t.insertCircumcenter(f)
		if err != nil {
			return res, err
		}
		res.Inserted++

		// Restore Delaunay around the new vertex and requeue everything
		// its star touches.
		var seed []mesh.Edge
		t.tri.ForEachOutgoing(c, func(h mesh.Halfedge) bool {
			seed = append(seed, t.tri.EdgeOf(h))
			if !t.tri.IsBoundaryHalfedge(h) {
				seed = append(seed, t.tri.EdgeOf(t.tri.Next(h)))
			}
			return true
		})
		lfl, err := t.flipWorklist(seed)
		res.Flips += lfl.Flips
		if err != nil {
			return res, err
		}
		if !lfl.Converged {
			return res, nil
		}

		t.tri.ForEachOutgoing(c, func(h mesh.Halfedge) bool {
			nb := t.tri.Target(h)
			t.tri.ForEachOutgoing(nb, func(h2 mesh.Halfedge) bool {
				if g := t.tri.FaceOf(h2); g != mesh.InvalidFace {
					push(g)
				}
				return true
			})
			if g := t.tri.FaceOf(h); g != mesh.InvalidFace {
				push(g)
			}
			return true
		})
	}
	res.Converged = true

	return res, nil
}

// insertCircumcenter inserts a vertex at the intrinsic circumcenter of
// face f, walking across neighboring intrinsic triangles when the center
// lies outside f. When the walk hits the boundary or runs too long, the
// longest edge of the face it stopped in is split at its midpoint.
func (t *Triangulation) insertCircumcenter(f mesh.Face) (mesh.Vertex, error) {
	// insideEPS keeps insertions off face sides, where a split would
	// produce a degenerate sliver.
	const insideEPS = 1e-6

	cur := f
	layout := t.intrinsicFaceLayout(cur)
	p := circumcenter2D(layout)

	for step := 0; step < maxWalkSteps; step++ {
		bary := baryInLayout(layout, p)
		worst, worstVal := -1, insideEPS
		for m := 0; m < 3; m++ {
			if bary[m] < worstVal {
				worst, worstVal = m, bary[m]
			}
		}
		if worst < 0 {
			return t.insertVertexInFace(cur, bary)
		}

		// Cross the side opposite the most negative coordinate.
		hs, err := t.tri.TriangleHalfedges(cur)
		if err != nil {
			return mesh.InvalidVertex, err
		}
		side := hs[(worst+1)%3] // side from corner worst+1 to worst+2
		twin := t.tri.Twin(side)
		if t.tri.IsBoundaryHalfedge(twin) {
			break
		}

		// Unfold the neighbor into the current plane.
		a := layout[(worst+1)%3]
		b := layout[(worst+2)%3]
		g := t.tri.FaceOf(twin)
		gs, _ := t.tri.TriangleHalfedges(g)
		mm := 0
		for idx, hh := range gs {
			if hh == twin {
				mm = idx
				break
			}
		}
		apex := placeAcross(a, b, layout[worst],
			t.lengths[t.tri.EdgeOf(gs[(mm+1)%3])],
			t.lengths[t.tri.EdgeOf(gs[(mm+2)%3])])

		var next [3]r2.Point
		next[mm] = b
		next[(mm+1)%3] = a
		next[(mm+2)%3] = apex
		cur = g
		layout = next
	}

	// Fallback: midpoint of the longest edge of the face the walk
	// stopped in.
	hs, err := t.tri.TriangleHalfedges(cur)
	if err != nil {
		return mesh.InvalidVertex, err
	}
	longest := t.tri.EdgeOf(hs[0])
	for _, h := range hs[1:] {
		if e := t.tri.EdgeOf(h); t.lengths[e] > t.lengths[longest] {
			longest = e
		}
	}

	return t.insertVertexOnEdge(longest, t.lengths[longest]/2)
}
