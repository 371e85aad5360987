package intrinsic

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"github.com/meshweave/intrimesh/mesh"
	"github.com/meshweave/intrimesh/surface"
)

// Geodesic tracing over the input surface. A trace walks a straight line
// through a corridor of input triangles, rebasing the ray into each
// triangle's own planar layout as it crosses an edge. The rebase map
// between two adjacent layouts is a rotation plus translation, fixed by
// the shared edge, so the walk never needs global coordinates.

const (
	// traceParamEPS keeps edge-crossing parameters strictly inside (0,1)
	// so a ray grazing an input vertex still yields a usable edge point.
	traceParamEPS = 1e-9

	// angleEPS absorbs round-off when matching a direction to a wedge.
	angleEPS = 1e-12
)

// traceState is the walker: a ray inside one input face, expressed in that
// face's planar layout.
type traceState struct {
	face    mesh.Face
	layout  [3]r2.Point
	pos     r2.Point
	dir     r2.Point      // unit
	entered mesh.Halfedge // side crossed to get here, or InvalidHalfedge
}

// traceResult is a completed trace: the crossing points over input edges
// in order, the endpoint on the surface, and the arrival ray for building
// a tangent frame at the endpoint.
type traceResult struct {
	crossings []surface.Point
	end       surface.Point
	endFace   mesh.Face
	endPos    r2.Point
	endDir    r2.Point
}

func cross2(a, b r2.Point) float64 { return a.X*b.Y - a.Y*b.X }

// cwAngle returns the clockwise angle from direction a to direction b,
// in [0, 2π).
func cwAngle(a, b r2.Point) float64 {
	v := math.Atan2(cross2(b, a), a.Dot(b))
	if v < 0 {
		v += 2 * math.Pi
	}

	return v
}

// inputConeAt returns the total surface angle around intrinsic vertex v on
// the input mesh: the input cone angle at original vertices, π on a
// boundary edge, 2π elsewhere. Signpost angles are rescaled by
// inputCone/intrinsicCone before tracing so length round-off in the
// intrinsic corner angles cannot rotate a traced direction out of its
// wedge.
func (t *Triangulation) inputConeAt(v mesh.Vertex) float64 {
	loc := t.locations[v]
	switch loc.Type {
	case surface.AtVertex:
		return t.geom.VertexAngleSum(loc.Vertex)
	case surface.OnEdge:
		if t.input.IsBoundaryEdge(loc.Edge) {
			return math.Pi
		}
	}

	return 2 * math.Pi
}

// startFromVertex builds the walker for a ray leaving intrinsic vertex v
// at clockwise signpost angle theta.
func (t *Triangulation) startFromVertex(v mesh.Vertex, theta float64) (traceState, error) {
	scale := t.inputConeAt(v) / t.angleSums[v]
	theta = t.normalizeSignpost(v, theta) * scale

	fr := t.frames[v]
	if !fr.atInputVertex {
		return traceState{
			face:    fr.face,
			layout:  t.mustLayout(fr.face),
			pos:     fr.pos,
			dir:     rotateCW(fr.dir, theta),
			entered: mesh.InvalidHalfedge,
		}, nil
	}

	return t.startFromInputVertex(t.locations[v].Vertex, theta)
}

// startFromInputVertex locates the input-face wedge containing clockwise
// angle theta around input vertex V and builds the walker there. Wedges
// are swept clockwise from V's anchor halfedge, matching the signpost
// convention.
func (t *Triangulation) startFromInputVertex(V mesh.Vertex, theta float64) (traceState, error) {
	type wedge struct {
		out   mesh.Halfedge // outgoing halfedge of the wedge face at V
		angle float64
	}
	var wedges []wedge
	total := 0.0
	anchor := t.input.VertexHalfedge(V)
	h := anchor
	for {
		h2 := t.input.NextOutgoing(h)
		if !t.input.IsBoundaryHalfedge(h2) {
			a := t.geom.CornerAngle(h2)
			wedges = append(wedges, wedge{out: h2, angle: a})
			total += a
		}
		h = h2
		if h == anchor {
			break
		}
	}
	if len(wedges) == 0 {
		return traceState{}, fmt.Errorf("%w: vertex %d has no incident face", ErrTraceFailed, V)
	}
	if theta > total {
		theta = total
	}

	acc := 0.0
	w := wedges[len(wedges)-1]
	beta := w.angle
	for _, cand := range wedges {
		if theta <= acc+cand.angle+angleEPS {
			w, beta = cand, theta-acc
			break
		}
		acc += cand.angle
	}
	if beta < 0 {
		beta = 0
	}
	if beta > w.angle {
		beta = w.angle
	}

	f := t.input.FaceOf(w.out)
	layout := t.mustLayout(f)
	hs, _ := t.input.TriangleHalfedges(f)
	m := 0
	for k, hh := range hs {
		if hh == w.out {
			m = k
			break
		}
	}
	// The wedge opens clockwise from the side running back to the
	// previous corner.
	pV := layout[m]
	pPrev := layout[(m+2)%3]
	ref := pPrev.Sub(pV)
	ref = ref.Mul(1 / ref.Norm())

	return traceState{
		face:    f,
		layout:  layout,
		pos:     pV,
		dir:     rotateCW(ref, beta),
		entered: mesh.InvalidHalfedge,
	}, nil
}

// mustLayout lays out an input face; input geometry is validated at
// construction, so a degenerate face here is a programmer error.
func (t *Triangulation) mustLayout(f mesh.Face) [3]r2.Point {
	l, err := t.geom.FaceLayout(f)
	if err != nil {
		panic(fmt.Sprintf("intrinsic: input face %d became degenerate: %v", f, err))
	}

	return l
}

// exit finds the side of the current face the ray leaves through. Returns
// the side's halfedge, the ray parameter of the crossing, and the position
// along the side from its halfedge origin.
func (t *Triangulation) exit(ts *traceState) (side mesh.Halfedge, tExit, s float64, ok bool) {
	hs, _ := t.input.TriangleHalfedges(ts.face)
	diam := 0.0
	for k := 0; k < 3; k++ {
		if d := ts.layout[(k+1)%3].Sub(ts.layout[k]).Norm(); d > diam {
			diam = d
		}
	}
	tEPS := 1e-12 * diam

	best := math.Inf(1)
	ok = false
	for k := 0; k < 3; k++ {
		if hs[k] == ts.entered {
			continue
		}
		a := ts.layout[k]
		b := ts.layout[(k+1)%3]
		ab := b.Sub(a)
		denom := cross2(ts.dir, ab)
		if denom == 0 {
			continue
		}
		ap := a.Sub(ts.pos)
		tc := cross2(ap, ab) / denom
		sc := cross2(ap, ts.dir) / denom
		if tc <= tEPS || sc < -traceParamEPS || sc > 1+traceParamEPS {
			continue
		}
		if tc < best {
			best, side, s, ok = tc, hs[k], sc, true
		}
	}
	tExit = best

	return side, tExit, s, ok
}

// crossIntoAt records the crossing over `side` at side parameter s and
// rebases the walker — already advanced to the crossing point — into the
// neighboring face. Fails at the surface boundary.
func (t *Triangulation) crossIntoAt(ts *traceState, side mesh.Halfedge, s float64) (surface.Point, error) {
	e := t.input.EdgeOf(side)
	sp := s
	if t.input.HalfedgeOf(e) != side {
		sp = 1 - s
	}
	if sp < traceParamEPS {
		sp = traceParamEPS
	}
	if sp > 1-traceParamEPS {
		sp = 1 - traceParamEPS
	}
	pt, err := surface.EdgePoint(e, sp)
	if err != nil {
		return surface.Point{}, fmt.Errorf("%w: %v", ErrTraceFailed, err)
	}

	twin := t.input.Twin(side)
	if t.input.IsBoundaryHalfedge(twin) {
		return surface.Point{}, fmt.Errorf("%w: ray left the surface through edge %d", ErrTraceFailed, e)
	}

	// Old-frame endpoints of the shared edge.
	hs, _ := t.input.TriangleHalfedges(ts.face)
	k := 0
	for idx, hh := range hs {
		if hh == side {
			k = idx
			break
		}
	}
	aOld := ts.layout[k]
	bOld := ts.layout[(k+1)%3]

	g := t.input.FaceOf(twin)
	layout := t.mustLayout(g)
	gs, _ := t.input.TriangleHalfedges(g)
	m := 0
	for idx, hh := range gs {
		if hh == twin {
			m = idx
			break
		}
	}
	// twin runs target(side) -> origin(side).
	bNew := layout[m]
	aNew := layout[(m+1)%3]

	u := bOld.Sub(aOld)
	u = u.Mul(1 / u.Norm())
	w := bNew.Sub(aNew)
	w = w.Mul(1 / w.Norm())
	// Rotation taking the old frame to the new: r = w * conj(u).
	r := r2.Point{X: w.X*u.X + w.Y*u.Y, Y: w.Y*u.X - w.X*u.Y}
	rot := func(p r2.Point) r2.Point {
		return r2.Point{X: r.X*p.X - r.Y*p.Y, Y: r.X*p.Y + r.Y*p.X}
	}

	ts.pos = aNew.Add(rot(ts.pos.Sub(aOld)))
	ts.dir = rot(ts.dir)
	ts.face = g
	ts.layout = layout
	ts.entered = twin

	return pt, nil
}

// facePointClamped builds a face point from layout barycentrics, absorbing
// small negative round-off.
func facePointClamped(f mesh.Face, bary [3]float64) (surface.Point, error) {
	sum := 0.0
	for i := range bary {
		if bary[i] < 0 {
			bary[i] = 0
		}
		sum += bary[i]
	}
	if sum <= 0 {
		return surface.Point{}, fmt.Errorf("%w: degenerate barycentrics", ErrTraceFailed)
	}
	for i := range bary {
		bary[i] /= sum
	}

	return surface.FacePoint(f, bary)
}

// trace walks the ray for the given distance, collecting input-edge
// crossings. The endpoint is reported as a face point of the final input
// face; callers that know the true endpoint (edge tracing lands on a known
// vertex) substitute it and keep only the crossings.
func (t *Triangulation) trace(ts traceState, dist float64) (traceResult, error) {
	var res traceResult
	remaining := dist
	endSlack := 1e-9 * (1 + dist)
	maxSteps := 10*t.input.FaceCount() + 1000

	for step := 0; ; step++ {
		if step > maxSteps {
			return res, fmt.Errorf("%w: no convergence after %d steps", ErrTraceFailed, maxSteps)
		}
		side, tExit, s, ok := t.exit(&ts)
		if !ok || tExit >= remaining-endSlack {
			break
		}
		// Advance to the crossing before rebasing.
		ts.pos = ts.pos.Add(ts.dir.Mul(tExit))
		remaining -= tExit
		pt, err := t.crossIntoAt(&ts, side, s)
		if err != nil {
			return res, err
		}
		res.crossings = append(res.crossings, pt)
	}

	endPos := ts.pos.Add(ts.dir.Mul(remaining))
	end, err := facePointClamped(ts.face, baryInLayout(ts.layout, endPos))
	if err != nil {
		return res, err
	}
	res.end = end
	res.endFace = ts.face
	res.endPos = endPos
	res.endDir = ts.dir

	return res, nil
}

// traceFromVertex traces from intrinsic vertex v at signpost angle theta
// for the given distance.
func (t *Triangulation) traceFromVertex(v mesh.Vertex, theta, dist float64) (traceResult, error) {
	ts, err := t.startFromVertex(v, theta)
	if err != nil {
		return traceResult{}, err
	}
	t.slideOffEdge(&ts)

	return t.trace(ts, dist)
}

// slideOffEdge handles a walker starting exactly on a side of its face
// with an outward direction by rebasing into the neighbor first. Arises
// when a refinement vertex sits on an input edge.
func (t *Triangulation) slideOffEdge(ts *traceState) {
	hs, _ := t.input.TriangleHalfedges(ts.face)
	diam := ts.layout[1].Sub(ts.layout[0]).Norm()
	for k := 0; k < 3; k++ {
		a := ts.layout[k]
		b := ts.layout[(k+1)%3]
		ab := b.Sub(a)
		n := ab.Norm()
		off := cross2(ab, ts.pos.Sub(a)) / n
		if math.Abs(off) > 1e-9*diam {
			continue
		}
		along := ts.pos.Sub(a).Dot(ab) / (n * n)
		if along < -traceParamEPS || along > 1+traceParamEPS {
			continue
		}
		// On side k: outward means the direction points right of ab
		// (face interiors are laid out counterclockwise).
		if cross2(ab, ts.dir) >= 0 {
			continue
		}
		if _, err := t.crossIntoAt(ts, hs[k], along); err != nil {
			return
		}
		return
	}
}
