package overlay

import (
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/meshweave/intrimesh/mesh"
	"github.com/meshweave/intrimesh/surface"
)

// Input bundles the two sides of the overlay. Side A is the input surface;
// side B is the intrinsic triangulation drawn over it. LocationsB places
// every B vertex on A; TracedB holds, per B edge, its polyline over A from
// the canonical halfedge's origin to its target, with one interior point
// per crossed A edge. Every A vertex must be a B vertex with the same
// index, which holds for intrinsic triangulations built over A.
type Input struct {
	MeshA      *mesh.Mesh
	GeomA      *surface.Geometry
	MeshB      *mesh.Mesh
	LocationsB []surface.Point
	TracedB    [][]surface.Point
}

// CommonSubdivision is the overlay complex. Subdivision vertices are
// indexed with B vertices first, then edge crossings; faces are triangles
// from fanning the convex cells of the arrangement.
type CommonSubdivision struct {
	in Input

	sourceA []surface.Point
	sourceB []surface.Point

	tris  [][3]int
	faceA []mesh.Face
	faceB []mesh.Face

	m *mesh.Mesh
}

// MeshA returns the input-side mesh of the overlay.
func (cs *CommonSubdivision) MeshA() *mesh.Mesh { return cs.in.MeshA }

// MeshB returns the intrinsic-side mesh of the overlay.
func (cs *CommonSubdivision) MeshB() *mesh.Mesh { return cs.in.MeshB }

// VertexCount returns the number of subdivision vertices.
func (cs *CommonSubdivision) VertexCount() int { return len(cs.sourceA) }

// FaceCount returns the number of subdivision triangles.
func (cs *CommonSubdivision) FaceCount() int { return len(cs.tris) }

// SourceA returns where subdivision vertex i sits on the input surface.
func (cs *CommonSubdivision) SourceA(i int) surface.Point { return cs.sourceA[i] }

// SourceB returns where subdivision vertex i sits on the intrinsic
// triangulation.
func (cs *CommonSubdivision) SourceB(i int) surface.Point { return cs.sourceB[i] }

// FaceA returns the parent input face of subdivision face i.
func (cs *CommonSubdivision) FaceA(i int) mesh.Face { return cs.faceA[i] }

// FaceB returns the parent intrinsic face of subdivision face i.
func (cs *CommonSubdivision) FaceB(i int) mesh.Face { return cs.faceB[i] }

// Triangle returns the three subdivision vertex indices of face i.
func (cs *CommonSubdivision) Triangle(i int) [3]int { return cs.tris[i] }

// node bookkeeping during the build: ids below nB are B vertices, the rest
// are crossings.

type builder struct {
	in      Input
	nB      int
	sourceA []surface.Point
	sourceB []surface.Point

	// crossings per B edge, in canonical order
	onBEdge map[mesh.Edge][]int

	// chords per B face
	chords map[mesh.Face][][2]int
}

// Build assembles the common subdivision from traced intrinsic edges.
func Build(in Input) (*CommonSubdivision, error) {
	if in.MeshA == nil || in.GeomA == nil || in.MeshB == nil {
		return nil, fmt.Errorf("%w: nil mesh or geometry", ErrBadInput)
	}
	if len(in.LocationsB) != in.MeshB.VertexCount() {
		return nil, fmt.Errorf("%w: %d locations for %d vertices", ErrBadInput, len(in.LocationsB), in.MeshB.VertexCount())
	}
	if len(in.TracedB) != in.MeshB.EdgeCount() {
		return nil, fmt.Errorf("%w: %d traces for %d edges", ErrBadInput, len(in.TracedB), in.MeshB.EdgeCount())
	}
	for v := 0; v < in.MeshA.VertexCount(); v++ {
		loc := in.LocationsB[v]
		if loc.Type != surface.AtVertex || int(loc.Vertex) != v {
			return nil, fmt.Errorf("%w: input vertex %d is not fixed in the overlay", ErrBadInput, v)
		}
	}

	b := &builder{
		in:      in,
		nB:      in.MeshB.VertexCount(),
		onBEdge: make(map[mesh.Edge][]int),
		chords:  make(map[mesh.Face][][2]int),
	}
	if err := b.collectVertices(); err != nil {
		return nil, err
	}
	if err := b.buildChords(); err != nil {
		return nil, err
	}

	cs := &CommonSubdivision{
		in:      in,
		sourceA: b.sourceA,
		sourceB: b.sourceB,
	}
	for f := 0; f < in.MeshB.FaceCount(); f++ {
		if err := b.emitFace(mesh.Face(f), cs); err != nil {
			return nil, err
		}
	}

	return cs, nil
}

// collectVertices numbers B vertices then crossings, assigning each
// crossing its parameter along the B edge by polyline arclength.
func (b *builder) collectVertices() error {
	b.sourceA = append(b.sourceA, b.in.LocationsB...)
	b.sourceB = make([]surface.Point, b.nB)
	for v := 0; v < b.nB; v++ {
		b.sourceB[v] = surface.VertexPoint(mesh.Vertex(v))
	}

	for ei, poly := range b.in.TracedB {
		if len(poly) < 2 {
			return fmt.Errorf("%w: edge %d traced with %d points", ErrBadInput, ei, len(poly))
		}
		if len(poly) == 2 {
			continue
		}
		// Arclength parameters along the polyline.
		cum := make([]float64, len(poly))
		prev, err := b.in.GeomA.Interpolate(poly[0])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadInput, err)
		}
		for i := 1; i < len(poly); i++ {
			cur, err := b.in.GeomA.Interpolate(poly[i])
			if err != nil {
				return fmt.Errorf("%w: %v", ErrBadInput, err)
			}
			cum[i] = cum[i-1] + cur.Sub(prev).Norm()
			prev = cur
		}
		total := cum[len(poly)-1]
		if !(total > 0) {
			return fmt.Errorf("%w: edge %d has zero traced length", ErrArrangement, ei)
		}

		e := mesh.Edge(ei)
		for i := 1; i < len(poly)-1; i++ {
			pt := poly[i]
			if pt.Type != surface.OnEdge {
				return fmt.Errorf("%w: interior trace point of edge %d is not an edge point", ErrArrangement, ei)
			}
			onB, err := surface.EdgePoint(e, clamp01(cum[i]/total))
			if err != nil {
				return err
			}
			id := len(b.sourceA)
			b.sourceA = append(b.sourceA, pt)
			b.sourceB = append(b.sourceB, onB)
			b.onBEdge[e] = append(b.onBEdge[e], id)
		}
	}

	return nil
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

// faceArcs is the decomposition of the input-edge arcs inside one intrinsic
// face: corner[m] arcs cut off corner m, radial[m] arcs run from corner m to
// the opposite side.
type faceArcs struct {
	corner [3]int
	radial [3]int
}

// decomposeFace splits the per-side crossing counts n into corner and radial
// arcs. Side m joins corner m to corner m+1, so corner m appears on sides
// m-1 and m, and a radial from corner m crosses side m+1. ok is false when
// the counts admit no such decomposition, which cannot happen for counts
// coming from an actual arrangement of input edges over the face.
func decomposeFace(n [3]int) (a faceArcs, ok bool) {
	rem := n
	for m := 0; m < 3; m++ {
		a.radial[m] = max0(n[(m+1)%3] - n[m] - n[(m+2)%3])
		rem[(m+1)%3] -= a.radial[m]
	}
	for m := 0; m < 3; m++ {
		a.corner[m] = max0((rem[(m+2)%3] + rem[m] - rem[(m+1)%3]) / 2)
	}
	for m := 0; m < 3; m++ {
		if a.corner[m]+a.corner[(m+1)%3]+a.radial[(m+2)%3] != n[m] {
			return a, false
		}
	}

	return a, true
}

// buildChords reconstructs, for every intrinsic face, the chords its
// input-edge arcs cut across it. The arcs form a normal arrangement: each
// one either cuts off a corner or radiates from one, and along a side the
// crossings run corner arcs of the near corner, radials of the opposite
// corner, then corner arcs of the far corner. Matching the three ordered
// side sequences therefore pairs up the chords exactly, with no search for
// the face containing a segment.
func (b *builder) buildChords() error {
	mB := b.in.MeshB
	for fi := 0; fi < mB.FaceCount(); fi++ {
		f := mesh.Face(fi)
		hs, err := mB.TriangleHalfedges(f)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadInput, err)
		}
		var side [3][]int
		var n, corner [3]int
		for m := 0; m < 3; m++ {
			corner[m] = int(mB.Origin(hs[m]))
			e := mB.EdgeOf(hs[m])
			ids := b.onBEdge[e]
			if mB.HalfedgeOf(e) != hs[m] {
				rev := make([]int, len(ids))
				for i, id := range ids {
					rev[len(ids)-1-i] = id
				}
				ids = rev
			}
			side[m] = ids
			n[m] = len(ids)
		}

		arcs, ok := decomposeFace(n)
		if !ok {
			return fmt.Errorf("%w: crossing counts %v of intrinsic face %d admit no arc decomposition", ErrArrangement, n, f)
		}
		for m := 0; m < 3; m++ {
			prev := (m + 2) % 3
			for k := 0; k < arcs.corner[m]; k++ {
				// k-th innermost arc at corner m: k-th stop of side m pairs
				// with the k-th-from-last stop of the previous side.
				b.chords[f] = append(b.chords[f],
					[2]int{side[prev][n[prev]-1-k], side[m][k]})
			}
			for k := 0; k < arcs.radial[prev]; k++ {
				b.chords[f] = append(b.chords[f],
					[2]int{corner[prev], side[m][arcs.corner[m]+k]})
			}
		}
	}

	return nil
}

func max0(n int) int {
	if n < 0 {
		return 0
	}

	return n
}

// emitFace splits intrinsic face f along its chords and fans the resulting
// convex cells into triangles on cs.
func (b *builder) emitFace(f mesh.Face, cs *CommonSubdivision) error {
	hs, err := b.in.MeshB.TriangleHalfedges(f)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadInput, err)
	}

	var cycle []int
	for m := 0; m < 3; m++ {
		h := hs[m]
		cycle = append(cycle, int(b.in.MeshB.Origin(h)))
		e := b.in.MeshB.EdgeOf(h)
		ids := b.onBEdge[e]
		if b.in.MeshB.HalfedgeOf(e) == h {
			cycle = append(cycle, ids...)
		} else {
			for i := len(ids) - 1; i >= 0; i-- {
				cycle = append(cycle, ids[i])
			}
		}
	}

	emit := func(poly []int) error {
		fa, ok := b.aFaceOf(poly)
		if !ok {
			return fmt.Errorf("%w: cell of intrinsic face %d spans no single input face", ErrArrangement, f)
		}
		for i := 1; i+1 < len(poly); i++ {
			cs.tris = append(cs.tris, [3]int{poly[0], poly[i], poly[i+1]})
			cs.faceA = append(cs.faceA, fa)
			cs.faceB = append(cs.faceB, f)
		}
		return nil
	}

	return splitPolygon(cycle, b.chords[f], emit)
}

// aFaceOf finds the input face containing a cell, by intersecting the
// candidate faces of every cell corner.
func (b *builder) aFaceOf(poly []int) (mesh.Face, bool) {
	cands := b.aFaces(poly[0])
	for _, node := range poly[1:] {
		next := cands[:0]
		for _, f := range cands {
			for _, g := range b.aFaces(node) {
				if f == g {
					next = append(next, f)
					break
				}
			}
		}
		cands = next
		if len(cands) == 0 {
			return mesh.InvalidFace, false
		}
	}

	return cands[0], true
}

// aFaces returns the input faces a subdivision vertex can touch.
func (b *builder) aFaces(node int) []mesh.Face {
	var out []mesh.Face
	switch p := b.sourceA[node]; p.Type {
	case surface.AtVertex:
		b.in.MeshA.ForEachOutgoing(p.Vertex, func(h mesh.Halfedge) bool {
			if f := b.in.MeshA.FaceOf(h); f != mesh.InvalidFace {
				out = append(out, f)
			}
			return true
		})
	case surface.OnEdge:
		h := b.in.MeshA.HalfedgeOf(p.Edge)
		for _, hh := range [2]mesh.Halfedge{h, b.in.MeshA.Twin(h)} {
			if f := b.in.MeshA.FaceOf(hh); f != mesh.InvalidFace {
				out = append(out, f)
			}
		}
	case surface.InFace:
		out = append(out, p.Face)
	}

	return out
}

// splitPolygon cuts a boundary cycle along non-crossing chords and hands
// each chord-free cell to emit. Cycle order is preserved, so cells come
// out with the parent's orientation.
func splitPolygon(poly []int, chords [][2]int, emit func([]int) error) error {
	if len(poly) < 3 {
		return fmt.Errorf("%w: %d-gon cell", ErrArrangement, len(poly))
	}
	if len(chords) == 0 {
		return emit(poly)
	}

	ch := chords[0]
	rest := chords[1:]
	iu := indexOf(poly, ch[0])
	iv := indexOf(poly, ch[1])
	if iu < 0 || iv < 0 {
		return fmt.Errorf("%w: chord endpoint outside its cell", ErrArrangement)
	}
	if iu > iv {
		iu, iv = iv, iu
	}
	// A chord between neighboring boundary stops is the boundary itself.
	if iv-iu <= 1 || (iu == 0 && iv == len(poly)-1) {
		return splitPolygon(poly, rest, emit)
	}

	p1 := append([]int(nil), poly[iu:iv+1]...)
	p2 := append(append([]int(nil), poly[iv:]...), poly[:iu+1]...)

	var c1, c2 [][2]int
	for _, c := range rest {
		in1 := indexOf(p1, c[0]) >= 0 && indexOf(p1, c[1]) >= 0
		in2 := indexOf(p2, c[0]) >= 0 && indexOf(p2, c[1]) >= 0
		switch {
		case in1 && in2:
			// Duplicate of the splitting chord; drop it.
		case in1:
			c1 = append(c1, c)
		case in2:
			c2 = append(c2, c)
		default:
			return fmt.Errorf("%w: chord crosses another chord", ErrArrangement)
		}
	}
	if err := splitPolygon(p1, c1, emit); err != nil {
		return err
	}

	return splitPolygon(p2, c2, emit)
}

func indexOf(poly []int, node int) int {
	for i, n := range poly {
		if n == node {
			return i
		}
	}

	return -1
}

// ConstructMesh builds (once) and returns the halfedge mesh of the
// subdivision.
func (cs *CommonSubdivision) ConstructMesh() (*mesh.Mesh, error) {
	if cs.m != nil {
		return cs.m, nil
	}
	faces := make([][]int, len(cs.tris))
	for i, t := range cs.tris {
		faces[i] = []int{t[0], t[1], t[2]}
	}
	m, err := mesh.NewTriangleMeshFromFaces(cs.VertexCount(), faces)
	if err != nil {
		return nil, err
	}
	cs.m = m

	return m, nil
}

// InterpolateAcrossA evaluates, for every subdivision vertex, a linear
// field given by one value per input vertex position. Passing the input
// positions themselves embeds the subdivision on the input surface.
func (cs *CommonSubdivision) InterpolateAcrossA(positions []r3.Vector) ([]r3.Vector, error) {
	g, err := surface.NewGeometry(cs.in.MeshA, positions)
	if err != nil {
		return nil, err
	}
	out := make([]r3.Vector, cs.VertexCount())
	for i, p := range cs.sourceA {
		v, err := g.Interpolate(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

// scalarOn linearly interpolates a per-vertex scalar field at p.
func scalarOn(m *mesh.Mesh, p surface.Point, vals []float64) float64 {
	switch p.Type {
	case surface.AtVertex:
		return vals[p.Vertex]
	case surface.OnEdge:
		u, w := m.EdgeVertices(p.Edge)
		return (1-p.EdgeT)*vals[u] + p.EdgeT*vals[w]
	default:
		vs := m.FaceVertices(p.Face)
		s := 0.0
		for k, v := range vs {
			s += p.FaceBary[k] * vals[v]
		}
		return s
	}
}

// CopyVertexFromA pulls a per-input-vertex scalar field onto the
// subdivision vertices.
func (cs *CommonSubdivision) CopyVertexFromA(vals []float64) []float64 {
	out := make([]float64, cs.VertexCount())
	for i, p := range cs.sourceA {
		out[i] = scalarOn(cs.in.MeshA, p, vals)
	}

	return out
}

// CopyVertexFromB pulls a per-intrinsic-vertex scalar field onto the
// subdivision vertices.
func (cs *CommonSubdivision) CopyVertexFromB(vals []float64) []float64 {
	out := make([]float64, cs.VertexCount())
	for i, p := range cs.sourceB {
		out[i] = scalarOn(cs.in.MeshB, p, vals)
	}

	return out
}

// CopyFaceFromA pulls a per-input-face field onto the subdivision faces.
func (cs *CommonSubdivision) CopyFaceFromA(vals []float64) []float64 {
	out := make([]float64, cs.FaceCount())
	for i, f := range cs.faceA {
		out[i] = vals[f]
	}

	return out
}

// CopyFaceFromB pulls a per-intrinsic-face field onto the subdivision
// faces.
func (cs *CommonSubdivision) CopyFaceFromB(vals []float64) []float64 {
	out := make([]float64, cs.FaceCount())
	for i, f := range cs.faceB {
		out[i] = vals[f]
	}

	return out
}
