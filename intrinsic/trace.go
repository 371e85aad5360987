package intrinsic

import (
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/meshweave/intrimesh/mesh"
	"github.com/meshweave/intrimesh/surface"
)

// TraceEdges traces every intrinsic edge across the input surface. The
// polyline for edge e runs from the location of its canonical halfedge's
// origin to its target, with one interior point per crossed input edge.
// Edges lying along an input edge yield a two-point polyline. Under the
// integer backend the traced crossing count is checked against the exact
// one; a mismatch reports ErrTraceFailed.
func (t *Triangulation) TraceEdges() ([][]surface.Point, error) {
	out := make([][]surface.Point, t.tri.EdgeCount())
	for ei := range out {
		e := mesh.Edge(ei)
		ha := t.tri.HalfedgeOf(e)
		i := t.tri.Origin(ha)
		j := t.tri.Target(ha)

		_, _, _, coincident, err := t.edgeCoincidence(e, ha)
		if err != nil {
			return nil, err
		}
		if coincident {
			out[ei] = []surface.Point{t.locations[i], t.locations[j]}
			continue
		}

		tr, err := t.traceFromVertex(i, t.signposts[ha], t.lengths[e])
		if err != nil {
			return nil, fmt.Errorf("tracing edge %d: %w", e, err)
		}
		if n, exact := t.be.coord(e); exact && n != len(tr.crossings) {
			return nil, fmt.Errorf("%w: edge %d traced %d crossings, expected %d",
				ErrTraceFailed, e, len(tr.crossings), n)
		}

		pts := make([]surface.Point, 0, len(tr.crossings)+2)
		pts = append(pts, t.locations[i])
		pts = append(pts, tr.crossings...)
		pts = append(pts, t.locations[j])
		out[ei] = pts
	}

	return out, nil
}

// SampleFromInput evaluates the embedded position of every intrinsic
// vertex from its location on the input surface. Original vertices return
// their input positions exactly.
func (t *Triangulation) SampleFromInput() ([]r3.Vector, error) {
	out := make([]r3.Vector, len(t.locations))
	for v, loc := range t.locations {
		p, err := t.geom.Interpolate(loc)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", v, err)
		}
		out[v] = p
	}

	return out, nil
}
