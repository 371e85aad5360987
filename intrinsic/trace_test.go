package intrinsic_test

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/require"

	"github.com/meshweave/intrimesh/intrinsic"
	"github.com/meshweave/intrimesh/mesh"
	"github.com/meshweave/intrimesh/surface"
)

// polylineLength sums the embedded segment lengths of a traced edge.
func polylineLength(t *testing.T, g *surface.Geometry, poly []surface.Point) float64 {
	t.Helper()
	total := 0.0
	var prev r3.Vector
	for i, p := range poly {
		pos, err := g.Interpolate(p)
		require.NoError(t, err)
		if i > 0 {
			total += pos.Sub(prev).Norm()
		}
		prev = pos
	}

	return total
}

func TestTraceEdges_CoincidentEdges(t *testing.T) {
	backends(t, func(t *testing.T, kind intrinsic.BackendKind) {
		m, g := icosahedron(t, 1)
		tr, err := intrinsic.New(m, g, intrinsic.WithBackend(kind))
		require.NoError(t, err)

		traced, err := tr.TraceEdges()
		require.NoError(t, err)
		require.Len(t, traced, m.EdgeCount())

		// Untouched edges trace to their own endpoints.
		for e, poly := range traced {
			require.Len(t, poly, 2)
			require.Equal(t, surface.AtVertex, poly[0].Type)
			require.Equal(t, surface.AtVertex, poly[1].Type)
			u, w := m.EdgeVertices(mesh.Edge(e))
			require.Equal(t, u, poly[0].Vertex)
			require.Equal(t, w, poly[1].Vertex)

			require.InDelta(t, tr.EdgeLength(mesh.Edge(e)),
				polylineLength(t, g, poly), 1e-9)
		}
	})
}

func TestTraceEdges_AfterFlip(t *testing.T) {
	backends(t, func(t *testing.T, kind intrinsic.BackendKind) {
		m, g := obtuseQuad(t)
		tr, err := intrinsic.New(m, g, intrinsic.WithBackend(kind))
		require.NoError(t, err)
		diag := interiorEdge(t, m)

		_, err = tr.FlipToDelaunay()
		require.NoError(t, err)

		traced, err := tr.TraceEdges()
		require.NoError(t, err)

		// The flipped edge crosses the input diagonal once; the quad is
		// planar, so the geodesic is the straight segment between vertices
		// 1 and 3 and its length is exact.
		poly := traced[diag]
		require.Len(t, poly, 3)
		require.Equal(t, surface.OnEdge, poly[1].Type)
		require.Equal(t, diag, poly[1].Edge)
		require.InDelta(t, tr.EdgeLength(diag), polylineLength(t, g, poly), 1e-9)

		// The crossing sits at the midpoint of the input diagonal.
		require.InDelta(t, 0.5, poly[1].EdgeT, 1e-9)

		// All other edges still coincide with input edges.
		for e, p := range traced {
			if mesh.Edge(e) == diag {
				continue
			}
			require.Len(t, p, 2)
		}
	})
}

func TestSampleFromInput(t *testing.T) {
	m, g := obtuseQuad(t)
	tr, err := intrinsic.New(m, g)
	require.NoError(t, err)
	_, err = tr.FlipToDelaunay()
	require.NoError(t, err)

	pos, err := tr.SampleFromInput()
	require.NoError(t, err)
	require.Len(t, pos, tr.VertexCount())
	for v, p := range pos {
		require.InDelta(t, 0, p.Sub(g.Position(mesh.Vertex(v))).Norm(), 1e-12,
			"original vertices sample to their own positions")
	}
}
