package overlay_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/require"

	"github.com/meshweave/intrimesh/intrinsic"
	"github.com/meshweave/intrimesh/mesh"
	"github.com/meshweave/intrimesh/overlay"
	"github.com/meshweave/intrimesh/surface"
)

// flippedQuad builds the planar quad whose diagonal must flip, flips it, and
// returns its common subdivision alongside the geometry.
func flippedQuad(t *testing.T) (*intrinsic.Triangulation, *surface.Geometry, *overlay.CommonSubdivision) {
	t.Helper()
	m, err := mesh.NewTriangleMeshFromFaces(4, [][]int{
		{0, 1, 2}, {0, 2, 3},
	})
	require.NoError(t, err)
	g, err := surface.NewGeometry(m, []r3.Vector{
		{X: 0, Y: 0}, {X: 0.8, Y: 0.2}, {X: 1, Y: 1}, {X: 0.2, Y: 0.8},
	})
	require.NoError(t, err)

	tr, err := intrinsic.New(m, g)
	require.NoError(t, err)
	res, err := tr.FlipToDelaunay()
	require.NoError(t, err)
	require.Equal(t, 1, res.Flips)

	cs, err := tr.CommonSubdivision()
	require.NoError(t, err)

	return tr, g, cs
}

// subdivisionArea sums triangle areas of the embedded subdivision.
func subdivisionArea(t *testing.T, cs *overlay.CommonSubdivision, g *surface.Geometry) float64 {
	t.Helper()
	pos, err := cs.InterpolateAcrossA(g.Positions())
	require.NoError(t, err)

	total := 0.0
	for i := 0; i < cs.FaceCount(); i++ {
		tri := cs.Triangle(i)
		u := pos[tri[1]].Sub(pos[tri[0]])
		w := pos[tri[2]].Sub(pos[tri[0]])
		total += 0.5 * u.Cross(w).Norm()
	}

	return total
}

func TestCommonSubdivision_IdentityOverlay(t *testing.T) {
	// With no flips the subdivision is the input triangulation itself.
	m, err := mesh.NewTriangleMeshFromFaces(4, [][]int{
		{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3},
	})
	require.NoError(t, err)
	g, err := surface.NewGeometry(m, []r3.Vector{
		{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: -1},
		{X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: 1},
	})
	require.NoError(t, err)
	tr, err := intrinsic.New(m, g)
	require.NoError(t, err)

	cs, err := tr.CommonSubdivision()
	require.NoError(t, err)
	require.Equal(t, 4, cs.VertexCount())
	require.Equal(t, 4, cs.FaceCount())

	for i := 0; i < cs.VertexCount(); i++ {
		a, b := cs.SourceA(i), cs.SourceB(i)
		require.Equal(t, surface.AtVertex, a.Type)
		require.Equal(t, surface.AtVertex, b.Type)
		require.Equal(t, a.Vertex, b.Vertex, "shared vertices keep their index on both sides")
	}

	sm, err := cs.ConstructMesh()
	require.NoError(t, err)
	require.NoError(t, sm.Validate())
	require.Equal(t, 2, sm.VertexCount()-sm.EdgeCount()+sm.FaceCount())

	want, err := g.TotalArea()
	require.NoError(t, err)
	require.InDelta(t, want, subdivisionArea(t, cs, g), 1e-9)
}

func TestCommonSubdivision_FlippedQuad(t *testing.T) {
	tr, g, cs := flippedQuad(t)

	// Four shared vertices plus the single edge-edge crossing.
	require.Equal(t, 5, cs.VertexCount())
	require.Equal(t, 4, cs.FaceCount())
	require.Same(t, tr.InputMesh(), cs.MeshA())
	require.Same(t, tr.Mesh(), cs.MeshB())

	crossings := 0
	for i := 0; i < cs.VertexCount(); i++ {
		a, b := cs.SourceA(i), cs.SourceB(i)
		require.NoError(t, a.Validate())
		require.NoError(t, b.Validate())
		if a.Type == surface.OnEdge {
			crossings++
			require.Equal(t, surface.OnEdge, b.Type, "a crossing is interior to an edge on both sides")
			// The quad is planar and symmetric: both diagonals cross at
			// their midpoints.
			require.InDelta(t, 0.5, a.EdgeT, 1e-9)
			require.InDelta(t, 0.5, b.EdgeT, 1e-9)
		}
	}
	require.Equal(t, 1, crossings)

	// Parent faces are consistent with the triangle corners.
	for i := 0; i < cs.FaceCount(); i++ {
		require.GreaterOrEqual(t, int(cs.FaceA(i)), 0)
		require.Less(t, int(cs.FaceA(i)), tr.InputMesh().FaceCount())
		require.GreaterOrEqual(t, int(cs.FaceB(i)), 0)
		require.Less(t, int(cs.FaceB(i)), tr.Mesh().FaceCount())
	}

	sm, err := cs.ConstructMesh()
	require.NoError(t, err)
	require.NoError(t, sm.Validate())
	// A disk: V - E + F = 1.
	require.Equal(t, 1, sm.VertexCount()-sm.EdgeCount()+sm.FaceCount())

	want, err := g.TotalArea()
	require.NoError(t, err)
	require.InDelta(t, want, subdivisionArea(t, cs, g), 1e-9)
}

func TestCommonSubdivision_CopyRoundTrips(t *testing.T) {
	tr, g, cs := flippedQuad(t)

	// Constant fields survive every transfer exactly.
	constA := make([]float64, tr.InputMesh().VertexCount())
	constB := make([]float64, tr.Mesh().VertexCount())
	for i := range constA {
		constA[i] = 7
	}
	for i := range constB {
		constB[i] = 7
	}
	for _, got := range cs.CopyVertexFromA(constA) {
		require.InDelta(t, 7, got, 1e-12)
	}
	for _, got := range cs.CopyVertexFromB(constB) {
		require.InDelta(t, 7, got, 1e-12)
	}

	// A linear field interpolates identically through either parent, since
	// the quad is flat.
	linA := make([]float64, len(g.Positions()))
	for i, p := range g.Positions() {
		linA[i] = 2*p.X - 3*p.Y + 1
	}
	linB := make([]float64, tr.Mesh().VertexCount())
	for v := range linB {
		pos, err := g.Interpolate(tr.VertexLocation(mesh.Vertex(v)))
		require.NoError(t, err)
		linB[v] = 2*pos.X - 3*pos.Y + 1
	}
	fromA := cs.CopyVertexFromA(linA)
	fromB := cs.CopyVertexFromB(linB)
	for i := range fromA {
		require.InDelta(t, fromA[i], fromB[i], 1e-9)
	}

	// Per-face fields copy by direct parent lookup.
	faceA := []float64{10, 20}
	copied := cs.CopyFaceFromA(faceA)
	require.Len(t, copied, cs.FaceCount())
	for i, v := range copied {
		require.Equal(t, faceA[cs.FaceA(i)], v)
	}
}

func TestBuild_Validation(t *testing.T) {
	_, err := overlay.Build(overlay.Input{})
	require.ErrorIs(t, err, overlay.ErrBadInput)
}

func TestConstructMesh_Idempotent(t *testing.T) {
	_, _, cs := flippedQuad(t)
	m1, err := cs.ConstructMesh()
	require.NoError(t, err)
	m2, err := cs.ConstructMesh()
	require.NoError(t, err)
	require.Same(t, m1, m2)
}

// stretchedIcosahedron scales the icosahedron's z axis by z, degrading the
// face angles as z grows.
func stretchedIcosahedron(t *testing.T, z float64) (*mesh.Mesh, *surface.Geometry) {
	t.Helper()
	phi := (1 + math.Sqrt(5)) / 2
	pos := []r3.Vector{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: z * phi}, {Y: 1, Z: z * phi}, {Y: -1, Z: -z * phi}, {Y: 1, Z: -z * phi},
		{X: phi, Z: -z}, {X: phi, Z: z}, {X: -phi, Z: -z}, {X: -phi, Z: z},
	}
	m, err := mesh.NewTriangleMeshFromFaces(12, [][]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	})
	require.NoError(t, err)
	g, err := surface.NewGeometry(m, pos)
	require.NoError(t, err)

	return m, g
}

func TestSubdivisionArea_StretchedIcosahedron(t *testing.T) {
	// Refinement inserts vertices and flips edges; the subdivision must
	// still tile the input surface exactly.
	m, g := stretchedIcosahedron(t, 3)
	tr, err := intrinsic.New(m, g)
	require.NoError(t, err)

	res, err := tr.DelaunayRefine()
	require.NoError(t, err)
	require.True(t, res.Converged)

	cs, err := tr.CommonSubdivision()
	require.NoError(t, err)
	require.Equal(t, tr.VertexCount(), 12+res.Inserted)
	require.GreaterOrEqual(t, cs.VertexCount(), tr.VertexCount())

	want, err := g.TotalArea()
	require.NoError(t, err)
	require.InDelta(t, want, subdivisionArea(t, cs, g), 1e-6*want)

	sm, err := cs.ConstructMesh()
	require.NoError(t, err)
	require.NoError(t, sm.Validate())
	require.Equal(t, 2, sm.VertexCount()-sm.EdgeCount()+sm.FaceCount())
}

func TestCommonSubdivision_HighAnisotropy(t *testing.T) {
	// Heavy stretching forces long flip cascades and many insertions; the
	// subdivision must stay constructible from whatever state refinement
	// reaches, under either backend.
	for _, kind := range []intrinsic.BackendKind{
		intrinsic.BackendIntegerCoordinates,
		intrinsic.BackendSignpost,
	} {
		t.Run(kind.String(), func(t *testing.T) {
			for _, z := range []float64{5, 6, 8} {
				m, g := stretchedIcosahedron(t, z)
				tr, err := intrinsic.New(m, g, intrinsic.WithBackend(kind))
				require.NoError(t, err)

				res, err := tr.DelaunayRefine()
				require.NoError(t, err, "z=%v", z)
				if res.Converged {
					require.True(t, tr.IsDelaunay(), "z=%v: converged but not Delaunay", z)
				}

				cs, err := tr.CommonSubdivision()
				require.NoError(t, err, "z=%v", z)

				want, err := g.TotalArea()
				require.NoError(t, err)
				require.InDelta(t, want, subdivisionArea(t, cs, g), 1e-6*want, "z=%v", z)

				sm, err := cs.ConstructMesh()
				require.NoError(t, err, "z=%v", z)
				require.NoError(t, sm.Validate(), "z=%v", z)
				require.Equal(t, 2, sm.VertexCount()-sm.EdgeCount()+sm.FaceCount(), "z=%v", z)
			}
		})
	}
}
