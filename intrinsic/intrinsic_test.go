package intrinsic_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/require"

	"github.com/meshweave/intrimesh/intrinsic"
	"github.com/meshweave/intrimesh/mesh"
	"github.com/meshweave/intrimesh/surface"
)

// backends runs a subtest per representation backend.
func backends(t *testing.T, fn func(t *testing.T, kind intrinsic.BackendKind)) {
	t.Helper()
	for _, kind := range []intrinsic.BackendKind{
		intrinsic.BackendIntegerCoordinates,
		intrinsic.BackendSignpost,
	} {
		t.Run(kind.String(), func(t *testing.T) { fn(t, kind) })
	}
}

// icosahedron returns the regular icosahedron, optionally stretched along z.
func icosahedron(t *testing.T, zScale float64) (*mesh.Mesh, *surface.Geometry) {
	t.Helper()
	phi := (1 + math.Sqrt(5)) / 2
	pos := []r3.Vector{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}
	for i := range pos {
		pos[i].Z *= zScale
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

// obtuseQuad returns a planar quad triangulated along its long diagonal, so
// the single interior edge fails the Delaunay test and exactly one flip
// fixes it.
func obtuseQuad(t *testing.T) (*mesh.Mesh, *surface.Geometry) {
	t.Helper()
	m, err := mesh.NewTriangleMeshFromFaces(4, [][]int{
		{0, 1, 2}, {0, 2, 3},
	})
	require.NoError(t, err)
	g, err := surface.NewGeometry(m, []r3.Vector{
		{X: 0, Y: 0}, {X: 0.8, Y: 0.2}, {X: 1, Y: 1}, {X: 0.2, Y: 0.8},
	})
	require.NoError(t, err)

	return m, g
}

// interiorEdge returns the unique interior edge of a mesh with boundary.
func interiorEdge(t *testing.T, m *mesh.Mesh) mesh.Edge {
	t.Helper()
	for e := mesh.Edge(0); int(e) < m.EdgeCount(); e++ {
		if !m.IsBoundaryEdge(e) {
			return e
		}
	}
	t.Fatal("no interior edge")

	return mesh.InvalidEdge
}

func TestNew_Validation(t *testing.T) {
	m, g := obtuseQuad(t)

	_, err := intrinsic.New(nil, g)
	require.ErrorIs(t, err, intrinsic.ErrNilInput)
	_, err = intrinsic.New(m, nil)
	require.ErrorIs(t, err, intrinsic.ErrNilInput)

	_, otherGeom := icosahedron(t, 1)
	_, err = intrinsic.New(m, otherGeom)
	require.ErrorIs(t, err, intrinsic.ErrNilInput)

	// Coincident positions give a zero-length edge.
	bad, err := surface.NewGeometry(m, []r3.Vector{
		{}, {}, {X: 1, Y: 1}, {X: 0.2, Y: 0.8},
	})
	require.NoError(t, err)
	_, err = intrinsic.New(m, bad)
	require.ErrorIs(t, err, surface.ErrDegenerateFace)
}

func TestParseBackend(t *testing.T) {
	k, err := intrinsic.ParseBackend("Integer Coordinates")
	require.NoError(t, err)
	require.Equal(t, intrinsic.BackendIntegerCoordinates, k)

	k, err = intrinsic.ParseBackend("Signposts")
	require.NoError(t, err)
	require.Equal(t, intrinsic.BackendSignpost, k)

	_, err = intrinsic.ParseBackend("Barycentric Vectors")
	require.ErrorIs(t, err, intrinsic.ErrUnknownBackend)
}

func TestOptions_PanicOnNonsense(t *testing.T) {
	require.Panics(t, func() { intrinsic.WithBackend(intrinsic.BackendKind(42)) })
	require.Panics(t, func() { intrinsic.WithAngleThreshold(-1) })
	require.Panics(t, func() { intrinsic.WithAngleThreshold(60) })
	require.Panics(t, func() { intrinsic.WithCircumradiusThreshold(0) })
	require.Panics(t, func() { intrinsic.WithMaxInsertions(-1) })
}

func TestNew_StartsAsInputCopy(t *testing.T) {
	backends(t, func(t *testing.T, kind intrinsic.BackendKind) {
		m, g := icosahedron(t, 1)
		tr, err := intrinsic.New(m, g, intrinsic.WithBackend(kind))
		require.NoError(t, err)

		require.Equal(t, kind, tr.Backend())
		require.Equal(t, m.VertexCount(), tr.VertexCount())
		require.Equal(t, m.EdgeCount(), tr.EdgeCount())
		require.Equal(t, m.FaceCount(), tr.FaceCount())
		require.Same(t, m, tr.InputMesh())
		require.Same(t, g, tr.InputGeometry())
		require.NotSame(t, m, tr.Mesh(), "intrinsic mesh is an owned copy")

		for e := mesh.Edge(0); int(e) < m.EdgeCount(); e++ {
			require.InDelta(t, g.EdgeLength(e), tr.EdgeLength(e), 1e-12)
		}
		for v := 0; v < m.VertexCount(); v++ {
			loc := tr.VertexLocation(mesh.Vertex(v))
			require.Equal(t, surface.AtVertex, loc.Type)
			require.Equal(t, mesh.Vertex(v), loc.Vertex)
		}
	})
}

func TestIcosahedron_AlreadyDelaunay(t *testing.T) {
	backends(t, func(t *testing.T, kind intrinsic.BackendKind) {
		m, g := icosahedron(t, 1)
		tr, err := intrinsic.New(m, g, intrinsic.WithBackend(kind))
		require.NoError(t, err)

		require.True(t, tr.IsDelaunay())
		require.InDelta(t, 60, tr.MinAngleDegrees(), 1e-9)

		res, err := tr.FlipToDelaunay()
		require.NoError(t, err)
		require.True(t, res.Converged)
		require.Zero(t, res.Flips, "a regular mesh needs no flips")
		require.InDelta(t, 60, tr.MinAngleDegrees(), 1e-9)
	})
}

func TestObtuseQuad_SingleFlip(t *testing.T) {
	backends(t, func(t *testing.T, kind intrinsic.BackendKind) {
		m, g := obtuseQuad(t)
		tr, err := intrinsic.New(m, g, intrinsic.WithBackend(kind))
		require.NoError(t, err)
		diag := interiorEdge(t, m)

		require.False(t, tr.IsDelaunay())
		before := tr.MinAngleDegrees()

		res, err := tr.FlipToDelaunay()
		require.NoError(t, err)
		require.True(t, res.Converged)
		require.Equal(t, 1, res.Flips)
		require.True(t, tr.IsDelaunay())

		// The flipped edge joins the short diagonal, with its planar length.
		u, w := tr.Mesh().EdgeVertices(diag)
		require.ElementsMatch(t, []mesh.Vertex{1, 3}, []mesh.Vertex{u, w})
		require.InDelta(t, math.Hypot(0.6, 0.6), tr.EdgeLength(diag), 1e-12)
		require.Greater(t, tr.MinAngleDegrees(), before)

		// Flipping to Delaunay is idempotent.
		res, err = tr.FlipToDelaunay()
		require.NoError(t, err)
		require.True(t, res.Converged)
		require.Zero(t, res.Flips)

		// Vertex locations of input vertices are never rewritten.
		for v := 0; v < 4; v++ {
			require.Equal(t, surface.AtVertex, tr.VertexLocation(mesh.Vertex(v)).Type)
		}
	})
}

func TestFlipEdge_Direct(t *testing.T) {
	backends(t, func(t *testing.T, kind intrinsic.BackendKind) {
		m, g := obtuseQuad(t)
		tr, err := intrinsic.New(m, g, intrinsic.WithBackend(kind))
		require.NoError(t, err)
		diag := interiorEdge(t, m)

		// Boundary edges are rejected without error.
		for e := mesh.Edge(0); int(e) < m.EdgeCount(); e++ {
			if e == diag {
				continue
			}
			flipped, err := tr.FlipEdge(e)
			require.NoError(t, err)
			require.False(t, flipped)
		}

		flipped, err := tr.FlipEdge(diag)
		require.NoError(t, err)
		require.True(t, flipped)
		require.InDelta(t, math.Hypot(0.6, 0.6), tr.EdgeLength(diag), 1e-12)

		// Flipping again restores the original diagonal and its length.
		flipped, err = tr.FlipEdge(diag)
		require.NoError(t, err)
		require.True(t, flipped)
		require.InDelta(t, math.Sqrt2, tr.EdgeLength(diag), 1e-12)
	})
}

func TestNormalCoordinate_TracksCrossings(t *testing.T) {
	m, g := obtuseQuad(t)
	tr, err := intrinsic.New(m, g) // integer coordinates is the default
	require.NoError(t, err)
	diag := interiorEdge(t, m)

	// Before any flip every intrinsic edge lies on an input edge.
	for e := mesh.Edge(0); int(e) < m.EdgeCount(); e++ {
		n, ok := tr.NormalCoordinate(e)
		require.True(t, ok)
		require.Equal(t, -1, n)
	}

	_, err = tr.FlipToDelaunay()
	require.NoError(t, err)
	n, ok := tr.NormalCoordinate(diag)
	require.True(t, ok)
	require.Equal(t, 1, n, "flipped edge crosses the input diagonal once")

	// The signpost backend keeps no crossing counts.
	m2, g2 := obtuseQuad(t)
	tr2, err := intrinsic.New(m2, g2, intrinsic.WithBackend(intrinsic.BackendSignpost))
	require.NoError(t, err)
	_, ok = tr2.NormalCoordinate(0)
	require.False(t, ok)
}

func TestCommonSubdivision_CachedUntilDirty(t *testing.T) {
	m, g := icosahedron(t, 1)
	tr, err := intrinsic.New(m, g)
	require.NoError(t, err)

	cs1, err := tr.CommonSubdivision()
	require.NoError(t, err)
	cs2, err := tr.CommonSubdivision()
	require.NoError(t, err)
	require.Same(t, cs1, cs2, "no mutation, cached value")

	tr.MarkDirty()
	cs3, err := tr.CommonSubdivision()
	require.NoError(t, err)
	require.NotSame(t, cs1, cs3, "dirty mark forces a rebuild")
}
