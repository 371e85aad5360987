package mesh_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meshweave/intrimesh/mesh"
)

// tetrahedron returns the closed triangle mesh on four vertices.
func tetrahedron(t *testing.T) *mesh.Mesh {
	t.Helper()
	m, err := mesh.NewTriangleMeshFromFaces(4, [][]int{
		{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3},
	})
	require.NoError(t, err)

	return m
}

// quadStrip returns two triangles sharing the diagonal 0-2 of a quad, so the
// mesh has a boundary and exactly one interior edge.
func quadStrip(t *testing.T) *mesh.Mesh {
	t.Helper()
	m, err := mesh.NewTriangleMeshFromFaces(4, [][]int{
		{0, 1, 2}, {0, 2, 3},
	})
	require.NoError(t, err)

	return m
}

func TestNewTriangleMeshFromFaces_Tetrahedron(t *testing.T) {
	m := tetrahedron(t)

	require.Equal(t, 4, m.VertexCount())
	require.Equal(t, 6, m.EdgeCount())
	require.Equal(t, 4, m.FaceCount())
	require.Equal(t, 12, m.HalfedgeCount())
	require.False(t, m.HasBoundary())

	// Euler formula for a sphere: V - E + F = 2.
	require.Equal(t, 2, m.VertexCount()-m.EdgeCount()+m.FaceCount())
	require.NoError(t, m.Validate())
}

func TestMesh_Involutions(t *testing.T) {
	m := tetrahedron(t)

	for h := mesh.Halfedge(0); int(h) < m.HalfedgeCount(); h++ {
		require.Equal(t, h, m.Twin(m.Twin(h)), "twin is an involution")
		require.Equal(t, m.Target(h), m.Origin(m.Twin(h)))
		require.Equal(t, h, m.Next(m.Next(m.Next(h))), "triangle loop closes")
		require.Equal(t, h, m.Next(m.Prev(h)))
		require.Equal(t, m.EdgeOf(h), m.EdgeOf(m.Twin(h)))
	}
}

func TestMesh_VertexCirculation(t *testing.T) {
	m := tetrahedron(t)

	for v := mesh.Vertex(0); int(v) < m.VertexCount(); v++ {
		seen := 0
		m.ForEachOutgoing(v, func(h mesh.Halfedge) bool {
			require.Equal(t, v, m.Origin(h))
			seen++
			return true
		})
		require.Equal(t, m.VertexDegree(v), seen)
		require.Equal(t, 3, seen, "tetrahedron vertices have degree 3")
	}
}

func TestMesh_BoundaryQueries(t *testing.T) {
	m := quadStrip(t)

	require.True(t, m.HasBoundary())
	require.Equal(t, 4, m.BoundaryHalfedgeCount())

	interior := 0
	for e := mesh.Edge(0); int(e) < m.EdgeCount(); e++ {
		if !m.IsBoundaryEdge(e) {
			interior++
			u, w := m.EdgeVertices(e)
			require.ElementsMatch(t, []mesh.Vertex{0, 2}, []mesh.Vertex{u, w})
		}
	}
	require.Equal(t, 1, interior)

	for v := mesh.Vertex(0); v < 4; v++ {
		require.True(t, m.IsBoundaryVertex(v))
	}
}

func TestNewFromFaces_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		nVerts int
		faces  [][]int
		want   error
	}{
		{"vertex index out of range", 3, [][]int{{0, 1, 5}}, mesh.ErrInvalidFaceList},
		{"degenerate face", 3, [][]int{{0, 1, 1}}, mesh.ErrInvalidFaceList},
		{"too few sides", 3, [][]int{{0, 1}}, mesh.ErrInvalidFaceList},
		{"unreferenced vertex", 4, [][]int{{0, 1, 2}}, mesh.ErrInvalidFaceList},
		{
			"edge shared by three faces", 5,
			[][]int{{0, 1, 2}, {1, 0, 3}, {0, 1, 4}},
			mesh.ErrNonManifold,
		},
		{
			"inconsistent orientation", 4,
			[][]int{{0, 1, 2}, {0, 1, 3}},
			mesh.ErrNonOrientable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mesh.NewFromFaces(tc.nVerts, tc.faces)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNewTriangleMeshFromFaces_RejectsQuads(t *testing.T) {
	_, err := mesh.NewTriangleMeshFromFaces(4, [][]int{{0, 1, 2, 3}})
	require.ErrorIs(t, err, mesh.ErrNotTriangulated)
}

func TestFlipEdge_Quad(t *testing.T) {
	m := quadStrip(t)

	var diag mesh.Edge = -1
	for e := mesh.Edge(0); int(e) < m.EdgeCount(); e++ {
		if !m.IsBoundaryEdge(e) {
			diag = e
		}
	}
	require.True(t, m.CanFlip(diag))
	require.NoError(t, m.FlipEdge(diag))

	// Counts are unchanged; the edge now joins the other diagonal.
	require.Equal(t, 4, m.VertexCount())
	require.Equal(t, 5, m.EdgeCount())
	require.Equal(t, 2, m.FaceCount())
	u, w := m.EdgeVertices(diag)
	require.ElementsMatch(t, []mesh.Vertex{1, 3}, []mesh.Vertex{u, w})
	require.NoError(t, m.Validate())

	// Flipping back restores the original diagonal.
	require.NoError(t, m.FlipEdge(diag))
	u, w = m.EdgeVertices(diag)
	require.ElementsMatch(t, []mesh.Vertex{0, 2}, []mesh.Vertex{u, w})
	require.NoError(t, m.Validate())
}

func TestFlipEdge_Rejections(t *testing.T) {
	m := quadStrip(t)
	for e := mesh.Edge(0); int(e) < m.EdgeCount(); e++ {
		if m.IsBoundaryEdge(e) {
			require.False(t, m.CanFlip(e))
			require.ErrorIs(t, m.FlipEdge(e), mesh.ErrUnflippable)
		}
	}

	// On a tetrahedron every flip would duplicate an existing edge.
	tet := tetrahedron(t)
	for e := mesh.Edge(0); int(e) < tet.EdgeCount(); e++ {
		require.ErrorIs(t, tet.FlipEdge(e), mesh.ErrUnflippable)
	}
}

func TestSplitFace_Tetrahedron(t *testing.T) {
	m := tetrahedron(t)
	before := m.FaceVertices(0)

	c, err := m.SplitFace(0)
	require.NoError(t, err)
	require.Equal(t, mesh.Vertex(4), c)

	require.Equal(t, 5, m.VertexCount())
	require.Equal(t, 9, m.EdgeCount())
	require.Equal(t, 6, m.FaceCount())
	require.Equal(t, 2, m.VertexCount()-m.EdgeCount()+m.FaceCount())
	require.Equal(t, 3, m.VertexDegree(c))
	require.NoError(t, m.Validate())

	// Each of the three new corner triangles keeps two original vertices.
	m.ForEachOutgoing(c, func(h mesh.Halfedge) bool {
		require.Contains(t, before, m.Target(h))
		return true
	})
}

func TestSplitEdge_InteriorAndBoundary(t *testing.T) {
	m := tetrahedron(t)
	c, err := m.SplitEdge(0)
	require.NoError(t, err)
	require.Equal(t, mesh.Vertex(4), c)
	require.Equal(t, 5, m.VertexCount())
	require.Equal(t, 9, m.EdgeCount())
	require.Equal(t, 6, m.FaceCount())
	require.Equal(t, 4, m.VertexDegree(c))
	require.NoError(t, m.Validate())

	// Splitting a boundary edge grows one face instead of two.
	strip := quadStrip(t)
	var boundary mesh.Edge = -1
	for e := mesh.Edge(0); int(e) < strip.EdgeCount(); e++ {
		if strip.IsBoundaryEdge(e) {
			boundary = e
			break
		}
	}
	c, err = strip.SplitEdge(boundary)
	require.NoError(t, err)
	require.Equal(t, 5, strip.VertexCount())
	require.Equal(t, 7, strip.EdgeCount())
	require.Equal(t, 3, strip.FaceCount())
	require.Equal(t, 3, strip.VertexDegree(c))
	require.NoError(t, strip.Validate())
}

func TestClone_IsIndependent(t *testing.T) {
	m := tetrahedron(t)
	c := m.Clone()

	_, err := m.SplitFace(0)
	require.NoError(t, err)

	require.Equal(t, 6, m.FaceCount())
	require.Equal(t, 4, c.FaceCount(), "clone does not see later splits")
	require.NoError(t, c.Validate())
}
