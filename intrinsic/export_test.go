package intrinsic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meshweave/intrimesh/intrinsic"
	"github.com/meshweave/intrimesh/mesh"
)

func TestExportTables(t *testing.T) {
	m, g := icosahedron(t, 1)
	tr, err := intrinsic.New(m, g)
	require.NoError(t, err)

	fv := tr.FaceVertexTable()
	r, c := fv.Dims()
	require.Equal(t, tr.FaceCount(), r)
	require.Equal(t, 3, c)
	for f := 0; f < r; f++ {
		vs := tr.Mesh().FaceVertices(mesh.Face(f))
		for k := 0; k < 3; k++ {
			require.Equal(t, float64(vs[k]), fv.At(f, k))
		}
	}

	fl := tr.FaceLengthTable()
	r, c = fl.Dims()
	require.Equal(t, tr.FaceCount(), r)
	require.Equal(t, 3, c)
	for f := 0; f < r; f++ {
		for k := 0; k < 3; k++ {
			require.Greater(t, fl.At(f, k), 0.0)
		}
	}

	vp, err := tr.VertexPositionMatrix()
	require.NoError(t, err)
	r, c = vp.Dims()
	require.Equal(t, tr.VertexCount(), r)
	require.Equal(t, 3, c)
	for v := 0; v < r; v++ {
		p := g.Position(mesh.Vertex(v))
		require.InDelta(t, p.X, vp.At(v, 0), 1e-12)
		require.InDelta(t, p.Y, vp.At(v, 1), 1e-12)
		require.InDelta(t, p.Z, vp.At(v, 2), 1e-12)
	}
}
