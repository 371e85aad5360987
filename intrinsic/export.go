package intrinsic

import (
	"gonum.org/v1/gonum/mat"

	"github.com/meshweave/intrimesh/mesh"
)

// Dense exports of the intrinsic connectivity and metric, in the layout
// the matrix text format expects: one row per face or vertex.

// FaceVertexTable returns the F×3 matrix of vertex indices per intrinsic
// face, in halfedge loop order.
func (t *Triangulation) FaceVertexTable() *mat.Dense {
	nF := t.tri.FaceCount()
	m := mat.NewDense(nF, 3, nil)
	for f := 0; f < nF; f++ {
		vs := t.tri.FaceVertices(mesh.Face(f))
		for k, v := range vs {
			m.Set(f, k, float64(v))
		}
	}

	return m
}

// FaceLengthTable returns the F×3 matrix of intrinsic side lengths per
// face: columns are the sides corner0-corner1, corner1-corner2,
// corner2-corner0.
func (t *Triangulation) FaceLengthTable() *mat.Dense {
	nF := t.tri.FaceCount()
	m := mat.NewDense(nF, 3, nil)
	for f := 0; f < nF; f++ {
		l := t.faceLengths(mesh.Face(f))
		for k := 0; k < 3; k++ {
			m.Set(f, k, l[k])
		}
	}

	return m
}

// VertexPositionMatrix returns the V×3 matrix of embedded intrinsic vertex
// positions, sampled from the input surface.
func (t *Triangulation) VertexPositionMatrix() (*mat.Dense, error) {
	pos, err := t.SampleFromInput()
	if err != nil {
		return nil, err
	}
	m := mat.NewDense(len(pos), 3, nil)
	for v, p := range pos {
		m.Set(v, 0, p.X)
		m.Set(v, 1, p.Y)
		m.Set(v, 2, p.Z)
	}

	return m, nil
}
