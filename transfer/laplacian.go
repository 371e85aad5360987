package transfer

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"

	"github.com/meshweave/intrimesh/intrinsic"
	"github.com/meshweave/intrimesh/mesh"
)

// CotanLaplacian assembles the cotangent-weight Laplacian of t as a
// |V|×|V| symmetric sparse matrix. The weight of edge (i, j) is
// (cot α + cot β)/2 over the corner angles opposite the edge, computed from
// the intrinsic edge lengths; each diagonal entry is the negated sum of its
// row. Boundary edges contribute a single cotangent.
func CotanLaplacian(t *intrinsic.Triangulation) (*sparse.CSR, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: triangulation", ErrNilInput)
	}

	m := t.Mesh()
	n := m.VertexCount()
	coo := sparse.NewCOO(n, n, nil, nil, nil)

	// Accumulate per-corner cotangents onto the opposite edge. Duplicate
	// entries are summed when the COO is compressed, so each corner can be
	// written independently.
	for f := mesh.Face(0); int(f) < m.FaceCount(); f++ {
		hs, err := m.TriangleHalfedges(f)
		if err != nil {
			return nil, err
		}
		var lens [3]float64
		for k := 0; k < 3; k++ {
			lens[k] = t.EdgeLength(m.EdgeOf(hs[k]))
		}
		area := heronArea(lens[0], lens[1], lens[2])
		if !(area > 0) {
			return nil, fmt.Errorf("%w: face %d (lengths %g, %g, %g)",
				ErrDegenerateFace, f, lens[0], lens[1], lens[2])
		}
		for k := 0; k < 3; k++ {
			// Corner k is flanked by sides hs[k] and hs[(k+2)%3]; the side
			// opposite it is hs[(k+1)%3].
			opp := hs[(k+1)%3]
			a := lens[(k+1)%3]
			b := lens[k]
			c := lens[(k+2)%3]
			w := (b*b + c*c - a*a) / (8 * area) // cot/2 at corner k

			i := int(m.Origin(opp))
			j := int(m.Target(opp))
			coo.Set(i, j, w)
			coo.Set(j, i, w)
			coo.Set(i, i, -w)
			coo.Set(j, j, -w)
		}
	}

	return coo.ToCSR(), nil
}

// InterpolationMatrix builds the |V_B|×|V_A| matrix that restates a scalar
// field on the input vertices (columns) at the intrinsic vertices (rows).
// Each row holds the barycentric coordinates of one intrinsic vertex inside
// its carrier input face, so rows are convex: at most three non-zeros
// summing to one.
func InterpolationMatrix(t *intrinsic.Triangulation) (*sparse.CSR, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: triangulation", ErrNilInput)
	}

	input := t.InputMesh()
	coo := sparse.NewCOO(t.VertexCount(), input.VertexCount(), nil, nil, nil)

	for v := 0; v < t.VertexCount(); v++ {
		fp, err := t.VertexLocation(mesh.Vertex(v)).NormalizeInFace(input)
		if err != nil {
			return nil, err
		}
		vs := input.FaceVertices(fp.Face)
		for k := 0; k < 3; k++ {
			if fp.FaceBary[k] > 0 {
				coo.Set(v, int(vs[k]), fp.FaceBary[k])
			}
		}
	}

	return coo.ToCSR(), nil
}

// heronArea returns the area of a triangle with side lengths a, b, c,
// using the numerically stable ordering of Kahan's formula.
func heronArea(a, b, c float64) float64 {
	if a < b {
		a, b = b, a
	}
	if a < c {
		a, c = c, a
	}
	if b < c {
		b, c = c, b
	}
	arg := (a + (b + c)) * (c - (a - b)) * (c + (a - b)) * (a + (b - c))
	if arg <= 0 {
		return 0
	}

	return 0.25 * math.Sqrt(arg)
}
