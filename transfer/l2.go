package transfer

import (
	"fmt"

	"github.com/james-bowman/sparse"

	"github.com/meshweave/intrimesh/mesh"
	"github.com/meshweave/intrimesh/overlay"
	"github.com/meshweave/intrimesh/surface"
)

// AtoBMatrices builds the Galerkin system that projects a piecewise-linear
// field on the input mesh A onto the intrinsic vertex set B in the L2 sense.
// lhs is the |V_B|×|V_B| mass matrix of B's hat functions and rhs the
// |V_B|×|V_A| mixed mass matrix, both integrated exactly over the common
// subdivision; the projection of f solves lhs·x = rhs·f. geomA supplies the
// embedding used for subdivision face areas and must belong to A.
func AtoBMatrices(cs *overlay.CommonSubdivision, geomA *surface.Geometry) (lhs, rhs *sparse.CSR, err error) {
	areas, err := subdivisionAreas(cs, geomA)
	if err != nil {
		return nil, nil, err
	}

	lhs, err = massMatrix(cs, areas, cs.MeshB(), cs.SourceB, cs.MeshB(), cs.SourceB)
	if err != nil {
		return nil, nil, err
	}
	rhs, err = massMatrix(cs, areas, cs.MeshB(), cs.SourceB, cs.MeshA(), cs.SourceA)
	if err != nil {
		return nil, nil, err
	}

	return lhs, rhs, nil
}

// BtoAMatrices builds the reverse projection system, from the intrinsic
// vertex set B back onto the input mesh A: lhs is the |V_A|×|V_A| mass
// matrix of A's hat functions and rhs the |V_A|×|V_B| mixed mass matrix.
func BtoAMatrices(cs *overlay.CommonSubdivision, geomA *surface.Geometry) (lhs, rhs *sparse.CSR, err error) {
	areas, err := subdivisionAreas(cs, geomA)
	if err != nil {
		return nil, nil, err
	}

	lhs, err = massMatrix(cs, areas, cs.MeshA(), cs.SourceA, cs.MeshA(), cs.SourceA)
	if err != nil {
		return nil, nil, err
	}
	rhs, err = massMatrix(cs, areas, cs.MeshA(), cs.SourceA, cs.MeshB(), cs.SourceB)
	if err != nil {
		return nil, nil, err
	}

	return lhs, rhs, nil
}

// subdivisionAreas embeds the subdivision vertices through geomA and returns
// the area of every subdivision triangle.
func subdivisionAreas(cs *overlay.CommonSubdivision, geomA *surface.Geometry) ([]float64, error) {
	if cs == nil {
		return nil, fmt.Errorf("%w: subdivision", ErrNilInput)
	}
	if geomA == nil {
		return nil, fmt.Errorf("%w: geometry", ErrNilInput)
	}
	if geomA.Mesh() != cs.MeshA() {
		return nil, fmt.Errorf("%w: geometry is not on the subdivision's input mesh", ErrGeometryMismatch)
	}

	pos, err := cs.InterpolateAcrossA(geomA.Positions())
	if err != nil {
		return nil, err
	}

	areas := make([]float64, cs.FaceCount())
	for i := range areas {
		tri := cs.Triangle(i)
		u := pos[tri[1]].Sub(pos[tri[0]])
		w := pos[tri[2]].Sub(pos[tri[0]])
		areas[i] = 0.5 * u.Cross(w).Norm()
	}

	return areas, nil
}

// massMatrix integrates products of hat functions over the subdivision.
// Rows index vertices of rowM with subdivision corners located by rowSrc;
// columns likewise for colM and colSrc. On each subdivision triangle both
// factors are linear, so the exact integral is
// (area/12)·[(Σf_s)(Σg_s) + Σ f_s·g_s] over the three corner values.
func massMatrix(cs *overlay.CommonSubdivision, areas []float64,
	rowM *mesh.Mesh, rowSrc func(int) surface.Point,
	colM *mesh.Mesh, colSrc func(int) surface.Point) (*sparse.CSR, error) {

	coo := sparse.NewCOO(rowM.VertexCount(), colM.VertexCount(), nil, nil, nil)

	for i := 0; i < cs.FaceCount(); i++ {
		tri := cs.Triangle(i)
		rows, err := cornerHats(rowM, rowSrc, tri)
		if err != nil {
			return nil, err
		}
		cols, err := cornerHats(colM, colSrc, tri)
		if err != nil {
			return nil, err
		}

		scale := areas[i] / 12
		for vi, fw := range rows {
			fSum := fw[0] + fw[1] + fw[2]
			for vj, gw := range cols {
				gSum := gw[0] + gw[1] + gw[2]
				dot := fw[0]*gw[0] + fw[1]*gw[1] + fw[2]*gw[2]
				coo.Set(vi, vj, scale*(fSum*gSum+dot))
			}
		}
	}

	return coo.ToCSR(), nil
}

// cornerHats evaluates every hat function of m that is non-zero somewhere on
// the subdivision triangle, returning its values at the three corners.
func cornerHats(m *mesh.Mesh, src func(int) surface.Point, tri [3]int) (map[int][3]float64, error) {
	out := make(map[int][3]float64, 6)
	for s := 0; s < 3; s++ {
		p := src(tri[s])
		switch p.Type {
		case surface.AtVertex:
			addHat(out, int(p.Vertex), s, 1)

		case surface.OnEdge:
			u, w := m.EdgeVertices(p.Edge)
			addHat(out, int(u), s, 1-p.EdgeT)
			addHat(out, int(w), s, p.EdgeT)

		case surface.InFace:
			vs := m.FaceVertices(p.Face)
			for k := 0; k < 3; k++ {
				addHat(out, int(vs[k]), s, p.FaceBary[k])
			}

		default:
			return nil, fmt.Errorf("%w: corner source %v", surface.ErrPointType, p.Type)
		}
	}

	return out, nil
}

func addHat(acc map[int][3]float64, v, corner int, w float64) {
	if w == 0 {
		return
	}
	vec := acc[v]
	vec[corner] += w
	acc[v] = vec
}
