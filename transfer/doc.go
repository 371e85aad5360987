// Package transfer assembles the sparse operators that move data between an
// input mesh and an intrinsic triangulation sitting on top of it.
//
// Three families of operators are provided:
//
//   - CotanLaplacian builds the cotangent-weight Laplacian of an intrinsic
//     triangulation from its edge lengths alone. On a Delaunay triangulation
//     all off-diagonal weights are non-negative, which makes the operator a
//     well-behaved choice for diffusion and smoothing problems.
//
//   - InterpolationMatrix expresses every intrinsic vertex as a convex
//     combination of input vertices, so scalar fields sampled on the input
//     mesh can be restated on the intrinsic vertex set by a single
//     matrix-vector product.
//
//   - AtoBMatrices / BtoAMatrices build the Galerkin L2-projection systems
//     between the two piecewise-linear function spaces, integrated exactly
//     over the common subdivision. Solving lhs·x = rhs·f yields the L2-best
//     representation of f in the target space.
//
// All operators are returned in compressed sparse row form from
// github.com/james-bowman/sparse, which satisfies gonum's mat.Matrix and can
// be fed directly to gonum solvers.
package transfer
