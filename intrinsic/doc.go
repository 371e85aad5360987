// Package intrinsic maintains an intrinsic triangulation of a fixed input
// surface: a second triangulation covering the same surface, tracked by
// per-edge lengths and connectivity instead of embedded coordinates.
//
// A Triangulation is built over a read-only input mesh and geometry. It
// starts as a combinatorial copy of the input with the input's edge lengths,
// and is then mutated in place:
//
//   - FlipToDelaunay runs worklist edge flips until every interior edge
//     satisfies the local Delaunay condition (opposite corner angles summing
//     to at most π), or an attempt cap is reached. Non-convergence is a
//     recoverable condition reported in the result, never an error.
//   - DelaunayRefine inserts Steiner vertices (circumcenters, with a
//     longest-edge midpoint fallback) until every face meets a minimum
//     angle bound and an optional circumradius bound, under an optional
//     insertion cap.
//
// Two backends represent the geometric state needed to flip and insert,
// chosen once at construction:
//
//   - BackendSignpost keeps per-halfedge angular offsets at each vertex
//     (floating point; simple, not robust near degeneracies).
//   - BackendIntegerCoordinates additionally keeps exact integer normal
//     coordinates — per-edge counts of crossings with input edges — updated
//     by pure integer arithmetic on flips, which keeps the combinatorial
//     relationship to the input exact under long flip sequences.
//
// Every intrinsic vertex knows its location on the input surface as a
// surface.Point; TraceEdges recovers, per intrinsic edge, the polyline of
// crossings with the input mesh. The common subdivision of the two
// triangulations is built lazily via CommonSubdivision and invalidated by
// any flip or insertion.
//
// A Triangulation is not safe for concurrent use; shard by instance.
package intrinsic
