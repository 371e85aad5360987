// Package mesh provides the combinatorial halfedge substrate shared by the
// input surface and every intrinsic triangulation layered over it.
//
// Representation
//
// All elements live in flat arenas addressed by dense integer handles
// (Vertex, Edge, Face, Halfedge). Halfedges are stored in twin pairs, so the
// twin of halfedge h is h^1 and the edge of h is h>>1 — no pointer graph,
// no relocation. Boundary halfedges exist explicitly with Face == InvalidFace
// and are linked into boundary loops, which keeps vertex circulation uniform
// at interior and boundary vertices alike.
//
// Mutation
//
// The three mutations needed by intrinsic triangulation maintenance are
// local index rewrites:
//
//   - FlipEdge: replace the diagonal of two adjacent triangles; element
//     indices are stable, only connectivity changes.
//   - SplitFace: insert a vertex inside a triangle (1 face becomes 3).
//   - SplitEdge: insert a vertex on an edge, splitting the adjacent
//     triangle(s).
//
// Each mutation either completes fully or is rejected up front; a partially
// applied mutation is never observable.
//
// Construction validates manifoldness and orientability and fails with the
// package sentinels (ErrNonManifold, ErrNonOrientable, ErrInvalidFaceList,
// ErrNotTriangulated) on unsupported input.
package mesh
