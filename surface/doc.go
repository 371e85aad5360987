// Package surface locates points on a triangulated surface and derives
// metric quantities from embedded vertex positions.
//
// A Point is a tagged location on a mesh: at a vertex, on an edge (one
// barycentric coordinate along the edge), or inside a face (three
// barycentric coordinates against the face corners). Coordinates are
// non-negative and sum to one; NormalizeInFace promotes any point to a face
// representative, and ReduceNearEdge collapses a face point with a vanishing
// coordinate to the equivalent edge point without moving it.
//
// A Geometry pairs a mesh with per-vertex 3D positions and answers the
// embedding-dependent questions the intrinsic machinery needs at
// construction and export time: edge lengths, corner angles, face areas,
// planar face layouts, and barycentric interpolation of positions or
// arbitrary per-vertex attributes.
package surface
