// Package intrimesh maintains intrinsic triangulations of manifold surface
// meshes — alternate triangulations of the same underlying surface, tracked
// purely by edge lengths and connectivity rather than embedded coordinates.
//
// What lives here?
//
//	An in-memory engine that, given a triangulated surface, produces and
//	maintains a second triangulation with provable quality guarantees and
//	exact correspondence data between the two:
//		• Halfedge substrate: arena-indexed manifold connectivity with O(1) flips and splits
//		• Surface points: vertex / edge / face locations with barycentric coordinates
//		• Intrinsic core: edge-length geometry with two backends
//		  (exact integer normal coordinates vs. floating signposts)
//		• Delaunay flipping: worklist edge flips to the intrinsic Delaunay state
//		• Delaunay refinement: Steiner insertion to minimum-angle and size bounds
//		• Common subdivision: the exact overlay mesh relating both triangulations
//		• Attribute transfer: cotangent Laplacians, interpolation and L2 systems
//
// Everything is organized under single-concern subpackages:
//
//	mesh/      — combinatorial halfedge arena (vertices, edges, faces, halfedges)
//	surface/   — surface points and input vertex-position geometry
//	intrinsic/ — the triangulation core, backends, flipper, refiner, tracing
//	overlay/   — common subdivision construction and attribute copying
//	transfer/  — sparse operator assembly (Laplacian, interpolation, L2 transfer)
//	matio/     — dense/sparse matrix text serialization
//	report/    — per-run quality and statistics tables
//
// Quick ASCII example:
//
//	    k               k
//	   / \             /|\
//	  i───j    =>     i | j
//	   \ /             \|/
//	    l               l
//
//	an edge flip replaces diagonal i─j by k─l when the two opposite corner
//	angles sum to more than π — the local Delaunay condition.
//
// The engine is single-threaded: shard by independent instance for
// parallelism, never by region of one triangulation.
//
//	go get github.com/meshweave/intrimesh
package intrimesh
