// Package overlay builds the common subdivision of an input triangulation
// and an intrinsic triangulation drawn over it.
//
// The common subdivision is the polygonal complex obtained by cutting each
// intrinsic face along the input edges that cross it. Its vertex set is the
// union of the two triangulations' vertices and the pairwise edge
// crossings; every subdivision vertex knows where it sits on both sides
// (SourceA on the input, SourceB on the intrinsic triangulation), and
// every subdivision face knows its parent face on each side. This double
// parentage is what makes exact attribute transfer between the two
// triangulations possible.
//
// The builder is purely combinatorial: it consumes traced edge polylines
// and orders crossings along edges, never solving for intersections
// itself. Cells of the chord arrangement inside a triangle have all their
// corners on the triangle's boundary, hence are convex, so a fan suffices
// to triangulate them.
package overlay
