package intrinsic

import (
	"math"

	"github.com/golang/geo/r2"
)

// Pure length-based trigonometry. Everything here works from the three side
// lengths of a triangle via the law of cosines, never from embedded
// coordinates: this is what makes the triangulation "intrinsic".

// cornerAngle returns the angle opposite side `opp` in a triangle with the
// other two sides b and c, clamped into [0, π] against round-off.
func cornerAngle(opp, b, c float64) float64 {
	q := (b*b + c*c - opp*opp) / (2 * b * c)
	if q > 1 {
		q = 1
	}
	if q < -1 {
		q = -1
	}

	return math.Acos(q)
}

// cornerCot returns the cotangent of the angle opposite side `opp`.
// Degenerate triangles give ±Inf, which the Delaunay test tolerates.
func cornerCot(opp, b, c float64) float64 {
	area := triangleArea(opp, b, c)
	if area == 0 {
		if b*b+c*c >= opp*opp {
			return math.Inf(1)
		}
		return math.Inf(-1)
	}

	return (b*b + c*c - opp*opp) / (4 * area)
}

// triangleArea returns the area of a triangle with sides a, b, c using the
// numerically stable form of Heron's formula (Kahan). Non-triangles give 0.
func triangleArea(a, b, c float64) float64 {
	// Sort descending: a >= b >= c.
	if a < b {
		a, b = b, a
	}
	if a < c {
		a, c = c, a
	}
	if b < c {
		b, c = c, b
	}
	s := (a + (b + c)) * (c - (a - b)) * (c + (a - b)) * (a + (b - c))
	if s <= 0 {
		return 0
	}

	return 0.25 * math.Sqrt(s)
}

// circumradius returns the circumradius of a triangle with sides a, b, c.
func circumradius(a, b, c float64) float64 {
	area := triangleArea(a, b, c)
	if area == 0 {
		return math.Inf(1)
	}

	return a * b * c / (4 * area)
}

// rotateCW rotates d clockwise by angle radians.
func rotateCW(d r2.Point, angle float64) r2.Point {
	s, c := math.Sincos(angle)

	return r2.Point{X: c*d.X + s*d.Y, Y: -s*d.X + c*d.Y}
}

// layoutFromLengths places a triangle with side lengths l01, l12, l20 in
// the plane: corner 0 at the origin, corner 1 at (l01, 0), corner 2 above
// the axis. Degenerate triangles flatten corner 2 onto the axis rather than
// failing; callers gate on area where it matters.
func layoutFromLengths(l01, l12, l20 float64) [3]r2.Point {
	x := (l01*l01 + l20*l20 - l12*l12) / (2 * l01)
	y2 := l20*l20 - x*x
	y := 0.0
	if y2 > 0 {
		y = math.Sqrt(y2)
	}

	return [3]r2.Point{{}, {X: l01}, {X: x, Y: y}}
}

// placeAcross positions a point at distances rA from a and rB from b, on
// the opposite side of line a-b from `inside`. Used to unfold a neighboring
// triangle across a shared edge.
func placeAcross(a, b, inside r2.Point, rA, rB float64) r2.Point {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	l := math.Sqrt(l2)
	x := (rA*rA - rB*rB + l2) / (2 * l) // along a->b
	y2 := rA*rA - x*x
	y := 0.0
	if y2 > 0 {
		y = math.Sqrt(y2)
	}
	dir := ab.Mul(1 / l)
	perp := r2.Point{X: -dir.Y, Y: dir.X}
	// Choose the side away from `inside`.
	if inside.Sub(a).Dot(perp) > 0 {
		perp = perp.Mul(-1)
	}

	return a.Add(dir.Mul(x)).Add(perp.Mul(y))
}

// baryInLayout returns the barycentric coordinates of p against triangle
// corners c in the plane.
func baryInLayout(c [3]r2.Point, p r2.Point) [3]float64 {
	v0 := c[1].Sub(c[0])
	v1 := c[2].Sub(c[0])
	v2 := p.Sub(c[0])
	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)
	denom := d00*d11 - d01*d01
	b1 := (d11*d20 - d01*d21) / denom
	b2 := (d00*d21 - d01*d20) / denom

	return [3]float64{1 - b1 - b2, b1, b2}
}

// circumcenter2D returns the circumcenter of triangle c in the plane.
func circumcenter2D(c [3]r2.Point) r2.Point {
	ax, ay := c[0].X, c[0].Y
	bx, by := c[1].X, c[1].Y
	cx, cy := c[2].X, c[2].Y
	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	ux := ((ax*ax+ay*ay)*(by-cy) + (bx*bx+by*by)*(cy-ay) + (cx*cx+cy*cy)*(ay-by)) / d
	uy := ((ax*ax+ay*ay)*(cx-bx) + (bx*bx+by*by)*(ax-cx) + (cx*cx+cy*cy)*(bx-ax)) / d

	return r2.Point{X: ux, Y: uy}
}
