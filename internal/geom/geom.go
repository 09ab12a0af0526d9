// Package geom provides the 2D geometry primitives used for slice detection.
package geom

import "math"

// Point is a position on the game screen.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// SegmentIntersectsCircle reports whether the segment p1→p2 intersects the
// circle at center with radius r.
//
// The segment is parametrized as p1 + t·(p2−p1), t ∈ [0,1], and
// |p1 + t·d − center|² = r² is solved for real roots. The segment intersects
// when either root lies in [0,1], or when the roots straddle the interval
// (t1 < 0 and t2 > 1): both endpoints are outside but the segment passes
// straight through the circle.
//
// A zero-length segment intersects iff p1 lies within the circle.
func SegmentIntersectsCircle(p1, p2, center Point, r float64) bool {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	fx := p1.X - center.X
	fy := p1.Y - center.Y

	a := dx*dx + dy*dy
	if a == 0 {
		return fx*fx+fy*fy <= r*r
	}

	b := 2 * (fx*dx + fy*dy)
	c := fx*fx + fy*fy - r*r

	disc := b*b - 4*a*c
	if disc < 0 {
		return false
	}

	disc = math.Sqrt(disc)
	t1 := (-b - disc) / (2 * a)
	t2 := (-b + disc) / (2 * a)

	return (0 <= t1 && t1 <= 1) || (0 <= t2 && t2 <= 1) || (t1 < 0 && t2 > 1)
}

// TrailIntersectsCircle reports whether any consecutive pair of trail points
// forms a segment intersecting the circle. Trails with fewer than two points
// never intersect.
func TrailIntersectsCircle(trail []Point, center Point, r float64) bool {
	for i := 1; i < len(trail); i++ {
		if SegmentIntersectsCircle(trail[i-1], trail[i], center, r) {
			return true
		}
	}
	return false
}
