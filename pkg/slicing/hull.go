package slicing

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrDegenerateHull is returned when a point set has no 2D hull with
// positive area: fewer than three points, or every point collinear.
var ErrDegenerateHull = errors.New("degenerate convex hull")

// ConvexHull returns the vertices of the convex hull of pts in
// counter-clockwise order, starting from the lowest-leftmost point.
// Collinear boundary points are dropped, so consecutive vertices are
// always adjacent hull edges. The input slice is not modified.
func ConvexHull(pts []r2.Vec) ([]r2.Vec, error) {
	if len(pts) < 3 {
		return nil, ErrDegenerateHull
	}

	sorted := make([]r2.Vec, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X == sorted[j].X {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	// Andrew's monotone chain: lower hull left to right, then upper hull
	// right to left, popping every turn that is not strictly to the left.
	hull := make([]r2.Vec, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// The last point repeats the first.
	hull = hull[:len(hull)-1]

	if len(hull) < 3 {
		return nil, ErrDegenerateHull
	}
	return hull, nil
}

// turn is the z component of (b-a)×(c-a); positive for a left turn.
func turn(a, b, c r2.Vec) float64 {
	return r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
}

// Perimeter sums the Euclidean length of each edge of a closed polygon,
// wrapping from the last vertex back to the first.
func Perimeter(poly []r2.Vec) float64 {
	if len(poly) < 2 {
		return 0
	}
	var sum float64
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		sum += r2.Norm(r2.Sub(q, p))
	}
	return sum
}
