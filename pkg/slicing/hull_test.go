package slicing

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

// TestConvexHullSquare verifies that interior and edge points are dropped
func TestConvexHullSquare(t *testing.T) {
	pts := []r2.Vec{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2},
		{X: 1, Y: 1}, // interior
		{X: 1, Y: 0}, // on an edge
		{X: 0.5, Y: 1.5},
	}

	hull, err := ConvexHull(pts)
	if err != nil {
		t.Fatalf("ConvexHull failed: %v", err)
	}
	if len(hull) != 4 {
		t.Fatalf("Expected 4 hull vertices, got %d: %v", len(hull), hull)
	}

	// Counter-clockwise order starting from the lowest-leftmost point
	want := []r2.Vec{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	for i := range want {
		if hull[i] != want[i] {
			t.Errorf("Expected hull[%d] = %v, got %v", i, want[i], hull[i])
		}
	}

	if p := Perimeter(hull); p != 8 {
		t.Errorf("Expected perimeter 8, got %f", p)
	}
}

// TestConvexHullDoesNotModifyInput verifies the input order is preserved
func TestConvexHullDoesNotModifyInput(t *testing.T) {
	pts := []r2.Vec{{X: 3, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 4}}
	orig := append([]r2.Vec(nil), pts...)

	if _, err := ConvexHull(pts); err != nil {
		t.Fatalf("ConvexHull failed: %v", err)
	}
	for i := range pts {
		if pts[i] != orig[i] {
			t.Errorf("Input modified at %d: expected %v, got %v", i, orig[i], pts[i])
		}
	}
}

// TestConvexHullDegenerate verifies that too few or collinear points fail
func TestConvexHullDegenerate(t *testing.T) {
	cases := map[string][]r2.Vec{
		"empty":     nil,
		"two":       {{X: 0, Y: 0}, {X: 1, Y: 1}},
		"collinear": {{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}},
		"repeated":  {{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}},
	}
	for name, pts := range cases {
		if _, err := ConvexHull(pts); !errors.Is(err, ErrDegenerateHull) {
			t.Errorf("%s: expected ErrDegenerateHull, got %v", name, err)
		}
	}
}

// TestPerimeterRegularPolygon checks the wrap-around edge is counted
func TestPerimeterRegularPolygon(t *testing.T) {
	n, r := 64, 5.0
	pts := make([]r2.Vec, n)
	for k := range pts {
		a := 2 * math.Pi * float64(k) / float64(n)
		pts[k] = r2.Vec{X: r * math.Cos(a), Y: r * math.Sin(a)}
	}

	hull, err := ConvexHull(pts)
	if err != nil {
		t.Fatalf("ConvexHull failed: %v", err)
	}
	if len(hull) != n {
		t.Errorf("Expected %d hull vertices, got %d", n, len(hull))
	}

	want := polygonPerimeter(n, r)
	if got := Perimeter(hull); math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected perimeter %f, got %f", want, got)
	}
}
