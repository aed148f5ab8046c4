// Package planes derives horizontal reference planes from anatomical
// landmarks or from the top of a segment, and measures the vertical
// distance between them.
package planes

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"headmetrics/pkg/mesh"
)

// ErrInvalidLandmark is returned for a missing or non-finite landmark.
var ErrInvalidLandmark = errors.New("invalid landmark")

// ErrInvalidBox is returned when a plane is requested above an empty box.
var ErrInvalidBox = errors.New("invalid bounding box")

// Plane is a horizontal plane (normal +Z) at height Z.
type Plane struct {
	Name string
	Z    float64
}

// Normal returns the plane normal, always +Z.
func (p Plane) Normal() r3.Vec {
	return r3.Vec{Z: 1}
}

// Origin returns the point of the plane above the RAS origin.
func (p Plane) Origin() r3.Vec {
	return r3.Vec{Z: p.Z}
}

// FromLandmark returns the horizontal plane through a marked point.
func FromLandmark(name string, point r3.Vec) (Plane, error) {
	if !finite(point) {
		return Plane{}, fmt.Errorf("%w: %s at %v", ErrInvalidLandmark, name, point)
	}
	return Plane{Name: name, Z: point.Z}, nil
}

// AboveBox returns the horizontal plane offset mm above the top of box.
func AboveBox(name string, box mesh.Box, offset float64) (Plane, error) {
	if box.IsEmpty() || !finite(box.Max) {
		return Plane{}, fmt.Errorf("%w: %s", ErrInvalidBox, name)
	}
	return Plane{Name: name, Z: box.Max.Z + offset}, nil
}

// Distance returns the vertical distance between two horizontal planes.
func Distance(a, b Plane) float64 {
	return math.Abs(b.Z - a.Z)
}

// ParsePoint parses "x,y,z" in RAS millimetres.
func ParsePoint(s string) (r3.Vec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return r3.Vec{}, fmt.Errorf("%w: expected x,y,z, got %q", ErrInvalidLandmark, s)
	}
	var c [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("%w: coordinate %q: %v", ErrInvalidLandmark, p, err)
		}
		c[i] = v
	}
	pt := r3.Vec{X: c[0], Y: c[1], Z: c[2]}
	if !finite(pt) {
		return r3.Vec{}, fmt.Errorf("%w: %q is not finite", ErrInvalidLandmark, s)
	}
	return pt, nil
}

func finite(v r3.Vec) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
