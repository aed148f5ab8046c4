package slicing

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"headmetrics/pkg/mesh"
)

// Segment is one line cell of a cross-section: the chord where a single
// triangle crosses the cutting plane.
type Segment [2]r3.Vec

// CrossSection is the result of cutting a mesh with a horizontal plane.
type CrossSection struct {
	// Height is the Z coordinate of the cutting plane.
	Height float64

	// Segments holds one cell per triangle that crosses the plane.
	Segments []Segment
}

// Cut intersects every triangle of m with the horizontal plane z = height.
//
// A triangle yields a segment only when the intersection has two distinct
// points. Triangles that merely touch the plane at a vertex, and triangles
// lying in the plane, produce no cell.
func Cut(m *mesh.Mesh, height float64) CrossSection {
	cs := CrossSection{Height: height}
	if m == nil {
		return cs
	}
	for _, t := range m.Triangles {
		if s, ok := cutTriangle(t, height); ok {
			cs.Segments = append(cs.Segments, s)
		}
	}
	return cs
}

func cutTriangle(t mesh.Triangle, z float64) (Segment, bool) {
	var d [3]float64
	onPlane := 0
	for i, v := range t {
		d[i] = v.Z - z
		if d[i] == 0 {
			onPlane++
		}
	}
	if onPlane == 3 {
		return Segment{}, false
	}

	var pts [3]r3.Vec
	n := 0
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		if d[i] == 0 {
			pts[n] = r3.Vec{X: t[i].X, Y: t[i].Y, Z: z}
			n++
		}
		if (d[i] < 0 && d[j] > 0) || (d[i] > 0 && d[j] < 0) {
			f := d[i] / (d[i] - d[j])
			p := r3.Add(t[i], r3.Scale(f, r3.Sub(t[j], t[i])))
			p.Z = z
			pts[n] = p
			n++
		}
	}
	if n < 2 || pts[0] == pts[1] {
		return Segment{}, false
	}
	return Segment{pts[0], pts[1]}, true
}

// Empty reports whether the cut produced no cells.
func (cs CrossSection) Empty() bool {
	return len(cs.Segments) == 0
}

// Points returns the horizontal projection of every segment endpoint.
// Shared endpoints of neighbouring cells appear once per cell.
func (cs CrossSection) Points() []r2.Vec {
	pts := make([]r2.Vec, 0, 2*len(cs.Segments))
	for _, s := range cs.Segments {
		pts = append(pts,
			r2.Vec{X: s[0].X, Y: s[0].Y},
			r2.Vec{X: s[1].X, Y: s[1].Y},
		)
	}
	return pts
}
