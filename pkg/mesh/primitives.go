package mesh

import "gonum.org/v1/gonum/spatial/r3"

// BoxMesh returns the 12 outward facing triangles of an axis-aligned box.
func BoxMesh(b Box) *Mesh {
	lo, hi := b.Min, b.Max
	c := [8]r3.Vec{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
	}
	quads := [6][4]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // front
		{2, 3, 7, 6}, // back
		{1, 2, 6, 5}, // right
		{3, 0, 4, 7}, // left
	}
	m := &Mesh{Triangles: make([]Triangle, 0, 12)}
	for _, q := range quads {
		m.Add(
			Triangle{c[q[0]], c[q[1]], c[q[2]]},
			Triangle{c[q[0]], c[q[2]], c[q[3]]},
		)
	}
	return m
}

// PlaneMesh returns a horizontal square of the given edge length centred
// on center, facing +Z.
func PlaneMesh(center r3.Vec, size float64) *Mesh {
	h := size / 2
	a := r3.Vec{X: center.X - h, Y: center.Y - h, Z: center.Z}
	b := r3.Vec{X: center.X + h, Y: center.Y - h, Z: center.Z}
	c := r3.Vec{X: center.X + h, Y: center.Y + h, Z: center.Z}
	d := r3.Vec{X: center.X - h, Y: center.Y + h, Z: center.Z}
	return New(Triangle{a, b, c}, Triangle{a, c, d})
}
