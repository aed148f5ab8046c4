package slicing

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"headmetrics/pkg/mesh"
)

// ring returns n points on a horizontal circle of radius r at height z.
func ring(n int, r, z float64) []r3.Vec {
	pts := make([]r3.Vec, n)
	for k := range pts {
		a := 2 * math.Pi * float64(k) / float64(n)
		pts[k] = r3.Vec{X: r * math.Cos(a), Y: r * math.Sin(a), Z: z}
	}
	return pts
}

// cylinderMesh builds a closed vertical prism with n sides approximating a
// cylinder of radius r between z0 and z1.
func cylinderMesh(n int, r, z0, z1 float64) *mesh.Mesh {
	bottom := ring(n, r, z0)
	top := ring(n, r, z1)
	cb := r3.Vec{Z: z0}
	ct := r3.Vec{Z: z1}

	m := &mesh.Mesh{}
	for k := 0; k < n; k++ {
		j := (k + 1) % n
		m.Add(
			mesh.Triangle{bottom[k], bottom[j], top[j]},
			mesh.Triangle{bottom[k], top[j], top[k]},
			mesh.Triangle{cb, bottom[j], bottom[k]},
			mesh.Triangle{ct, top[k], top[j]},
		)
	}
	return m
}

// coneMesh builds a closed cone with its base of radius r at z = 0 and its
// apex at z = h.
func coneMesh(n int, r, h float64) *mesh.Mesh {
	base := ring(n, r, 0)
	apex := r3.Vec{Z: h}
	center := r3.Vec{}

	m := &mesh.Mesh{}
	for k := 0; k < n; k++ {
		j := (k + 1) % n
		m.Add(
			mesh.Triangle{base[k], base[j], apex},
			mesh.Triangle{center, base[j], base[k]},
		)
	}
	return m
}

// polygonPerimeter is the perimeter of a regular n-gon inscribed in a
// circle of radius r.
func polygonPerimeter(n int, r float64) float64 {
	return 2 * float64(n) * r * math.Sin(math.Pi/float64(n))
}
