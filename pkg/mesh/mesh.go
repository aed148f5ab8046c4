// Package mesh holds the triangle surface type shared by the STL codec,
// the label map surface extraction and the slice finder.
package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle is a single face given by its three vertices in RAS coordinates.
type Triangle [3]r3.Vec

// Normal returns the unit face normal using the right-hand rule.
// Degenerate triangles return the zero vector.
func (t Triangle) Normal() r3.Vec {
	n := r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
	l := r3.Norm(n)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, n)
}

// Mesh is a closed triangulated surface. The slice finder treats it as
// read-only input.
type Mesh struct {
	Triangles []Triangle
}

// New returns a mesh holding the given triangles.
func New(triangles ...Triangle) *Mesh {
	return &Mesh{Triangles: triangles}
}

// Add appends triangles to the mesh.
func (m *Mesh) Add(triangles ...Triangle) {
	m.Triangles = append(m.Triangles, triangles...)
}

// IsEmpty reports whether the mesh has no faces.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Triangles) == 0
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Triangles)
}

// Bounds returns the axis-aligned bounding box of every vertex.
// An empty mesh yields an empty box.
func (m *Mesh) Bounds() Box {
	b := EmptyBox()
	if m == nil {
		return b
	}
	for _, t := range m.Triangles {
		for _, v := range t {
			b = b.Extend(v)
		}
	}
	return b
}

// Box is an axis-aligned bounding box in RAS coordinates.
type Box struct {
	Min, Max r3.Vec
}

// EmptyBox returns a box that any Extend call will replace.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: r3.Vec{X: inf, Y: inf, Z: inf},
		Max: r3.Vec{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether the box has never been extended.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend grows the box to include p.
func (b Box) Extend(p r3.Vec) Box {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Min.Z = math.Min(b.Min.Z, p.Z)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	b.Max.Z = math.Max(b.Max.Z, p.Z)
	return b
}

// Center returns the midpoint of the box.
func (b Box) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Size returns the extent of the box along each axis.
func (b Box) Size() r3.Vec {
	return r3.Sub(b.Max, b.Min)
}
