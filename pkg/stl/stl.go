// Package stl reads and writes triangle meshes as STL files using the
// sdfx renderer. Binary files are written; binary and ASCII files can be
// read.
package stl

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"

	"headmetrics/pkg/mesh"
)

// FromMesh converts a mesh into sdfx triangles.
func FromMesh(m *mesh.Mesh) []*sdf.Triangle3 {
	if m == nil {
		return nil
	}
	triangles := make([]*sdf.Triangle3, len(m.Triangles))
	for i, t := range m.Triangles {
		triangles[i] = &sdf.Triangle3{toV3(t[0]), toV3(t[1]), toV3(t[2])}
	}
	return triangles
}

// ToMesh converts sdfx triangles into a mesh.
func ToMesh(triangles []*sdf.Triangle3) *mesh.Mesh {
	m := &mesh.Mesh{Triangles: make([]mesh.Triangle, 0, len(triangles))}
	for _, tri := range triangles {
		if tri == nil {
			continue
		}
		m.Add(mesh.Triangle{toR3(tri[0]), toR3(tri[1]), toR3(tri[2])})
	}
	return m
}

// LoadMesh reads an STL file straight into a mesh.
func LoadMesh(path string) (*mesh.Mesh, error) {
	triangles, err := render.LoadSTL(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load STL %s: %w", path, err)
	}
	m := ToMesh(triangles)
	if m.IsEmpty() {
		return nil, fmt.Errorf("STL %s contains no triangles", path)
	}
	return m, nil
}

// SaveMesh writes a mesh as a binary STL file.
func SaveMesh(path string, m *mesh.Mesh) error {
	if err := render.SaveSTL(path, FromMesh(m)); err != nil {
		return fmt.Errorf("failed to save STL %s: %w", path, err)
	}
	return nil
}

func toV3(v r3.Vec) v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func toR3(v v3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
