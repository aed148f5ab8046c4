package mesh

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// TestBounds verifies the bounding box of a mesh and of an empty mesh
func TestBounds(t *testing.T) {
	m := New(
		Triangle{{X: 1, Y: 2, Z: 3}, {X: -1, Y: 0, Z: 5}, {X: 4, Y: -2, Z: 0}},
		Triangle{{X: 0, Y: 7, Z: 1}, {X: 0, Y: 0, Z: 0}, {X: 2, Y: 2, Z: -6}},
	)
	b := m.Bounds()
	want := Box{Min: r3.Vec{X: -1, Y: -2, Z: -6}, Max: r3.Vec{X: 4, Y: 7, Z: 5}}
	if b != want {
		t.Errorf("Expected bounds %v, got %v", want, b)
	}
	if b.Size() != (r3.Vec{X: 5, Y: 9, Z: 11}) {
		t.Errorf("Unexpected size %v", b.Size())
	}
	if b.Center() != (r3.Vec{X: 1.5, Y: 2.5, Z: -0.5}) {
		t.Errorf("Unexpected center %v", b.Center())
	}

	var empty *Mesh
	if !empty.IsEmpty() || empty.TriangleCount() != 0 {
		t.Error("Expected nil mesh to be empty")
	}
	if !empty.Bounds().IsEmpty() {
		t.Error("Expected empty bounds for nil mesh")
	}
}

// TestBoxMeshOutward verifies every box face normal points away from the centre
func TestBoxMeshOutward(t *testing.T) {
	box := Box{Min: r3.Vec{X: -1, Y: 2, Z: 0}, Max: r3.Vec{X: 3, Y: 5, Z: 10}}
	m := BoxMesh(box)
	if m.TriangleCount() != 12 {
		t.Fatalf("Expected 12 triangles, got %d", m.TriangleCount())
	}
	if m.Bounds() != box {
		t.Errorf("Expected bounds %v, got %v", box, m.Bounds())
	}

	center := box.Center()
	for i, tri := range m.Triangles {
		centroid := r3.Scale(1.0/3, r3.Add(r3.Add(tri[0], tri[1]), tri[2]))
		if r3.Dot(tri.Normal(), r3.Sub(centroid, center)) <= 0 {
			t.Errorf("Triangle %d faces inward: normal %v", i, tri.Normal())
		}
	}
}

// TestPlaneMesh verifies the display plane is a square facing +Z
func TestPlaneMesh(t *testing.T) {
	m := PlaneMesh(r3.Vec{X: 1, Y: 1, Z: 4}, 6)
	if m.TriangleCount() != 2 {
		t.Fatalf("Expected 2 triangles, got %d", m.TriangleCount())
	}
	want := Box{Min: r3.Vec{X: -2, Y: -2, Z: 4}, Max: r3.Vec{X: 4, Y: 4, Z: 4}}
	if m.Bounds() != want {
		t.Errorf("Expected bounds %v, got %v", want, m.Bounds())
	}
	for i, tri := range m.Triangles {
		if tri.Normal() != (r3.Vec{Z: 1}) {
			t.Errorf("Triangle %d: expected normal +Z, got %v", i, tri.Normal())
		}
	}
}

// TestDegenerateNormal verifies collinear vertices yield a zero normal
func TestDegenerateNormal(t *testing.T) {
	tri := Triangle{{X: 0}, {X: 1}, {X: 2}}
	if tri.Normal() != (r3.Vec{}) {
		t.Errorf("Expected zero normal, got %v", tri.Normal())
	}
}
