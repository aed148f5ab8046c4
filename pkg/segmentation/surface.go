package segmentation

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"headmetrics/pkg/mesh"
)

// DefaultMeshCells is the marching cubes resolution along the longest
// axis of the segment.
const DefaultMeshCells = 200

// occupancyField exposes a segment as a signed field in voxel index space:
// negative inside, positive outside, zero on the half-occupancy surface.
type occupancyField struct {
	lm    *LabelMap
	label uint16
	bb    sdf.Box3
}

// Evaluate returns 0.5 minus the trilinear occupancy at p.
func (f *occupancyField) Evaluate(p v3.Vec) float64 {
	return 0.5 - f.occupancy(p.X, p.Y, p.Z)
}

// BoundingBox returns the voxel extent of the segment padded by one voxel.
func (f *occupancyField) BoundingBox() sdf.Box3 {
	return f.bb
}

func (f *occupancyField) occupancy(x, y, z float64) float64 {
	x0, y0, z0 := math.Floor(x), math.Floor(y), math.Floor(z)
	fx, fy, fz := x-x0, y-y0, z-z0
	i, j, k := int(x0), int(y0), int(z0)

	var sum float64
	for dk := 0; dk < 2; dk++ {
		wz := 1 - fz
		if dk == 1 {
			wz = fz
		}
		for dj := 0; dj < 2; dj++ {
			wy := 1 - fy
			if dj == 1 {
				wy = fy
			}
			for di := 0; di < 2; di++ {
				wx := 1 - fx
				if di == 1 {
					wx = fx
				}
				if matches(f.lm.At(i+di, j+dj, k+dk), f.label) {
					sum += wx * wy * wz
				}
			}
		}
	}
	return sum
}

// ClosedSurface converts a segment into a closed triangulated surface in
// RAS coordinates. The occupancy field is meshed with uniform marching
// cubes at the given resolution along the longest axis; cells <= 0 uses
// DefaultMeshCells.
func ClosedSurface(lm *LabelMap, label uint16, cells int) (*mesh.Mesh, error) {
	if lm == nil {
		return nil, fmt.Errorf("%w: no label map", ErrEmptySegment)
	}
	lo, hi, ok := voxelExtent(lm, label)
	if !ok {
		return nil, fmt.Errorf("%w: label %d", ErrEmptySegment, label)
	}
	if cells <= 0 {
		cells = DefaultMeshCells
	}

	field := &occupancyField{
		lm:    lm,
		label: label,
		bb: sdf.Box3{
			Min: v3.Vec{X: float64(lo[0]) - 1, Y: float64(lo[1]) - 1, Z: float64(lo[2]) - 1},
			Max: v3.Vec{X: float64(hi[0]) + 1, Y: float64(hi[1]) + 1, Z: float64(hi[2]) + 1},
		},
	}

	triangles := render.ToTriangles(field, render.NewMarchingCubesUniform(cells))

	m := &mesh.Mesh{Triangles: make([]mesh.Triangle, 0, len(triangles))}
	for _, tri := range triangles {
		var t mesh.Triangle
		for j := 0; j < 3; j++ {
			v := tri[j]
			t[j] = lm.ToRAS(v.X, v.Y, v.Z)
		}
		m.Add(t)
	}
	if m.IsEmpty() {
		return nil, fmt.Errorf("%w: marching cubes produced no faces", ErrEmptySegment)
	}
	return m, nil
}
