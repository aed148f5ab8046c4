package segmentation

import (
	"fmt"

	"headmetrics/pkg/mesh"
)

// BoundingBox returns the axis-aligned RAS box spanned by the centres of
// every voxel of the segment. A zero label selects all foreground voxels.
//
// The transform is applied to each voxel rather than to the IJK extent so
// that oblique volumes produce a tight box.
func BoundingBox(lm *LabelMap, label uint16) (mesh.Box, error) {
	if lm == nil {
		return mesh.Box{}, fmt.Errorf("%w: no label map", ErrEmptySegment)
	}

	box := mesh.EmptyBox()
	for k := 0; k < lm.Depth; k++ {
		for j := 0; j < lm.Height; j++ {
			row := lm.Index(0, j, k)
			for i := 0; i < lm.Width; i++ {
				if !matches(lm.Labels[row+i], label) {
					continue
				}
				box = box.Extend(lm.ToRAS(float64(i), float64(j), float64(k)))
			}
		}
	}

	if box.IsEmpty() {
		return mesh.Box{}, fmt.Errorf("%w: label %d", ErrEmptySegment, label)
	}
	return box, nil
}

// voxelExtent returns the inclusive IJK index range of the segment.
func voxelExtent(lm *LabelMap, label uint16) (lo, hi [3]int, ok bool) {
	lo = [3]int{lm.Width, lm.Height, lm.Depth}
	hi = [3]int{-1, -1, -1}
	for k := 0; k < lm.Depth; k++ {
		for j := 0; j < lm.Height; j++ {
			row := lm.Index(0, j, k)
			for i := 0; i < lm.Width; i++ {
				if !matches(lm.Labels[row+i], label) {
					continue
				}
				idx := [3]int{i, j, k}
				for a := range idx {
					if idx[a] < lo[a] {
						lo[a] = idx[a]
					}
					if idx[a] > hi[a] {
						hi[a] = idx[a]
					}
				}
			}
		}
	}
	return lo, hi, hi[0] >= 0
}
