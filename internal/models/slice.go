package models

import (
	"image"
)

// Slice represents a single segmentation slice with metadata
type Slice struct {
	// Image is the mask image; non-black pixels belong to the segment
	Image image.Image

	// Index is the position of this slice in the sequence
	Index int

	// Filename is the original filename of the slice
	Filename string

	// Thickness is the physical thickness of the slice in mm
	Thickness float64

	// Position is the physical position of the slice along the K axis
	Position float64
}

// Geometry places a voxel grid in patient (RAS) space.
type Geometry struct {
	// Origin is the RAS position of voxel (0,0,0) in mm
	Origin [3]float64 `yaml:"origin"`

	// Spacing is the voxel size along I, J and K in mm; the K spacing is
	// the inter-slice gap
	Spacing [3]float64 `yaml:"spacing"`

	// Direction is the row-major 3x3 matrix whose columns are the RAS
	// directions of the I, J and K axes
	Direction [9]float64 `yaml:"direction"`
}

// IdentityDirection is the axis-aligned direction matrix.
var IdentityDirection = [9]float64{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
}

// DefaultGeometry returns 1 mm isotropic voxels at the origin.
func DefaultGeometry() Geometry {
	return Geometry{
		Spacing:   [3]float64{1, 1, 1},
		Direction: IdentityDirection,
	}
}
