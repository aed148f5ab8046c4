// Package segmentation holds labelled voxel volumes and the measurements
// taken directly from them: the RAS bounding box of a segment and its
// closed surface representation.
package segmentation

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"headmetrics/internal/models"
)

var (
	// ErrEmptySegment is returned when no voxel carries the requested label.
	ErrEmptySegment = errors.New("segment has no voxels")

	// ErrInvalidGeometry is returned for non-positive spacing or a singular
	// direction matrix.
	ErrInvalidGeometry = errors.New("invalid volume geometry")
)

// LabelMap is a labelled voxel volume. Voxel (i, j, k) is stored at
// index k*Width*Height + j*Width + i; label 0 is background.
type LabelMap struct {
	Labels []uint16

	Width  int
	Height int
	Depth  int

	ijkToRAS *mat.Dense
}

// NewIJKToRAS builds the homogeneous 4x4 transform
// RAS = origin + direction * diag(spacing) * ijk.
func NewIJKToRAS(g models.Geometry) (*mat.Dense, error) {
	for axis, s := range g.Spacing {
		if !(s > 0) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w: spacing along axis %d is %v", ErrInvalidGeometry, axis, s)
		}
	}
	dir := mat.NewDense(3, 3, append([]float64(nil), g.Direction[:]...))
	if mat.Det(dir) == 0 {
		return nil, fmt.Errorf("%w: direction matrix is singular", ErrInvalidGeometry)
	}

	var scaled mat.Dense
	scaled.Mul(dir, mat.NewDiagDense(3, g.Spacing[:]))

	m := mat.NewDense(4, 4, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.Set(r, c, scaled.At(r, c))
		}
		m.Set(r, 3, g.Origin[r])
	}
	m.Set(3, 3, 1)
	return m, nil
}

// NewLabelMap allocates an empty label map of the given size.
func NewLabelMap(width, height, depth int, g models.Geometry) (*LabelMap, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%dx%d", ErrInvalidGeometry, width, height, depth)
	}
	m, err := NewIJKToRAS(g)
	if err != nil {
		return nil, err
	}
	return &LabelMap{
		Labels:   make([]uint16, width*height*depth),
		Width:    width,
		Height:   height,
		Depth:    depth,
		ijkToRAS: m,
	}, nil
}

// Index returns the flat index of voxel (i, j, k).
func (lm *LabelMap) Index(i, j, k int) int {
	return k*lm.Width*lm.Height + j*lm.Width + i
}

// Contains reports whether (i, j, k) lies inside the volume.
func (lm *LabelMap) Contains(i, j, k int) bool {
	return i >= 0 && j >= 0 && k >= 0 && i < lm.Width && j < lm.Height && k < lm.Depth
}

// At returns the label of voxel (i, j, k), or 0 outside the volume.
func (lm *LabelMap) At(i, j, k int) uint16 {
	if !lm.Contains(i, j, k) {
		return 0
	}
	return lm.Labels[lm.Index(i, j, k)]
}

// Set assigns a label to voxel (i, j, k).
func (lm *LabelMap) Set(i, j, k int, label uint16) {
	lm.Labels[lm.Index(i, j, k)] = label
}

// IJKToRAS returns a copy of the voxel to patient transform.
func (lm *LabelMap) IJKToRAS() *mat.Dense {
	return mat.DenseCopyOf(lm.ijkToRAS)
}

// ToRAS maps a (possibly fractional) voxel coordinate to RAS.
func (lm *LabelMap) ToRAS(i, j, k float64) r3.Vec {
	ijk := mat.NewVecDense(4, []float64{i, j, k, 1})
	var ras mat.VecDense
	ras.MulVec(lm.ijkToRAS, ijk)
	return r3.Vec{X: ras.AtVec(0), Y: ras.AtVec(1), Z: ras.AtVec(2)}
}

// matches reports whether a voxel label belongs to the segment. A zero
// segment label selects every non-background voxel.
func matches(v, label uint16) bool {
	if label == 0 {
		return v != 0
	}
	return v == label
}

// Count returns the number of voxels in the segment.
func (lm *LabelMap) Count(label uint16) int {
	n := 0
	for _, v := range lm.Labels {
		if matches(v, label) {
			n++
		}
	}
	return n
}
