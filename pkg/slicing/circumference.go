// Package slicing finds the horizontal cross-section of a closed surface
// whose convex hull has the largest perimeter.
//
// The search sweeps a plane upward through the surface at evenly spaced
// percentages of its height, cuts the mesh at each level, projects the cut
// onto the XY plane and measures the perimeter of the convex hull of the
// projected points. The widest level is reported together with the
// axis-aligned width (X) and length (Y) of its cross-section.
package slicing

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"headmetrics/pkg/mesh"
)

var (
	// ErrInvalidInput reports a missing mesh or a mesh with no vertical extent.
	ErrInvalidInput = errors.New("invalid input mesh")

	// ErrInvalidRange reports a search range that cannot be swept.
	ErrInvalidRange = errors.New("invalid search range")
)

// MaxLevels bounds the number of heights a single sweep may evaluate.
const MaxLevels = 1000000

// Range is an inclusive ascending sequence of height percentages.
type Range struct {
	Start float64
	End   float64
	Step  float64
}

// Validate checks that the range can be swept.
func (r Range) Validate() error {
	if math.IsNaN(r.Start) || math.IsNaN(r.End) || math.IsNaN(r.Step) ||
		math.IsInf(r.Start, 0) || math.IsInf(r.End, 0) || math.IsInf(r.Step, 0) {
		return fmt.Errorf("%w: non-finite bound in [%v, %v] step %v", ErrInvalidRange, r.Start, r.End, r.Step)
	}
	if r.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %v", ErrInvalidRange, r.Step)
	}
	if r.Start > r.End {
		return fmt.Errorf("%w: start %v is greater than end %v", ErrInvalidRange, r.Start, r.End)
	}
	if n := r.levels(); math.IsInf(n, 0) || math.IsNaN(n) || n > MaxLevels {
		return fmt.Errorf("%w: step %v over [%v, %v] gives more than %d levels", ErrInvalidRange, r.Step, r.Start, r.End, MaxLevels)
	}
	return nil
}

// levels returns the number of percentages in the range as a float so
// that tiny steps cannot overflow an int.
func (r Range) levels() float64 {
	return math.Floor((r.End-r.Start)/r.Step+1e-9) + 1
}

// Percentages expands the range into its sequence Start, Start+Step, ...
// up to and including End. Each value is computed from its index rather
// than by accumulation. An invalid range yields nil.
func (r Range) Percentages() []float64 {
	if r.Validate() != nil {
		return nil
	}
	n := int(r.levels())
	out := make([]float64, n)
	for k := range out {
		out[k] = r.Start + float64(k)*r.Step
	}
	return out
}

// HeightAt maps a percentage of [min, max] to an absolute height.
func HeightAt(min, max, pct float64) float64 {
	return min + (pct/100.0)*(max-min)
}

// Result is the best slice found by a sweep.
type Result struct {
	// Found is false when no level produced a valid hull.
	Found bool

	// Perimeter of the convex hull of the best cross-section, in mesh units.
	Perimeter float64

	// Percentage of the height range at which the best slice lies.
	Percentage float64

	// Height is the absolute Z of the best cutting plane.
	Height float64

	// Width is the X extent and Length the Y extent of the best
	// cross-section, measured over all of its points.
	Width  float64
	Length float64

	// Hull holds the hull vertices in counter-clockwise order at Height.
	Hull []r3.Vec

	// Points is the full projected point cloud of the best slice.
	Points []r2.Vec
}

// ProgressCallback reports sweep progress.
type ProgressCallback func(completed, total int, message string)

// Finder sweeps a mesh for its maximum-circumference horizontal slice.
// The zero value runs sequentially.
type Finder struct {
	// Workers is the number of goroutines evaluating levels. Values below
	// two evaluate every level on the calling goroutine.
	Workers int

	progress ProgressCallback
}

// NewFinder returns a Finder using the given number of workers.
func NewFinder(workers int) *Finder {
	return &Finder{Workers: workers}
}

// SetProgressCallback attaches a progress reporter.
func (f *Finder) SetProgressCallback(cb ProgressCallback) {
	f.progress = cb
}

// FindMaxCircumference sweeps m sequentially. See Finder.Find.
func FindMaxCircumference(m *mesh.Mesh, heightMin, heightMax float64, r Range) (*Result, error) {
	var f Finder
	return f.Find(m, heightMin, heightMax, r)
}

// level is the evaluation of one percentage of the sweep.
type level struct {
	ok        bool
	pct       float64
	height    float64
	perimeter float64
	hull      []r2.Vec
	points    []r2.Vec
}

// Find evaluates every percentage of r between heightMin and heightMax and
// returns the level with the strictly largest hull perimeter; on ties the
// lowest percentage wins. Levels with an empty cut, fewer than three points
// or a collinear point set are skipped. If nothing qualifies the returned
// Result is zero valued with Found false.
func (f *Finder) Find(m *mesh.Mesh, heightMin, heightMax float64, r Range) (*Result, error) {
	if m.IsEmpty() {
		return nil, fmt.Errorf("%w: mesh has no triangles", ErrInvalidInput)
	}
	if math.IsNaN(heightMin) || math.IsNaN(heightMax) || math.IsInf(heightMin, 0) || math.IsInf(heightMax, 0) {
		return nil, fmt.Errorf("%w: non-finite height range [%v, %v]", ErrInvalidInput, heightMin, heightMax)
	}
	if heightMax <= heightMin {
		return nil, fmt.Errorf("%w: zero vertical extent [%v, %v]", ErrInvalidInput, heightMin, heightMax)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	pcts := r.Percentages()
	levels := f.evaluateAll(m, heightMin, heightMax, pcts)

	// Fold in ascending order; only a strictly larger perimeter replaces
	// the best level.
	best := -1
	for i, lv := range levels {
		if !lv.ok {
			continue
		}
		if best < 0 || lv.perimeter > levels[best].perimeter {
			best = i
		}
	}
	if best < 0 {
		return &Result{}, nil
	}
	return newResult(levels[best]), nil
}

func (f *Finder) evaluateAll(m *mesh.Mesh, heightMin, heightMax float64, pcts []float64) []level {
	levels := make([]level, len(pcts))
	total := len(pcts)

	if f.Workers < 2 || total < 2 {
		for i, p := range pcts {
			levels[i] = evaluate(m, p, HeightAt(heightMin, heightMax, p))
			f.report(i+1, total, p)
		}
		return levels
	}

	type job struct {
		idx int
		pct float64
	}
	type done struct {
		idx int
		lv  level
	}
	jobs := make(chan job)
	results := make(chan done)

	workers := f.Workers
	if workers > total {
		workers = total
	}
	for w := 0; w < workers; w++ {
		go func() {
			for j := range jobs {
				results <- done{idx: j.idx, lv: evaluate(m, j.pct, HeightAt(heightMin, heightMax, j.pct))}
			}
		}()
	}
	go func() {
		for i, p := range pcts {
			jobs <- job{idx: i, pct: p}
		}
		close(jobs)
	}()

	for completed := 1; completed <= total; completed++ {
		d := <-results
		levels[d.idx] = d.lv
		f.report(completed, total, d.lv.pct)
	}
	return levels
}

func (f *Finder) report(completed, total int, pct float64) {
	if f.progress != nil {
		f.progress(completed, total, fmt.Sprintf("slice at %g%%", pct))
	}
}

// evaluate cuts m at height and measures the hull of the cross-section.
func evaluate(m *mesh.Mesh, pct, height float64) level {
	lv := level{pct: pct, height: height}
	cs := Cut(m, height)
	if cs.Empty() {
		return lv
	}
	pts := cs.Points()
	hull, err := ConvexHull(pts)
	if err != nil {
		return lv
	}
	lv.ok = true
	lv.perimeter = Perimeter(hull)
	lv.hull = hull
	lv.points = pts
	return lv
}

func newResult(lv level) *Result {
	xs := make([]float64, len(lv.points))
	ys := make([]float64, len(lv.points))
	for i, p := range lv.points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	hull := make([]r3.Vec, len(lv.hull))
	for i, p := range lv.hull {
		hull[i] = r3.Vec{X: p.X, Y: p.Y, Z: lv.height}
	}
	return &Result{
		Found:      true,
		Perimeter:  lv.perimeter,
		Percentage: lv.pct,
		Height:     lv.height,
		Width:      floats.Max(xs) - floats.Min(xs),
		Length:     floats.Max(ys) - floats.Min(ys),
		Hull:       hull,
		Points:     lv.points,
	}
}
