// Package measurement runs the head measurements end to end: it loads the
// segmentation (a surface mesh or a stack of mask slices), performs the
// requested measurement and collects the results into a display scene.
package measurement

import (
	"errors"
	"fmt"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"

	"headmetrics/pkg/config"
	"headmetrics/pkg/mesh"
	"headmetrics/pkg/planes"
	"headmetrics/pkg/segmentation"
	"headmetrics/pkg/slicing"
	"headmetrics/pkg/stl"
	"headmetrics/pkg/visualization"
)

// ErrNoInput is returned when neither a mesh nor a slice directory is given.
var ErrNoInput = errors.New("no segmentation input: provide a mesh file or a slice directory")

// Scene node names.
const (
	NodeBestContour     = "BestOuterContour"
	NodeHorizontalPlane = "HorizontalPlane"
	NodeBoundingBox     = "SegmentBoundingBox"
	NodeLandmarkPlane   = "LandmarkPlane"
	NodeTopPlane        = "TopOfHeadPlane"
)

// Params holds the inputs of a measurement session.
type Params struct {
	// MeshFile is a closed surface in STL format. When set it is used for
	// the circumference sweep instead of meshing the slices.
	MeshFile string

	// SlicesDir is a directory of mask images forming the label map.
	SlicesDir string

	// Config holds the sweep, volume and output settings.
	Config *config.Config
}

// CircumferenceReport is the outcome of the maximum circumference search.
type CircumferenceReport struct {
	slicing.Result

	// HeightMin and HeightMax are the vertical extent that was swept.
	HeightMin float64
	HeightMax float64
}

// BoundingBoxReport describes the axis-aligned box of the segment.
type BoundingBoxReport struct {
	Box    mesh.Box
	Center r3.Vec
	Size   r3.Vec

	// FromVoxels is false when the box was taken from the mesh bounds.
	FromVoxels bool
}

// PlaneReport is the distance between a landmark plane and the plane
// just above the head.
type PlaneReport struct {
	Landmark planes.Plane
	Top      planes.Plane
	Distance float64
}

// Measurer loads a segmentation once and runs measurements on it.
type Measurer struct {
	params *Params
	cfg    *config.Config

	labelMap *segmentation.LabelMap
	surface  *mesh.Mesh
	scene    *visualization.Scene

	best *slicing.Result
}

// NewMeasurer creates a measurer. A nil config uses the defaults.
func NewMeasurer(params *Params) *Measurer {
	cfg := params.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Measurer{
		params: params,
		cfg:    cfg,
		scene:  visualization.NewScene(),
	}
}

// Scene returns the display scene accumulated so far.
func (m *Measurer) Scene() *visualization.Scene {
	return m.scene
}

func (m *Measurer) logf(format string, args ...interface{}) {
	if m.cfg.Output.Verbose {
		fmt.Printf(format, args...)
	}
}

// LabelMap loads the mask slices on first use.
func (m *Measurer) LabelMap() (*segmentation.LabelMap, error) {
	if m.labelMap != nil {
		return m.labelMap, nil
	}
	if m.params.SlicesDir == "" {
		return nil, ErrNoInput
	}

	m.logf("Loading mask slices from %s...\n", m.params.SlicesDir)
	lm, slices, err := segmentation.LoadSlices(m.params.SlicesDir, m.cfg.Volume.Geometry, m.cfg.Volume.Threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to load slices: %w", err)
	}
	m.logf("Loaded %d slices with dimensions %dx%d\n", len(slices), lm.Width, lm.Height)
	m.logf("Inter-slice gap: %.2f mm\n", m.cfg.Volume.Spacing[2])

	m.labelMap = lm
	return lm, nil
}

// Surface returns the closed surface: the mesh file if given, otherwise
// the marching cubes surface of the label map.
func (m *Measurer) Surface() (*mesh.Mesh, error) {
	if m.surface != nil {
		return m.surface, nil
	}

	switch {
	case m.params.MeshFile != "":
		m.logf("Loading surface mesh from %s...\n", m.params.MeshFile)
		s, err := stl.LoadMesh(m.params.MeshFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load mesh: %w", err)
		}
		m.surface = s

	case m.params.SlicesDir != "":
		lm, err := m.LabelMap()
		if err != nil {
			return nil, err
		}
		m.logf("Generating closed surface (%d cells)...\n", m.cfg.Surface.MeshCells)
		s, err := segmentation.ClosedSurface(lm, m.cfg.Volume.Label, m.cfg.Surface.MeshCells)
		if err != nil {
			return nil, fmt.Errorf("failed to generate closed surface: %w", err)
		}
		m.surface = s

	default:
		return nil, ErrNoInput
	}

	m.logf("Surface has %d triangles\n", m.surface.TriangleCount())
	return m.surface, nil
}

// Circumference finds the horizontal slice with the largest convex hull
// perimeter over the configured percentage range of the head height.
func (m *Measurer) Circumference() (*CircumferenceReport, error) {
	surface, err := m.Surface()
	if err != nil {
		return nil, err
	}
	bounds := surface.Bounds()

	c := m.cfg.Circumference
	rng := slicing.Range{Start: c.StartPercent, End: c.EndPercent, Step: c.StepPercent}

	finder := slicing.NewFinder(c.NumWorkers)
	if m.cfg.Output.Verbose {
		finder.SetProgressCallback(func(completed, total int, message string) {
			fmt.Printf("\rSweeping slices: %.1f%% complete", float64(completed)/float64(total)*100)
			if completed == total {
				fmt.Println()
			}
		})
	}

	res, err := finder.Find(surface, bounds.Min.Z, bounds.Max.Z, rng)
	if err != nil {
		return nil, err
	}

	if res.Found {
		m.best = res
		m.scene.AddContour(NodeBestContour, res.Hull, visualization.ContourDisplay)
		m.scene.AddPlane(planes.Plane{Name: NodeHorizontalPlane, Z: res.Height}, r3.Vec{},
			m.cfg.Planes.DisplaySize, visualization.CircumferencePlaneDisplay)
		m.scene.SetMeasurement("circumference_mm", res.Perimeter)
		m.scene.SetMeasurement("circumference_height_percent", res.Percentage)
		m.scene.SetMeasurement("circumference_width_mm", res.Width)
		m.scene.SetMeasurement("circumference_length_mm", res.Length)
	}

	return &CircumferenceReport{
		Result:    *res,
		HeightMin: bounds.Min.Z,
		HeightMax: bounds.Max.Z,
	}, nil
}

// segmentBox returns the voxel bounding box when slices are available,
// otherwise the bounds of the surface mesh.
func (m *Measurer) segmentBox() (mesh.Box, bool, error) {
	if m.params.SlicesDir != "" {
		lm, err := m.LabelMap()
		if err != nil {
			return mesh.Box{}, false, err
		}
		box, err := segmentation.BoundingBox(lm, m.cfg.Volume.Label)
		if err != nil {
			return mesh.Box{}, false, err
		}
		return box, true, nil
	}

	surface, err := m.Surface()
	if err != nil {
		return mesh.Box{}, false, err
	}
	return surface.Bounds(), false, nil
}

// BoundingBox computes the axis-aligned RAS box of the segment and adds
// it to the scene as a box model.
func (m *Measurer) BoundingBox() (*BoundingBoxReport, error) {
	box, fromVoxels, err := m.segmentBox()
	if err != nil {
		return nil, err
	}

	m.scene.AddModel(NodeBoundingBox, mesh.BoxMesh(box), visualization.BoundingBoxDisplay)
	size := box.Size()
	m.scene.SetMeasurement("bbox_size_x_mm", size.X)
	m.scene.SetMeasurement("bbox_size_y_mm", size.Y)
	m.scene.SetMeasurement("bbox_size_z_mm", size.Z)

	return &BoundingBoxReport{
		Box:        box,
		Center:     box.Center(),
		Size:       size,
		FromVoxels: fromVoxels,
	}, nil
}

// PlaneDistance builds a plane through the landmark and a plane offset
// above the top of the segment, and measures the distance between them.
func (m *Measurer) PlaneDistance(landmarkName string, landmark r3.Vec) (*PlaneReport, error) {
	lp, err := planes.FromLandmark(landmarkName, landmark)
	if err != nil {
		return nil, err
	}

	box, _, err := m.segmentBox()
	if err != nil {
		return nil, err
	}
	tp, err := planes.AboveBox(NodeTopPlane, box, m.cfg.Planes.Offset)
	if err != nil {
		return nil, err
	}

	size := m.cfg.Planes.DisplaySize
	lpNode := lp
	lpNode.Name = NodeLandmarkPlane
	m.scene.AddPlane(lpNode, r3.Vec{}, size, visualization.LandmarkPlaneDisplay)
	m.scene.AddPlane(tp, r3.Vec{}, size, visualization.TopPlaneDisplay)

	d := planes.Distance(lp, tp)
	m.scene.SetMeasurement("landmark_plane_z_mm", lp.Z)
	m.scene.SetMeasurement("top_plane_z_mm", tp.Z)
	m.scene.SetMeasurement("plane_distance_mm", d)

	return &PlaneReport{Landmark: lp, Top: tp, Distance: d}, nil
}

// SaveResults writes the scene and, after a successful circumference
// search, a preview image of the best slice into dir.
func (m *Measurer) SaveResults(dir string) error {
	if err := m.scene.Save(dir); err != nil {
		return err
	}

	if m.best != nil {
		img, err := visualization.RenderSlice(m.best, m.cfg.Output.ImageSize)
		if err != nil {
			return fmt.Errorf("failed to render best slice: %w", err)
		}
		if err := visualization.SaveImage(img, filepath.Join(dir, "best_slice.png")); err != nil {
			return fmt.Errorf("failed to save best slice image: %w", err)
		}
	}
	return nil
}
