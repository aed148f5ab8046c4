// Package visualization exports measurement results for display: a scene
// of named models, planes and contours with their display settings, and a
// top-down preview image of the measured slice.
package visualization

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"headmetrics/pkg/mesh"
	"headmetrics/pkg/planes"
	"headmetrics/pkg/stl"
)

// NodeKind identifies what a scene node renders.
type NodeKind string

const (
	KindModel   NodeKind = "model"
	KindPlane   NodeKind = "plane"
	KindContour NodeKind = "contour"
)

// Color is an RGB triple in the 0-1 range.
type Color [3]float64

// Display holds how a node should be shown.
type Display struct {
	Color     Color   `yaml:"color"`
	Opacity   float64 `yaml:"opacity"`
	LineWidth float64 `yaml:"lineWidth,omitempty"`
	Visible2D bool    `yaml:"visible2D"`
	Visible3D bool    `yaml:"visible3D"`
}

// Display presets for each result.
var (
	ContourDisplay            = Display{Color: Color{1, 0, 0}, Opacity: 1, LineWidth: 2, Visible3D: true}
	CircumferencePlaneDisplay = Display{Color: Color{0, 0.5, 1}, Opacity: 0.5, Visible2D: true, Visible3D: true}
	BoundingBoxDisplay        = Display{Color: Color{0, 1, 0}, Opacity: 0.5, LineWidth: 2, Visible2D: true, Visible3D: true}
	LandmarkPlaneDisplay      = Display{Color: Color{0, 0.5, 1}, Opacity: 0.5, Visible2D: true, Visible3D: true}
	TopPlaneDisplay           = Display{Color: Color{1, 0.5, 0}, Opacity: 1, Visible2D: true, Visible3D: true}
)

// Node is one displayable result.
type Node struct {
	Name    string   `yaml:"name"`
	Kind    NodeKind `yaml:"kind"`
	File    string   `yaml:"file,omitempty"`
	Display Display  `yaml:"display"`

	// Height and Size describe plane nodes.
	Height *float64 `yaml:"height,omitempty"`
	Size   float64 `yaml:"size,omitempty"`

	// Points is the closed polyline of contour nodes.
	Points [][3]float64 `yaml:"points,omitempty"`

	mesh *mesh.Mesh
}

// Mesh returns the geometry exported for model and plane nodes.
func (n *Node) Mesh() *mesh.Mesh {
	return n.mesh
}

// Scene collects result nodes and scalar measurements.
type Scene struct {
	Nodes        []*Node            `yaml:"nodes"`
	Measurements map[string]float64 `yaml:"measurements,omitempty"`
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{Measurements: make(map[string]float64)}
}

// AddModel adds a triangle mesh.
func (s *Scene) AddModel(name string, m *mesh.Mesh, d Display) *Node {
	n := &Node{Name: name, Kind: KindModel, Display: d, mesh: m}
	s.Nodes = append(s.Nodes, n)
	return n
}

// AddPlane adds a square of edge size centred above center at the plane height.
func (s *Scene) AddPlane(p planes.Plane, center r3.Vec, size float64, d Display) *Node {
	center.Z = p.Z
	z := p.Z
	n := &Node{
		Name:    p.Name,
		Kind:    KindPlane,
		Display: d,
		Height:  &z,
		Size:    size,
		mesh:    mesh.PlaneMesh(center, size),
	}
	s.Nodes = append(s.Nodes, n)
	return n
}

// AddContour adds a closed polyline through pts.
func (s *Scene) AddContour(name string, pts []r3.Vec, d Display) *Node {
	n := &Node{Name: name, Kind: KindContour, Display: d}
	for _, p := range pts {
		n.Points = append(n.Points, [3]float64{p.X, p.Y, p.Z})
	}
	s.Nodes = append(s.Nodes, n)
	return n
}

// SetMeasurement records a named scalar shown alongside the scene.
func (s *Scene) SetMeasurement(name string, value float64) {
	s.Measurements[name] = value
}

// Save writes one STL file per model or plane and a scene.yaml manifest
// into dir.
func (s *Scene) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create scene directory: %w", err)
	}

	for _, n := range s.Nodes {
		if n.mesh == nil {
			continue
		}
		n.File = fileName(n.Name) + ".stl"
		if err := stl.SaveMesh(filepath.Join(dir, n.File), n.mesh); err != nil {
			return fmt.Errorf("failed to save %s: %w", n.Name, err)
		}
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("error marshaling scene: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scene.yaml"), data, 0644); err != nil {
		return fmt.Errorf("error writing scene: %w", err)
	}
	return nil
}

// fileName turns a node name into a safe file stem.
func fileName(name string) string {
	stem := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if stem == "" {
		return "node"
	}
	return stem
}
