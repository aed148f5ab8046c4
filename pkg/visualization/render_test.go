package visualization

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"headmetrics/pkg/slicing"
)

func squareResult() *slicing.Result {
	return &slicing.Result{
		Found:     true,
		Perimeter: 40,
		Height:    5,
		Width:     10,
		Length:    10,
		Hull: []r3.Vec{
			{X: -5, Y: -5, Z: 5}, {X: 5, Y: -5, Z: 5}, {X: 5, Y: 5, Z: 5}, {X: -5, Y: 5, Z: 5},
		},
		Points: []r2.Vec{
			{X: -5, Y: -5}, {X: 5, Y: -5}, {X: 5, Y: 5}, {X: -5, Y: 5}, {X: 1, Y: 2},
		},
	}
}

// TestRenderSlice verifies the hull is filled and the margin left empty
func TestRenderSlice(t *testing.T) {
	img, err := RenderSlice(squareResult(), 100)
	if err != nil {
		t.Fatalf("RenderSlice failed: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 100 {
		t.Fatalf("Expected 100x100 image, got %v", img.Bounds())
	}

	// Inside the hull, away from points and the centroid cross
	inside := img.RGBAAt(20, 20)
	if inside.R == 0 {
		t.Errorf("Expected hull fill at (20,20), got %v", inside)
	}

	// The 5% margin stays background
	corner := img.RGBAAt(1, 1)
	if corner.R != 0 || corner.G != 0 || corner.B != 0 {
		t.Errorf("Expected background at (1,1), got %v", corner)
	}
}

// TestRenderSliceNothingFound verifies empty sweeps are rejected
func TestRenderSliceNothingFound(t *testing.T) {
	if _, err := RenderSlice(&slicing.Result{}, 64); !errors.Is(err, ErrNoSlice) {
		t.Errorf("Expected ErrNoSlice, got %v", err)
	}
	if _, err := RenderSlice(nil, 64); !errors.Is(err, ErrNoSlice) {
		t.Errorf("Expected ErrNoSlice for nil result, got %v", err)
	}
	if _, err := RenderSlice(squareResult(), 0); err == nil {
		t.Error("Expected error for zero image size")
	}
}

// TestSaveImage verifies PNG and JPEG output
func TestSaveImage(t *testing.T) {
	img, err := RenderSlice(squareResult(), 32)
	if err != nil {
		t.Fatalf("RenderSlice failed: %v", err)
	}
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "slice.png")
	if err := SaveImage(img, pngPath); err != nil {
		t.Fatalf("SaveImage png failed: %v", err)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatalf("Failed to open png: %v", err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("Saved file is not a PNG: %v", err)
	}

	jpgPath := filepath.Join(dir, "slice.jpg")
	if err := SaveImage(img, jpgPath); err != nil {
		t.Fatalf("SaveImage jpeg failed: %v", err)
	}
	if info, err := os.Stat(jpgPath); err != nil || info.Size() == 0 {
		t.Errorf("Expected non-empty JPEG, got %v, %v", info, err)
	}
}
