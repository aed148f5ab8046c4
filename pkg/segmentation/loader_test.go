package segmentation

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"headmetrics/internal/models"
)

// writeMask writes a PNG mask with a filled square of side n at (x0, y0)
func writeMask(t *testing.T, path string, w, h, x0, y0, n int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := y0; y < y0+n; y++ {
		for x := x0; x < x0+n; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

// TestLoadSlicesOrdering verifies slices are stacked in numeric filename order
func TestLoadSlicesOrdering(t *testing.T) {
	dir := t.TempDir()
	// Lexical order would put slice_10 before slice_2
	writeMask(t, filepath.Join(dir, "slice_2.png"), 8, 6, 0, 0, 1)
	writeMask(t, filepath.Join(dir, "slice_10.png"), 8, 6, 5, 3, 2)
	writeMask(t, filepath.Join(dir, "slice_1.png"), 8, 6, 0, 0, 0)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatalf("Failed to write notes: %v", err)
	}

	g := models.Geometry{Spacing: [3]float64{1, 1, 2.5}, Direction: models.IdentityDirection}
	lm, slices, err := LoadSlices(dir, g, 0.5)
	if err != nil {
		t.Fatalf("LoadSlices failed: %v", err)
	}

	if lm.Width != 8 || lm.Height != 6 || lm.Depth != 3 {
		t.Fatalf("Expected 8x6x3 volume, got %dx%dx%d", lm.Width, lm.Height, lm.Depth)
	}
	wantOrder := []string{"slice_1.png", "slice_2.png", "slice_10.png"}
	for i, s := range slices {
		if s.Filename != wantOrder[i] {
			t.Errorf("Slice %d: expected %s, got %s", i, wantOrder[i], s.Filename)
		}
		if s.Position != float64(i)*2.5 {
			t.Errorf("Slice %d: expected position %v, got %v", i, float64(i)*2.5, s.Position)
		}
	}

	if lm.Count(0) != 1+4 {
		t.Errorf("Expected 5 segmented voxels, got %d", lm.Count(0))
	}
	if lm.At(0, 0, 1) != 1 {
		t.Error("Expected voxel (0,0,1) from slice_2")
	}
	if lm.At(6, 4, 2) != 1 {
		t.Error("Expected voxel (6,4,2) from slice_10")
	}
}

// TestLoadSlicesErrors verifies empty directories and size mismatches fail
func TestLoadSlicesErrors(t *testing.T) {
	empty := t.TempDir()
	if _, _, err := LoadSlices(empty, models.DefaultGeometry(), 0.5); err == nil {
		t.Error("Expected error for directory without images")
	}

	mixed := t.TempDir()
	writeMask(t, filepath.Join(mixed, "a1.png"), 8, 8, 0, 0, 1)
	writeMask(t, filepath.Join(mixed, "a2.png"), 9, 8, 0, 0, 1)
	if _, _, err := LoadSlices(mixed, models.DefaultGeometry(), 0.5); err == nil {
		t.Error("Expected error for slices of different sizes")
	}

	if _, _, err := LoadSlices(filepath.Join(empty, "missing"), models.DefaultGeometry(), 0.5); err == nil {
		t.Error("Expected error for missing directory")
	}
}

// TestExtractNumber verifies numeric parts of filenames are parsed
func TestExtractNumber(t *testing.T) {
	cases := map[string]int{
		"slice_001.jpg":    1,
		"/tmp/mask42.png":  42,
		"no-digits.png":    0,
		"IM-0001-0120.jpg": 10120,
	}
	for name, want := range cases {
		if got := extractNumber(name); got != want {
			t.Errorf("extractNumber(%q): expected %d, got %d", name, want, got)
		}
	}
}
