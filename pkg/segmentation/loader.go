package segmentation

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"headmetrics/internal/models"
)

// LoadSlices builds a label map from a directory of mask images, one image
// per K slice. Files are ordered by the number embedded in their names.
// A pixel whose normalised intensity exceeds threshold gets label 1.
//
// The proper ordering of slices is critical: the K index, and therefore
// the superior coordinate, follows the numeric order of the filenames.
func LoadSlices(dir string, g models.Geometry, threshold float64) (*LabelMap, []models.Slice, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	// Filter image files
	var imageFiles []string
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(file.Name()))
		if ext == ".jpg" || ext == ".jpeg" || ext == ".png" {
			imageFiles = append(imageFiles, file.Name())
		}
	}

	if len(imageFiles) == 0 {
		return nil, nil, fmt.Errorf("no JPG or PNG images found in %s", dir)
	}

	sort.SliceStable(imageFiles, func(i, j int) bool {
		numI := extractNumber(imageFiles[i])
		numJ := extractNumber(imageFiles[j])
		if numI == numJ {
			return imageFiles[i] < imageFiles[j]
		}
		return numI < numJ
	})

	slices := make([]models.Slice, 0, len(imageFiles))
	var width, height int
	for idx, filename := range imageFiles {
		img, err := loadImage(filepath.Join(dir, filename))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load image %s: %w", filename, err)
		}

		// All slices must share the dimensions of the first one
		bounds := img.Bounds()
		if idx == 0 {
			width, height = bounds.Dx(), bounds.Dy()
		} else if bounds.Dx() != width || bounds.Dy() != height {
			return nil, nil, fmt.Errorf("slice %s is %dx%d, expected %dx%d",
				filename, bounds.Dx(), bounds.Dy(), width, height)
		}

		slices = append(slices, models.Slice{
			Image:     img,
			Index:     idx,
			Filename:  filename,
			Thickness: g.Spacing[2],
			Position:  g.Origin[2] + float64(idx)*g.Spacing[2],
		})
	}

	lm, err := NewLabelMap(width, height, len(slices), g)
	if err != nil {
		return nil, nil, err
	}
	for k, s := range slices {
		fillSlice(lm, k, s.Image, threshold)
	}

	return lm, slices, nil
}

// fillSlice thresholds one mask image into layer k of the label map.
func fillSlice(lm *LabelMap, k int, img image.Image, threshold float64) {
	bounds := img.Bounds()
	for y := 0; y < lm.Height; y++ {
		for x := 0; x < lm.Width; x++ {
			r, _, _, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// Convert 16-bit color to the 0-1 range
			if float64(r)/65535.0 > threshold {
				lm.Set(x, y, k, 1)
			}
		}
	}
}

// extractNumber extracts the numeric part from a filename
func extractNumber(filename string) int {
	base := filepath.Base(filename)
	numStr := ""
	for _, c := range base {
		if c >= '0' && c <= '9' {
			numStr += string(c)
		}
	}

	if numStr != "" {
		num, err := strconv.Atoi(numStr)
		if err == nil {
			return num
		}
	}
	return 0
}

// loadImage loads a JPEG or PNG image from a file
func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}

	return img, nil
}
