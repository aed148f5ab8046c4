package visualization

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"headmetrics/pkg/slicing"
)

// ErrNoSlice is returned when asked to render a sweep that found nothing.
var ErrNoSlice = errors.New("no slice to render")

var (
	backgroundColor = color.RGBA{A: 255}
	hullColor       = color.NRGBA{R: 255, A: 96}
	pointColor      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	centroidColor   = color.RGBA{G: 128, B: 255, A: 255}
)

// RenderSlice draws the best cross-section seen from above: the filled
// convex hull, every cut point, and a cross at the point centroid. The
// anterior (+Y) direction points up in the image.
func RenderSlice(res *slicing.Result, size int) (*image.RGBA, error) {
	if res == nil || !res.Found || len(res.Points) == 0 {
		return nil, ErrNoSlice
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid image size %d", size)
	}

	xs := make([]float64, len(res.Points))
	ys := make([]float64, len(res.Points))
	for i, p := range res.Points {
		xs[i], ys[i] = p.X, p.Y
	}
	minX, maxX := floats.Min(xs), floats.Max(xs)
	minY, maxY := floats.Min(ys), floats.Max(ys)

	// Uniform scale with a 5% margin on each side
	extent := maxX - minX
	if maxY-minY > extent {
		extent = maxY - minY
	}
	if extent == 0 {
		extent = 1
	}
	scale := 0.9 * float64(size) / extent
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	half := float64(size) / 2
	project := func(p r2.Vec) (float32, float32) {
		return float32(half + (p.X-cx)*scale), float32(half - (p.Y-cy)*scale)
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	if len(res.Hull) >= 3 {
		z := vector.NewRasterizer(size, size)
		z.DrawOp = draw.Over
		for i, v := range res.Hull {
			x, y := project(r2.Vec{X: v.X, Y: v.Y})
			if i == 0 {
				z.MoveTo(x, y)
			} else {
				z.LineTo(x, y)
			}
		}
		z.ClosePath()
		z.Draw(img, img.Bounds(), image.NewUniform(hullColor), image.Point{})
	}

	for _, p := range res.Points {
		x, y := project(p)
		img.SetRGBA(int(x), int(y), pointColor)
	}

	mx, my := project(r2.Vec{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)})
	for d := -3; d <= 3; d++ {
		img.SetRGBA(int(mx)+d, int(my), centroidColor)
		img.SetRGBA(int(mx), int(my)+d, centroidColor)
	}

	return img, nil
}

// SaveImage writes img as PNG when the filename ends in .png and as JPEG
// otherwise.
func SaveImage(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(filename), ".png") {
		return png.Encode(file, img)
	}
	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}
