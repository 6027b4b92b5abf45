package vision

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

// Scaler resizes a decoded frame to the display area
type Scaler interface {
	Scale(src image.Image, width, height int) image.Image
}

// Resizer is a Scaler built on the x/image interpolators
type Resizer struct {
	kernel draw.Interpolator
	fit    FitMode
}

// ParseInterpolator maps a config value onto an x/image interpolator
func ParseInterpolator(name string) (draw.Interpolator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "catmullrom":
		return draw.CatmullRom, nil
	case "bilinear":
		return draw.BiLinear, nil
	case "approx":
		return draw.ApproxBiLinear, nil
	case "nearest":
		return draw.NearestNeighbor, nil
	default:
		return nil, fmt.Errorf("unknown scaler %q", name)
	}
}

// NewResizer creates a Resizer for the named interpolator and fit mode
func NewResizer(kernel string, fit FitMode) (*Resizer, error) {
	k, err := ParseInterpolator(kernel)
	if err != nil {
		return nil, err
	}
	return &Resizer{kernel: k, fit: fit}, nil
}

// Scale returns a new width x height image. The source is never modified.
func (r *Resizer) Scale(src image.Image, width, height int) image.Image {
	width, height = max(width, 1), max(height, 1)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	dr := FitRect(src.Bounds(), width, height, r.fit)
	if dr != dst.Bounds() {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	}

	r.kernel.Scale(dst, dr, src, src.Bounds(), draw.Src, nil)
	return dst
}
