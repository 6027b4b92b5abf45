package vision

import (
	"fmt"
	"image"
	"strings"
)

// FitMode decides how a frame is placed inside the display area
type FitMode int

const (
	// FitStretch scales the frame to exactly the target size
	FitStretch FitMode = iota
	// FitContain keeps the aspect ratio and letterboxes the rest
	FitContain
)

// ParseFitMode maps a config value onto a FitMode
func ParseFitMode(s string) (FitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stretch":
		return FitStretch, nil
	case "contain":
		return FitContain, nil
	default:
		return FitStretch, fmt.Errorf("unknown fit mode %q", s)
	}
}

func (m FitMode) String() string {
	if m == FitContain {
		return "contain"
	}
	return "stretch"
}

// FitRect returns where a src sized frame lands inside a width x height target.
// Dimensions below 1 are treated as 1.
func FitRect(src image.Rectangle, width, height int, mode FitMode) image.Rectangle {
	width, height = max(width, 1), max(height, 1)
	target := image.Rect(0, 0, width, height)

	sw, sh := src.Dx(), src.Dy()
	if mode == FitStretch || sw <= 0 || sh <= 0 {
		return target
	}

	// compare aspect ratios without floats: sw/sh vs width/height
	w, h := width, height
	if sw*height > width*sh {
		h = max(sh*width/sw, 1)
	} else {
		w = max(sw*height/sh, 1)
	}

	x := (width - w) / 2
	y := (height - h) / 2
	return image.Rect(x, y, x+w, y+h)
}
