// Package streamtest provides in-memory stream sources and displays for tests.
package streamtest

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/intothevoid/drishti/pkg/stream"
)

// ErrUnreachable is returned by Source.Open for addresses listed in Fail
var ErrUnreachable = errors.New("address unreachable")

// Source is a fake stream.Source that records every call in order.
type Source struct {
	// Fail lists addresses that cannot be opened
	Fail map[string]bool
	// FramesBeforeEOS limits how many frames each handle yields; 0 means unlimited
	FramesBeforeEOS int
	// Size of the generated frames, 64x48 when zero
	Width, Height int

	Calls   []string
	Handles []*Handle

	open    int
	maxOpen int
}

// NewSource returns a Source that opens any address
func NewSource() *Source {
	return &Source{Fail: map[string]bool{}}
}

// Open implements stream.Source
func (s *Source) Open(address string) (stream.Handle, error) {
	s.Calls = append(s.Calls, "open "+address)
	if s.Fail[address] {
		return nil, fmt.Errorf("dial %s: %w", address, ErrUnreachable)
	}

	w, h := s.Width, s.Height
	if w == 0 || h == 0 {
		w, h = 64, 48
	}

	s.open++
	s.maxOpen = max(s.maxOpen, s.open)

	hd := &Handle{src: s, Address: address, limit: s.FramesBeforeEOS, width: w, height: h}
	s.Handles = append(s.Handles, hd)
	return hd, nil
}

// OpenHandles is the number of handles not yet closed
func (s *Source) OpenHandles() int {
	return s.open
}

// MaxOpenHandles is the highest number of handles open at the same time
func (s *Source) MaxOpenHandles() int {
	return s.maxOpen
}

// Handle is a fake stream.Handle producing solid frames
type Handle struct {
	Address string
	Reads   int
	Closed  bool

	src           *Source
	limit         int
	width, height int
}

// Read implements stream.Handle
func (h *Handle) Read() (image.Image, error) {
	if h.Closed {
		return nil, errors.New("read on closed handle")
	}
	h.Reads++
	h.src.Calls = append(h.src.Calls, "read "+h.Address)
	if h.limit > 0 && h.Reads > h.limit {
		return nil, stream.ErrEndOfStream
	}

	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	shade := uint8(h.Reads)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = shade, shade, shade, 0xff
	}
	return img, nil
}

// Close implements stream.Handle
func (h *Handle) Close() error {
	if h.Closed {
		return nil
	}
	h.Closed = true
	h.src.open--
	h.src.Calls = append(h.src.Calls, "close "+h.Address)
	return nil
}

// Display records what would be shown on screen
type Display struct {
	Statuses []string
	Clears   int
	Frames   []image.Image

	Width, Height int
}

// NewDisplay returns a Display with a width x height viewport
func NewDisplay(width, height int) *Display {
	return &Display{Width: width, Height: height}
}

// SetStatus records the status text
func (d *Display) SetStatus(text string) {
	d.Statuses = append(d.Statuses, text)
}

// Status returns the last status text, "" if none was set
func (d *Display) Status() string {
	if len(d.Statuses) == 0 {
		return ""
	}
	return d.Statuses[len(d.Statuses)-1]
}

// Clear blanks the frame
func (d *Display) Clear() {
	d.Clears++
	d.Frames = append(d.Frames, nil)
}

// ShowFrame records a rendered frame
func (d *Display) ShowFrame(img image.Image) {
	d.Frames = append(d.Frames, img)
}

// Current returns the frame on screen, nil when blank
func (d *Display) Current() image.Image {
	if len(d.Frames) == 0 {
		return nil
	}
	return d.Frames[len(d.Frames)-1]
}

// Size returns the viewport size in pixels
func (d *Display) Size() (int, int) {
	return d.Width, d.Height
}

// Shade returns the grey level of a frame produced by Handle, for ordering checks
func Shade(img image.Image) uint8 {
	c := color.RGBAModel.Convert(img.At(img.Bounds().Min.X, img.Bounds().Min.Y)).(color.RGBA)
	return c.R
}
