package camera

import (
	"fmt"
	"image"

	"github.com/intothevoid/drishti/pkg/stream"
	"gocv.io/x/gocv"
)

var _ stream.Source = (*VideoSource)(nil)

// VideoSource opens streams through OpenCV's capture backends (FFmpeg for rtsp://)
type VideoSource struct{}

// NewVideoSource returns the gocv backed Source
func NewVideoSource() *VideoSource {
	return &VideoSource{}
}

// Open connects to the stream at address
func (s *VideoSource) Open(address string) (stream.Handle, error) {
	cam, err := gocv.VideoCaptureFile(address)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream %q: %w", address, err)
	}
	if !cam.IsOpened() {
		cam.Close()
		return nil, fmt.Errorf("failed to open stream %q: capture not opened", address)
	}

	mat := gocv.NewMat()
	return &VideoStream{
		address: address,
		capture: cam,
		frame:   &mat,
	}, nil
}

// VideoStream manages one network stream connection
type VideoStream struct {
	address string
	capture *gocv.VideoCapture
	frame   *gocv.Mat // Keep a reusable matrix to save memory
	closed  bool
}

// Read returns the next frame as a standard Go image.
// ToImage also takes care of the BGR -> RGB conversion.
func (vs *VideoStream) Read() (image.Image, error) {
	if vs.closed {
		return nil, fmt.Errorf("read %q: %w", vs.address, stream.ErrEndOfStream)
	}
	if !vs.capture.Read(vs.frame) {
		return nil, fmt.Errorf("read %q: %w", vs.address, stream.ErrEndOfStream)
	}
	if vs.frame.Empty() {
		return nil, fmt.Errorf("read %q: %w", vs.address, stream.ErrEmptyFrame)
	}

	img, err := vs.frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", vs.address, err)
	}
	return img, nil
}

// Close releases the capture and the frame buffer. Safe to call twice.
func (vs *VideoStream) Close() error {
	if vs.closed {
		return nil
	}
	vs.closed = true

	err := vs.capture.Close()
	if ferr := vs.frame.Close(); err == nil {
		err = ferr
	}
	return err
}
