// Package stream declares the capability the viewer needs from a video
// decoder: open an address, pull decoded frames, release the connection.
// It carries no decoder itself so the session and render loop build and test
// without OpenCV.
package stream

import (
	"errors"
	"image"
)

var (
	// ErrEndOfStream is returned once a stream stops producing frames
	ErrEndOfStream = errors.New("end of stream")
	// ErrEmptyFrame is returned when the decoder hands back an empty frame
	ErrEmptyFrame = errors.New("frame is empty")
)

// Source opens network video streams by address.
type Source interface {
	Open(address string) (Handle, error)
}

// Handle is an open stream. It is owned by exactly one caller.
type Handle interface {
	// Read blocks until the next frame is decoded.
	Read() (image.Image, error)
	// Close releases the connection. Calling it more than once is allowed.
	Close() error
}
