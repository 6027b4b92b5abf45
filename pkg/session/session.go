// Package session owns the one open stream of the viewer.
//
// A Session is either closed or open on exactly one address. Opening never
// happens on top of an open handle: callers close first, and Open refuses to
// run otherwise. Every state change is pushed to a Display as status text.
//
// A Session is not safe for concurrent use. The viewer drives it from a single
// event thread.
package session

import (
	"errors"
	"fmt"
	"image"

	"github.com/google/uuid"
	"github.com/intothevoid/drishti/pkg/logger"
	"github.com/intothevoid/drishti/pkg/stream"
)

// Status texts shown above the video
const (
	StatusIdle      = "RTSP Stream"
	StatusOpenError = "Error: Couldn't open the stream"
	StatusReadError = "Error: Couldn't read frame"
)

// StatusStreaming is the status text for an open stream
func StatusStreaming(address string) string {
	return StatusIdle + ": " + address
}

var (
	// ErrOpen wraps every failure to open an address
	ErrOpen = errors.New("couldn't open the stream")
	// ErrRead wraps every failure to read a frame
	ErrRead = errors.New("couldn't read frame")
	// ErrNotOpen is returned by ReadFrame on a closed session
	ErrNotOpen = errors.New("session is not open")
	// ErrAlreadyOpen is returned by Open when the previous handle was not released
	ErrAlreadyOpen = errors.New("session is already open")
)

// Display receives what the session wants the user to see
type Display interface {
	SetStatus(text string)
	// Clear blanks the displayed frame
	Clear()
}

// Session holds at most one open stream handle
type Session struct {
	source  stream.Source
	display Display

	handle     stream.Handle
	address    string
	id         string
	status     string
	generation uint64
}

// New creates a closed session
func New(source stream.Source, display Display) *Session {
	s := &Session{
		source:  source,
		display: display,
	}
	s.setStatus(StatusIdle)
	return s
}

// Open connects to address. The session must be closed.
func (s *Session) Open(address string) error {
	if s.handle != nil {
		return fmt.Errorf("open %q: %w", address, ErrAlreadyOpen)
	}

	log := logger.WithComponent("session")

	h, err := s.source.Open(address)
	if err != nil {
		log.Warn().Err(err).Str("address", address).Msg("open failed")
		s.setStatus(StatusOpenError)
		return fmt.Errorf("%w: %s: %w", ErrOpen, address, err)
	}
	if h == nil {
		log.Warn().Str("address", address).Msg("open returned no handle")
		s.setStatus(StatusOpenError)
		return fmt.Errorf("%w: %s", ErrOpen, address)
	}

	s.handle = h
	s.address = address
	s.id = uuid.NewString()
	s.generation++
	s.setStatus(StatusStreaming(address))

	log.Info().
		Str("address", address).
		Str("session", s.id).
		Uint64("generation", s.generation).
		Msg("stream opened")
	return nil
}

// Close releases the handle and blanks the display. Closing a closed session does nothing.
func (s *Session) Close() {
	s.closeWith(StatusIdle)
}

// Fail closes the session after a read error and leaves the read error visible
func (s *Session) Fail() {
	s.closeWith(StatusReadError)
}

func (s *Session) closeWith(status string) {
	if s.handle == nil {
		return
	}

	log := logger.WithComponent("session")
	if err := s.handle.Close(); err != nil {
		log.Warn().Err(err).Str("session", s.id).Msg("release failed")
	}
	log.Info().Str("address", s.address).Str("session", s.id).Msg("stream closed")

	s.handle = nil
	s.address = ""
	s.id = ""
	s.display.Clear()
	s.setStatus(status)
}

// ReadFrame pulls the next frame from the open stream
func (s *Session) ReadFrame() (image.Image, error) {
	if s.handle == nil {
		return nil, ErrNotOpen
	}

	img, err := s.handle.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if img == nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, stream.ErrEmptyFrame)
	}
	return img, nil
}

// IsOpen reports whether a handle is held
func (s *Session) IsOpen() bool {
	return s.handle != nil
}

// Address returns the open address, or "" when closed
func (s *Session) Address() string {
	return s.address
}

// ID returns the log correlation id of the open stream
func (s *Session) ID() string {
	return s.id
}

// Status returns the current status text
func (s *Session) Status() string {
	return s.status
}

// Generation counts successful opens. Work scheduled against one generation
// is stale once it changes.
func (s *Session) Generation() uint64 {
	return s.generation
}

func (s *Session) setStatus(text string) {
	s.status = text
	s.display.SetStatus(text)
}
