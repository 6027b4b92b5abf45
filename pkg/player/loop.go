package player

import (
	"errors"
	"image"
	"time"

	"github.com/intothevoid/drishti/pkg/logger"
	"github.com/intothevoid/drishti/pkg/session"
	"github.com/intothevoid/drishti/pkg/vision"
)

// DefaultInterval is the delay between the end of one tick and the next read
const DefaultInterval = 10 * time.Millisecond

// State of the render loop
type State int

const (
	Idle State = iota
	Scheduled
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scheduled:
		return "scheduled"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Viewport reports the current display area in pixels
type Viewport interface {
	Size() (width, height int)
}

// FrameSink shows a rendered frame
type FrameSink interface {
	ShowFrame(img image.Image)
}

// Loop pulls frames from the session on a fixed interval and renders them.
//
// A tick is only armed after the previous one has finished, so there is never
// more than one read in flight. Each tick is bound to the session generation
// it was armed for; ticks that fire after the session was closed or reopened
// are dropped.
type Loop struct {
	session  *session.Session
	sched    Scheduler
	view     Viewport
	sink     FrameSink
	scaler   vision.Scaler
	interval time.Duration

	state    State
	timer    Timer
	gen      uint64
	rendered int
}

// NewLoop creates an idle loop. A zero interval means DefaultInterval.
func NewLoop(s *session.Session, sched Scheduler, view Viewport, sink FrameSink, scaler vision.Scaler, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		session:  s,
		sched:    sched,
		view:     view,
		sink:     sink,
		scaler:   scaler,
		interval: interval,
	}
}

// Start begins rendering the session's current stream. Any pending tick of a
// previous stream is cancelled first.
func (l *Loop) Start() {
	l.cancel()
	if !l.session.IsOpen() {
		l.state = Stopped
		return
	}

	l.gen = l.session.Generation()
	l.rendered = 0
	l.arm()
}

// Stop cancels the pending tick, if any
func (l *Loop) Stop() {
	l.cancel()
	if l.state != Idle {
		l.state = Stopped
	}
}

// State returns the loop state
func (l *Loop) State() State {
	return l.state
}

// Rendered counts frames shown since the last Start
func (l *Loop) Rendered() int {
	return l.rendered
}

func (l *Loop) cancel() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

func (l *Loop) arm() {
	gen := l.gen
	l.state = Scheduled
	l.timer = l.sched.Schedule(l.interval, func() { l.tick(gen) })
}

func (l *Loop) tick(gen uint64) {
	if gen != l.gen || l.state != Scheduled {
		// a timer that fired after Stop or after a newer Start
		return
	}
	l.timer = nil

	if !l.session.IsOpen() || l.session.Generation() != gen {
		l.state = Stopped
		return
	}

	l.state = Running
	frame, err := l.session.ReadFrame()
	if err != nil {
		log := logger.WithComponent("loop")
		if !errors.Is(err, session.ErrNotOpen) {
			log.Warn().Err(err).
				Str("session", l.session.ID()).
				Int("frames", l.rendered).
				Msg("read failed, closing stream")
		}
		l.session.Fail()
		l.state = Stopped
		return
	}

	// the read blocks; drop the frame if the stream changed underneath it
	if !l.session.IsOpen() || l.session.Generation() != gen || l.state != Running {
		l.state = Stopped
		return
	}

	width, height := l.view.Size()
	l.sink.ShowFrame(l.scaler.Scale(frame, width, height))
	l.rendered++

	l.arm()
}
