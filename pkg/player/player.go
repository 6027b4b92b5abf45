package player

import (
	"github.com/intothevoid/drishti/pkg/logger"
	"github.com/intothevoid/drishti/pkg/session"
)

// Player is what the selection menu talks to. It keeps the session and the
// render loop in step: the loop only runs while the session is open.
type Player struct {
	session  *session.Session
	loop     *Loop
	selected string
}

// New wires a player around an existing session and loop
func New(s *session.Session, l *Loop) *Player {
	return &Player{session: s, loop: l}
}

// Select switches to address. The current stream is always released before
// the new one is opened.
func (p *Player) Select(address string) error {
	p.selected = address
	p.loop.Stop()
	p.session.Close()

	if err := p.session.Open(address); err != nil {
		return err
	}

	logger.WithComponent("player").Debug().Str("address", address).Msg("render loop armed")
	p.loop.Start()
	return nil
}

// CloseStream stops rendering and releases the stream
func (p *Player) CloseStream() {
	p.loop.Stop()
	p.session.Close()
}

// Selected returns the last address passed to Select
func (p *Player) Selected() string {
	return p.selected
}

// Session exposes the session for status queries
func (p *Player) Session() *session.Session {
	return p.session
}

// Loop exposes the render loop for status queries
func (p *Player) Loop() *Loop {
	return p.loop
}
