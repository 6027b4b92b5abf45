package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/intothevoid/drishti/pkg/logger"
)

// Controller handles the menu commands
type Controller interface {
	Select(address string) error
	CloseStream()
}

// MenuPanel lists the stream addresses and the playback buttons
type MenuPanel struct {
	ctrl     Controller
	selector *widget.Select
	playBtn  *widget.Button
	closeBtn *widget.Button
	content  fyne.CanvasObject
}

// NewMenuPanel builds the menu with the first stream preselected. Preselecting
// does not start playback.
func NewMenuPanel(streams []string, ctrl Controller) *MenuPanel {
	m := &MenuPanel{ctrl: ctrl}

	m.selector = widget.NewSelect(streams, nil)
	if len(streams) > 0 {
		m.selector.SetSelected(streams[0])
	}
	m.selector.OnChanged = func(address string) {
		m.open(address)
	}

	m.playBtn = widget.NewButton("Play Stream", m.Play)
	m.closeBtn = widget.NewButton("Close Stream", ctrl.CloseStream)

	m.content = container.NewVBox(
		widget.NewLabel("RTSP Streams Menu"),
		m.selector,
		m.playBtn,
		m.closeBtn,
	)
	return m
}

// Play opens the address shown in the selector
func (m *MenuPanel) Play() {
	m.open(m.selector.Selected)
}

func (m *MenuPanel) open(address string) {
	if address == "" {
		return
	}
	// the failure is already on the status line
	if err := m.ctrl.Select(address); err != nil {
		logger.WithComponent("ui").Debug().Err(err).Msg("select failed")
	}
}

// Selected returns the address shown in the selector
func (m *MenuPanel) Selected() string {
	return m.selector.Selected
}

// Content returns the panel's canvas object
func (m *MenuPanel) Content() fyne.CanvasObject {
	return m.content
}
