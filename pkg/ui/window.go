package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// Title of the main window
const Title = "RTSP Stream Player"

// NewWindow lays out the menu on the left and the stream on the right.
// onClose runs when the window goes away, before the app exits.
func NewWindow(a fyne.App, menu *MenuPanel, stream *StreamPanel, size fyne.Size, onClose func()) fyne.Window {
	w := a.NewWindow(Title)
	w.SetContent(container.NewBorder(nil, nil, menu.Content(), nil, stream.Content()))
	w.Resize(size)
	if onClose != nil {
		w.SetOnClosed(onClose)
	}
	return w
}
