package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

var borderColor = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}

// StreamPanel is the right hand side of the window: status line above a
// framed video display. It is the session's Display and the loop's viewport.
type StreamPanel struct {
	status  *widget.Label
	video   *VideoDisplay
	content fyne.CanvasObject
}

// NewStreamPanel builds the panel
func NewStreamPanel() *StreamPanel {
	p := &StreamPanel{
		status: widget.NewLabel("RTSP Stream"),
		video:  NewVideoDisplay(),
	}
	p.status.Alignment = fyne.TextAlignCenter

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = borderColor
	border.StrokeWidth = 2

	framed := container.NewStack(border, container.NewPadded(p.video))
	p.content = container.NewPadded(container.NewBorder(p.status, nil, nil, nil, framed))
	return p
}

// SetStatus updates the status line
func (p *StreamPanel) SetStatus(text string) {
	p.status.SetText(text)
}

// Status returns the status line text
func (p *StreamPanel) Status() string {
	return p.status.Text
}

// ShowFrame displays a rendered frame
func (p *StreamPanel) ShowFrame(img image.Image) {
	p.video.ShowFrame(img)
}

// Clear blanks the video
func (p *StreamPanel) Clear() {
	p.video.Clear()
}

// Size is the current video area in pixels, the scale target of the next frame
func (p *StreamPanel) Size() (int, int) {
	return p.video.PixelSize()
}

// Video returns the display widget
func (p *StreamPanel) Video() *VideoDisplay {
	return p.video
}

// Content returns the panel's canvas object
func (p *StreamPanel) Content() fyne.CanvasObject {
	return p.content
}
