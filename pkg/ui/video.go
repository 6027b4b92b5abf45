package ui

import (
	"image"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// VideoDisplay shows the latest rendered frame. Frames arrive already scaled
// to PixelSize, so the image is stretched 1:1 over the widget.
type VideoDisplay struct {
	widget.BaseWidget

	image *canvas.Image
}

// NewVideoDisplay is used to create widget instance
func NewVideoDisplay() *VideoDisplay {
	v := &VideoDisplay{}
	v.ExtendBaseWidget(v)

	v.image = canvas.NewImageFromImage(nil)
	v.image.FillMode = canvas.ImageFillStretch
	v.image.ScaleMode = canvas.ImageScaleFastest
	v.image.SetMinSize(fyne.NewSize(320, 180))
	return v
}

// ShowFrame replaces the displayed frame
func (v *VideoDisplay) ShowFrame(img image.Image) {
	v.image.Image = img
	v.image.Refresh()
}

// Clear blanks the display
func (v *VideoDisplay) Clear() {
	v.image.Image = nil
	v.image.Refresh()
}

// Frame returns the displayed frame, nil when blank
func (v *VideoDisplay) Frame() image.Image {
	return v.image.Image
}

// PixelSize returns the widget size in device pixels. Before the window is
// shown this is the logical size.
func (v *VideoDisplay) PixelSize() (int, int) {
	size := v.Size()
	scale := float32(1)
	if app := fyne.CurrentApp(); app != nil {
		if c := app.Driver().CanvasForObject(v); c != nil {
			scale = c.Scale()
		}
	}
	w := int(math.Round(float64(size.Width * scale)))
	h := int(math.Round(float64(size.Height * scale)))
	return w, h
}

// CreateRenderer is used to create a video renderer
func (v *VideoDisplay) CreateRenderer() fyne.WidgetRenderer {
	return &videoRenderer{v}
}

// videoRenderer implements the logic to draw the widget
type videoRenderer struct {
	v *VideoDisplay
}

// Destroy implements [fyne.WidgetRenderer].
func (r *videoRenderer) Destroy() {}

// MinSize implements [fyne.WidgetRenderer].
func (r *videoRenderer) MinSize() fyne.Size {
	return r.v.image.MinSize()
}

// Objects implements [fyne.WidgetRenderer].
func (r *videoRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.v.image}
}

// Refresh implements [fyne.WidgetRenderer].
func (r *videoRenderer) Refresh() {
	r.v.image.Refresh()
}

func (r *videoRenderer) Layout(s fyne.Size) {
	r.v.image.Resize(s)
}
