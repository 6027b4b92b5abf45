package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"github.com/intothevoid/drishti/pkg/player"
)

// MainThreadScheduler runs scheduled callbacks on the fyne event thread,
// the same thread that delivers menu events.
type MainThreadScheduler struct{}

// Schedule implements player.Scheduler
func (MainThreadScheduler) Schedule(delay time.Duration, fn func()) player.Timer {
	return time.AfterFunc(delay, func() { fyne.Do(fn) })
}
