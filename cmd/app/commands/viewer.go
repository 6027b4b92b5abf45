package commands

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/intothevoid/drishti/pkg/camera"
	"github.com/intothevoid/drishti/pkg/logger"
	"github.com/intothevoid/drishti/pkg/player"
	"github.com/intothevoid/drishti/pkg/session"
	"github.com/intothevoid/drishti/pkg/ui"
	"github.com/spf13/cobra"
)

func runViewer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// the viewer cannot start without at least one address
	streams, err := loadStreams(cfg)
	if err != nil {
		return err
	}

	scaler, err := cfg.Resizer()
	if err != nil {
		return err
	}

	// 1. Setup the Fyne UI App
	a := app.NewWithID("io.github.intothevoid.drishti")

	// 2. Stream panel first: it is both the session display and the loop viewport
	panel := ui.NewStreamPanel()
	sess := session.New(camera.NewVideoSource(), panel)
	loop := player.NewLoop(sess, ui.MainThreadScheduler{}, panel, panel, scaler, cfg.Interval)
	p := player.New(sess, loop)

	// 3. Menu and window
	menu := ui.NewMenuPanel(streams, p)
	window := ui.NewWindow(a, menu, panel,
		fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)),
		p.CloseStream,
	)

	if cfg.Autoplay {
		a.Lifecycle().SetOnStarted(menu.Play)
	}

	logger.WithComponent("viewer").Info().
		Int("streams", len(streams)).
		Dur("interval", cfg.Interval).
		Str("scaler", cfg.Scaler).
		Str("fit", cfg.Fit).
		Msg("starting viewer")

	// 4. Run
	window.ShowAndRun()

	// the app can quit without the window's close hook running
	p.CloseStream()
	return nil
}
