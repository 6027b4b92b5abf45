package commands

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/intothevoid/drishti/pkg/camera"
	"github.com/intothevoid/drishti/pkg/logger"
	"github.com/intothevoid/drishti/pkg/player"
	"github.com/intothevoid/drishti/pkg/session"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe [ADDRESS]",
	Short: "Open a stream without a window and read a few frames",
	Long: `Open one stream through the same session and render loop the viewer
uses, read frames until --frames have been rendered or the stream fails,
then report what happened. Without ADDRESS the first configured stream is used.`,
	Example: `  drishti probe rtsp://192.168.1.20:554/stream1 --frames 50`,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runProbe,
}

var (
	probeFrames  int
	probeTimeout time.Duration
	probeWidth   int
	probeHeight  int
)

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().IntVarP(&probeFrames, "frames", "n", 25, "frames to render before stopping")
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 30*time.Second, "give up after this long")
	probeCmd.Flags().IntVar(&probeWidth, "width", 640, "scale target width")
	probeCmd.Flags().IntVar(&probeHeight, "height", 360, "scale target height")
}

// probeDisplay stands in for the window
type probeDisplay struct {
	width, height int
	frames        int
	want          int
	last          image.Rectangle
	status        string
	done          context.CancelFunc
}

func (d *probeDisplay) SetStatus(text string) {
	d.status = text
	logger.WithComponent("probe").Info().Str("status", text).Msg("status")
	if text == session.StatusReadError {
		d.done()
	}
}

func (d *probeDisplay) Clear() {}

func (d *probeDisplay) ShowFrame(img image.Image) {
	d.frames++
	d.last = img.Bounds()
	if d.frames >= d.want {
		d.done()
	}
}

func (d *probeDisplay) Size() (int, int) {
	return d.width, d.height
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if probeFrames < 1 {
		return fmt.Errorf("--frames must be at least 1")
	}

	var address string
	if len(args) == 1 {
		address = args[0]
	} else {
		streams, err := loadStreams(cfg)
		if err != nil {
			return err
		}
		address = streams[0]
	}

	scaler, err := cfg.Resizer()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
	defer cancel()

	disp := &probeDisplay{width: probeWidth, height: probeHeight, want: probeFrames, done: cancel}
	sched := player.NewSerialScheduler()
	sess := session.New(camera.NewVideoSource(), disp)
	loop := player.NewLoop(sess, sched, disp, disp, scaler, cfg.Interval)
	p := player.New(sess, loop)

	var openErr error
	started := time.Now()
	sched.Do(func() {
		if openErr = p.Select(address); openErr != nil {
			cancel()
		}
	})

	runErr := sched.Run(ctx)
	p.CloseStream()
	elapsed := time.Since(started)

	if openErr != nil {
		return openErr
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "address:  %s\n", address)
	fmt.Fprintf(out, "frames:   %d\n", disp.frames)
	fmt.Fprintf(out, "size:     %dx%d\n", disp.last.Dx(), disp.last.Dy())
	fmt.Fprintf(out, "elapsed:  %s\n", elapsed.Round(time.Millisecond))
	if disp.frames > 0 {
		fmt.Fprintf(out, "rate:     %.1f fps\n", float64(disp.frames)/elapsed.Seconds())
	}

	if errors.Is(runErr, context.DeadlineExceeded) && disp.frames < probeFrames {
		return fmt.Errorf("timed out after %d of %d frames", disp.frames, probeFrames)
	}
	if disp.frames < probeFrames {
		return fmt.Errorf("stream ended after %d of %d frames", disp.frames, probeFrames)
	}
	return nil
}
