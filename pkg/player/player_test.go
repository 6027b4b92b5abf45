package player

import (
	"context"
	"image"
	"slices"
	"testing"
	"time"

	"github.com/intothevoid/drishti/pkg/session"
	"github.com/intothevoid/drishti/pkg/stream/streamtest"
	"github.com/intothevoid/drishti/pkg/vision"
)

// manualScheduler fires timers only when the test says so
type manualScheduler struct {
	timers     []*manualTimer
	maxPending int
}

type manualTimer struct {
	delay   time.Duration
	fn      func()
	fired   bool
	stopped bool
}

func (t *manualTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) Schedule(delay time.Duration, fn func()) Timer {
	t := &manualTimer{delay: delay, fn: fn}
	s.timers = append(s.timers, t)
	s.maxPending = max(s.maxPending, s.pending())
	return t
}

func (s *manualScheduler) pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// fire runs the oldest pending timer
func (s *manualScheduler) fire() bool {
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			t.fired = true
			t.fn()
			return true
		}
	}
	return false
}

// drain fires until nothing is pending, with a safety cap
func (s *manualScheduler) drain(limit int) int {
	n := 0
	for n < limit && s.fire() {
		n++
	}
	return n
}

type fixture struct {
	src    *streamtest.Source
	disp   *streamtest.Display
	sched  *manualScheduler
	sess   *session.Session
	loop   *Loop
	player *Player
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		src:   streamtest.NewSource(),
		disp:  streamtest.NewDisplay(160, 120),
		sched: &manualScheduler{},
	}
	scaler, err := vision.NewResizer("nearest", vision.FitStretch)
	if err != nil {
		t.Fatal(err)
	}
	f.sess = session.New(f.src, f.disp)
	f.loop = NewLoop(f.sess, f.sched, f.disp, f.disp, scaler, 0)
	f.player = New(f.sess, f.loop)
	return f
}

func TestLoopStopsAtEndOfStream(t *testing.T) {
	f := newFixture(t)
	f.src.FramesBeforeEOS = 4

	if err := f.player.Select("rtsp://cam1"); err != nil {
		t.Fatal(err)
	}
	if f.loop.State() != Scheduled {
		t.Fatalf("state after Select = %s, want scheduled", f.loop.State())
	}

	f.sched.drain(100)

	if got := f.loop.Rendered(); got != 4 {
		t.Errorf("Rendered = %d, want 4", got)
	}
	if f.loop.State() != Stopped {
		t.Errorf("state = %s, want stopped", f.loop.State())
	}
	if f.sess.IsOpen() {
		t.Error("session still open after read error")
	}
	if f.disp.Status() != session.StatusReadError {
		t.Errorf("status = %q, want %q", f.disp.Status(), session.StatusReadError)
	}
	if reads := f.src.Handles[0].Reads; reads != 5 {
		t.Errorf("reads = %d, want 5", reads)
	}
	if f.sched.pending() != 0 {
		t.Errorf("%d timers pending after stop", f.sched.pending())
	}
	if f.disp.Current() != nil {
		t.Error("frame still displayed after the stream closed")
	}
}

func TestLoopUsesFixedInterval(t *testing.T) {
	f := newFixture(t)
	_ = f.player.Select("rtsp://cam1")
	f.sched.fire()
	for _, tm := range f.sched.timers {
		if tm.delay != 10*time.Millisecond {
			t.Errorf("timer delay = %v, want 10ms", tm.delay)
		}
	}
}

func TestSelectClosesBeforeOpening(t *testing.T) {
	streams := []string{"rtsp://cam1", "rtsp://cam2"}
	f := newFixture(t)

	if err := f.player.Select(streams[0]); err != nil {
		t.Fatal(err)
	}
	f.sched.fire()
	before := len(f.src.Calls)

	if err := f.player.Select(streams[1]); err != nil {
		t.Fatal(err)
	}

	got := f.src.Calls[before:]
	want := []string{"close rtsp://cam1", "open rtsp://cam2"}
	if !slices.Equal(got, want) {
		t.Errorf("calls on select = %v, want %v", got, want)
	}
	if f.disp.Status() != "RTSP Stream: rtsp://cam2" {
		t.Errorf("status = %q", f.disp.Status())
	}
}

func TestAtMostOneHandleAndOneTimer(t *testing.T) {
	f := newFixture(t)
	for i, addr := range []string{"rtsp://a", "rtsp://b", "rtsp://a", "rtsp://c"} {
		if err := f.player.Select(addr); err != nil {
			t.Fatal(err)
		}
		for j := 0; j <= i; j++ {
			f.sched.fire()
		}
	}
	if f.src.MaxOpenHandles() != 1 {
		t.Errorf("MaxOpenHandles = %d, want 1", f.src.MaxOpenHandles())
	}
	if f.sched.maxPending != 1 {
		t.Errorf("max pending timers = %d, want 1", f.sched.maxPending)
	}
}

func TestStaleTickIsDropped(t *testing.T) {
	f := newFixture(t)
	_ = f.player.Select("rtsp://cam1")
	old := f.sched.timers[0]

	_ = f.player.Select("rtsp://cam2")
	if !old.stopped {
		t.Error("reselect did not cancel the pending tick")
	}

	// the callback may already be queued on the event thread when Stop runs
	old.fn()

	if reads := f.src.Handles[1].Reads; reads != 0 {
		t.Errorf("stale tick read %d frames from the new stream", reads)
	}
	if f.loop.State() != Scheduled {
		t.Errorf("state = %s, want scheduled", f.loop.State())
	}
	if f.sched.pending() != 1 {
		t.Errorf("pending = %d, want 1", f.sched.pending())
	}
}

func TestCloseStreamBetweenTicks(t *testing.T) {
	f := newFixture(t)
	_ = f.player.Select("rtsp://cam1")
	f.sched.fire()
	pendingTick := f.sched.timers[len(f.sched.timers)-1]

	f.player.CloseStream()

	if f.loop.State() != Stopped {
		t.Errorf("state = %s, want stopped", f.loop.State())
	}
	if f.disp.Status() != session.StatusIdle {
		t.Errorf("status = %q, want %q", f.disp.Status(), session.StatusIdle)
	}
	reads := f.src.Handles[0].Reads
	pendingTick.fn()
	if f.src.Handles[0].Reads != reads {
		t.Error("tick after close read from the released handle")
	}
	if f.sched.fire() {
		t.Error("a tick was re-armed after close")
	}
}

func TestTickNoticesClosedSession(t *testing.T) {
	f := newFixture(t)
	_ = f.player.Select("rtsp://cam1")

	// closed behind the loop's back
	f.sess.Close()
	f.sched.fire()

	if f.loop.State() != Stopped {
		t.Errorf("state = %s, want stopped", f.loop.State())
	}
	if f.sched.pending() != 0 {
		t.Error("loop re-armed for a closed session")
	}
	if f.disp.Status() != session.StatusIdle {
		t.Errorf("status = %q", f.disp.Status())
	}
}

func TestOpenFailureDoesNotArm(t *testing.T) {
	f := newFixture(t)
	f.src.Fail["rtsp://down"] = true

	if err := f.player.Select("rtsp://down"); err == nil {
		t.Fatal("expected open error")
	}
	if f.loop.State() == Scheduled || f.sched.pending() != 0 {
		t.Errorf("loop armed after failed open: state %s, pending %d", f.loop.State(), f.sched.pending())
	}
	if f.disp.Status() != session.StatusOpenError {
		t.Errorf("status = %q, want %q", f.disp.Status(), session.StatusOpenError)
	}
}

func TestResizeOnlyChangesScaleTarget(t *testing.T) {
	f := newFixture(t)
	_ = f.player.Select("rtsp://cam1")

	f.sched.fire()
	status, gen := f.sess.Status(), f.sess.Generation()

	f.disp.Width, f.disp.Height = 400, 300
	f.sched.fire()

	if got := f.disp.Frames[len(f.disp.Frames)-2].Bounds(); got != image.Rect(0, 0, 160, 120) {
		t.Errorf("first frame = %v, want 160x120", got)
	}
	if got := f.disp.Current().Bounds(); got != image.Rect(0, 0, 400, 300) {
		t.Errorf("second frame = %v, want 400x300", got)
	}
	if f.sess.Status() != status || f.sess.Generation() != gen || !f.sess.IsOpen() {
		t.Error("resize changed session state")
	}
}

func TestFramesRenderInOrder(t *testing.T) {
	f := newFixture(t)
	f.src.FramesBeforeEOS = 3
	_ = f.player.Select("rtsp://cam1")
	f.sched.drain(10)

	var shades []uint8
	for _, img := range f.disp.Frames {
		if img != nil {
			shades = append(shades, streamtest.Shade(img))
		}
	}
	if !slices.Equal(shades, []uint8{1, 2, 3}) {
		t.Errorf("shades = %v, want [1 2 3]", shades)
	}
}

func TestSerialSchedulerRunsOnRunGoroutine(t *testing.T) {
	s := NewSerialScheduler()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	var order []int
	finished := make(chan struct{})
	s.Schedule(time.Millisecond, func() {
		order = append(order, 1)
		s.Schedule(time.Millisecond, func() {
			order = append(order, 2)
			close(finished)
		})
	})

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled callbacks did not run")
	}
	cancel()
	<-done

	if !slices.Equal(order, []int{1, 2}) {
		t.Errorf("order = %v", order)
	}

	// must not block once Run has returned
	s.Do(func() { t.Error("callback ran after Run returned") })
}

func TestSerialSchedulerStop(t *testing.T) {
	s := NewSerialScheduler()
	tm := s.Schedule(time.Hour, func() {})
	if !tm.Stop() {
		t.Error("Stop on pending timer returned false")
	}
	if tm.Stop() {
		t.Error("second Stop returned true")
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Idle: "idle", Scheduled: "scheduled", Running: "running", Stopped: "stopped", State(9): "unknown"} {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
