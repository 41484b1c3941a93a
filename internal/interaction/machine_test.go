package interaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/crypticsy/VisionCaster/internal/button"
	"github.com/crypticsy/VisionCaster/internal/caption"
	"github.com/crypticsy/VisionCaster/internal/history"
)

// fakeFeedback records every output call in order.
type fakeFeedback struct {
	calls []string
}

func (f *fakeFeedback) Show(text string, hold time.Duration) {
	f.calls = append(f.calls, "show:"+text)
}
func (f *fakeFeedback) Clear() { f.calls = append(f.calls, "clear") }
func (f *fakeFeedback) Announce(ctx context.Context, text string) error {
	f.calls = append(f.calls, "announce:"+text)
	return nil
}
func (f *fakeFeedback) PlayClip(ctx context.Context, name string) error {
	f.calls = append(f.calls, "clip:"+name)
	return nil
}

// fakeCamera records capture paths and can simulate a slow or failing shot.
type fakeCamera struct {
	captured []string
	delay    time.Duration
	err      error
	busy     atomic.Bool
}

func (c *fakeCamera) Capture(ctx context.Context, path string) error {
	if c.err != nil {
		return c.err
	}
	c.busy.Store(true)
	defer c.busy.Store(false)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	c.captured = append(c.captured, path)
	return nil
}
func (c *fakeCamera) Close() error { return nil }

type fixedCaptioner struct{ text string }

func (c fixedCaptioner) Caption(ctx context.Context, imagePath string) string { return c.text }

type memLog struct {
	records []history.Record
	err     error
}

func (l *memLog) Append(r history.Record) error {
	if l.err != nil {
		return l.err
	}
	l.records = append(l.records, r)
	return nil
}

func newTestMachine(fb Feedback, cam *fakeCamera, log *memLog) *Machine {
	return NewMachine(fb, cam, fixedCaptioner{text: "a red bicycle"}, log, "data", 500*time.Millisecond)
}

func pressAndRelease(t *testing.T, m *Machine, start time.Time, held time.Duration) error {
	t.Helper()
	if err := m.HandleEvent(context.Background(), button.Event{Edge: button.Pressed, At: start}); err != nil {
		t.Fatalf("press: %v", err)
	}
	return m.HandleEvent(context.Background(), button.Event{Edge: button.Released, At: start.Add(held)})
}

func TestClassificationBoundary(t *testing.T) {
	cases := []struct {
		name  string
		held  time.Duration
		fires bool
	}{
		{"well under threshold", 200 * time.Millisecond, true},
		{"just under threshold", 499 * time.Millisecond, true},
		{"exactly at threshold", 500 * time.Millisecond, false},
		{"long hold", 2 * time.Second, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cam := &fakeCamera{}
			log := &memLog{}
			m := newTestMachine(&fakeFeedback{}, cam, log)

			if err := pressAndRelease(t, m, time.Now(), tc.held); err != nil {
				t.Fatalf("release: %v", err)
			}

			fired := len(log.records) == 1
			if fired != tc.fires {
				t.Fatalf("held %v: pipeline fired=%v, want %v", tc.held, fired, tc.fires)
			}
			if !m.Idle() {
				t.Fatal("machine not back in idle")
			}
		})
	}
}

func TestLongPressGivesNoFeedback(t *testing.T) {
	fb := &fakeFeedback{}
	var longPresses int
	m := newTestMachine(fb, &fakeCamera{}, &memLog{})
	m.Hooks.LongPress = func() { longPresses++ }

	if err := pressAndRelease(t, m, time.Now(), time.Second); err != nil {
		t.Fatalf("release: %v", err)
	}
	if len(fb.calls) != 0 {
		t.Fatalf("long press produced feedback: %v", fb.calls)
	}
	if longPresses != 1 {
		t.Fatalf("expected 1 long press hook call, got %d", longPresses)
	}
}

func TestExactlyOneRecordPerQualifyingPress(t *testing.T) {
	cam := &fakeCamera{}
	log := &memLog{}
	m := newTestMachine(&fakeFeedback{}, cam, log)

	start := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		at := start.Add(time.Duration(i) * 2 * time.Second)
		if err := pressAndRelease(t, m, at, 100*time.Millisecond); err != nil {
			t.Fatalf("press %d: %v", i, err)
		}
	}

	if len(log.records) != 3 {
		t.Fatalf("expected 3 records for 3 presses, got %d", len(log.records))
	}
	if len(cam.captured) != 3 {
		t.Fatalf("expected 3 captures, got %d", len(cam.captured))
	}
	for i, r := range log.records {
		if r.Filename != cam.captured[i] {
			t.Fatalf("record %d filename %q does not match capture %q", i, r.Filename, cam.captured[i])
		}
		if i > 0 && r.CreatedAt <= log.records[i-1].CreatedAt {
			t.Fatalf("records out of chronological order: %q then %q", log.records[i-1].CreatedAt, r.CreatedAt)
		}
	}
}

func TestPipelineOrderAndPhotoNaming(t *testing.T) {
	fb := &fakeFeedback{}
	cam := &fakeCamera{}
	log := &memLog{}
	m := newTestMachine(fb, cam, log)

	release := time.Date(2026, 8, 28, 14, 30, 5, 0, time.UTC)
	if err := pressAndRelease(t, m, release.Add(-100*time.Millisecond), 100*time.Millisecond); err != nil {
		t.Fatalf("release: %v", err)
	}

	want := []string{
		"show:" + MsgSmile,
		"clip:" + ClipShutter,
		"announce:" + MsgProcessing,
		"show:" + MsgProcessing,
		"show:a red bicycle",
		"announce:a red bicycle",
		"clear",
	}
	if fmt.Sprint(fb.calls) != fmt.Sprint(want) {
		t.Fatalf("feedback order:\n got %v\nwant %v", fb.calls, want)
	}

	wantName := "data/photo_20260828_143005.png"
	if cam.captured[0] != wantName {
		t.Fatalf("photo path %q, want %q", cam.captured[0], wantName)
	}
	if log.records[0].CreatedAt != release.Format(time.RFC3339) {
		t.Fatalf("createdAt %q, want release time", log.records[0].CreatedAt)
	}
}

// failingBackend always errors, driving the caption service to its fallback.
type failingBackend struct{}

func (failingBackend) Name() string { return "failing" }
func (failingBackend) Describe(ctx context.Context, imagePath string) (string, error) {
	return "", errors.New("model exploded")
}
func (failingBackend) Close() error { return nil }

func TestCaptionFailureDegradesButStillLogs(t *testing.T) {
	cam := &fakeCamera{}
	log := &memLog{}
	svc := caption.NewService(failingBackend{})
	m := NewMachine(&fakeFeedback{}, cam, svc, log, "data", 500*time.Millisecond)

	if err := pressAndRelease(t, m, time.Now(), 100*time.Millisecond); err != nil {
		t.Fatalf("pipeline should not fail on caption degradation: %v", err)
	}
	if len(log.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(log.records))
	}
	if log.records[0].Caption != caption.Fallback {
		t.Fatalf("caption %q, want fallback %q", log.records[0].Caption, caption.Fallback)
	}
}

func TestCaptureFailureProducesNoRecord(t *testing.T) {
	cam := &fakeCamera{err: errors.New("camera unplugged")}
	log := &memLog{}
	m := newTestMachine(&fakeFeedback{}, cam, log)

	err := pressAndRelease(t, m, time.Now(), 100*time.Millisecond)
	if err == nil {
		t.Fatal("expected capture failure to propagate")
	}
	if len(log.records) != 0 {
		t.Fatalf("failed press must not produce a record, got %d", len(log.records))
	}
}

// busyCheckedPoller fails the test if the machine samples the button while
// the camera is mid-capture, then cancels the run once its script is spent.
type busyCheckedPoller struct {
	t      *testing.T
	cam    *fakeCamera
	events []*button.Event
	i      int
	cancel context.CancelFunc
}

func (p *busyCheckedPoller) Poll() *button.Event {
	if p.cam.busy.Load() {
		p.t.Error("button sampled while pipeline was running")
	}
	if p.i < len(p.events) {
		ev := p.events[p.i]
		p.i++
		return ev
	}
	p.cancel()
	return nil
}

func TestNoPressObservedDuringBusyPipeline(t *testing.T) {
	cam := &fakeCamera{delay: 50 * time.Millisecond}
	log := &memLog{}
	m := newTestMachine(&fakeFeedback{}, cam, log)

	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	poller := &busyCheckedPoller{
		t:   t,
		cam: cam,
		events: []*button.Event{
			{Edge: button.Pressed, At: start},
			{Edge: button.Released, At: start.Add(100 * time.Millisecond)},
		},
		cancel: cancel,
	}

	if err := m.Run(ctx, poller); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(log.records) != 1 {
		t.Fatalf("expected exactly 1 record, got %d", len(log.records))
	}
	if !m.Idle() {
		t.Fatal("machine not back in idle after run")
	}
}

// steppedLine replays raw samples for the end-to-end scenario.
type steppedLine struct {
	levels []bool
	i      int
}

func (l *steppedLine) Read() bool {
	v := l.levels[l.i]
	if l.i < len(l.levels)-1 {
		l.i++
	}
	return v
}

// cancelWhenSpent stops the run once the underlying line script is
// exhausted.
type cancelWhenSpent struct {
	d      *button.Debouncer
	line   *steppedLine
	cancel context.CancelFunc
}

func (c *cancelWhenSpent) Poll() *button.Event {
	if c.line.i >= len(c.line.levels)-1 {
		c.cancel()
	}
	return c.d.Poll()
}

func TestEndToEnd_ShortPressThroughDebouncer(t *testing.T) {
	// Raw line scenario: idle → press (two samples ≈ 20ms at a 10ms
	// debounce) → release → idle. Real sleeps, scaled down from the
	// device's 100ms interval.
	line := &steppedLine{levels: []bool{true, false, false, true, true, true}}
	deb := button.NewDebouncer(line, 10*time.Millisecond)

	fb := &fakeFeedback{}
	cam := &fakeCamera{}
	log := &memLog{}
	m := NewMachine(fb, cam, fixedCaptioner{text: "a hand waving"}, log, "data", 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	if err := m.Run(ctx, &cancelWhenSpent{d: deb, line: line, cancel: cancel}); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(log.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(log.records))
	}
	if len(cam.captured) != 1 || !strings.HasPrefix(cam.captured[0], "data/photo_") {
		t.Fatalf("unexpected captures: %v", cam.captured)
	}
	if log.records[0].Caption != "a hand waving" {
		t.Fatalf("caption %q", log.records[0].Caption)
	}
	if !m.Idle() {
		t.Fatal("machine not ready for the next press")
	}
}
