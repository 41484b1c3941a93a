// Package interaction implements the press-driven state machine at the
// heart of the appliance.
//
// The machine consumes debounced button transitions, classifies each press
// span by held duration, and drives the capture → caption → present →
// persist sequence exactly once per qualifying short press. The pipeline is
// synchronous and blocking on purpose: while it runs, the button is simply
// not sampled, so a press during a busy pipeline is dropped, never queued.
// Single-threaded simplicity beats responsiveness for a one-user device.
package interaction

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/crypticsy/VisionCaster/internal/button"
	"github.com/crypticsy/VisionCaster/internal/camera"
	"github.com/crypticsy/VisionCaster/internal/history"
)

// Messages shown and spoken during an interaction.
const (
	MsgSmile      = "Smile for the camera!"
	MsgProcessing = "Processing image..."
	MsgReady      = "Ready..."
	MsgExiting    = "Exiting..."
)

// Named audio clips the pipeline plays.
const (
	ClipStart   = "start"
	ClipShutter = "shutter"
)

type state int

const (
	stateIdle state = iota
	statePressed
)

// Feedback is the user-facing output surface (display + speech).
type Feedback interface {
	Show(text string, hold time.Duration)
	Clear()
	Announce(ctx context.Context, text string) error
	PlayClip(ctx context.Context, name string) error
}

// Captioner produces a caption for a captured photo. It never fails — a
// degraded backend yields the fallback caption instead.
type Captioner interface {
	Caption(ctx context.Context, imagePath string) string
}

// Recorder appends one interaction record to the persistent log.
type Recorder interface {
	Append(r history.Record) error
}

// Poller yields the next debounced button transition, or nil.
type Poller interface {
	Poll() *button.Event
}

// Hooks are optional observation points, used for metrics.
type Hooks struct {
	// ShortPress fires after a completed pipeline with its total duration.
	ShortPress func(took time.Duration)

	// LongPress fires when a hold is discarded.
	LongPress func()
}

// Machine sequences the interaction pipeline.
type Machine struct {
	feedback   Feedback
	camera     camera.Camera
	captioner  Captioner
	log        Recorder
	dataDir    string
	shortPress time.Duration

	// Hooks may be set before Run; all fields are optional.
	Hooks Hooks

	state     state
	pressedAt time.Time

	now func() time.Time
}

// NewMachine wires the pipeline collaborators. shortPress is the held
// duration at and above which a press is discarded as a long hold.
func NewMachine(fb Feedback, cam camera.Camera, captioner Captioner, log Recorder, dataDir string, shortPress time.Duration) *Machine {
	return &Machine{
		feedback:   fb,
		camera:     cam,
		captioner:  captioner,
		log:        log,
		dataDir:    dataDir,
		shortPress: shortPress,
		state:      stateIdle,
		now:        time.Now,
	}
}

// Idle reports whether the machine is between presses.
func (m *Machine) Idle() bool { return m.state == stateIdle }

// Run polls for transitions until ctx is cancelled. Pipeline faults other
// than captioning (camera, audio, log persistence) are fatal and end the
// loop.
func (m *Machine) Run(ctx context.Context, poller Poller) error {
	for ctx.Err() == nil {
		ev := poller.Poll()
		if ev == nil {
			continue
		}
		if err := m.HandleEvent(ctx, *ev); err != nil {
			return err
		}
	}
	return nil
}

// HandleEvent consumes one debounced transition.
func (m *Machine) HandleEvent(ctx context.Context, ev button.Event) error {
	switch m.state {
	case stateIdle:
		// A released edge in idle means the process started with the button
		// already held; there is no press span to classify.
		if ev.Edge == button.Pressed {
			m.pressedAt = ev.At
			m.state = statePressed
		}
		return nil

	case statePressed:
		if ev.Edge != button.Released {
			return nil
		}
		m.state = stateIdle

		held := ev.At.Sub(m.pressedAt)
		if held >= m.shortPress {
			// Deliberate policy: accidental long holds are discarded with
			// no feedback at all.
			slog.Debug("long press discarded", "held", held)
			if m.Hooks.LongPress != nil {
				m.Hooks.LongPress()
			}
			return nil
		}

		slog.Info("qualifying press", "held", held)
		return m.runPipeline(ctx, ev.At)
	}
	return nil
}

// runPipeline executes the capture sequence as an uninterruptible whole.
// Exactly one record is appended per press that completes capture; a fault
// before the append produces no partial record.
func (m *Machine) runPipeline(ctx context.Context, releasedAt time.Time) error {
	start := m.now()
	filename := filepath.Join(m.dataDir, "photo_"+releasedAt.Format("20060102_150405")+".png")

	m.feedback.Show(MsgSmile, 0)
	if err := m.camera.Capture(ctx, filename); err != nil {
		return fmt.Errorf("capturing photo: %w", err)
	}
	if err := m.feedback.PlayClip(ctx, ClipShutter); err != nil {
		return fmt.Errorf("playing shutter: %w", err)
	}

	if err := m.feedback.Announce(ctx, MsgProcessing); err != nil {
		return fmt.Errorf("announcing: %w", err)
	}
	m.feedback.Show(MsgProcessing, 0)

	caption := m.captioner.Caption(ctx, filename)

	if err := m.log.Append(history.Record{
		CreatedAt: releasedAt.Format(time.RFC3339),
		Caption:   caption,
		Filename:  filename,
	}); err != nil {
		return fmt.Errorf("recording interaction: %w", err)
	}

	m.feedback.Show(caption, 0)
	if err := m.feedback.Announce(ctx, caption); err != nil {
		return fmt.Errorf("announcing caption: %w", err)
	}
	m.feedback.Clear()

	took := m.now().Sub(start)
	slog.Info("interaction complete", "photo", filename, "caption", caption, "took", took)
	if m.Hooks.ShortPress != nil {
		m.Hooks.ShortPress(took)
	}
	return nil
}
