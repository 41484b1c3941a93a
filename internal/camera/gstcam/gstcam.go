// Package gstcam captures stills through a GStreamer pipeline:
//
//	libcamerasrc ! videoconvert ! valve ! pngenc snapshot=true ! filesink
//
// The pipeline starts with the valve dropping frames; after the warm-up
// delay the valve opens, pngenc encodes the first frame that passes and
// signals EOS. This keeps exposure settling inside the running pipeline
// instead of discarding a half-initialized sensor state.
package gstcam

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tinyzimmer/go-gst/gst"

	"github.com/crypticsy/VisionCaster/internal/config"
)

var initOnce sync.Once

// Camera builds one short-lived pipeline per capture.
type Camera struct {
	width  int
	height int
	warmup time.Duration
}

// New creates a GStreamer camera from config.
func New(cfg config.CameraConfig) *Camera {
	initOnce.Do(func() { gst.Init(nil) })
	return &Camera{
		width:  cfg.Width,
		height: cfg.Height,
		warmup: cfg.Warmup,
	}
}

// Capture runs the snapshot pipeline, blocking until the frame is on disk.
func (c *Camera) Capture(ctx context.Context, path string) error {
	launch := fmt.Sprintf(
		"libcamerasrc ! video/x-raw,width=%d,height=%d ! videoconvert ! "+
			"valve name=gate drop=true ! pngenc snapshot=true ! filesink location=%s",
		c.width, c.height, path,
	)

	pipeline, err := gst.NewPipelineFromString(launch)
	if err != nil {
		return fmt.Errorf("building capture pipeline: %w", err)
	}
	defer pipeline.SetState(gst.StateNull)

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return fmt.Errorf("starting capture pipeline: %w", err)
	}

	// Warm-up: frames flow and are dropped at the valve while exposure
	// settles.
	select {
	case <-time.After(c.warmup):
	case <-ctx.Done():
		return ctx.Err()
	}

	gate, err := pipeline.GetElementByName("gate")
	if err != nil {
		return fmt.Errorf("locating valve: %w", err)
	}
	if err := gate.SetProperty("drop", false); err != nil {
		return fmt.Errorf("opening valve: %w", err)
	}

	bus := pipeline.GetPipelineBus()
	msg := bus.TimedPopFiltered(gst.ClockTimeNone, gst.MessageEOS|gst.MessageError)
	if msg == nil {
		return fmt.Errorf("capture pipeline ended without a message")
	}
	if msg.Type() == gst.MessageError {
		return fmt.Errorf("capture pipeline: %s", msg.ParseError().Error())
	}
	return nil
}

// Close is a no-op — pipelines are per-capture.
func (c *Camera) Close() error { return nil }
