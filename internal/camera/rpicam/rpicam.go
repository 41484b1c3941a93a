// Package rpicam captures stills by shelling out to rpicam-still, the
// stock libcamera tool on Raspberry Pi OS. The tool's preview timeout
// doubles as the exposure warm-up.
package rpicam

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/crypticsy/VisionCaster/internal/config"
)

// Camera shells out to rpicam-still per capture.
type Camera struct {
	binary string
	width  int
	height int
	warmup time.Duration
}

// New creates an rpicam camera from config.
func New(cfg config.CameraConfig) *Camera {
	return &Camera{
		binary: "rpicam-still",
		width:  cfg.Width,
		height: cfg.Height,
		warmup: cfg.Warmup,
	}
}

// Capture runs rpicam-still, blocking through warm-up and the shot.
func (c *Camera) Capture(ctx context.Context, path string) error {
	args := []string{
		"--nopreview",
		"--width", strconv.Itoa(c.width),
		"--height", strconv.Itoa(c.height),
		"--timeout", strconv.Itoa(int(c.warmup.Milliseconds())),
		"--encoding", "png",
		"--output", path,
	}
	cmd := exec.CommandContext(ctx, c.binary, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w (%s)", c.binary, err, out)
	}
	return nil
}

// Close is a no-op — the tool opens and releases the camera per capture.
func (c *Camera) Close() error { return nil }
