// Package audio plays sound files to completion on the default output
// device.
//
// Playback is deliberately blocking: the capture pipeline relies on the
// shutter clip and spoken captions finishing before the next stage starts.
// A pollable Busy flag is exposed for callers that want to observe playback
// from outside.
package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"github.com/crypticsy/VisionCaster/internal/config"
)

// mixerRate is the fixed output rate; decoded streams are resampled to it
// so clips with different native rates can share one speaker.
const mixerRate beep.SampleRate = 44100

// Player plays named clips and arbitrary wav/mp3 files.
type Player struct {
	soundsDir string
	clips     map[string]string
	busy      atomic.Bool
}

// NewPlayer opens the output device and resolves the named clip table.
// An unavailable audio device is a fatal fault for this appliance, so the
// error propagates.
func NewPlayer(cfg config.AudioConfig) (*Player, error) {
	if err := speaker.Init(mixerRate, mixerRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("opening audio output: %w", err)
	}
	return &Player{
		soundsDir: cfg.SoundsDir,
		clips:     cfg.Clips,
	}, nil
}

// Busy reports whether something is currently playing.
func (p *Player) Busy() bool { return p.busy.Load() }

// PlayClip plays the named pre-recorded asset ("start", "shutter") and
// blocks until it finishes.
func (p *Player) PlayClip(ctx context.Context, name string) error {
	file, ok := p.clips[name]
	if !ok {
		return fmt.Errorf("no such clip: %q", name)
	}
	return p.PlayFile(ctx, filepath.Join(p.soundsDir, file))
}

// PlayFile decodes the wav or mp3 file at path and blocks until playback
// completes or ctx is cancelled.
func (p *Player) PlayFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening audio file: %w", err)
	}
	defer f.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		return fmt.Errorf("unsupported audio format: %s", path)
	}
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	defer streamer.Close()

	p.busy.Store(true)
	defer p.busy.Store(false)

	done := make(chan struct{})
	resampled := beep.Resample(4, format.SampleRate, mixerRate, streamer)
	speaker.Play(beep.Seq(resampled, beep.Callback(func() { close(done) })))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

// Close silences the speaker. The underlying device stays open for the
// process lifetime.
func (p *Player) Close() error {
	speaker.Clear()
	return nil
}
