// Package feedback bundles the display and the audio output behind the two
// operations the interaction pipeline uses: show text, announce speech.
//
// Synthesized speech is a transient resource: the audio is written to a
// uniquely named file, played to completion, and removed again — cleanup
// runs even when playback fails.
package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/crypticsy/VisionCaster/internal/display"
	"github.com/crypticsy/VisionCaster/internal/tts"
)

// Player plays audio files and named clips, blocking to completion.
type Player interface {
	PlayFile(ctx context.Context, path string) error
	PlayClip(ctx context.Context, name string) error
}

// Sink is the single feedback surface of the appliance.
type Sink struct {
	display  display.Display
	synth    tts.Synthesizer
	player   Player
	language string
	tmpDir   string

	sleep func(time.Duration)
}

// NewSink wires the feedback surface. Spoken output uses the given
// ISO-639-1 language code.
func NewSink(d display.Display, synth tts.Synthesizer, player Player, language string) *Sink {
	return &Sink{
		display:  d,
		synth:    synth,
		player:   player,
		language: language,
		tmpDir:   os.TempDir(),
		sleep:    time.Sleep,
	}
}

// Show clears the display and writes text. With hold > 0 the message is
// timed: Show sleeps for the duration and clears again before returning.
// With hold == 0 the text stays until the next Show or Clear. Display
// faults are not modeled — they are logged and swallowed.
func (s *Sink) Show(text string, hold time.Duration) {
	if err := s.display.Write(text); err != nil {
		slog.Warn("display write failed", "error", err)
	}
	if hold > 0 {
		s.sleep(hold)
		s.Clear()
	}
}

// Clear blanks the display.
func (s *Sink) Clear() {
	if err := s.display.Clear(); err != nil {
		slog.Warn("display clear failed", "error", err)
	}
}

// Announce speaks text and blocks until playback completes.
func (s *Sink) Announce(ctx context.Context, text string) error {
	res, err := s.synth.Synthesize(ctx, text, tts.SynthesizeOpts{Language: s.language})
	if err != nil {
		return fmt.Errorf("synthesizing speech: %w", err)
	}

	ext := ".wav"
	if res.ContentType == "audio/mpeg" {
		ext = ".mp3"
	}
	path := filepath.Join(s.tmpDir, "speech-"+uuid.NewString()+ext)
	if err := os.WriteFile(path, res.Audio, 0o644); err != nil {
		return fmt.Errorf("writing speech file: %w", err)
	}
	defer os.Remove(path)

	return s.player.PlayFile(ctx, path)
}

// PlayClip plays a named pre-recorded asset and blocks until it finishes.
func (s *Sink) PlayClip(ctx context.Context, name string) error {
	return s.player.PlayClip(ctx, name)
}
