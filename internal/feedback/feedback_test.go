package feedback

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/crypticsy/VisionCaster/internal/tts"
)

type memDisplay struct {
	writes []string
	clears int
}

func (d *memDisplay) Write(text string) error { d.writes = append(d.writes, text); return nil }
func (d *memDisplay) Clear() error            { d.clears++; return nil }
func (d *memDisplay) Close() error            { return nil }

type stubSynth struct{ contentType string }

func (s stubSynth) Name() string { return "stub" }
func (s stubSynth) Synthesize(ctx context.Context, text string, opts tts.SynthesizeOpts) (*tts.SynthesizeResult, error) {
	return &tts.SynthesizeResult{Audio: []byte("audio:" + text), ContentType: s.contentType}, nil
}
func (s stubSynth) Close() error { return nil }

// checkingPlayer verifies the speech file exists at play time and remembers
// its path.
type checkingPlayer struct {
	t      *testing.T
	played []string
	clips  []string
}

func (p *checkingPlayer) PlayFile(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		p.t.Errorf("speech file missing at play time: %v", err)
	}
	p.played = append(p.played, path)
	return nil
}

func (p *checkingPlayer) PlayClip(ctx context.Context, name string) error {
	p.clips = append(p.clips, name)
	return nil
}

func TestShow_TimedMessageClearsItself(t *testing.T) {
	d := &memDisplay{}
	var slept time.Duration
	s := NewSink(d, stubSynth{}, &checkingPlayer{t: t}, "en")
	s.sleep = func(dur time.Duration) { slept = dur }

	s.Show("Exiting...", 5*time.Second)

	if len(d.writes) != 1 || d.writes[0] != "Exiting..." {
		t.Fatalf("writes: %v", d.writes)
	}
	if slept != 5*time.Second {
		t.Fatalf("held for %v, want 5s", slept)
	}
	if d.clears != 1 {
		t.Fatalf("expected display cleared after hold, clears=%d", d.clears)
	}
}

func TestShow_UntimedMessageStays(t *testing.T) {
	d := &memDisplay{}
	s := NewSink(d, stubSynth{}, &checkingPlayer{t: t}, "en")
	s.sleep = func(time.Duration) { t.Error("untimed show must not sleep") }

	s.Show("Ready...", 0)

	if d.clears != 0 {
		t.Fatal("untimed show must leave the text on the display")
	}
}

func TestAnnounce_SpeechFileIsTransient(t *testing.T) {
	p := &checkingPlayer{t: t}
	s := NewSink(&memDisplay{}, stubSynth{contentType: "audio/mpeg"}, p, "en")
	s.tmpDir = t.TempDir()

	if err := s.Announce(context.Background(), "Processing image..."); err != nil {
		t.Fatalf("announce: %v", err)
	}

	if len(p.played) != 1 {
		t.Fatalf("expected 1 playback, got %d", len(p.played))
	}
	if _, err := os.Stat(p.played[0]); !os.IsNotExist(err) {
		t.Fatalf("speech file %s not deleted after playback", p.played[0])
	}
}

func TestAnnounce_TwoCallsUseDistinctFiles(t *testing.T) {
	p := &checkingPlayer{t: t}
	s := NewSink(&memDisplay{}, stubSynth{contentType: "audio/wav"}, p, "en")
	s.tmpDir = t.TempDir()

	if err := s.Announce(context.Background(), "one"); err != nil {
		t.Fatalf("announce: %v", err)
	}
	if err := s.Announce(context.Background(), "two"); err != nil {
		t.Fatalf("announce: %v", err)
	}
	if p.played[0] == p.played[1] {
		t.Fatalf("speech files collided: %s", p.played[0])
	}
}

func TestPlayClip_DelegatesToPlayer(t *testing.T) {
	p := &checkingPlayer{t: t}
	s := NewSink(&memDisplay{}, stubSynth{}, p, "en")

	if err := s.PlayClip(context.Background(), "shutter"); err != nil {
		t.Fatalf("play clip: %v", err)
	}
	if len(p.clips) != 1 || p.clips[0] != "shutter" {
		t.Fatalf("clips: %v", p.clips)
	}
}
