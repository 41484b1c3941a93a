// Package google implements the TTS Synthesizer using the Google Translate
// speech endpoint via htgo-tts. No API key is needed; the device only has
// to be online. Output is MP3.
package google

import (
	"context"
	"fmt"
	"os"

	htgotts "github.com/hegedustibor/htgo-tts"

	"github.com/crypticsy/VisionCaster/internal/config"
	"github.com/crypticsy/VisionCaster/internal/tts"
	"github.com/google/uuid"
)

// Synthesizer fetches speech audio from the Google Translate TTS endpoint.
type Synthesizer struct {
	cacheDir string
}

// New creates a new Google synthesizer from config.
func New(cfg config.GoogleConfig) *Synthesizer {
	dir := cfg.CacheDir
	if dir == "" {
		dir = os.TempDir()
	}
	return &Synthesizer{cacheDir: dir}
}

// Name returns the backend identifier.
func (s *Synthesizer) Name() string { return "google" }

// Synthesize fetches the spoken form of text. htgo-tts works file-at-a-time,
// so the clip lands in the cache dir under a random name, is read back, and
// is removed before returning.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, opts tts.SynthesizeOpts) (*tts.SynthesizeResult, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text for synthesis")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lang := opts.Language
	if lang == "" {
		lang = "en"
	}

	speech := htgotts.Speech{Folder: s.cacheDir, Language: lang}
	path, err := speech.CreateSpeechFile(text, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("fetching speech: %w", err)
	}
	defer os.Remove(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading speech file: %w", err)
	}

	return &tts.SynthesizeResult{
		Audio:       raw,
		ContentType: "audio/mpeg",
	}, nil
}

// Close is a no-op — the endpoint is stateless.
func (s *Synthesizer) Close() error { return nil }
