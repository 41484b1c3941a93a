// Package tts defines the interface for text-to-speech synthesis.
//
// VisionCaster speaks every caption and status message aloud. A synthesizer
// only produces audio bytes; writing them to a transient file and playing
// them back is the feedback layer's job, so backends stay trivially
// swappable. Two backends ship: Google Translate TTS (the classic gTTS
// endpoint) and Piper (local neural TTS over the Wyoming protocol).
package tts

import "context"

// SynthesizeOpts controls synthesis behavior.
type SynthesizeOpts struct {
	// Language is the ISO-639-1 code (e.g., "en", "fr") to select the voice.
	Language string

	// Voice overrides automatic language-based voice selection.
	Voice string
}

// Synthesizer converts text to audio.
type Synthesizer interface {
	// Name returns the backend identifier (e.g., "google", "piper").
	Name() string

	// Synthesize generates playable audio from the given text.
	Synthesize(ctx context.Context, text string, opts SynthesizeOpts) (*SynthesizeResult, error)

	// Close releases any resources held by the synthesizer.
	Close() error
}

// SynthesizeResult holds the output of TTS synthesis.
type SynthesizeResult struct {
	// Audio is the synthesized audio in the container named by ContentType.
	Audio []byte

	// ContentType is the MIME type of the audio ("audio/wav", "audio/mpeg").
	ContentType string

	// SampleRate is the audio sample rate in Hz, when known.
	SampleRate int

	// Channels is the number of audio channels, when known.
	Channels int
}
