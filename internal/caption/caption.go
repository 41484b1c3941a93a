// Package caption defines the interface for image captioning with a
// pretrained vision-language model.
//
// A backend takes a photo from disk and produces one natural-language
// description. VisionCaster ships with two backends: OpenAI (cloud) and
// Local (self-hosted multimodal model via Ollama). Backends are constructed
// once at startup and reused for every press — per-press model or client
// setup would make the device impractically slow.
package caption

import (
	"context"
	"log/slog"
)

// Fallback is the caption recorded and spoken when captioning fails for any
// reason. It flows through the pipeline exactly like a real caption; the
// user cannot tell a degraded result apart except by content.
const Fallback = "Error processing the image."

// Captioner is the interface for vision-language backends.
type Captioner interface {
	// Name returns the backend identifier (e.g., "openai", "local").
	Name() string

	// Describe generates a caption for the image file at imagePath.
	Describe(ctx context.Context, imagePath string) (string, error)

	// Close releases any resources held by the backend.
	Close() error
}

// Service wraps a backend with the degradation policy: a backend error is
// recovered locally and converted to the Fallback string, so the capture
// pipeline always proceeds past captioning and still writes a log record.
type Service struct {
	backend Captioner

	// OnFallback, if set, is invoked once per degraded caption. Used for
	// metrics.
	OnFallback func()
}

// NewService wraps backend with the fallback policy.
func NewService(backend Captioner) *Service {
	return &Service{backend: backend}
}

// Caption describes the image, degrading to Fallback on any failure. It
// never returns an error.
func (s *Service) Caption(ctx context.Context, imagePath string) string {
	text, err := s.backend.Describe(ctx, imagePath)
	if err != nil {
		slog.Error("captioning failed, using fallback", "backend", s.backend.Name(), "image", imagePath, "error", err)
		if s.OnFallback != nil {
			s.OnFallback()
		}
		return Fallback
	}
	return text
}

// Close releases the underlying backend.
func (s *Service) Close() error {
	return s.backend.Close()
}
