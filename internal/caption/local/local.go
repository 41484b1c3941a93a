// Package local implements the caption backend using a self-hosted
// multimodal model served by Ollama (e.g., llava).
package local

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/crypticsy/VisionCaster/internal/config"
)

const prompt = "Describe this photo in one short sentence. Reply with the sentence only."

// Captioner generates captions through an Ollama generate endpoint.
type Captioner struct {
	endpoint string
	model    string
	client   *http.Client
}

// New creates a new local captioner from config.
func New(cfg config.LocalCaptionConfig) *Captioner {
	model := cfg.Model
	if model == "" {
		model = "llava"
	}
	return &Captioner{
		endpoint: cfg.Endpoint,
		model:    model,
		client:   &http.Client{},
	}
}

// Name returns the backend identifier.
func (c *Captioner) Name() string { return "local" }

// Describe sends the image to the Ollama generate API.
// API: POST /api/generate {"model", "prompt", "images": [base64], "stream": false}
func (c *Captioner) Describe(ctx context.Context, imagePath string) (string, error) {
	raw, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}

	reqBody := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Images: []string{base64.StdEncoding.EncodeToString(raw)},
		Stream: false,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshalling generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("generate failed (status %d): %s", resp.StatusCode, respBody)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding generate response: %w", err)
	}

	caption := strings.TrimSpace(result.Response)
	if caption == "" {
		return "", fmt.Errorf("model returned an empty caption")
	}
	return caption, nil
}

// Close is a no-op for the local captioner.
func (c *Captioner) Close() error { return nil }

// --- Internal types ---

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}
