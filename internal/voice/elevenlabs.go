// Package voice implements the speech providers behind the orchestrator's
// Transcriber and Synthesizer interfaces using the ElevenLabs API.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/ignite/bubble-agent/internal/config"
)

// HTTPDoer is the subset of *http.Client the client needs; tests substitute
// a fake.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ElevenLabsClient talks to the ElevenLabs speech-to-text and text-to-speech
// endpoints. One client serves both directions of the voice pipeline.
type ElevenLabsClient struct {
	apiKey     string
	baseURL    string
	voiceID    string
	modelID    string
	httpClient HTTPDoer
}

// sttModelID is the transcription model; it is independent of the TTS model
// configured per deployment.
const sttModelID = "scribe_v1"

// NewElevenLabsClient creates a client from config.
func NewElevenLabsClient(cfg config.ElevenLabsConfig) *ElevenLabsClient {
	return &ElevenLabsClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		voiceID:    cfg.VoiceID,
		modelID:    cfg.ModelID,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}
}

// WithHTTPClient swaps the underlying HTTP client (tests).
func (c *ElevenLabsClient) WithHTTPClient(doer HTTPDoer) *ElevenLabsClient {
	c.httpClient = doer
	return c
}

// Transcribe converts raw audio bytes to text via the speech-to-text
// endpoint. The audio goes up as a multipart file part.
func (c *ElevenLabsClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("model_id", sttModelID); err != nil {
		return "", fmt.Errorf("building form: %w", err)
	}
	part, err := mw.CreateFormFile("file", "audio.mp3")
	if err != nil {
		return "", fmt.Errorf("building form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("building form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("building form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/speech-to-text", &buf)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parsing transcript: %w", err)
	}
	return parsed.Text, nil
}

// Synthesize converts reply text to audio via the text-to-speech endpoint.
// The response body is the raw encoded audio.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	reqBody, err := json.Marshal(map[string]string{
		"text":     text,
		"model_id": c.modelID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=mp3_44100_128", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// Ping verifies the API is reachable with the configured key. Used by the
// health endpoint only.
func (c *ElevenLabsClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/voices", nil)
	if err != nil {
		return err
	}
	req.Header.Set("xi-api-key", c.apiKey)

	if _, err := c.do(req); err != nil {
		return fmt.Errorf("elevenlabs ping: %w", err)
	}
	return nil
}

func (c *ElevenLabsClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
