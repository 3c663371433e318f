package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/gait/ai"
	"github.com/poiesic/gait/core"
)

// maxErrorBody bounds how much of a failed response is kept for the error
// message.
const maxErrorBody = 512

// Transcriber implements ai.Transcriber against the OpenAI audio
// transcription endpoint (Whisper). Each call uploads one audio file as a
// multipart request and returns the plain-text transcript.
type Transcriber struct {
	client *http.Client
	url    string
	model  string
	apiKey string
	logger *slog.Logger
}

// newTranscriber is an internal constructor that returns the concrete type.
func newTranscriber(config *ai.Config) (*Transcriber, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Transcriber{
		client: &http.Client{Timeout: config.RequestTimeout},
		url:    config.TranscriptionURL,
		model:  config.TranscriptionModel,
		apiKey: config.APIKey,
		logger: slog.Default().With("component", "openai-transcriber"),
	}, nil
}

// NewTranscriber creates a new transcriber using the provided configuration.
//
// Returns ai.Transcriber interface to enforce abstraction.
func NewTranscriber(config *ai.Config) (ai.Transcriber, error) {
	return newTranscriber(config)
}

// Transcribe uploads the audio file and returns the recognized text.
// An HTTP 429 response is reported as ai.ErrRateLimited so callers can
// apply backoff; other non-2xx responses wrap core.ErrTranscription.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	t.logger.Debug("transcribing audio chunk", "path", audioPath)

	body, contentType, err := t.buildRequestBody(audioPath)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrTranscription, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %w", core.ErrTranscription, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return strings.TrimSpace(string(data)), nil
	case resp.StatusCode == http.StatusTooManyRequests:
		t.logger.Warn("transcription service rate limited", "path", audioPath)
		return "", fmt.Errorf("%w: status %d", ai.ErrRateLimited, resp.StatusCode)
	default:
		snippet := string(data)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return "", fmt.Errorf("%w: status %d: %s", core.ErrTranscription, resp.StatusCode, snippet)
	}
}

// buildRequestBody assembles the multipart form with the audio file,
// model identifier and plain-text response format.
func (t *Transcriber) buildRequestBody(audioPath string) (io.Reader, string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: opening audio chunk: %w", core.ErrTranscription, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("%w: reading audio chunk: %w", core.ErrTranscription, err)
	}

	if err := w.WriteField("model", t.model); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("response_format", "text"); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}
