package ai

import (
	"context"
	"errors"
)

// ErrRateLimited indicates the external service rejected a call with a
// rate-limit signal (HTTP 429 equivalent). It is the only failure class
// eligible for retry with backoff.
var ErrRateLimited = errors.New("rate limited by service")

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Transcriber converts an audio file into text through an external
// speech-to-text service. Implementations must be thread-safe for concurrent
// use and must bound every call with a timeout; a timed-out call is a
// failure, eligible for retry only when wrapped in ErrRateLimited.
type Transcriber interface {
	// Transcribe sends the audio file at audioPath to the service and
	// returns the recognized text. Returns an error wrapping ErrRateLimited
	// when the service signals a rate limit.
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// Transcriber instances, ensuring they share configuration appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Transcriber returns the speech-to-text service.
	// The returned Transcriber is safe for concurrent use.
	Transcriber() Transcriber

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
