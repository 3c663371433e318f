// Package ai defines the boundary to external AI services.
//
// Two services back the pipeline:
//   - Embedder: text to fixed-length vector, used by persistent vector stores
//   - Transcriber: audio file to text, used by the video pipeline
//
// Concrete implementations live in subpackages (openai for production,
// mock for tests). Both interfaces must be safe for concurrent use; every
// call is bounded by the configured request timeout.
package ai
