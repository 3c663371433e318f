package video

import "errors"

var (
	// ErrInvalidMaxAttempts indicates an invalid retry configuration.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")

	// ErrExtractorRequired indicates a processor was constructed without
	// an audio extractor.
	ErrExtractorRequired = errors.New("audio extractor is required")

	// ErrSplitterRequired indicates a processor was constructed without a
	// splitter.
	ErrSplitterRequired = errors.New("audio splitter is required")

	// ErrTranscriberRequired indicates a processor was constructed without
	// a transcriber.
	ErrTranscriberRequired = errors.New("transcriber is required")

	// ErrSinkRequired indicates a processor was constructed without a
	// transcript sink.
	ErrSinkRequired = errors.New("transcript sink is required")

	// ErrNoChunksSurvived indicates every chunk of a video failed
	// transcription.
	ErrNoChunksSurvived = errors.New("no chunks survived transcription")
)
