package video

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/gait/ai"
	"github.com/poiesic/gait/core"
)

// TranscribeAll transcribes every chunk in order and joins the results
// with single spaces. Chunks that still fail after the policy's retries
// are dropped; their count is returned alongside the text. The error is
// non-nil only when the context is cancelled or no chunk survived.
func TranscribeAll(ctx context.Context, transcriber ai.Transcriber, chunks []core.AudioChunk, policy RetryPolicy, logger *slog.Logger) (string, int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	parts := make([]string, 0, len(chunks))
	failed := 0

	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return "", failed, err
		}

		var text string
		err := policy.Do(ctx, func() error {
			var err error
			text, err = transcriber.Transcribe(ctx, chunk.Path)
			return err
		})
		if err != nil {
			if ctx.Err() != nil {
				return "", failed, ctx.Err()
			}
			logger.Warn("dropping chunk, transcription failed",
				"chunk", chunk.Index, "path", chunk.Path, "error", err)
			failed++
			continue
		}

		if text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 && len(chunks) > 0 {
		return "", failed, ErrNoChunksSurvived
	}

	return strings.Join(parts, " "), failed, nil
}
