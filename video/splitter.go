package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/gait/core"
)

// Size and duration limits for transcription chunks. The byte ceiling
// matches the transcription API's upload limit.
const (
	DefaultChunkDuration = 15 * time.Minute
	DefaultMaxChunkBytes = 25 << 20
)

// Splitter cuts an audio file into transcription-sized chunks. The
// returned cleanup function removes every chunk file and must be called on
// every path once transcription is done.
type Splitter interface {
	Split(ctx context.Context, audioPath string) (chunks []core.AudioChunk, cleanup func(), err error)
}

// DurationSplitter carves audio into fixed-duration spans with ffmpeg,
// recursively halving any span whose encoded chunk still exceeds the byte
// ceiling.
type DurationSplitter struct {
	// ChunkDuration is the target span length. Zero means
	// DefaultChunkDuration.
	ChunkDuration time.Duration
	// MaxChunkBytes is the upload size ceiling per chunk. Zero means
	// DefaultMaxChunkBytes.
	MaxChunkBytes int64
	// MergeTrailing absorbs a final span shorter than a tenth of
	// ChunkDuration into its predecessor.
	MergeTrailing bool
	// FFmpegBinary and FFprobeBinary override the executables looked up
	// on PATH.
	FFmpegBinary  string
	FFprobeBinary string
}

var _ Splitter = (*DurationSplitter)(nil)

type span struct {
	offset   time.Duration
	duration time.Duration
}

// planSpans lays out the chunk spans covering total. Spans are contiguous
// and non-overlapping; the last span holds the remainder.
func planSpans(total, chunkDuration time.Duration, mergeTrailing bool) []span {
	if total <= 0 || chunkDuration <= 0 {
		return nil
	}

	var spans []span
	for offset := time.Duration(0); offset < total; offset += chunkDuration {
		d := chunkDuration
		if offset+d > total {
			d = total - offset
		}
		spans = append(spans, span{offset: offset, duration: d})
	}

	if mergeTrailing && len(spans) > 1 {
		last := spans[len(spans)-1]
		if last.duration < chunkDuration/10 {
			spans = spans[:len(spans)-1]
			spans[len(spans)-1].duration += last.duration
		}
	}

	return spans
}

// Split probes the audio duration, carves it into spans and writes one
// chunk file per span into a scoped temporary directory. A span whose
// encoded chunk exceeds MaxChunkBytes is split in half and re-carved until
// it fits.
func (s *DurationSplitter) Split(ctx context.Context, audioPath string) ([]core.AudioChunk, func(), error) {
	chunkDuration := s.ChunkDuration
	if chunkDuration <= 0 {
		chunkDuration = DefaultChunkDuration
	}
	maxBytes := s.MaxChunkBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxChunkBytes
	}

	total, err := s.probeDuration(ctx, audioPath)
	if err != nil {
		return nil, nil, err
	}

	dir, err := os.MkdirTemp("", "gait-chunks-*")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: creating temp dir: %v", core.ErrExtraction, err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	var chunks []core.AudioChunk
	for _, sp := range planSpans(total, chunkDuration, s.MergeTrailing) {
		if err := ctx.Err(); err != nil {
			cleanup()
			return nil, nil, err
		}
		carved, err := s.carve(ctx, audioPath, dir, sp, maxBytes, len(chunks))
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		chunks = append(chunks, carved...)
	}

	return chunks, cleanup, nil
}

// carve cuts one span into a chunk file, halving the span recursively
// while the result exceeds maxBytes.
func (s *DurationSplitter) carve(ctx context.Context, audioPath, dir string, sp span, maxBytes int64, nextIndex int) ([]core.AudioChunk, error) {
	binary := s.FFmpegBinary
	if binary == "" {
		binary = "ffmpeg"
	}

	chunkPath := filepath.Join(dir, fmt.Sprintf("chunk_%d.mp3", nextIndex))
	cmd := exec.CommandContext(ctx, binary,
		"-ss", formatSeconds(sp.offset),
		"-t", formatSeconds(sp.duration),
		"-i", audioPath,
		"-acodec", "copy",
		"-y",
		chunkPath)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: carving %s at %s: %v: %s",
			core.ErrExtraction, audioPath, sp.offset, err, tail(stderr.String(), 512))
	}

	info, err := os.Stat(chunkPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrExtraction, err)
	}

	if info.Size() > maxBytes {
		// A halved span can only shrink; recursion terminates once the
		// chunk fits or the span becomes trivially short.
		if sp.duration < 2*time.Second {
			return nil, fmt.Errorf("%w: chunk at %s exceeds %d bytes and cannot be halved further",
				core.ErrExtraction, sp.offset, maxBytes)
		}
		os.Remove(chunkPath)

		half := sp.duration / 2
		first, err := s.carve(ctx, audioPath, dir,
			span{offset: sp.offset, duration: half}, maxBytes, nextIndex)
		if err != nil {
			return nil, err
		}
		second, err := s.carve(ctx, audioPath, dir,
			span{offset: sp.offset + half, duration: sp.duration - half}, maxBytes, nextIndex+len(first))
		if err != nil {
			return nil, err
		}
		return append(first, second...), nil
	}

	return []core.AudioChunk{{
		Path:        chunkPath,
		StartOffset: sp.offset,
		Index:       nextIndex,
	}}, nil
}

// probeDuration reads the audio duration with ffprobe.
func (s *DurationSplitter) probeDuration(ctx context.Context, audioPath string) (time.Duration, error) {
	binary := s.FFprobeBinary
	if binary == "" {
		binary = "ffprobe"
	}

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe on %s: %v", core.ErrExtraction, audioPath, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parsing duration of %s: %v", core.ErrExtraction, audioPath, err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
