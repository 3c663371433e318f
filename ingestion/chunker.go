package ingestion

import "strings"

// Chunking defaults, tuned for course material PDFs.
const (
	DefaultChunkSize = 2000
	DefaultOverlap   = 200
	DefaultMaxChunks = 1000
)

// naturalBreaks are tried in order when a window would cut mid-sentence.
var naturalBreaks = []string{". ", "\n", " "}

// ChunkOptions configures the text chunker.
type ChunkOptions struct {
	// ChunkSize is the target window length in bytes.
	ChunkSize int
	// Overlap is how far back to look for a sentence start when beginning
	// the next chunk.
	Overlap int
	// MaxChunks is a hard cap bounding memory and indexing cost on
	// pathological inputs.
	MaxChunks int
}

// DefaultChunkOptions returns the standard chunking parameters.
func DefaultChunkOptions() ChunkOptions {
	return ChunkOptions{
		ChunkSize: DefaultChunkSize,
		Overlap:   DefaultOverlap,
		MaxChunks: DefaultMaxChunks,
	}
}

func (o ChunkOptions) normalized() ChunkOptions {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Overlap < 0 {
		o.Overlap = 0
	}
	if o.MaxChunks <= 0 {
		o.MaxChunks = DefaultMaxChunks
	}
	return o
}

// Chunk splits text into overlapping, boundary-aware segments.
//
// It walks the text in windows of ChunkSize bytes. When a window would split
// mid-sentence, it cuts at the nearest natural break inside the window
// (sentence end, newline, or space) instead, so words are never severed.
// After emitting a chunk it advances to the end of the previous chunk, then
// looks backward up to Overlap bytes for a sentence start to begin the next
// chunk with slight overlap, biasing overlap toward sentence boundaries
// rather than a fixed byte count.
//
// Input shorter than ChunkSize degenerates to a single trimmed chunk.
// Empty trimmed chunks are skipped, never emitted. The result never exceeds
// MaxChunks elements. Pure function: no side effects beyond the returned
// slice.
func Chunk(text string, opts ChunkOptions) []string {
	opts = opts.normalized()
	if text == "" {
		return nil
	}

	var chunks []string
	start := 0
	n := len(text)

	for start < n && len(chunks) < opts.MaxChunks {
		end := start + opts.ChunkSize
		if end > n {
			end = n
		}

		// Cut at a natural break point when not at the end of input.
		if end < n {
			for _, br := range naturalBreaks {
				if i := strings.LastIndex(text[start:end], br); i != -1 {
					end = start + i + 1
					break
				}
			}
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if len(chunks) >= opts.MaxChunks {
			break
		}

		start = end
		if start < n {
			// Begin the next chunk at the nearest sentence start within
			// the overlap window, if one exists.
			lo := start - opts.Overlap
			if lo < 0 {
				lo = 0
			}
			if i := strings.Index(text[lo:start], ". "); i != -1 {
				start = lo + i + 2
			}
		}
	}

	return chunks
}
