package core

import (
	"encoding/binary"
	"path/filepath"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for persisted units.
// It is generated by content-based hashing so that distinct ingestion runs
// can derive non-colliding identifiers from batch offsets.
type ID uint64

// IDFromContent generates a deterministic ID from text using BLAKE2b hashing.
// Identical input always produces the same ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Document content types.
const (
	TypePDF   = "pdf"
	TypeText  = "text"
	TypeVideo = "video"
)

// Document is the atomic persisted unit of the corpus: one chunk of a source
// document or one full video transcript. Documents are immutable once
// created; a reindex discards and recreates them, it never mutates in place.
type Document struct {
	Id         ID
	Content    string
	Source     string // full path of the originating file
	Filename   string // base name, used for source diversity
	Type       string // TypePDF, TypeText or TypeVideo
	ChunkId    int    // position of this chunk within its source
	ChunkSize  int    // length of Content in bytes
	Vector     []float32
	InsertedAt time.Time
}

// SimilarityMatch pairs a stored document with its relevance score for a
// query. Scores are in [0, 1]. Matches are ephemeral, produced per query.
type SimilarityMatch struct {
	Document *Document
	Score    float32
}

// Source identifies one originating file in a retrieval result.
type Source struct {
	Filename   string
	Similarity float32
}

// RetrievalResult is the consumer-facing answer to one query: an assembled
// context string and the ordered list of contributing sources.
type RetrievalResult struct {
	Context string
	Sources []Source
}

// AudioChunk is a duration-bounded slice of an extracted audio track,
// written to scoped temporary storage. The chunk file is owned by the
// splitter invocation that produced it and is removed by its cleanup
// function on every exit path.
type AudioChunk struct {
	Path        string
	StartOffset time.Duration
	Index       int
}

// TranscriptRecord is the reassembled transcript of one video, created after
// all surviving chunks have been transcribed and joined in index order.
type TranscriptRecord struct {
	SourceVideo string
	Filename    string
	Text        string
	Length      int
	ProcessedAt time.Time
}

// NewTranscriptRecord builds a record for a video transcript, deriving the
// filename and length fields.
func NewTranscriptRecord(sourceVideo, text string, processedAt time.Time) *TranscriptRecord {
	return &TranscriptRecord{
		SourceVideo: sourceVideo,
		Filename:    filepath.Base(sourceVideo),
		Text:        text,
		Length:      len(text),
		ProcessedAt: processedAt,
	}
}

// Document converts the transcript into the persisted unit pushed to the
// vector store. The ID is left for the caller to assign.
func (t *TranscriptRecord) Document() *Document {
	return &Document{
		Content:   t.Text,
		Source:    t.SourceVideo,
		Filename:  t.Filename,
		Type:      TypeVideo,
		ChunkSize: t.Length,
	}
}
