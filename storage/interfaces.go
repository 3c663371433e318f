package storage

import (
	"context"

	"github.com/poiesic/gait/core"
)

// VectorStore persists document chunks and answers nearest-neighbour
// queries over them. Implementations embed document content at upsert
// time, callers never supply vectors.
type VectorStore interface {
	// Upsert stores the given documents, replacing any existing records
	// with the same id.
	Upsert(ctx context.Context, docs ...*core.Document) error

	// Query returns up to k documents most similar to the query text,
	// ordered by descending similarity.
	Query(ctx context.Context, text string, k int) ([]*core.SimilarityMatch, error)

	// Count reports the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
