// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chroma

import (
	"context"
	"fmt"
	"log/slog"

	chromago "github.com/amikos-tech/chroma-go"
	"github.com/amikos-tech/chroma-go/collection"
	"github.com/amikos-tech/chroma-go/types"

	"github.com/poiesic/gait/core"
	"github.com/poiesic/gait/storage"
)

// DefaultCollection is the collection name used when none is configured.
const DefaultCollection = "course-content"

// Store implements storage.VectorStore against a running ChromaDB server.
// The server computes embeddings itself, so no embedder is injected here.
type Store struct {
	client     *chromago.Client
	collection *chromago.Collection
	logger     *slog.Logger
}

var _ storage.VectorStore = (*Store)(nil)

// NewStore connects to the ChromaDB server at url and creates or opens the
// named collection.
func NewStore(ctx context.Context, url, collectionName string) (storage.VectorStore, error) {
	if collectionName == "" {
		collectionName = DefaultCollection
	}

	client, err := chromago.NewClient(chromago.WithBasePath(url))
	if err != nil {
		return nil, fmt.Errorf("creating chroma client: %w", err)
	}

	col, err := client.NewCollection(
		ctx,
		collectionName,
		collection.WithHNSWDistanceFunction(types.L2),
		collection.WithCreateIfNotExist(true),
	)
	if err != nil {
		return nil, fmt.Errorf("creating or opening collection %s: %w", collectionName, err)
	}

	return &Store{
		client:     client,
		collection: col,
		logger:     slog.Default().With("component", "chroma-store"),
	}, nil
}

// Upsert adds the documents to the collection. ChromaDB computes the
// embeddings server-side.
func (s *Store) Upsert(ctx context.Context, docs ...*core.Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]string, len(docs))
	documents := make([]string, len(docs))
	metadatas := make([]map[string]interface{}, len(docs))
	for i, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return err
		}
		ids[i] = fmt.Sprintf("doc_%d", doc.Id)
		documents[i] = doc.Content
		metadatas[i] = map[string]interface{}{
			"source":     doc.Source,
			"filename":   doc.Filename,
			"type":       doc.Type,
			"chunk_id":   doc.ChunkId,
			"chunk_size": doc.ChunkSize,
		}
	}

	if _, err := s.collection.Add(ctx, nil, metadatas, documents, ids); err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}

	s.logger.Debug("added documents to collection", "count", len(docs))
	return nil
}

// Query performs a similarity search and maps distances back to similarity
// scores in [0, 1].
func (s *Store) Query(ctx context.Context, text string, k int) ([]*core.SimilarityMatch, error) {
	if k <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	results, err := s.collection.Query(
		ctx,
		[]string{text},
		int32(k),
		nil,
		nil,
		[]types.QueryEnum{"documents", "metadatas", "distances"},
	)
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}

	var matches []*core.SimilarityMatch
	if len(results.Documents) == 0 {
		return matches, nil
	}

	for i := range results.Documents[0] {
		doc := &core.Document{Content: results.Documents[0][i]}

		if len(results.Metadatas) > 0 && len(results.Metadatas[0]) > i && results.Metadatas[0][i] != nil {
			md := results.Metadatas[0][i]
			doc.Source = asString(md["source"])
			doc.Filename = asString(md["filename"])
			doc.Type = asString(md["type"])
		}

		var score float32
		if len(results.Distances) > 0 && len(results.Distances[0]) > i {
			score = similarityFromDistance(float32(results.Distances[0][i]))
		}

		matches = append(matches, &core.SimilarityMatch{Document: doc, Score: score})
	}
	return matches, nil
}

// Count reports the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.collection.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return int(n), nil
}

// Close releases the client. The underlying HTTP client needs no explicit
// cleanup.
func (s *Store) Close() error {
	return nil
}

// similarityFromDistance maps an L2 distance to a similarity score,
// clamped to [0, 1].
func similarityFromDistance(distance float32) float32 {
	score := 1 - distance
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}
