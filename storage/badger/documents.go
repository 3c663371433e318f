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


package badger

import (
	"context"
	"errors"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/gait/ai"
	"github.com/poiesic/gait/core"
	"github.com/poiesic/gait/storage"
)

// Store implements storage.VectorStore on an embedded BadgerDB instance.
// Content is embedded at upsert time by the injected embedder; queries are
// a brute-force dot product scan over all stored vectors, which is
// acceptable at course-corpus scale.
type Store struct {
	backend  *Backend
	embedder ai.Embedder
	ownsDB   bool
}

var _ storage.VectorStore = (*Store)(nil)

// NewStore opens a persistent store at path. The store owns the database
// and closes it when Close is called.
func NewStore(path string, embedder ai.Embedder) (storage.VectorStore, error) {
	if embedder == nil {
		return nil, storage.ErrEmbedderRequired
	}
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return &Store{backend: backend, embedder: embedder, ownsDB: true}, nil
}

// NewStoreWithBackend wraps an already opened backend. The caller keeps
// ownership of the backend.
func NewStoreWithBackend(backend *Backend, embedder ai.Embedder) (storage.VectorStore, error) {
	if embedder == nil {
		return nil, storage.ErrEmbedderRequired
	}
	return &Store{backend: backend, embedder: embedder}, nil
}

// Close closes the underlying database when the store owns it.
func (s *Store) Close() error {
	if s.ownsDB {
		return s.backend.Close()
	}
	return nil
}

// Upsert validates, embeds and stores the given documents. Vectors are
// L2-normalized before storage so queries can use a plain dot product.
func (s *Store) Upsert(ctx context.Context, docs ...*core.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	contents := make([]string, len(docs))
	for i, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return err
		}
		contents[i] = doc.Content
	}

	vectors, err := s.embedder.EmbedTexts(ctx, contents)
	if err != nil {
		return err
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		for i, doc := range docs {
			doc.Vector = normalize(vectors[i])
			if err := tx.Set(makeDocumentKey(doc.Id), storage.MarshalDocument(doc)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Get fetches a stored document by id. Returns storage.ErrNotFound when
// no document has that id.
func (s *Store) Get(ctx context.Context, id core.ID) (*core.Document, error) {
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var doc *core.Document
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			doc, err = storage.UnmarshalDocument(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Query embeds text and returns up to k stored documents ranked by
// descending similarity.
func (s *Store) Query(ctx context.Context, text string, k int) ([]*core.SimilarityMatch, error) {
	if k <= 0 {
		return nil, storage.ErrInvalidQuery
	}
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	qv, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	qv = normalize(qv)

	var matches []*core.SimilarityMatch
	err = s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.Document
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if doc == nil || len(doc.Vector) == 0 {
				continue
			}

			matches = append(matches, &core.SimilarityMatch{
				Document: doc,
				Score:    dotProduct(qv, doc.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(matches, func(a, b *core.SimilarityMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Count reports the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	count := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// AllDocuments reads every stored document from backend. Used to build
// the in-memory index for local retrieval.
func AllDocuments(backend *Backend) ([]*core.Document, error) {
	if backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var docs []*core.Document
	err := backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				doc, err := storage.UnmarshalDocument(val)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// normalize returns the L2-normalized copy of v.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
