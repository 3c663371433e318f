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


package index

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/poiesic/gait/core"
)

// CorpusIndex is an in-memory TF-IDF index over the ingested corpus. It
// answers similarity queries without any external embedding service, which
// makes it the fallback retrieval path when no API is reachable.
//
// Loading is wholesale: every Load refits the vectorizer on the complete
// document set and discards prior state. Incremental vocabulary updates are
// not supported; the corpus is small enough that a full refit is cheap.
type CorpusIndex struct {
	mu         sync.RWMutex
	vectorizer *Vectorizer
	docs       []*core.Document
	logger     *slog.Logger
}

// NewCorpusIndex creates an empty, unloaded index.
func NewCorpusIndex() *CorpusIndex {
	return &CorpusIndex{
		vectorizer: NewVectorizer(),
		logger:     slog.Default().With("component", "corpus-index"),
	}
}

// Load refits the index on the given documents, replacing all prior state.
// Documents are stored with their TF-IDF vectors computed eagerly so that
// queries only vectorize the query text.
func (ci *CorpusIndex) Load(docs []*core.Document) error {
	corpus := make([]string, len(docs))
	for i, d := range docs {
		corpus[i] = d.Content
	}

	vectorizer := NewVectorizer()
	if err := vectorizer.Fit(corpus); err != nil {
		return err
	}

	loaded := make([]*core.Document, 0, len(docs))
	for _, d := range docs {
		vec, err := vectorizer.Transform(d.Content)
		if err != nil {
			return err
		}
		cp := *d
		cp.Vector = vec
		loaded = append(loaded, &cp)
	}

	ci.mu.Lock()
	ci.vectorizer = vectorizer
	ci.docs = loaded
	ci.mu.Unlock()

	ci.logger.Info("corpus index loaded", "documents", len(loaded), "vocabulary", vectorizer.Dimension())
	return nil
}

// Len reports the number of indexed documents.
func (ci *CorpusIndex) Len() int {
	ci.mu.RLock()
	defer ci.mu.RUnlock()
	return len(ci.docs)
}

// Query returns up to k documents most similar to text, ordered by
// descending score. An unloaded index answers with no matches rather than
// an error, so callers degrade to an empty context instead of failing.
func (ci *CorpusIndex) Query(ctx context.Context, text string, k int) ([]*core.SimilarityMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ci.mu.RLock()
	defer ci.mu.RUnlock()

	if !ci.vectorizer.Fitted() || len(ci.docs) == 0 || k <= 0 {
		return nil, nil
	}

	qv, err := ci.vectorizer.Transform(text)
	if err != nil {
		return nil, err
	}

	matches := make([]*core.SimilarityMatch, 0, len(ci.docs))
	for _, d := range ci.docs {
		matches = append(matches, &core.SimilarityMatch{
			Document: d,
			Score:    dotProduct(qv, d.Vector),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// dotProduct over L2-normalized vectors equals cosine similarity.
func dotProduct(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
