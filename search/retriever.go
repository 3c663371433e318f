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


package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/gait/core"
)

// NoRelevantContext is the answer when nothing in the corpus clears the
// similarity floor. Callers can present it verbatim.
const NoRelevantContext = "No relevant course content found."

// DefaultSimilarityFloor is the minimum score a match must reach to
// contribute to the assembled context.
const DefaultSimilarityFloor = 0.1

// DefaultResults is the number of sources assembled per query.
const DefaultResults = 5

// Querier answers nearest-neighbour queries over the corpus. Both the
// in-memory TF-IDF index and the vector stores satisfy it.
type Querier interface {
	Query(ctx context.Context, text string, k int) ([]*core.SimilarityMatch, error)
}

// Retriever assembles query context from the most relevant corpus chunks.
type Retriever struct {
	querier Querier
	floor   float32
	results int
	logger  *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithSimilarityFloor sets the minimum score for a match to be used.
// Default is DefaultSimilarityFloor.
func WithSimilarityFloor(floor float32) Option {
	return func(r *Retriever) error {
		if floor < 0 || floor > 1 {
			return fmt.Errorf("similarity floor must be in [0, 1], got %v", floor)
		}
		r.floor = floor
		return nil
	}
}

// WithResults sets how many sources are assembled per query.
// Default is DefaultResults.
func WithResults(n int) Option {
	return func(r *Retriever) error {
		if n <= 0 {
			return fmt.Errorf("result count must be positive, got %d", n)
		}
		r.results = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a retriever over the given querier.
func NewRetriever(querier Querier, opts ...Option) (*Retriever, error) {
	if querier == nil {
		return nil, ErrQuerierRequired
	}

	r := &Retriever{
		querier: querier,
		floor:   DefaultSimilarityFloor,
		results: DefaultResults,
		logger:  slog.Default().With("component", "retriever"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// GetContext retrieves the most relevant chunks for query and assembles
// them into a context block with source attributions.
func (r *Retriever) GetContext(ctx context.Context, query string) (*core.RetrievalResult, error) {
	return r.GetContextWithMonitor(ctx, query, nil)
}

// GetContextWithMonitor is GetContext with per-stage observation hooks.
// The monitor receives callbacks as candidates are scored, filtered and
// accepted.
//
// Candidates are over-fetched at twice the configured result count so that
// the per-source diversity rule still fills the context when one file
// dominates the top ranks. A match is accepted when it clears the
// similarity floor and its file has not contributed yet; at most one chunk
// per source file appears in the result. When nothing is accepted the
// context is NoRelevantContext with no sources.
func (r *Retriever) GetContextWithMonitor(ctx context.Context, query string, monitor RetrievalMonitor) (*core.RetrievalResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	empty := &core.RetrievalResult{Context: NoRelevantContext}
	if strings.TrimSpace(query) == "" {
		monitor.Finish(empty)
		return empty, nil
	}

	matches, err := r.querier.Query(ctx, query, 2*r.results)
	if err != nil {
		r.logger.Error("similarity query failed", "query", query, "err", err)
		return nil, err
	}
	monitor.AfterSimilaritySearch(matches)

	var (
		parts   []string
		sources []core.Source
		seen    = make(map[string]bool)
	)
	for _, m := range matches {
		if len(sources) >= r.results {
			break
		}
		if m.Score < r.floor {
			monitor.BelowFloor(m)
			continue
		}
		if seen[m.Document.Filename] {
			monitor.DuplicateSource(m)
			continue
		}
		seen[m.Document.Filename] = true

		parts = append(parts, fmt.Sprintf("From %s:\n%s", m.Document.Filename, m.Document.Content))
		sources = append(sources, core.Source{
			Filename:   m.Document.Filename,
			Similarity: m.Score,
		})
		monitor.Accepted(m)
	}

	if len(sources) == 0 {
		r.logger.Debug("no matches cleared the similarity floor", "query", query, "candidates", len(matches))
		monitor.Finish(empty)
		return empty, nil
	}

	result := &core.RetrievalResult{
		Context: strings.Join(parts, "\n\n"),
		Sources: sources,
	}
	monitor.Finish(result)
	return result, nil
}
