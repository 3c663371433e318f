package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/gait/core"
	"github.com/poiesic/gait/index"
)

// fixedQuerier returns a canned ranking regardless of the query text.
type fixedQuerier struct {
	matches []*core.SimilarityMatch
	err     error
	lastK   int
}

func (q *fixedQuerier) Query(_ context.Context, _ string, k int) ([]*core.SimilarityMatch, error) {
	q.lastK = k
	if q.err != nil {
		return nil, q.err
	}
	if len(q.matches) > k {
		return q.matches[:k], nil
	}
	return q.matches, nil
}

func match(filename, content string, score float32) *core.SimilarityMatch {
	return &core.SimilarityMatch{
		Document: &core.Document{
			Id:       core.IDFromContent(filename + content),
			Content:  content,
			Source:   "/course/" + filename,
			Filename: filename,
			Type:     core.TypePDF,
		},
		Score: score,
	}
}

func TestNewRetriever(t *testing.T) {
	t.Run("requires a querier", func(t *testing.T) {
		_, err := NewRetriever(nil)
		assert.ErrorIs(t, err, ErrQuerierRequired)
	})

	t.Run("rejects out-of-range floor", func(t *testing.T) {
		_, err := NewRetriever(&fixedQuerier{}, WithSimilarityFloor(1.5))
		assert.Error(t, err)
	})

	t.Run("rejects non-positive result count", func(t *testing.T) {
		_, err := NewRetriever(&fixedQuerier{}, WithResults(0))
		assert.Error(t, err)
	})
}

func TestGetContext(t *testing.T) {
	t.Run("assembles attributed context from matches", func(t *testing.T) {
		q := &fixedQuerier{matches: []*core.SimilarityMatch{
			match("A.pdf", "Metabolism converts nutrients into energy.", 0.8),
			match("B.pdf", "Ligaments stabilize the knee.", 0.5),
		}}
		r, err := NewRetriever(q)
		require.NoError(t, err)

		result, err := r.GetContext(context.Background(), "metabolism")
		require.NoError(t, err)
		assert.Contains(t, result.Context, "From A.pdf:\nMetabolism converts nutrients into energy.")
		assert.Contains(t, result.Context, "From B.pdf:")
		require.Len(t, result.Sources, 2)
		assert.Equal(t, "A.pdf", result.Sources[0].Filename)
		assert.InDelta(t, 0.8, result.Sources[0].Similarity, 1e-6)
	})

	t.Run("over-fetches twice the result count", func(t *testing.T) {
		q := &fixedQuerier{}
		r, err := NewRetriever(q, WithResults(4))
		require.NoError(t, err)

		_, err = r.GetContext(context.Background(), "anything")
		require.NoError(t, err)
		assert.Equal(t, 8, q.lastK)
	})

	t.Run("drops matches below the floor", func(t *testing.T) {
		q := &fixedQuerier{matches: []*core.SimilarityMatch{
			match("A.pdf", "relevant content", 0.4),
			match("B.pdf", "barely related", 0.05),
		}}
		r, err := NewRetriever(q)
		require.NoError(t, err)

		result, err := r.GetContext(context.Background(), "query")
		require.NoError(t, err)
		require.Len(t, result.Sources, 1)
		assert.Equal(t, "A.pdf", result.Sources[0].Filename)
		assert.NotContains(t, result.Context, "B.pdf")
	})

	t.Run("a raised floor excludes weaker matches", func(t *testing.T) {
		q := &fixedQuerier{matches: []*core.SimilarityMatch{
			match("A.pdf", "strong match", 0.45),
			match("B.pdf", "weak match", 0.2),
		}}
		r, err := NewRetriever(q, WithSimilarityFloor(0.3))
		require.NoError(t, err)

		result, err := r.GetContext(context.Background(), "query")
		require.NoError(t, err)
		require.Len(t, result.Sources, 1)
		assert.Equal(t, "A.pdf", result.Sources[0].Filename)
	})

	t.Run("at most one chunk per source file", func(t *testing.T) {
		q := &fixedQuerier{matches: []*core.SimilarityMatch{
			match("A.pdf", "first chunk", 0.9),
			match("A.pdf", "second chunk", 0.85),
			match("B.pdf", "other file", 0.3),
		}}
		r, err := NewRetriever(q)
		require.NoError(t, err)

		result, err := r.GetContext(context.Background(), "query")
		require.NoError(t, err)
		require.Len(t, result.Sources, 2)
		assert.Equal(t, "A.pdf", result.Sources[0].Filename)
		assert.Equal(t, "B.pdf", result.Sources[1].Filename)
		assert.Equal(t, 1, strings.Count(result.Context, "From A.pdf:"))
	})

	t.Run("no surviving matches yields the fixed answer", func(t *testing.T) {
		q := &fixedQuerier{matches: []*core.SimilarityMatch{
			match("A.pdf", "noise", 0.01),
		}}
		r, err := NewRetriever(q)
		require.NoError(t, err)

		result, err := r.GetContext(context.Background(), "query")
		require.NoError(t, err)
		assert.Equal(t, NoRelevantContext, result.Context)
		assert.Empty(t, result.Sources)
	})

	t.Run("blank query short-circuits without querying", func(t *testing.T) {
		q := &fixedQuerier{matches: []*core.SimilarityMatch{
			match("A.pdf", "content", 0.9),
		}}
		r, err := NewRetriever(q)
		require.NoError(t, err)

		result, err := r.GetContext(context.Background(), "   ")
		require.NoError(t, err)
		assert.Equal(t, NoRelevantContext, result.Context)
		assert.Zero(t, q.lastK)
	})

	t.Run("querier errors propagate", func(t *testing.T) {
		q := &fixedQuerier{err: assert.AnError}
		r, err := NewRetriever(q)
		require.NoError(t, err)

		_, err = r.GetContext(context.Background(), "query")
		assert.ErrorIs(t, err, assert.AnError)
	})
}

// countingMonitor records hook invocations.
type countingMonitor struct {
	started    int
	candidates int
	belowFloor int
	duplicates int
	accepted   int
	finished   int
}

func (m *countingMonitor) Start(_ string) { m.started++ }
func (m *countingMonitor) AfterSimilaritySearch(matches []*core.SimilarityMatch) {
	m.candidates = len(matches)
}
func (m *countingMonitor) BelowFloor(_ *core.SimilarityMatch)      { m.belowFloor++ }
func (m *countingMonitor) DuplicateSource(_ *core.SimilarityMatch) { m.duplicates++ }
func (m *countingMonitor) Accepted(_ *core.SimilarityMatch)        { m.accepted++ }
func (m *countingMonitor) Finish(_ *core.RetrievalResult)          { m.finished++ }

func TestGetContextWithMonitor(t *testing.T) {
	q := &fixedQuerier{matches: []*core.SimilarityMatch{
		match("A.pdf", "first", 0.9),
		match("A.pdf", "repeat", 0.8),
		match("B.pdf", "second", 0.4),
		match("C.pdf", "noise", 0.02),
	}}
	r, err := NewRetriever(q)
	require.NoError(t, err)

	m := &countingMonitor{}
	result, err := r.GetContextWithMonitor(context.Background(), "query", m)
	require.NoError(t, err)

	assert.Equal(t, 1, m.started)
	assert.Equal(t, 4, m.candidates)
	assert.Equal(t, 1, m.duplicates)
	assert.Equal(t, 1, m.belowFloor)
	assert.Equal(t, 2, m.accepted)
	assert.Equal(t, 1, m.finished)
	assert.Len(t, result.Sources, 2)
}

func TestRetrieverWithCorpusIndex(t *testing.T) {
	ci := index.NewCorpusIndex()
	require.NoError(t, ci.Load([]*core.Document{
		{
			Id:       core.IDFromContent("a"),
			Content:  "Metabolism converts nutrients into usable energy.",
			Source:   "/course/A.pdf",
			Filename: "A.pdf",
			Type:     core.TypePDF,
		},
		{
			Id:       core.IDFromContent("b"),
			Content:  "The knee joint is stabilized by ligaments.",
			Source:   "/course/B.pdf",
			Filename: "B.pdf",
			Type:     core.TypePDF,
		},
	}))

	r, err := NewRetriever(ci)
	require.NoError(t, err)

	result, err := r.GetContext(context.Background(), "how does metabolism produce energy")
	require.NoError(t, err)
	require.NotEmpty(t, result.Sources)
	assert.Equal(t, "A.pdf", result.Sources[0].Filename)
	assert.Contains(t, result.Context, "From A.pdf:")
}
