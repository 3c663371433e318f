package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/gait/core"
)

func sampleDocs() []*core.Document {
	return []*core.Document{
		{
			Id:       core.IDFromContent("a0"),
			Content:  "Metabolism converts nutrients into usable energy for muscle contraction.",
			Source:   "/course/A.pdf",
			Filename: "A.pdf",
			Type:     core.TypePDF,
		},
		{
			Id:       core.IDFromContent("a1"),
			Content:  "Energy expenditure during walking rises with speed and incline.",
			Source:   "/course/A.pdf",
			Filename: "A.pdf",
			Type:     core.TypePDF,
			ChunkId:  1,
		},
		{
			Id:       core.IDFromContent("b0"),
			Content:  "The knee joint is stabilized by the cruciate and collateral ligaments.",
			Source:   "/course/B.pdf",
			Filename: "B.pdf",
			Type:     core.TypePDF,
		},
	}
}

func TestCorpusIndex(t *testing.T) {
	t.Run("unloaded index answers with no matches", func(t *testing.T) {
		ci := NewCorpusIndex()
		matches, err := ci.Query(context.Background(), "metabolism", 5)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("load requires a non-empty corpus", func(t *testing.T) {
		ci := NewCorpusIndex()
		assert.ErrorIs(t, ci.Load(nil), ErrEmptyCorpus)
	})

	t.Run("query ranks topical documents first", func(t *testing.T) {
		ci := NewCorpusIndex()
		require.NoError(t, ci.Load(sampleDocs()))
		assert.Equal(t, 3, ci.Len())

		matches, err := ci.Query(context.Background(), "how does metabolism produce energy", 3)
		require.NoError(t, err)
		require.NotEmpty(t, matches)
		assert.Equal(t, "A.pdf", matches[0].Document.Filename)
		for i := 1; i < len(matches); i++ {
			assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
		}
	})

	t.Run("query truncates to k results", func(t *testing.T) {
		ci := NewCorpusIndex()
		require.NoError(t, ci.Load(sampleDocs()))

		matches, err := ci.Query(context.Background(), "walking", 1)
		require.NoError(t, err)
		assert.Len(t, matches, 1)
	})

	t.Run("non-positive k yields no matches", func(t *testing.T) {
		ci := NewCorpusIndex()
		require.NoError(t, ci.Load(sampleDocs()))

		matches, err := ci.Query(context.Background(), "walking", 0)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("reload replaces prior documents", func(t *testing.T) {
		ci := NewCorpusIndex()
		require.NoError(t, ci.Load(sampleDocs()))
		require.NoError(t, ci.Load(sampleDocs()[:1]))
		assert.Equal(t, 1, ci.Len())
	})

	t.Run("cancelled context aborts the query", func(t *testing.T) {
		ci := NewCorpusIndex()
		require.NoError(t, ci.Load(sampleDocs()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := ci.Query(ctx, "walking", 3)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
