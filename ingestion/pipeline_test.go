package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/gait/core"
)

// recordingStore collects upserted documents in memory.
type recordingStore struct {
	mu      sync.Mutex
	docs    []*core.Document
	batches []int
	failOn  func(doc *core.Document) error
}

func (s *recordingStore) Upsert(_ context.Context, docs ...*core.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != nil {
		for _, d := range docs {
			if err := s.failOn(d); err != nil {
				return err
			}
		}
	}
	s.docs = append(s.docs, docs...)
	s.batches = append(s.batches, len(docs))
	return nil
}

func (s *recordingStore) Query(context.Context, string, int) ([]*core.SimilarityMatch, error) {
	return nil, nil
}

func (s *recordingStore) Count(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs), nil
}

func (s *recordingStore) Close() error { return nil }

func writeCourseDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestNewPipeline(t *testing.T) {
	t.Run("requires a store", func(t *testing.T) {
		_, err := NewPipeline(nil)
		assert.ErrorIs(t, err, ErrStoreRequired)
	})

	t.Run("rejects non-positive batch size", func(t *testing.T) {
		_, err := NewPipeline(&recordingStore{}, WithBatchSize(0))
		assert.Error(t, err)
	})
}

func TestIngestDirectory(t *testing.T) {
	t.Run("stores chunks for every supported file", func(t *testing.T) {
		dir := writeCourseDir(t, map[string]string{
			"notes.txt":    "The stance phase carries body weight. The swing phase advances the limb.",
			"syllabus.md":  "Week one covers gait analysis fundamentals.",
			"ignored.docx": "should not be read",
		})
		store := &recordingStore{}
		p, err := NewPipeline(store)
		require.NoError(t, err)

		report, err := p.IngestDirectory(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 2, report.FilesProcessed)
		assert.Equal(t, 0, report.FilesSkipped)
		assert.Equal(t, report.ChunksStored, len(store.docs))
		require.NotEmpty(t, store.docs)
		for _, d := range store.docs {
			assert.NoError(t, core.ValidateDocument(d))
			assert.Equal(t, core.TypeText, d.Type)
			assert.Equal(t, len(d.Content), d.ChunkSize)
		}
	})

	t.Run("re-ingesting grows the store", func(t *testing.T) {
		dir := writeCourseDir(t, map[string]string{
			"notes.txt": "Cadence is steps per minute. Stride length spans two steps.",
		})
		store := &recordingStore{}
		p, err := NewPipeline(store)
		require.NoError(t, err)

		_, err = p.IngestDirectory(context.Background(), dir)
		require.NoError(t, err)
		first := len(store.docs)

		_, err = p.IngestDirectory(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 2*first, len(store.docs))
	})

	t.Run("respects batch size", func(t *testing.T) {
		dir := writeCourseDir(t, map[string]string{
			"long.txt": strings.Repeat("Every sentence adds a little more text here. ", 200),
		})
		store := &recordingStore{}
		p, err := NewPipeline(store,
			WithChunkOptions(ChunkOptions{ChunkSize: 100, Overlap: 10, MaxChunks: 1000}),
			WithBatchSize(10))
		require.NoError(t, err)

		report, err := p.IngestDirectory(context.Background(), dir)
		require.NoError(t, err)
		require.Greater(t, report.ChunksStored, 10)
		for i, b := range store.batches {
			if i < len(store.batches)-1 {
				assert.Equal(t, 10, b)
			} else {
				assert.LessOrEqual(t, b, 10)
			}
		}
	})

	t.Run("store failure skips the file without aborting the run", func(t *testing.T) {
		dir := writeCourseDir(t, map[string]string{
			"bad.txt":  "poison content that the store rejects.",
			"good.txt": "healthy content that stores fine.",
		})
		store := &recordingStore{
			failOn: func(d *core.Document) error {
				if strings.Contains(d.Content, "poison") {
					return assert.AnError
				}
				return nil
			},
		}
		p, err := NewPipeline(store)
		require.NoError(t, err)

		report, err := p.IngestDirectory(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 1, report.FilesProcessed)
		assert.Equal(t, 1, report.FilesSkipped)
	})

	t.Run("cancelled context stops the run", func(t *testing.T) {
		dir := writeCourseDir(t, map[string]string{
			"notes.txt": "some content.",
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p, err := NewPipeline(&recordingStore{})
		require.NoError(t, err)
		_, err = p.IngestDirectory(ctx, dir)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIngestTranscript(t *testing.T) {
	t.Run("stores chunked transcript as video documents", func(t *testing.T) {
		store := &recordingStore{}
		p, err := NewPipeline(store)
		require.NoError(t, err)

		record := core.NewTranscriptRecord("/videos/lecture1.mp4",
			"The lecture covers ground reaction forces during walking.", time.Now())
		n, err := p.IngestTranscript(context.Background(), record)
		require.NoError(t, err)
		assert.Equal(t, n, len(store.docs))
		require.NotEmpty(t, store.docs)
		assert.Equal(t, core.TypeVideo, store.docs[0].Type)
		assert.Equal(t, "/videos/lecture1.mp4", store.docs[0].Source)
	})

	t.Run("rejects invalid records", func(t *testing.T) {
		p, err := NewPipeline(&recordingStore{})
		require.NoError(t, err)

		record := core.NewTranscriptRecord("/videos/lecture1.mp4", "   ", time.Now())
		_, err = p.IngestTranscript(context.Background(), record)
		assert.Error(t, err)
	})
}
