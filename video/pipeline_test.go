package video

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

	"github.com/poiesic/gait/ai/mock"
	"github.com/poiesic/gait/core"
)

// fakeExtractor pretends every video has an audio track.
type fakeExtractor struct {
	err error
}

func (f *fakeExtractor) Extract(_ context.Context, videoPath string) (string, func(), error) {
	if f.err != nil {
		return "", nil, f.err
	}
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	return "/tmp/audio/" + base + ".mp3", func() {}, nil
}

// fakeSplitter carves every audio file into a fixed number of chunks.
type fakeSplitter struct {
	chunks int
	err    error
}

func (f *fakeSplitter) Split(_ context.Context, audioPath string) ([]core.AudioChunk, func(), error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	chunks := make([]core.AudioChunk, f.chunks)
	for i := range chunks {
		chunks[i] = core.AudioChunk{
			Path:  audioPath + "." + string(rune('0'+i)),
			Index: i,
		}
	}
	return chunks, func() {}, nil
}

// collectingSink records ingested transcripts.
type collectingSink struct {
	mu      sync.Mutex
	records []*core.TranscriptRecord
	err     error
}

func (s *collectingSink) IngestTranscript(_ context.Context, record *core.TranscriptRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.records = append(s.records, record)
	return 1, nil
}

func writeVideoDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("fake video bytes"), 0o644))
	}
	return dir
}

func TestNewProcessor(t *testing.T) {
	transcriber := mock.NewMockTranscriber()
	sink := &collectingSink{}

	t.Run("requires every collaborator", func(t *testing.T) {
		_, err := NewProcessor(nil, &fakeSplitter{}, transcriber, sink)
		assert.ErrorIs(t, err, ErrExtractorRequired)

		_, err = NewProcessor(&fakeExtractor{}, nil, transcriber, sink)
		assert.ErrorIs(t, err, ErrSplitterRequired)

		_, err = NewProcessor(&fakeExtractor{}, &fakeSplitter{}, nil, sink)
		assert.ErrorIs(t, err, ErrTranscriberRequired)

		_, err = NewProcessor(&fakeExtractor{}, &fakeSplitter{}, transcriber, nil)
		assert.ErrorIs(t, err, ErrSinkRequired)
	})

	t.Run("rejects invalid retry policy", func(t *testing.T) {
		_, err := NewProcessor(&fakeExtractor{}, &fakeSplitter{}, transcriber, sink,
			WithRetryPolicy(RetryPolicy{MaxAttempts: 0}))
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})
}

func TestProcessDirectory(t *testing.T) {
	t.Run("transcribes every video and ingests the transcripts", func(t *testing.T) {
		dir := writeVideoDir(t, "lecture1.mp4", "lecture2.mov", "notes.txt")
		sink := &collectingSink{}

		p, err := NewProcessor(&fakeExtractor{}, &fakeSplitter{chunks: 2}, mock.NewMockTranscriber(), sink)
		require.NoError(t, err)
		defer p.Close()

		report, err := p.ProcessDirectory(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Processed)
		assert.Zero(t, report.Failed)
		require.Len(t, sink.records, 2)
		for _, r := range sink.records {
			assert.NotEmpty(t, r.Text)
			assert.Equal(t, len(r.Text), r.Length)
		}
	})

	t.Run("a failing video never aborts its siblings", func(t *testing.T) {
		dir := writeVideoDir(t, "bad.mp4", "good.mp4")
		sink := &collectingSink{}
		transcriber := mock.NewMockTranscriber()
		transcriber.TranscribeFunc = func(_ context.Context, path string) (string, error) {
			if strings.Contains(path, "bad") {
				return "", assert.AnError
			}
			return "healthy transcript", nil
		}

		p, err := NewProcessor(&fakeExtractor{}, &fakeSplitter{chunks: 1}, transcriber, sink,
			WithRetryPolicy(RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond}))
		require.NoError(t, err)
		defer p.Close()

		report, err := p.ProcessDirectory(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Processed)
		assert.Equal(t, 1, report.Failed)
		require.Len(t, sink.records, 1)
		assert.Contains(t, sink.records[0].SourceVideo, "good.mp4")
	})

	t.Run("extraction failure is contained", func(t *testing.T) {
		dir := writeVideoDir(t, "only.mp4")
		sink := &collectingSink{}

		p, err := NewProcessor(&fakeExtractor{err: assert.AnError}, &fakeSplitter{chunks: 1},
			mock.NewMockTranscriber(), sink)
		require.NoError(t, err)
		defer p.Close()

		report, err := p.ProcessDirectory(context.Background(), dir)
		require.NoError(t, err)
		assert.Zero(t, report.Processed)
		assert.Equal(t, 1, report.Failed)
		require.Len(t, report.Results, 1)
		assert.ErrorIs(t, report.Results[0].Err, assert.AnError)
	})

	t.Run("sink failure marks the video failed", func(t *testing.T) {
		dir := writeVideoDir(t, "only.mp4")
		sink := &collectingSink{err: assert.AnError}

		p, err := NewProcessor(&fakeExtractor{}, &fakeSplitter{chunks: 1},
			mock.NewMockTranscriber(), sink)
		require.NoError(t, err)
		defer p.Close()

		report, err := p.ProcessDirectory(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Failed)
	})

	t.Run("empty directory is a clean no-op", func(t *testing.T) {
		dir := writeVideoDir(t)
		p, err := NewProcessor(&fakeExtractor{}, &fakeSplitter{chunks: 1},
			mock.NewMockTranscriber(), &collectingSink{})
		require.NoError(t, err)
		defer p.Close()

		report, err := p.ProcessDirectory(context.Background(), dir)
		require.NoError(t, err)
		assert.Zero(t, report.Processed)
		assert.Zero(t, report.Failed)
	})

	t.Run("cancelled context stops submissions", func(t *testing.T) {
		dir := writeVideoDir(t, "a.mp4", "b.mp4")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p, err := NewProcessor(&fakeExtractor{}, &fakeSplitter{chunks: 1},
			mock.NewMockTranscriber(), &collectingSink{})
		require.NoError(t, err)
		defer p.Close()

		_, err = p.ProcessDirectory(ctx, dir)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
