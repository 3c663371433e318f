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


package video

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/gait/ai"
	"github.com/poiesic/gait/core"
)

// DefaultWorkers is the number of videos processed concurrently.
const DefaultWorkers = 3

// videoExtensions are the container formats accepted by the batch walk.
var videoExtensions = map[string]bool{
	".mp4": true,
	".avi": true,
	".mov": true,
	".mkv": true,
}

// TranscriptSink receives finished transcripts. The ingestion pipeline
// implements it.
type TranscriptSink interface {
	IngestTranscript(ctx context.Context, record *core.TranscriptRecord) (int, error)
}

// Processor turns videos into stored transcripts: audio extraction,
// chunking, transcription and ingestion, with per-video isolation.
type Processor struct {
	extractor   AudioExtractor
	splitter    Splitter
	transcriber ai.Transcriber
	sink        TranscriptSink
	retryPolicy RetryPolicy
	pool        *ants.Pool
	logger      *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor) error

// WithWorkers sets the number of videos processed concurrently.
// Default is DefaultWorkers.
func WithWorkers(n int) Option {
	return func(p *Processor) error {
		if n < 1 {
			n = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(n)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithRetryPolicy overrides the transcription retry policy.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(p *Processor) error {
		if policy.MaxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.retryPolicy = policy
		return nil
	}
}

// WithProcessorLogger sets a custom logger.
// Default is slog.Default().
func WithProcessorLogger(logger *slog.Logger) Option {
	return func(p *Processor) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewProcessor creates a video processor.
func NewProcessor(
	extractor AudioExtractor,
	splitter Splitter,
	transcriber ai.Transcriber,
	sink TranscriptSink,
	opts ...Option,
) (*Processor, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if splitter == nil {
		return nil, ErrSplitterRequired
	}
	if transcriber == nil {
		return nil, ErrTranscriberRequired
	}
	if sink == nil {
		return nil, ErrSinkRequired
	}

	pool, err := ants.NewPool(DefaultWorkers)
	if err != nil {
		return nil, err
	}

	p := &Processor{
		extractor:   extractor,
		splitter:    splitter,
		transcriber: transcriber,
		sink:        sink,
		retryPolicy: DefaultRetryPolicy(),
		pool:        pool,
		logger:      slog.Default().With("component", "video"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			pool.Release()
			return nil, err
		}
	}
	return p, nil
}

// Close releases the worker pool.
func (p *Processor) Close() {
	p.pool.Release()
}

// VideoResult reports the outcome for one video.
type VideoResult struct {
	Path         string
	ChunksStored int
	ChunksFailed int
	Err          error
}

// BatchReport summarizes one batch run.
type BatchReport struct {
	Processed int
	Failed    int
	Results   []VideoResult
}

// ProcessDirectory transcribes every video under dir concurrently. A
// failing video is reported in the batch result and never aborts its
// siblings. Cancelling the context stops new submissions; videos already
// in flight observe the cancellation through their own calls.
func (p *Processor) ProcessDirectory(ctx context.Context, dir string) (*BatchReport, error) {
	var videos []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if videoExtensions[strings.ToLower(filepath.Ext(path))] {
			videos = append(videos, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []VideoResult
	)
	for _, videoPath := range videos {
		if err := ctx.Err(); err != nil {
			break
		}

		videoPath := videoPath
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			result := p.processVideo(ctx, videoPath)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			results = append(results, VideoResult{Path: videoPath, Err: err})
			mu.Unlock()
		}
	}
	wg.Wait()

	report := &BatchReport{Results: results}
	for _, r := range results {
		if r.Err != nil {
			report.Failed++
			p.logger.Error("video failed", "path", r.Path, "error", r.Err)
		} else {
			report.Processed++
		}
	}
	p.logger.Info("video batch complete", "processed", report.Processed, "failed", report.Failed)
	return report, ctx.Err()
}

// processVideo runs the full pipeline for one video.
func (p *Processor) processVideo(ctx context.Context, videoPath string) VideoResult {
	result := VideoResult{Path: videoPath}
	logger := p.logger.With("video", videoPath)

	audioPath, audioCleanup, err := p.extractor.Extract(ctx, videoPath)
	if err != nil {
		result.Err = err
		return result
	}
	defer audioCleanup()

	chunks, chunksCleanup, err := p.splitter.Split(ctx, audioPath)
	if err != nil {
		result.Err = err
		return result
	}
	defer chunksCleanup()
	logger.Info("audio chunked", "chunks", len(chunks))

	text, failed, err := TranscribeAll(ctx, p.transcriber, chunks, p.retryPolicy, logger)
	result.ChunksFailed = failed
	if err != nil {
		result.Err = err
		return result
	}

	record := core.NewTranscriptRecord(videoPath, text, time.Now().UTC())
	stored, err := p.sink.IngestTranscript(ctx, record)
	result.ChunksStored = stored
	if err != nil {
		result.Err = err
		return result
	}

	logger.Info("video transcribed", "characters", record.Length, "stored", stored, "failedChunks", failed)
	return result
}
