package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/gait/core"
	"github.com/poiesic/gait/storage"
)

// DefaultBatchSize is the number of documents sent to the store per upsert.
const DefaultBatchSize = 10

// Pipeline extracts, chunks and stores course documents.
type Pipeline struct {
	store     storage.VectorStore
	chunkOpts ChunkOptions
	batchSize int
	logger    *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline) error

// WithChunkOptions overrides the default chunking parameters.
func WithChunkOptions(opts ChunkOptions) PipelineOption {
	return func(p *Pipeline) error {
		p.chunkOpts = opts
		return nil
	}
}

// WithBatchSize overrides the upsert batch size.
func WithBatchSize(n int) PipelineOption {
	return func(p *Pipeline) error {
		if n <= 0 {
			return fmt.Errorf("batch size must be positive, got %d", n)
		}
		p.batchSize = n
		return nil
	}
}

// WithLogger sets the logger used for per-file progress and skip reports.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) error {
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline writing to store.
func NewPipeline(store storage.VectorStore, opts ...PipelineOption) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	p := &Pipeline{
		store:     store,
		chunkOpts: DefaultChunkOptions(),
		batchSize: DefaultBatchSize,
		logger:    slog.Default().With("component", "ingestion"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Report summarizes one ingestion run.
type Report struct {
	FilesProcessed int
	FilesSkipped   int
	ChunksStored   int
}

// IngestDirectory extracts every supported file under dir, chunks it and
// stores the chunks. Failed files are skipped and counted, never fatal.
// Re-ingesting the same directory adds new records rather than replacing
// the old ones, so a rebuild should start from an empty store.
func (p *Pipeline) IngestDirectory(ctx context.Context, dir string) (*Report, error) {
	files, err := ExtractDirectory(dir, p.logger)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	runID := time.Now().UnixNano()

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		chunks := Chunk(f.Text, p.chunkOpts)
		if len(chunks) == 0 {
			p.logger.Warn("skipping file, chunking produced nothing", "path", f.Path)
			report.FilesSkipped++
			continue
		}

		docs := make([]*core.Document, 0, len(chunks))
		now := time.Now()
		for i, chunk := range chunks {
			docs = append(docs, &core.Document{
				Id:         core.IDFromContent(fmt.Sprintf("%s:%d:%d", f.Path, runID, i)),
				Content:    chunk,
				Source:     f.Path,
				Filename:   f.Filename,
				Type:       f.Type,
				ChunkId:    i,
				ChunkSize:  len(chunk),
				InsertedAt: now,
			})
		}

		stored, err := p.storeBatches(ctx, docs)
		report.ChunksStored += stored
		if err != nil {
			p.logger.Error("storing chunks failed", "path", f.Path, "stored", stored, "error", err)
			report.FilesSkipped++
			continue
		}

		report.FilesProcessed++
		p.logger.Info("ingested file", "path", f.Path, "chunks", len(chunks))
	}

	p.logger.Info("ingestion complete",
		"processed", report.FilesProcessed,
		"skipped", report.FilesSkipped,
		"chunks", report.ChunksStored)
	return report, nil
}

// IngestTranscript stores a single video transcript as chunked documents.
func (p *Pipeline) IngestTranscript(ctx context.Context, record *core.TranscriptRecord) (int, error) {
	if err := core.ValidateTranscriptRecord(record); err != nil {
		return 0, err
	}

	chunks := Chunk(record.Text, p.chunkOpts)
	runID := time.Now().UnixNano()
	now := time.Now()

	docs := make([]*core.Document, 0, len(chunks))
	for i, chunk := range chunks {
		docs = append(docs, &core.Document{
			Id:         core.IDFromContent(fmt.Sprintf("%s:%d:%d", record.SourceVideo, runID, i)),
			Content:    chunk,
			Source:     record.SourceVideo,
			Filename:   record.Filename,
			Type:       core.TypeVideo,
			ChunkId:    i,
			ChunkSize:  len(chunk),
			InsertedAt: now,
		})
	}

	return p.storeBatches(ctx, docs)
}

func (p *Pipeline) storeBatches(ctx context.Context, docs []*core.Document) (int, error) {
	stored := 0
	for lo := 0; lo < len(docs); lo += p.batchSize {
		hi := lo + p.batchSize
		if hi > len(docs) {
			hi = len(docs)
		}
		if err := p.store.Upsert(ctx, docs[lo:hi]...); err != nil {
			return stored, err
		}
		stored += hi - lo
	}
	return stored, nil
}
