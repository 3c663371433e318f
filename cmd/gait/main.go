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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/gait/ai"
	"github.com/poiesic/gait/ai/openai"
	"github.com/poiesic/gait/config"
	"github.com/poiesic/gait/index"
	"github.com/poiesic/gait/ingestion"
	"github.com/poiesic/gait/search"
	"github.com/poiesic/gait/storage"
	"github.com/poiesic/gait/storage/badger"
	"github.com/poiesic/gait/storage/chroma"
	"github.com/poiesic/gait/video"
)

func main() {
	app := &cli.App{
		Name:  "gait",
		Usage: "Course content retrieval and video transcription pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "gait.yaml",
			},
		},
		Before: setupApp,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Extract, chunk and store course documents from a directory",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Aliases:  []string{"d"},
						Usage:    "Directory containing course PDFs and text files",
						Required: true,
					},
				},
			},
			{
				Name:   "ingest-videos",
				Usage:  "Transcribe course videos and store the transcripts",
				Action: ingestVideosCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Aliases:  []string{"d"},
						Usage:    "Directory containing course videos",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of videos transcribed concurrently",
					},
				},
			},
			{
				Name:   "query",
				Usage:  "Retrieve course context for a question",
				Action: queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "question",
						Aliases:  []string{"q"},
						Usage:    "The question to retrieve context for",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "local",
						Usage: "Answer from an in-memory TF-IDF index instead of the vector store",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setupApp configures logging and loads .env before any command runs.
func setupApp(c *cli.Context) error {
	// Missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// aiConfigFrom maps file configuration onto the AI service config.
func aiConfigFrom(cfg *config.AppConfig) *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithDimensions(cfg.AI.Dimensions),
		ai.WithTranscriptionURL(cfg.AI.TranscriptionURL),
		ai.WithTranscriptionModel(cfg.AI.TranscriptionModel),
		ai.WithAPIKey(os.Getenv(cfg.AI.APIKeyEnv)),
		ai.WithRequestTimeout(time.Duration(cfg.AI.TimeoutSecs)*time.Second),
	)
}

// buildStore opens the configured vector store backend.
func buildStore(ctx context.Context, cfg *config.AppConfig) (storage.VectorStore, error) {
	switch cfg.Store.Type {
	case "badger":
		aiConfig := aiConfigFrom(cfg)
		if err := aiConfig.Validate(); err != nil {
			return nil, fmt.Errorf("invalid AI configuration: %w", err)
		}
		embedder, err := openai.NewEmbedder(aiConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
		return badger.NewStore(cfg.Store.Path, embedder)
	case "chroma":
		return chroma.NewStore(ctx, cfg.Store.URL, cfg.Store.Collection)
	default:
		return nil, fmt.Errorf("unknown store type %q: must be badger or chroma", cfg.Store.Type)
	}
}

func buildPipeline(cfg *config.AppConfig, store storage.VectorStore) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(store,
		ingestion.WithChunkOptions(ingestion.ChunkOptions{
			ChunkSize: cfg.Chunker.ChunkSize,
			Overlap:   cfg.Chunker.Overlap,
			MaxChunks: cfg.Chunker.MaxChunks,
		}),
		ingestion.WithBatchSize(cfg.Store.BatchSize))
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	pipeline, err := buildPipeline(cfg, store)
	if err != nil {
		return err
	}

	report, err := pipeline.IngestDirectory(ctx, c.String("dir"))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Files processed: %d\n", report.FilesProcessed)
	fmt.Fprintf(os.Stderr, "Files skipped:   %d\n", report.FilesSkipped)
	fmt.Fprintf(os.Stderr, "Chunks stored:   %d\n", report.ChunksStored)
	return nil
}

func ingestVideosCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	aiConfig := aiConfigFrom(cfg)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	transcriber, err := openai.NewTranscriber(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	pipeline, err := buildPipeline(cfg, store)
	if err != nil {
		return err
	}

	workers := c.Int("workers")
	if workers == 0 {
		workers = cfg.Video.Workers
	}

	processor, err := video.NewProcessor(
		&video.FFmpegExtractor{},
		&video.DurationSplitter{
			ChunkDuration: time.Duration(cfg.Video.ChunkDurationSecs) * time.Second,
			MaxChunkBytes: cfg.Video.MaxChunkBytes,
			MergeTrailing: cfg.Video.MergeTrailing,
		},
		transcriber,
		pipeline,
		video.WithWorkers(workers),
		video.WithRetryPolicy(video.RetryPolicy{
			MaxAttempts: cfg.Video.MaxRetries,
			BaseDelay:   time.Duration(cfg.Video.RetryDelaySecs) * time.Second,
		}),
	)
	if err != nil {
		return err
	}
	defer processor.Close()

	report, err := processor.ProcessDirectory(ctx, c.String("dir"))
	if err != nil {
		return fmt.Errorf("video processing failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Videos processed: %d\n", report.Processed)
	fmt.Fprintf(os.Stderr, "Videos failed:    %d\n", report.Failed)
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var querier search.Querier
	if c.Bool("local") {
		querier, err = localIndex(cfg)
		if err != nil {
			return err
		}
	} else {
		store, err := buildStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		querier = store
	}

	retriever, err := search.NewRetriever(querier,
		search.WithResults(cfg.Retrieval.Results),
		search.WithSimilarityFloor(cfg.Retrieval.SimilarityFloor))
	if err != nil {
		return err
	}

	result, err := retriever.GetContext(ctx, c.String("question"))
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	fmt.Println(result.Context)
	if len(result.Sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, src := range result.Sources {
			fmt.Printf("  %s (similarity %.2f)\n", src.Filename, src.Similarity)
		}
	}
	return nil
}

// localIndex builds an in-memory TF-IDF index from the badger store
// contents, so queries work without an embedding service.
func localIndex(cfg *config.AppConfig) (*index.CorpusIndex, error) {
	if cfg.Store.Type != "badger" {
		return nil, fmt.Errorf("local mode requires the badger store, got %q", cfg.Store.Type)
	}

	backend, err := badger.OpenBackend(cfg.Store.Path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	docs, err := badger.AllDocuments(backend)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	if len(docs) == 0 {
		return index.NewCorpusIndex(), nil
	}

	ci := index.NewCorpusIndex()
	if err := ci.Load(docs); err != nil {
		return nil, err
	}
	return ci, nil
}
