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


// Package gait assembles the course content library: an embedded vector
// store of chunked documents and transcripts, the pipelines that fill it
// and the retriever that answers questions from it.
package gait

import (
	"log/slog"

	"github.com/poiesic/gait/ai"
	"github.com/poiesic/gait/ai/openai"
	"github.com/poiesic/gait/ingestion"
	"github.com/poiesic/gait/search"
	"github.com/poiesic/gait/storage"
	"github.com/poiesic/gait/storage/badger"
)

// Library is the high-level entry point over an embedded store. It wires
// the AI provider, the vector store and the pipeline factories together so
// embedding applications need a single handle.
type Library struct {
	store    storage.VectorStore
	provider ai.Provider
	logger   *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig overrides the AI service configuration.
func WithAIConfig(config *ai.Config) LibraryOption {
	return func(o *libraryOptions) {
		o.aiConfig = config
	}
}

// NewLibrary opens a course content library backed by an embedded BadgerDB
// store at filePath.
func NewLibrary(filePath string, opts ...LibraryOption) (*Library, error) {
	options := &libraryOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		return nil, err
	}

	store, err := badger.NewStore(filePath, provider.Embedder())
	if err != nil {
		provider.Close()
		return nil, err
	}

	return &Library{
		store:    store,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the store and the AI provider.
func (l *Library) Close() error {
	if err := l.provider.Close(); err != nil {
		l.logger.Error("error closing AI provider", "err", err)
	}
	if err := l.store.Close(); err != nil {
		l.logger.Error("error closing store", "err", err)
		return err
	}
	return nil
}

// Store returns the underlying vector store.
func (l *Library) Store() storage.VectorStore {
	return l.store
}

// NewIngestionPipeline creates a pipeline writing into this library.
func (l *Library) NewIngestionPipeline(opts ...ingestion.PipelineOption) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(l.store, opts...)
}

// NewRetriever creates a retriever answering from this library.
func (l *Library) NewRetriever(opts ...search.Option) (*search.Retriever, error) {
	return search.NewRetriever(l.store, opts...)
}
