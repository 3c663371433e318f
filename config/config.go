package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	Overlap   int `yaml:"overlap"`
	MaxChunks int `yaml:"max_chunks"`
}

// RetrievalConfig configures context assembly.
type RetrievalConfig struct {
	Results         int     `yaml:"results"`
	SimilarityFloor float32 `yaml:"similarity_floor"`
}

// StoreConfig selects and configures the vector store implementation.
type StoreConfig struct {
	Type       string `yaml:"type"` // "badger" or "chroma"
	Path       string `yaml:"path,omitempty"`
	URL        string `yaml:"url,omitempty"`
	Collection string `yaml:"collection,omitempty"`
	BatchSize  int    `yaml:"batch_size"`
}

// VideoConfig configures the transcription pipeline.
type VideoConfig struct {
	ChunkDurationSecs int   `yaml:"chunk_duration_secs"`
	MaxChunkBytes     int64 `yaml:"max_chunk_bytes"`
	MergeTrailing     bool  `yaml:"merge_trailing"`
	Workers           int   `yaml:"workers"`
	MaxRetries        int   `yaml:"max_retries"`
	RetryDelaySecs    int   `yaml:"retry_delay_secs"`
}

// AIConfig configures the embedding and transcription services.
type AIConfig struct {
	EmbeddingHost      string `yaml:"embedding_host"`
	EmbeddingModel     string `yaml:"embedding_model"`
	Dimensions         int    `yaml:"dimensions"`
	TranscriptionURL   string `yaml:"transcription_url"`
	TranscriptionModel string `yaml:"transcription_model"`
	APIKeyEnv          string `yaml:"api_key_env"`
	TimeoutSecs        int    `yaml:"timeout_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Store     StoreConfig     `yaml:"store"`
	Video     VideoConfig     `yaml:"video"`
	AI        AIConfig        `yaml:"ai"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 2000
	}
	if cfg.Chunker.Overlap == 0 {
		cfg.Chunker.Overlap = 200
	}
	if cfg.Chunker.MaxChunks == 0 {
		cfg.Chunker.MaxChunks = 1000
	}
	if cfg.Retrieval.Results == 0 {
		cfg.Retrieval.Results = 5
	}
	if cfg.Retrieval.SimilarityFloor == 0 {
		cfg.Retrieval.SimilarityFloor = 0.1
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "badger"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "gait.db"
	}
	if cfg.Store.URL == "" {
		cfg.Store.URL = "http://localhost:8000"
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = "course-content"
	}
	if cfg.Store.BatchSize == 0 {
		cfg.Store.BatchSize = 10
	}
	if cfg.Video.ChunkDurationSecs == 0 {
		cfg.Video.ChunkDurationSecs = 900
	}
	if cfg.Video.MaxChunkBytes == 0 {
		cfg.Video.MaxChunkBytes = 25 << 20
	}
	if cfg.Video.Workers == 0 {
		cfg.Video.Workers = 3
	}
	if cfg.Video.MaxRetries == 0 {
		cfg.Video.MaxRetries = 3
	}
	if cfg.Video.RetryDelaySecs == 0 {
		cfg.Video.RetryDelaySecs = 1
	}
	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = "https://api.openai.com/v1"
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = "text-embedding-ada-002"
	}
	if cfg.AI.Dimensions == 0 {
		cfg.AI.Dimensions = 1536
	}
	if cfg.AI.TranscriptionURL == "" {
		cfg.AI.TranscriptionURL = "https://api.openai.com/v1/audio/transcriptions"
	}
	if cfg.AI.TranscriptionModel == "" {
		cfg.AI.TranscriptionModel = "whisper-1"
	}
	if cfg.AI.APIKeyEnv == "" {
		cfg.AI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.AI.TimeoutSecs == 0 {
		cfg.AI.TimeoutSecs = 300
	}
}
