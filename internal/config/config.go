// Package config loads and validates the service configuration from a
// TOML file, with environment-variable overrides for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Env variable names that override file values. Secrets should come
// from the environment, not the config file.
const (
	EnvOpenAIAPIKey     = "OPENAI_API_KEY"
	EnvDriveAccessToken = "DRIVE_ACCESS_TOKEN"
)

// Server holds HTTP listener settings.
type Server struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Drive holds document source settings.
type Drive struct {
	// RootFolderID is the folder whose contents are indexed (required).
	RootFolderID string `toml:"root_folder_id"`

	// CredentialsFile is a Google service-account JSON key path.
	// When empty, DRIVE_ACCESS_TOKEN from the environment is used.
	CredentialsFile string `toml:"credentials_file"`

	// AccessToken is resolved from the environment, never the file.
	AccessToken string `toml:"-"`

	RequestTimeoutSeconds int     `toml:"request_timeout_seconds"`
	RequestsPerSecond     float64 `toml:"requests_per_second"`
	Burst                 int     `toml:"burst"`
	PageSize              int64   `toml:"page_size"`
}

// Embedding holds embedding provider settings.
type Embedding struct {
	// Provider is "openai" or "ollama".
	Provider string `toml:"provider"`

	// APIKey is resolved from OPENAI_API_KEY when empty.
	APIKey string `toml:"-"`

	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Understanding holds query-understanding provider settings.
type Understanding struct {
	// Provider is "openai" or "heuristic".
	Provider string `toml:"provider"`

	// APIKey is resolved from OPENAI_API_KEY when empty.
	APIKey string `toml:"-"`

	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Index holds chunking and retrieval settings.
type Index struct {
	ChunkSize        int `toml:"chunk_size"`
	ChunkOverlap     int `toml:"chunk_overlap"`
	MaxDocumentChars int `toml:"max_document_chars"`

	// SnapshotTTLSeconds is how old the snapshot may grow before a
	// query triggers a rebuild.
	SnapshotTTLSeconds int `toml:"snapshot_ttl_seconds"`

	TopKChunks       int `toml:"top_k_chunks"`
	TopKDocs         int `toml:"top_k_docs"`
	EmbedConcurrency int `toml:"embed_concurrency"`
	SnippetLength    int `toml:"snippet_length"`

	DefaultThreshold float64 `toml:"default_threshold"`
	MinThreshold     float64 `toml:"min_threshold"`
	MaxThreshold     float64 `toml:"max_threshold"`
}

// Config is the full service configuration.
type Config struct {
	Server        Server        `toml:"server"`
	Drive         Drive         `toml:"drive"`
	Embedding     Embedding     `toml:"embedding"`
	Understanding Understanding `toml:"understanding"`
	Index         Index         `toml:"index"`
}

// Default returns the configuration defaults applied before the file
// and environment are read.
func Default() *Config {
	return &Config{
		Server: Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Drive: Drive{
			RequestTimeoutSeconds: 30,
			RequestsPerSecond:     8.0,
			Burst:                 10,
			PageSize:              100,
		},
		Embedding: Embedding{
			Provider:       "openai",
			TimeoutSeconds: 30,
		},
		Understanding: Understanding{
			Provider:       "heuristic",
			TimeoutSeconds: 15,
		},
		Index: Index{
			ChunkSize:          1000,
			ChunkOverlap:       200,
			MaxDocumentChars:   100_000,
			SnapshotTTLSeconds: 600,
			TopKChunks:         20,
			TopKDocs:           5,
			EmbedConcurrency:   4,
			SnippetLength:      200,
			DefaultThreshold:   0.35,
			MinThreshold:       0.05,
			MaxThreshold:       0.95,
		},
	}
}

// Load reads the TOML file at path over the defaults, applies
// environment overrides, and validates the result.
// An empty path loads defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv resolves secrets from the environment.
func (c *Config) applyEnv() {
	if key := os.Getenv(EnvOpenAIAPIKey); key != "" {
		c.Embedding.APIKey = key
		c.Understanding.APIKey = key
	}
	if token := os.Getenv(EnvDriveAccessToken); token != "" {
		c.Drive.AccessToken = token
	}
}

// Validate rejects configurations that would fail at request time.
// In particular, a chunk overlap that is not smaller than the chunk
// size would loop forever during indexing and must fail at startup.
func (c *Config) Validate() error {
	if c.Drive.RootFolderID == "" {
		return fmt.Errorf("config: drive.root_folder_id is required")
	}
	if c.Index.ChunkSize <= 0 {
		return fmt.Errorf("config: index.chunk_size must be positive")
	}
	if c.Index.ChunkOverlap < 0 || c.Index.ChunkOverlap >= c.Index.ChunkSize {
		return fmt.Errorf("config: index.chunk_overlap %d must be in [0, chunk_size %d)",
			c.Index.ChunkOverlap, c.Index.ChunkSize)
	}
	if c.Index.SnapshotTTLSeconds <= 0 {
		return fmt.Errorf("config: index.snapshot_ttl_seconds must be positive")
	}
	if c.Index.TopKChunks <= 0 || c.Index.TopKDocs <= 0 {
		return fmt.Errorf("config: index.top_k_chunks and index.top_k_docs must be positive")
	}
	if c.Index.MinThreshold > c.Index.MaxThreshold {
		return fmt.Errorf("config: index.min_threshold %.2f exceeds max_threshold %.2f",
			c.Index.MinThreshold, c.Index.MaxThreshold)
	}
	if c.Index.DefaultThreshold < c.Index.MinThreshold || c.Index.DefaultThreshold > c.Index.MaxThreshold {
		return fmt.Errorf("config: index.default_threshold %.2f outside [%.2f, %.2f]",
			c.Index.DefaultThreshold, c.Index.MinThreshold, c.Index.MaxThreshold)
	}
	if c.Embedding.Provider == "openai" && c.Embedding.APIKey == "" {
		return fmt.Errorf("config: %s is required for the openai embedding provider", EnvOpenAIAPIKey)
	}
	if c.Understanding.Provider == "openai" && c.Understanding.APIKey == "" {
		return fmt.Errorf("config: %s is required for the openai understanding provider", EnvOpenAIAPIKey)
	}
	if c.Drive.CredentialsFile == "" && c.Drive.AccessToken == "" {
		return fmt.Errorf("config: drive.credentials_file or %s is required", EnvDriveAccessToken)
	}
	return nil
}

// RequestTimeout returns the Drive per-call timeout.
func (d Drive) RequestTimeout() time.Duration {
	return time.Duration(d.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the embedding request timeout.
func (e Embedding) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// Timeout returns the understanding request timeout.
func (u Understanding) Timeout() time.Duration {
	return time.Duration(u.TimeoutSeconds) * time.Second
}

// SnapshotTTL returns the snapshot time-to-live.
func (i Index) SnapshotTTL() time.Duration {
	return time.Duration(i.SnapshotTTLSeconds) * time.Second
}
