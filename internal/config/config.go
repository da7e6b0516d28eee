package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"tcgen/internal/chunker"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort     string
	DBPath      string
	LogLevel    slog.Level
	LogFormat   string
	MaxUploadMB int
	Workers     int

	// Default segmentation settings used when a request does not override them.
	ChunkSize    int
	ChunkOverlap int
	ChunkMode    chunker.Mode

	// Publishing is disabled when QdrantURL is empty.
	QdrantURL          string
	QdrantAPIKey       string
	QdrantCollection   string
	QdrantVectorSize   int
	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingAPIKey    string
}

// PublishEnabled reports whether chunks should be embedded and pushed to Qdrant.
func (c *Config) PublishEnabled() bool {
	return c.QdrantURL != ""
}

// ChunkParams returns the configured default segmentation parameters.
func (c *Config) ChunkParams() chunker.Params {
	return chunker.Params{ChunkSize: c.ChunkSize, Overlap: c.ChunkOverlap}
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or a parent directory, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "9000"),
		DBPath:             getEnv("DB_PATH", "./data/tcgen.db"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		QdrantURL:          getEnv("QDRANT_URL", ""),
		QdrantAPIKey:       getEnv("QDRANT_API_KEY", ""),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "plan_chunks"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "granite-embedding-278m-multilingual"),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", "dummy-key"),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	mode, err := chunker.ParseMode(getEnv("CHUNK_MODE", string(chunker.ModeFixed)))
	if err != nil {
		return nil, fmt.Errorf("CHUNK_MODE: %w", err)
	}
	cfg.ChunkMode = mode

	ints := []struct {
		key  string
		def  int
		dest *int
		min  int
	}{
		{"CHUNK_SIZE", chunker.DefaultChunkSize, &cfg.ChunkSize, 1},
		{"CHUNK_OVERLAP", chunker.DefaultOverlap, &cfg.ChunkOverlap, 0},
		{"MAX_UPLOAD_MB", 32, &cfg.MaxUploadMB, 1},
		{"WORKERS", 4, &cfg.Workers, 1},
	}
	for _, v := range ints {
		n, err := getEnvInt(v.key, v.def)
		if err != nil {
			return nil, err
		}
		if n < v.min {
			return nil, fmt.Errorf("%s must be at least %d, got %d", v.key, v.min, n)
		}
		*v.dest = n
	}

	// QDRANT_VECTOR_SIZE must match the output size of the embeddings model.
	// If it changes, the Qdrant collection must be recreated.
	if cfg.PublishEnabled() {
		vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
		if vectorSizeStr == "" {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required when QDRANT_URL is set")
		}
		vectorSize, err := strconv.Atoi(vectorSizeStr)
		if err != nil {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
		}
		if vectorSize <= 0 {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
		}
		cfg.QdrantVectorSize = vectorSize
	}

	// Create the data directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads .env from the working directory, then from the first
// parent directory that has one. Errors are ignored.
func loadDotEnv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ { // Limit search depth
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return // Reached filesystem root
		}
		dir = parent
	}
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error: %w", err)
	}
	return level, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses an integer environment variable, returning defaultValue when unset.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}
