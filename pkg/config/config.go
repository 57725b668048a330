package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	Port    string
	AppName string

	// Document store
	MongoURI string
	MongoDB  string

	// Ollama — Embed endpoint
	OllamaEmbedURL   string
	OllamaEmbedModel string
	OllamaEmbedToken string // Bearer token for Ollama Cloud (empty = local)

	EmbeddingDimension int

	// Index snapshot
	IndexPath string

	// Embedding retry/throttle
	EmbedAttempts    int
	EmbedTimeoutSecs int
	IndexBatchSize   int
	IndexThrottleMs  int

	// Frontend
	FrontendURL string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envOrDefault("PORT", "3001"),
		AppName: envOrDefault("APP_NAME", "Material Search"),

		MongoURI: envOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  envOrDefault("MONGO_DB", "dzinly_db_ai"),

		OllamaEmbedURL:   envOrDefault("OLLAMA_EMBED_URL", envOrDefault("OLLAMA_BASE_URL", "http://localhost:11434")),
		OllamaEmbedModel: envOrDefault("OLLAMA_EMBED_MODEL", "bge-m3"),
		OllamaEmbedToken: os.Getenv("OLLAMA_EMBED_TOKEN"),

		EmbeddingDimension: envOrDefaultInt("EMBEDDING_DIMENSION", 1024),

		IndexPath: envOrDefault("INDEX_PATH", "materials_index.bin"),

		EmbedAttempts:    envOrDefaultInt("EMBED_ATTEMPTS", 3),
		EmbedTimeoutSecs: envOrDefaultInt("EMBED_TIMEOUT_SECS", 30),
		IndexBatchSize:   envOrDefaultInt("INDEX_BATCH_SIZE", 50),
		IndexThrottleMs:  envOrDefaultInt("INDEX_THROTTLE_MS", 1000),

		FrontendURL: envOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return fallback
}
