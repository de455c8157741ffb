// ABOUTME: Centralized configuration for the hearth RAG engine
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the hearth engine
type Config struct {
	// Vector store settings
	QdrantURL    string
	QdrantAPIKey string
	Collection   string

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Retrieval settings
	VectorDimension int
	TopK            int
	ChunkBudget     int

	// Indexing settings
	IndexWorkers int
	QueueDepth   int

	// Storage settings
	DBPath string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		QdrantURL:       getEnv("HEARTH_QDRANT_URL", "http://localhost:6333"),
		QdrantAPIKey:    os.Getenv("HEARTH_QDRANT_API_KEY"),
		Collection:      getEnv("HEARTH_COLLECTION", "household_documents"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		ChatModel:       getEnv("HEARTH_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel:  getEnv("HEARTH_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:         getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:      getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:      getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		VectorDimension: getEnvInt("VECTOR_DIMENSION", 1536),
		TopK:            getEnvInt("HEARTH_TOP_K", 15),
		ChunkBudget:     getEnvInt("HEARTH_CHUNK_BUDGET", 1000),
		IndexWorkers:    getEnvInt("HEARTH_INDEX_WORKERS", 2),
		QueueDepth:      getEnvInt("HEARTH_QUEUE_DEPTH", 256),
		DBPath:          os.Getenv("HEARTH_DB_PATH"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.VectorDimension <= 0 {
		return fmt.Errorf("VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("HEARTH_TOP_K must be positive, got %d", c.TopK)
	}
	if c.ChunkBudget < 100 {
		return fmt.Errorf("HEARTH_CHUNK_BUDGET must be at least 100, got %d", c.ChunkBudget)
	}
	if c.IndexWorkers <= 0 {
		return fmt.Errorf("HEARTH_INDEX_WORKERS must be positive, got %d", c.IndexWorkers)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
