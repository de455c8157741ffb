// ABOUTME: Tests for environment-driven configuration
// ABOUTME: Verifies defaults, overrides, and validation bounds
package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.QdrantURL != "http://localhost:6333" {
		t.Errorf("QdrantURL = %q", cfg.QdrantURL)
	}
	if cfg.Collection != "household_documents" {
		t.Errorf("Collection = %q", cfg.Collection)
	}
	if cfg.VectorDimension != 1536 {
		t.Errorf("VectorDimension = %d, want 1536", cfg.VectorDimension)
	}
	if cfg.TopK != 15 {
		t.Errorf("TopK = %d, want 15", cfg.TopK)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.RetryDelay)
	}
	if cfg.ChunkBudget != 1000 {
		t.Errorf("ChunkBudget = %d, want 1000", cfg.ChunkBudget)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HEARTH_QDRANT_URL", "http://qdrant.internal:6333")
	t.Setenv("VECTOR_DIMENSION", "3072")
	t.Setenv("HEARTH_TOP_K", "5")
	t.Setenv("OPENAI_RETRY_DELAY", "500ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.QdrantURL != "http://qdrant.internal:6333" {
		t.Errorf("QdrantURL = %q", cfg.QdrantURL)
	}
	if cfg.VectorDimension != 3072 {
		t.Errorf("VectorDimension = %d, want 3072", cfg.VectorDimension)
	}
	if cfg.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.TopK)
	}
	if cfg.RetryDelay != 500*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 500ms", cfg.RetryDelay)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"zero dimension", func(c *Config) { c.VectorDimension = 0 }, true},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, true},
		{"excessive retries", func(c *Config) { c.MaxRetries = 11 }, true},
		{"zero top-k", func(c *Config) { c.TopK = 0 }, true},
		{"tiny chunk budget", func(c *Config) { c.ChunkBudget = 50 }, true},
		{"zero workers", func(c *Config) { c.IndexWorkers = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_BadIntFallsBackToDefault(t *testing.T) {
	t.Setenv("HEARTH_TOP_K", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TopK != 15 {
		t.Errorf("TopK = %d, want default 15", cfg.TopK)
	}
}
