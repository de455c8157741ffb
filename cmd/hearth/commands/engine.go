// ABOUTME: Shared service wiring for CLI commands
// ABOUTME: Builds config, storage, clients, and the RAG/indexing services
package commands

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/hearthkit/hearth/internal/config"
	"github.com/hearthkit/hearth/internal/core"
	"github.com/hearthkit/hearth/internal/llm"
	"github.com/hearthkit/hearth/internal/storage/qdrant"
	"github.com/hearthkit/hearth/internal/storage/sqlite"
)

// engine bundles everything a command needs
type engine struct {
	cfg     *config.Config
	db      *sqlite.DB
	vectors *qdrant.Client
	llm     *llm.Client
	rag     *core.RAGService
	indexer *core.Indexer
}

// newEngine loads configuration and wires the full service graph.
// Commands that never call a provider can pass needOpenAI=false.
func newEngine(needOpenAI bool) (*engine, error) {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	vectors := qdrant.NewClient(qdrant.Config{
		URL:        cfg.QdrantURL,
		APIKey:     cfg.QdrantAPIKey,
		Collection: cfg.Collection,
		Dimension:  cfg.VectorDimension,
		Timeout:    cfg.Timeout,
	})

	e := &engine{cfg: cfg, db: db, vectors: vectors}

	if needOpenAI {
		client, err := llm.NewClient(&llm.ClientConfig{
			APIKey:         cfg.OpenAIKey,
			ChatModel:      cfg.ChatModel,
			EmbeddingModel: cfg.EmbeddingModel,
			Dimension:      cfg.VectorDimension,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			RetryDelay:     cfg.RetryDelay,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("creating OpenAI client: %w", err)
		}
		e.llm = client

		chunker := core.NewChunkEngine(cfg.ChunkBudget)
		e.indexer = core.NewIndexer(db, vectors, client, chunker, cfg.QueueDepth)
		e.rag = core.NewRAGService(client, vectors, db, core.NewAnswerGenerator(client))
	}

	return e, nil
}

// Close releases the engine's resources
func (e *engine) Close() {
	if e.db != nil {
		_ = e.db.Close()
	}
}
