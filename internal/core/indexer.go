// ABOUTME: Indexer drives the entity-to-vector pipeline off lifecycle events
// ABOUTME: Async worker pool: format, chunk, embed, upsert; deletes are best-effort
package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hearthkit/hearth/internal/models"
	"github.com/hearthkit/hearth/internal/storage/sqlite"
)

// jobTimeout bounds one indexing job end to end
const jobTimeout = 2 * time.Minute

// EntityLoader loads entities from the relational source of truth
type EntityLoader interface {
	GetEntity(id int64) (*models.Entity, error)
}

// VectorIndex is the write surface of the vector store
type VectorIndex interface {
	UpsertDocuments(ctx context.Context, docs []models.Document, vectors [][]float64) error
	DeleteByFilter(ctx context.Context, filters map[string]any) error
}

// BatchEmbedder embeds chunk batches
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

type jobKind int

const (
	jobUpsert jobKind = iota
	jobDelete
)

type indexJob struct {
	id       string
	kind     jobKind
	docType  models.DocumentType
	entityID int64
}

// IndexStatus is a snapshot of the indexer's bookkeeping
type IndexStatus struct {
	Queued    int `json:"queued"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// Indexer reacts to entity lifecycle events and keeps the vector index
// in sync. Per-entity ordering is last-write-wins: every upsert fully
// replaces the entity's points, so no locking is needed.
type Indexer struct {
	store     EntityLoader
	index     VectorIndex
	embedder  BatchEmbedder
	formatter *Formatter
	chunker   *ChunkEngine

	jobs chan indexJob
	wg   sync.WaitGroup

	mu        sync.Mutex
	closed    bool
	processed int
	failed    int
}

// NewIndexer creates an Indexer with the given worker pipeline parts
func NewIndexer(store EntityLoader, index VectorIndex, embedder BatchEmbedder, chunker *ChunkEngine, queueDepth int) *Indexer {
	if queueDepth <= 0 {
		queueDepth = 256
	}
	return &Indexer{
		store:     store,
		index:     index,
		embedder:  embedder,
		formatter: NewFormatter(),
		chunker:   chunker,
		jobs:      make(chan indexJob, queueDepth),
	}
}

// Start launches the worker pool
func (ix *Indexer) Start(workers int) {
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		ix.wg.Add(1)
		go ix.worker()
	}
}

// Stop drains the queue and waits for in-flight jobs. Jobs enqueued
// after Stop are rejected with an error. Safe to call more than once.
func (ix *Indexer) Stop() {
	ix.mu.Lock()
	alreadyClosed := ix.closed
	ix.closed = true
	ix.mu.Unlock()

	if !alreadyClosed {
		close(ix.jobs)
	}
	ix.wg.Wait()
}

// OnEntityChanged enqueues an indexing job after a create or update.
// The entity is reloaded inside the job so the latest write always wins.
func (ix *Indexer) OnEntityChanged(docType models.DocumentType, entityID int64) error {
	return ix.enqueue(indexJob{id: uuid.New().String(), kind: jobUpsert, docType: docType, entityID: entityID})
}

// OnEntityDeleted enqueues a vector cleanup job after a delete
func (ix *Indexer) OnEntityDeleted(docType models.DocumentType, entityID int64) error {
	return ix.enqueue(indexJob{id: uuid.New().String(), kind: jobDelete, docType: docType, entityID: entityID})
}

// enqueue holds the mutex across the send so a concurrent Stop cannot
// close the channel between the closed check and the send
func (ix *Indexer) enqueue(job indexJob) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.closed {
		return fmt.Errorf("indexer stopped, rejecting job for %s:%d", job.docType, job.entityID)
	}
	select {
	case ix.jobs <- job:
		return nil
	default:
		return fmt.Errorf("indexing queue full, dropping job for %s:%d", job.docType, job.entityID)
	}
}

// Status reports queue and completion counters
func (ix *Indexer) Status() IndexStatus {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return IndexStatus{
		Queued:    len(ix.jobs),
		Processed: ix.processed,
		Failed:    ix.failed,
	}
}

func (ix *Indexer) worker() {
	defer ix.wg.Done()
	for job := range ix.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		err := ix.run(ctx, job)
		cancel()

		ix.mu.Lock()
		if err != nil {
			ix.failed++
		} else {
			ix.processed++
		}
		ix.mu.Unlock()

		if err != nil {
			log.Printf("[Indexer] job %s failed for %s:%d: %v", job.id, job.docType, job.entityID, err)
		}
	}
}

func (ix *Indexer) run(ctx context.Context, job indexJob) error {
	if job.kind == jobDelete {
		ix.removeEntityVectors(ctx, job.docType, job.entityID)
		return nil
	}

	entity, err := ix.store.GetEntity(job.entityID)
	if errors.Is(err, sqlite.ErrEntityNotFound) {
		// Entity vanished between the event and the job; clean up instead
		ix.removeEntityVectors(ctx, job.docType, job.entityID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading entity: %w", err)
	}

	return ix.IndexEntity(ctx, entity)
}

// IndexEntity runs the synchronous pipeline for one entity: format,
// chunk, embed, replace its points. Also used by the reindex command.
func (ix *Indexer) IndexEntity(ctx context.Context, entity *models.Entity) error {
	text := ix.formatter.Format(entity)
	chunks := ix.chunker.Chunk(text, entity.Type)

	vectors, err := ix.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}

	docs := make([]models.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = models.Document{
			SourceID:    models.StableID(entity.Type, entity.ID, i),
			HouseholdID: entity.HouseholdID,
			UserID:      entity.UserID,
			Type:        entity.Type,
			Text:        chunk,
			ChunkIndex:  i,
		}
	}

	// Clear superseded chunks first so a shrinking entity leaves no tail.
	// Best-effort: a stale vector degrades quality, not correctness.
	ix.removeEntityVectors(ctx, entity.Type, entity.ID)

	if err := ix.index.UpsertDocuments(ctx, docs, vectors); err != nil {
		return fmt.Errorf("upserting documents: %w", err)
	}
	return nil
}

// removeEntityVectors deletes all points of an entity, logging failures
// instead of raising them
func (ix *Indexer) removeEntityVectors(ctx context.Context, docType models.DocumentType, entityID int64) {
	err := ix.index.DeleteByFilter(ctx, map[string]any{
		"entity_id":     entityID,
		"document_type": string(docType),
	})
	if err != nil {
		log.Printf("[Indexer] vector cleanup failed for %s:%d (continuing): %v", docType, entityID, err)
	}
}
