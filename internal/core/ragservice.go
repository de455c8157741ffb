// ABOUTME: RAGService orchestrates one question-answering request end to end
// ABOUTME: Embed, filtered search, defensive validation, grounded answer, citation remapping
package core

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/hearthkit/hearth/internal/models"
)

// Embedder turns a question into a query vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// VectorSearcher is the retrieval surface of the vector store
type VectorSearcher interface {
	Search(ctx context.Context, vector []float64, limit int, filters map[string]any) ([]models.Candidate, error)
}

// EntityChecker probes the relational source of truth
type EntityChecker interface {
	HasEntities(householdID int64, entityType models.DocumentType, userID int64) (bool, error)
}

// Answerer generates a grounded answer from retrieved context
type Answerer interface {
	Generate(ctx context.Context, question string, qc models.QueryContext, candidates []models.Candidate) GeneratedAnswer
}

// RAGService composes the query pipeline
type RAGService struct {
	embedder   Embedder
	store      VectorSearcher
	entities   EntityChecker
	classifier *Classifier
	answerer   Answerer
}

// NewRAGService creates a RAGService
func NewRAGService(embedder Embedder, store VectorSearcher, entities EntityChecker, answerer Answerer) *RAGService {
	return &RAGService{
		embedder:   embedder,
		store:      store,
		entities:   entities,
		classifier: NewClassifier(),
		answerer:   answerer,
	}
}

// Query answers one household question. An embedding or search failure
// aborts the request; everything after retrieval degrades instead of
// erroring.
func (s *RAGService) Query(ctx context.Context, question string, qc models.QueryContext) (*models.AnswerResult, error) {
	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	docType := s.classifier.DetectDocumentType(question)
	filters := s.classifier.BuildFilters(qc.HouseholdID, question, qc.UserID, docType)

	candidates, err := s.store.Search(ctx, vector, qc.Limit(), filters)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	candidates = s.enforceHousehold(candidates, qc.HouseholdID)
	candidates = s.classifier.FilterCandidates(candidates, docType, qc.UserID)

	if len(candidates) == 0 && docType != "" {
		candidates, err = s.recoverEmptyResult(ctx, vector, qc, docType)
		if err != nil {
			return nil, err
		}
	}

	candidates = validateTypes(candidates, docType)

	generated := s.answerer.Generate(ctx, question, qc, candidates)

	return &models.AnswerResult{
		Answer:    generated.Answer,
		Citations: mapCitations(generated.Markers, candidates),
		Actions:   generated.Actions,
	}, nil
}

// recoverEmptyResult decides between "data exists but is not indexed yet"
// (return empty, never fabricate) and "filters were too aggressive"
// (retry household-only, then re-apply the type constraint).
func (s *RAGService) recoverEmptyResult(ctx context.Context, vector []float64, qc models.QueryContext, docType models.DocumentType) ([]models.Candidate, error) {
	exists, err := s.entities.HasEntities(qc.HouseholdID, docType, qc.UserID)
	if err != nil {
		return nil, fmt.Errorf("checking entity existence: %w", err)
	}
	if exists {
		return nil, nil
	}

	broadened := map[string]any{"household_id": qc.HouseholdID}
	candidates, err := s.store.Search(ctx, vector, qc.Limit(), broadened)
	if err != nil {
		return nil, fmt.Errorf("broadened search: %w", err)
	}

	candidates = s.enforceHousehold(candidates, qc.HouseholdID)
	return s.classifier.FilterCandidates(candidates, docType, qc.UserID), nil
}

// enforceHousehold drops any candidate from another household. The store
// was asked to filter; a hit here means its filter failed, which is the
// one leak this service must stop.
func (s *RAGService) enforceHousehold(candidates []models.Candidate, householdID int64) []models.Candidate {
	kept := make([]models.Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.HouseholdID != householdID {
			log.Printf("[RAG] dropping candidate %s: household %d != %d", cand.SourceID, cand.HouseholdID, householdID)
			continue
		}
		kept = append(kept, cand)
	}
	return kept
}

// validateTypes applies the all-or-nothing rule: when a type was
// detected, one wrong-type document poisons the whole context
func validateTypes(candidates []models.Candidate, docType models.DocumentType) []models.Candidate {
	if docType == "" {
		return candidates
	}
	for _, cand := range candidates {
		if cand.Type != docType {
			log.Printf("[RAG] discarding %d candidates: type mismatch after filtering", len(candidates))
			return nil
		}
	}
	return candidates
}

// mapCitations resolves "docN" markers back to candidates using 1-based
// positional indexing, the same order the answerer presented them in.
// Unmappable markers are dropped silently.
func mapCitations(markers []string, candidates []models.Candidate) []models.Citation {
	citations := make([]models.Citation, 0, len(markers))
	for _, marker := range markers {
		numStr := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(marker)), "doc")
		n, err := strconv.Atoi(numStr)
		if err != nil || n < 1 || n > len(candidates) {
			continue
		}
		cand := candidates[n-1]
		citations = append(citations, models.Citation{
			DocumentID: cand.ID,
			SourceID:   cand.SourceID,
			SourceType: cand.Type,
			Score:      cand.Score,
		})
	}
	return citations
}
