// ABOUTME: Document models for the household vector index
// ABOUTME: Defines DocumentType, indexed Document, and search Candidate structures
package models

import "fmt"

// DocumentType identifies the kind of household entity a document came from
type DocumentType string

const (
	DocTypeHealthLog  DocumentType = "health_log"
	DocTypeRecipe     DocumentType = "recipe"
	DocTypePantryItem DocumentType = "pantry_item"
	DocTypeGoal       DocumentType = "goal"
)

// KnownDocumentTypes lists every indexable document type
var KnownDocumentTypes = []DocumentType{
	DocTypeHealthLog,
	DocTypeRecipe,
	DocTypePantryItem,
	DocTypeGoal,
}

// ParseDocumentType validates a string against the closed set of types
func ParseDocumentType(s string) (DocumentType, error) {
	for _, dt := range KnownDocumentTypes {
		if string(dt) == s {
			return dt, nil
		}
	}
	return "", fmt.Errorf("unknown document type: %q", s)
}

// Document is one indexed, embeddable text unit derived from an entity.
// The stable SourceID is "<type>:<entity id>:<chunk index>".
type Document struct {
	SourceID    string       `json:"source_id"`
	HouseholdID int64        `json:"household_id"`
	UserID      int64        `json:"user_id,omitempty"` // 0 means household-level
	Type        DocumentType `json:"document_type"`
	Text        string       `json:"text"`
	ChunkIndex  int          `json:"chunk_index"`
}

// StableID builds the stable string id for an entity chunk
func StableID(docType DocumentType, entityID int64, chunkIndex int) string {
	return fmt.Sprintf("%s:%d:%d", docType, entityID, chunkIndex)
}

// Candidate is a document returned by a similarity search
type Candidate struct {
	ID          uint32  `json:"id"`
	Score       float64 `json:"score"`
	Text        string  `json:"text"`
	SourceID    string  `json:"source_id"`
	Type        DocumentType
	HouseholdID int64
	UserID      int64 // 0 means household-level
	EntityID    int64
}
