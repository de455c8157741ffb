// ABOUTME: Entity is the relational source-of-truth record behind a document
// ABOUTME: Stored in SQLite; the vector store only holds derived chunks
package models

import "time"

// Entity is one household record (health log, recipe, pantry item, goal).
// Fields holds type-specific attributes the formatter renders into text.
type Entity struct {
	ID          int64             `json:"id"`
	Type        DocumentType      `json:"entity_type"`
	HouseholdID int64             `json:"household_id"`
	UserID      int64             `json:"user_id,omitempty"` // 0 means household-level
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	Fields      map[string]string `json:"fields,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
