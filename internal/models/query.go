// ABOUTME: Query models for the question-answering path
// ABOUTME: Defines QueryContext, AnswerResult, Citation, and Action structures
package models

// DefaultTopK is the default similarity search fan-out
const DefaultTopK = 15

// QueryContext carries per-request scoping and personalization.
// It is created once per request and never persisted.
type QueryContext struct {
	HouseholdID int64  `json:"household_id"`
	UserID      int64  `json:"user_id,omitempty"` // 0 when the caller is anonymous within the household
	TopK        int    `json:"top_k,omitempty"`
	UserName    string `json:"user_name,omitempty"`
	UserEmail   string `json:"user_email,omitempty"`
}

// Limit returns the effective search fan-out
func (qc QueryContext) Limit() int {
	if qc.TopK > 0 {
		return qc.TopK
	}
	return DefaultTopK
}

// Citation maps an answer's inline reference back to a source document
type Citation struct {
	DocumentID uint32       `json:"document_id"`
	SourceID   string       `json:"source_id"`
	SourceType DocumentType `json:"source_type"`
	Score      float64      `json:"score"`
}

// Action is a UI suggestion the caller may render alongside the answer
type Action struct {
	Label  string `json:"label"`
	Type   string `json:"type"`
	Target string `json:"target"`
}

// AnswerResult is the grounded answer returned to callers
type AnswerResult struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
	Actions   []Action   `json:"actions"`
}
