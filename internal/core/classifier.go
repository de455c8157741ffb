// ABOUTME: Classifier inspects questions to detect document types and personal scope
// ABOUTME: Builds vector-store filters and post-filters retrieved candidates
package core

import (
	"regexp"
	"strings"

	"github.com/hearthkit/hearth/internal/models"
)

// typeRule pairs a document type with the keywords that select it.
// Rules are evaluated in priority order; excludeIf keywords veto a match.
type typeRule struct {
	docType   models.DocumentType
	keywords  []string
	excludeIf []string
}

var recipeKeywords = []string{"recipe", "cook", "cooking", "meal", "dinner", "lunch", "breakfast", "bake", "dish", "make", "eat", "ate"}

// Ordered so "what did I eat" lands on recipe/meal terms before health-log
// can grab it, and the health-log rule still vetoes itself on recipe terms.
var typeRules = []typeRule{
	{docType: models.DocTypeRecipe, keywords: recipeKeywords},
	{docType: models.DocTypePantryItem, keywords: []string{"pantry", "grocery", "groceries", "ingredient", "fridge", "stock", "expire", "expiring"}},
	{docType: models.DocTypeHealthLog, keywords: []string{"health", "sleep", "slept", "mood", "energy", "weight", "exercise", "workout", "symptom", "log"}, excludeIf: recipeKeywords},
	{docType: models.DocTypeGoal, keywords: []string{"goal", "goals", "target", "objective", "progress", "habit", "streak"}},
}

// householdNouns name shared data; their presence makes a query non-personal
// even when first-person pronouns appear ("my recipes" are the household's)
var householdNouns = []string{"recipe", "pantry", "ingredient", "grocery", "groceries", "fridge"}

// personalNouns name data that belongs to one member
var personalNouns = []string{"health", "mood", "sleep", "slept", "goal", "weight", "exercise", "today", "yesterday"}

var firstPerson = regexp.MustCompile(`\b(i|me|my|mine|myself|i'm|i've|i'd|i'll|am i|did i|do i)\b`)

// Classifier is a stateless question-analysis service.
// Every method is a pure function over the question string.
type Classifier struct{}

// NewClassifier creates a Classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// DetectDocumentType guesses the document type a question is about.
// Returns "" when no rule matches.
func (c *Classifier) DetectDocumentType(question string) models.DocumentType {
	q := strings.ToLower(question)

	for _, rule := range typeRules {
		if !containsAny(q, rule.keywords) {
			continue
		}
		if len(rule.excludeIf) > 0 && containsAny(q, rule.excludeIf) {
			continue
		}
		return rule.docType
	}
	return ""
}

// IsPersonalQuery reports whether the question uses first-person language
func (c *Classifier) IsPersonalQuery(question string) bool {
	return firstPerson.MatchString(strings.ToLower(question))
}

// IsPersonalDataQuery reports whether the question is about one member's
// own data. Household-shared nouns win over pronouns; ambiguity defaults
// to personal, the privacy-preserving scope.
func (c *Classifier) IsPersonalDataQuery(question string) bool {
	q := strings.ToLower(question)

	if containsAny(q, householdNouns) {
		return false
	}
	if containsAny(q, personalNouns) {
		return true
	}
	return true
}

// BuildFilters constructs the conjunctive metadata filter for a search.
// Household scoping is unconditional. The user filter is added only for
// personal, personal-data questions, and never for goals, which may live
// at household level.
func (c *Classifier) BuildFilters(householdID int64, question string, userID int64, docType models.DocumentType) map[string]any {
	filters := map[string]any{
		"household_id": householdID,
	}

	if docType != "" {
		filters["document_type"] = string(docType)
	}

	if userID != 0 &&
		c.IsPersonalQuery(question) &&
		c.IsPersonalDataQuery(question) &&
		docType != models.DocTypeGoal {
		filters["user_id"] = userID
	}

	return filters
}

// FilterCandidates drops candidates whose metadata disagrees with the
// detected type. For goals it additionally drops documents owned by a
// different user; ownerless household goals always pass.
func (c *Classifier) FilterCandidates(candidates []models.Candidate, docType models.DocumentType, userID int64) []models.Candidate {
	if docType == "" {
		return candidates
	}

	filtered := make([]models.Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Type != docType {
			continue
		}
		if docType == models.DocTypeGoal && cand.UserID != 0 && cand.UserID != userID {
			continue
		}
		filtered = append(filtered, cand)
	}
	return filtered
}

// containsAny reports whether any keyword appears in q as a whole word
func containsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if containsWord(q, kw) {
			return true
		}
	}
	return false
}

// containsWord matches kw in q on word boundaries so "make" does not
// match "homemaker"
func containsWord(q, kw string) bool {
	idx := 0
	for {
		i := strings.Index(q[idx:], kw)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(kw)

		beforeOK := start == 0 || !isWordChar(q[start-1])
		afterOK := end == len(q) || !isWordChar(q[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '_'
}
