// ABOUTME: Tests for question classification and filter construction
// ABOUTME: Covers type detection ordering, personal scoping, and candidate filtering
package core

import (
	"testing"

	"github.com/hearthkit/hearth/internal/models"
)

func TestDetectDocumentType(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name     string
		question string
		want     models.DocumentType
	}{
		{"recipe direct", "show me the lasagna recipe", models.DocTypeRecipe},
		{"recipe via make", "what recipes can I make", models.DocTypeRecipe},
		{"meal routes to recipe", "what did I eat for dinner", models.DocTypeRecipe},
		{"pantry", "what is in the pantry", models.DocTypePantryItem},
		{"groceries", "do we need groceries", models.DocTypePantryItem},
		{"health sleep", "did I sleep well yesterday", models.DocTypeHealthLog},
		{"health mood", "how was my mood this week", models.DocTypeHealthLog},
		{"goal", "what are our goals", models.DocTypeGoal},
		{"habit", "how is my reading habit going", models.DocTypeGoal},
		{"no match", "what is the weather like", ""},
		{"word boundary", "is homemaker a word", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.DetectDocumentType(tt.question)
			if got != tt.want {
				t.Errorf("DetectDocumentType(%q) = %q, want %q", tt.question, got, tt.want)
			}
		})
	}
}

func TestDetectDocumentType_RecipeBeatsHealthLog(t *testing.T) {
	c := NewClassifier()

	// "make" is food-adjacent but must not land on health-log
	got := c.DetectDocumentType("what recipes can I make")
	if got != models.DocTypeRecipe {
		t.Errorf("DetectDocumentType = %q, want recipe", got)
	}
}

func TestIsPersonalQuery(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		question string
		want     bool
	}{
		{"did I sleep well", true},
		{"how is my mood", true},
		{"I'm tracking weight", true},
		{"what does the household need", false},
		{"list all recipes", false},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			if got := c.IsPersonalQuery(tt.question); got != tt.want {
				t.Errorf("IsPersonalQuery(%q) = %v, want %v", tt.question, got, tt.want)
			}
		})
	}
}

func TestIsPersonalDataQuery(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name     string
		question string
		want     bool
	}{
		{"household noun vetoes pronouns", "what can I cook from my pantry", false},
		{"recipe is shared", "my favorite recipe", false},
		{"health is personal", "my health this month", true},
		{"temporal is personal", "what happened yesterday", true},
		{"ambiguous defaults personal", "how am I doing", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsPersonalDataQuery(tt.question); got != tt.want {
				t.Errorf("IsPersonalDataQuery(%q) = %v, want %v", tt.question, got, tt.want)
			}
		})
	}
}

func TestBuildFilters(t *testing.T) {
	c := NewClassifier()

	t.Run("always scopes household", func(t *testing.T) {
		filters := c.BuildFilters(7, "anything at all", 0, "")
		if filters["household_id"] != int64(7) {
			t.Errorf("household_id = %v, want 7", filters["household_id"])
		}
		if _, ok := filters["document_type"]; ok {
			t.Error("document_type present without detection")
		}
	})

	t.Run("personal health query includes user", func(t *testing.T) {
		// Scenario: "did I sleep well yesterday"
		q := "did I sleep well yesterday"
		docType := c.DetectDocumentType(q)
		if docType != models.DocTypeHealthLog {
			t.Fatalf("detected type = %q, want health_log", docType)
		}

		filters := c.BuildFilters(7, q, 42, docType)
		if filters["user_id"] != int64(42) {
			t.Errorf("user_id = %v, want 42", filters["user_id"])
		}
		if filters["document_type"] != "health_log" {
			t.Errorf("document_type = %v", filters["document_type"])
		}
	})

	t.Run("goal type never user-scoped", func(t *testing.T) {
		filters := c.BuildFilters(7, "what are my goals", 42, models.DocTypeGoal)
		if _, ok := filters["user_id"]; ok {
			t.Error("user_id present for goal type; goals may be household-level")
		}
	})

	t.Run("household noun suppresses user filter", func(t *testing.T) {
		filters := c.BuildFilters(7, "what can I cook from my pantry", 42, models.DocTypePantryItem)
		if _, ok := filters["user_id"]; ok {
			t.Error("user_id present for household-shared data")
		}
	})

	t.Run("anonymous caller never user-scoped", func(t *testing.T) {
		filters := c.BuildFilters(7, "did I sleep well yesterday", 0, models.DocTypeHealthLog)
		if _, ok := filters["user_id"]; ok {
			t.Error("user_id present without an acting user")
		}
	})
}

func TestFilterCandidates(t *testing.T) {
	c := NewClassifier()

	t.Run("drops type mismatches", func(t *testing.T) {
		candidates := []models.Candidate{
			{SourceID: "recipe:1:0", Type: models.DocTypeRecipe},
			{SourceID: "health_log:2:0", Type: models.DocTypeHealthLog},
		}

		got := c.FilterCandidates(candidates, models.DocTypeRecipe, 0)
		if len(got) != 1 || got[0].SourceID != "recipe:1:0" {
			t.Errorf("FilterCandidates = %#v, want only the recipe", got)
		}
	})

	t.Run("goal cross-user isolation", func(t *testing.T) {
		// Scenario: household-level goal retained, other user's goal dropped
		candidates := []models.Candidate{
			{SourceID: "goal:1:0", Type: models.DocTypeGoal, UserID: 0},  // household-level
			{SourceID: "goal:2:0", Type: models.DocTypeGoal, UserID: 99}, // someone else's
			{SourceID: "goal:3:0", Type: models.DocTypeGoal, UserID: 42}, // the requester's
		}

		got := c.FilterCandidates(candidates, models.DocTypeGoal, 42)
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2: %#v", len(got), got)
		}
		for _, cand := range got {
			if cand.SourceID == "goal:2:0" {
				t.Error("another user's goal leaked through")
			}
		}
	})

	t.Run("no detected type passes everything", func(t *testing.T) {
		candidates := []models.Candidate{
			{Type: models.DocTypeRecipe},
			{Type: models.DocTypeGoal, UserID: 99},
		}

		got := c.FilterCandidates(candidates, "", 42)
		if len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})
}
