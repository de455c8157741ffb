// ABOUTME: Tests for type-aware text chunking
// ABOUTME: Verifies short-form single chunks, recipe sections, sentence fallback, and budgets
package core

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hearthkit/hearth/internal/models"
)

func TestChunk_ShortFormTypesSingleChunk(t *testing.T) {
	ce := NewChunkEngine(0)

	text := "Slept 7 hours.\n\nMood: good.\n\nEnergy high all day."

	for _, docType := range []models.DocumentType{
		models.DocTypeHealthLog,
		models.DocTypePantryItem,
		models.DocTypeGoal,
	} {
		t.Run(string(docType), func(t *testing.T) {
			chunks := ce.Chunk(text, docType)
			if len(chunks) != 1 {
				t.Fatalf("len(chunks) = %d, want 1", len(chunks))
			}
			if chunks[0] != strings.TrimSpace(text) {
				t.Errorf("chunk = %q, want whole trimmed text", chunks[0])
			}
		})
	}
}

func TestChunk_RecipeSplitsOnSections(t *testing.T) {
	ce := NewChunkEngine(0)

	text := "Lentil Soup\n\nIngredients:\n- lentils\n- onion\n\nSteps:\n1. Saute onion.\n2. Add lentils."
	chunks := ce.Chunk(text, models.DocTypeRecipe)

	if len(chunks) != 3 {
		t.Fatalf("len(chunks) = %d, want 3: %#v", len(chunks), chunks)
	}
	if chunks[0] != "Lentil Soup" {
		t.Errorf("chunks[0] = %q", chunks[0])
	}
	if !strings.HasPrefix(chunks[1], "Ingredients:") {
		t.Errorf("chunks[1] = %q", chunks[1])
	}
}

func TestChunk_RecipeSingleSectionFallsBackToLines(t *testing.T) {
	ce := NewChunkEngine(120)

	// No blank lines, so section split produces one chunk; lines accumulate instead
	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, "Step with enough text to matter for the budget here")
	}
	text := strings.Join(lines, "\n")

	chunks := ce.Chunk(text, models.DocTypeRecipe)
	if len(chunks) < 2 {
		t.Fatalf("len(chunks) = %d, want multiple line-accumulated chunks", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 120 {
			t.Errorf("chunks[%d] length = %d, exceeds budget 120", i, len(chunk))
		}
	}
}

func TestChunk_DefaultTypeSplitsOnSentences(t *testing.T) {
	ce := NewChunkEngine(60)

	text := "First sentence here. Second one follows! Third asks a question? Fourth ends it."
	chunks := ce.Chunk(text, models.DocumentType("note"))

	if len(chunks) < 2 {
		t.Fatalf("len(chunks) = %d, want sentence accumulation across chunks", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 60 {
			t.Errorf("chunks[%d] length = %d, exceeds budget 60", i, len(chunk))
		}
	}
	if !strings.Contains(chunks[0], "First sentence here.") {
		t.Errorf("chunks[0] = %q, lost sentence punctuation", chunks[0])
	}
}

func TestChunk_EmptyInputReturnsSingleChunk(t *testing.T) {
	ce := NewChunkEngine(0)

	tests := []struct {
		name string
		text string
	}{
		{"empty string", ""},
		{"whitespace only", "   \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, docType := range append(models.KnownDocumentTypes, "unknown") {
				chunks := ce.Chunk(tt.text, docType)
				if len(chunks) != 1 {
					t.Errorf("type %s: len(chunks) = %d, want 1", docType, len(chunks))
				}
				if chunks[0] != "" {
					t.Errorf("type %s: chunk = %q, want empty after trim", docType, chunks[0])
				}
			}
		})
	}
}

func TestChunk_Deterministic(t *testing.T) {
	ce := NewChunkEngine(200)

	text := "Ingredients:\n- a\n- b\n\nSteps:\n1. One. 2. Two."

	first := ce.Chunk(text, models.DocTypeRecipe)
	second := ce.Chunk(text, models.DocTypeRecipe)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("chunking not deterministic: %#v vs %#v", first, second)
	}
}

func TestChunk_OversizedRecipeSectionReSplit(t *testing.T) {
	ce := NewChunkEngine(100)

	big := strings.Repeat("A long ingredient line goes right here\n", 10)
	text := "Title\n\n" + big

	chunks := ce.Chunk(text, models.DocTypeRecipe)
	for i, chunk := range chunks {
		if len(chunk) > 100 {
			t.Errorf("chunks[%d] length = %d, exceeds budget", i, len(chunk))
		}
	}
}

func TestChunk_SingleOversizedLineIsHardSplit(t *testing.T) {
	ce := NewChunkEngine(100)

	// One line with no sentence or line boundaries to split on
	text := strings.Repeat("x", 350)

	tests := []struct {
		name    string
		docType models.DocumentType
	}{
		{"recipe line path", models.DocTypeRecipe},
		{"sentence fallback path", models.DocumentType("note")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := ce.Chunk(text, tt.docType)
			if len(chunks) < 4 {
				t.Fatalf("chunks = %d, want the line split into at least 4", len(chunks))
			}
			var total int
			for i, chunk := range chunks {
				if len(chunk) > 100 {
					t.Errorf("chunks[%d] length = %d, exceeds budget", i, len(chunk))
				}
				total += len(chunk)
			}
			if total != 350 {
				t.Errorf("total chunk length = %d, want 350 (no text lost)", total)
			}
		})
	}
}

func TestHardSplit_RuneBoundaries(t *testing.T) {
	chunks := hardSplit(strings.Repeat("味", 10), 8)

	for i, chunk := range chunks {
		if len(chunk) > 8 {
			t.Errorf("chunks[%d] byte length = %d, exceeds 8", i, len(chunk))
		}
		for _, r := range chunk {
			if r != '味' {
				t.Fatalf("chunks[%d] contains mangled rune %q", i, r)
			}
		}
	}
}
