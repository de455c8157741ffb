// ABOUTME: ChunkEngine splits rendered entity text into bounded passages for embedding
// ABOUTME: Strategy is type-specific: short-form one-chunk, recipe sections, sentence fallback
package core

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hearthkit/hearth/internal/models"
)

// DefaultChunkBudget is the per-chunk character budget.
// Character-based rather than token-based: a documented approximation.
const DefaultChunkBudget = 1000

// sentenceBoundary matches end-of-sentence punctuation followed by whitespace
var sentenceBoundary = regexp.MustCompile(`([.!?])\s+`)

// ChunkEngine handles type-aware text chunking
type ChunkEngine struct {
	budget int
}

// NewChunkEngine creates a ChunkEngine with the given character budget.
// A non-positive budget falls back to DefaultChunkBudget.
func NewChunkEngine(budget int) *ChunkEngine {
	if budget <= 0 {
		budget = DefaultChunkBudget
	}
	return &ChunkEngine{budget: budget}
}

// Chunk splits text into an ordered list of non-empty chunks.
// Callers always get at least one chunk, so every entity stays embeddable.
func (ce *ChunkEngine) Chunk(text string, docType models.DocumentType) []string {
	trimmed := strings.TrimSpace(text)

	var chunks []string
	switch docType {
	case models.DocTypeHealthLog, models.DocTypePantryItem, models.DocTypeGoal:
		// Short-form entities: splitting would only hurt retrieval coherence
		if trimmed != "" {
			chunks = []string{trimmed}
		}
	case models.DocTypeRecipe:
		chunks = ce.chunkSections(trimmed)
	default:
		chunks = ce.accumulate(splitSentences(trimmed))
	}

	if len(chunks) == 0 {
		return []string{trimmed}
	}
	return chunks
}

// chunkSections splits long-form text on blank-line sections, falling back
// to line accumulation when the text has no section structure
func (ce *ChunkEngine) chunkSections(text string) []string {
	sections := splitParagraphs(text)

	if len(sections) <= 1 {
		return ce.accumulate(strings.Split(text, "\n"))
	}

	var chunks []string
	for _, section := range sections {
		if len(section) <= ce.budget {
			chunks = append(chunks, section)
			continue
		}
		// Oversized section: accumulate its lines within the budget
		chunks = append(chunks, ce.accumulate(strings.Split(section, "\n"))...)
	}
	return chunks
}

// accumulate joins parts into chunks, flushing before the budget is
// exceeded. A single part longer than the budget is hard-split so no
// chunk ever exceeds the bound.
func (ce *ChunkEngine) accumulate(parts []string) []string {
	var chunks []string
	var current strings.Builder

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if len(part) > ce.budget {
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			chunks = append(chunks, hardSplit(part, ce.budget)...)
			continue
		}

		if current.Len() > 0 && current.Len()+len(part)+1 > ce.budget {
			chunks = append(chunks, current.String())
			current.Reset()
		}

		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(part)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// hardSplit cuts a string into budget-sized pieces on rune boundaries
func hardSplit(s string, budget int) []string {
	var chunks []string
	var current strings.Builder
	for _, r := range s {
		if current.Len() > 0 && current.Len()+utf8.RuneLen(r) > budget {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// splitParagraphs splits text on blank lines, dropping empty sections
func splitParagraphs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	var result []string
	for _, para := range strings.Split(normalized, "\n\n") {
		para = strings.TrimSpace(para)
		if para != "" {
			result = append(result, para)
		}
	}
	return result
}

// splitSentences splits text on punctuation followed by whitespace,
// keeping the punctuation with its sentence
func splitSentences(text string) []string {
	marked := sentenceBoundary.ReplaceAllString(text, "$1\x00")

	var result []string
	for _, sent := range strings.Split(marked, "\x00") {
		sent = strings.TrimSpace(sent)
		if sent != "" {
			result = append(result, sent)
		}
	}
	return result
}
