// ABOUTME: Formatter renders household entities into plain text for indexing
// ABOUTME: One type-specific rendering per entity, consumed by the chunker
package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hearthkit/hearth/internal/models"
)

// fieldOrder fixes rendering order for the attributes each type cares about
var fieldOrder = map[models.DocumentType][]string{
	models.DocTypeHealthLog:  {"date", "mood", "sleep_hours", "energy", "weight", "notes"},
	models.DocTypePantryItem: {"quantity", "unit", "location", "expires_at"},
	models.DocTypeGoal:       {"target", "progress", "due_date", "status"},
}

// Formatter renders entities into embeddable text
type Formatter struct{}

// NewFormatter creates a Formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format renders one entity into a plain-text document
func (f *Formatter) Format(entity *models.Entity) string {
	switch entity.Type {
	case models.DocTypeHealthLog:
		return f.formatLabeled("Health log", entity)
	case models.DocTypeRecipe:
		return f.formatRecipe(entity)
	case models.DocTypePantryItem:
		return f.formatLabeled("Pantry item", entity)
	case models.DocTypeGoal:
		return f.formatLabeled("Goal", entity)
	default:
		return strings.TrimSpace(entity.Title + "\n" + entity.Body)
	}
}

// formatLabeled renders short-form entities as one compact passage
func (f *Formatter) formatLabeled(label string, entity *models.Entity) string {
	var sb strings.Builder
	sb.WriteString(label)
	if entity.Title != "" {
		sb.WriteString(": ")
		sb.WriteString(entity.Title)
	}
	sb.WriteString("\n")

	for _, line := range f.fieldLines(entity) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if body := strings.TrimSpace(entity.Body); body != "" {
		sb.WriteString(body)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// formatRecipe keeps the body's section structure so the chunker can
// split on blank lines
func (f *Formatter) formatRecipe(entity *models.Entity) string {
	var sections []string

	title := strings.TrimSpace(entity.Title)
	if title != "" {
		sections = append(sections, "Recipe: "+title)
	}
	if lines := f.fieldLines(entity); len(lines) > 0 {
		sections = append(sections, strings.Join(lines, "\n"))
	}
	if body := strings.TrimSpace(entity.Body); body != "" {
		sections = append(sections, body)
	}
	return strings.Join(sections, "\n\n")
}

// fieldLines renders the entity's typed attributes as "Label: value" lines
func (f *Formatter) fieldLines(entity *models.Entity) []string {
	if len(entity.Fields) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var lines []string
	for _, key := range fieldOrder[entity.Type] {
		if value, ok := entity.Fields[key]; ok && value != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", fieldLabel(key), value))
			seen[key] = true
		}
	}

	// Remaining fields in stable order
	var rest []string
	for key := range entity.Fields {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		if value := entity.Fields[key]; value != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", fieldLabel(key), value))
		}
	}
	return lines
}

// fieldLabel turns snake_case keys into readable labels
func fieldLabel(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
