// ABOUTME: AnswerGenerator builds grounded prompts and calls the chat provider
// ABOUTME: Forces JSON output and degrades gracefully instead of surfacing errors
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hearthkit/hearth/internal/models"
)

// FallbackAnswer is returned when the completion provider is unavailable
const FallbackAnswer = "I'm sorry, I couldn't put an answer together right now. Please try again in a moment."

// ChatCompleter is the completion surface the generator needs
type ChatCompleter interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage, forceJSON bool) (string, error)
}

// GeneratedAnswer is the provider's structured output before citation
// markers are remapped to source documents
type GeneratedAnswer struct {
	Answer  string
	Markers []string
	Actions []models.Action
}

// AnswerGenerator produces grounded answers from retrieved context
type AnswerGenerator struct {
	llm ChatCompleter
}

// NewAnswerGenerator creates an AnswerGenerator
func NewAnswerGenerator(llm ChatCompleter) *AnswerGenerator {
	return &AnswerGenerator{llm: llm}
}

// answerPayload is the JSON shape requested from the provider
type answerPayload struct {
	Answer    string          `json:"answer"`
	Citations []string        `json:"citations"`
	Actions   []models.Action `json:"actions"`
}

// Generate builds the grounded prompt and calls the provider. It never
// returns an error: provider failures become the fallback answer and
// malformed JSON degrades to the raw text.
func (ag *AnswerGenerator) Generate(ctx context.Context, question string, qc models.QueryContext, candidates []models.Candidate) GeneratedAnswer {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: ag.systemPrompt(qc)},
		{Role: openai.ChatMessageRoleUser, Content: ag.userPrompt(question, candidates)},
	}

	content, err := ag.llm.Complete(ctx, messages, true)
	if err != nil {
		log.Printf("[Answerer] completion failed, returning fallback: %v", err)
		return GeneratedAnswer{Answer: FallbackAnswer, Markers: []string{}, Actions: []models.Action{}}
	}

	var payload answerPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		log.Printf("[Answerer] non-JSON completion, degrading to raw text: %v", err)
		return GeneratedAnswer{Answer: content, Markers: []string{}, Actions: []models.Action{}}
	}

	if payload.Citations == nil {
		payload.Citations = []string{}
	}
	if payload.Actions == nil {
		payload.Actions = []models.Action{}
	}
	return GeneratedAnswer{
		Answer:  payload.Answer,
		Markers: payload.Citations,
		Actions: payload.Actions,
	}
}

// systemPrompt sets the coach persona and the grounding rules
func (ag *AnswerGenerator) systemPrompt(qc models.QueryContext) string {
	var sb strings.Builder
	sb.WriteString("You are a supportive household coach helping a family understand their own data.\n")
	if qc.UserName != "" {
		sb.WriteString(fmt.Sprintf("You are speaking with %s.\n", qc.UserName))
	}
	sb.WriteString("Answer ONLY from the numbered context passages you are given. ")
	sb.WriteString("If the context does not contain enough information, say so plainly instead of guessing. ")
	sb.WriteString("When a statement comes from a passage, cite it with its marker, e.g. doc2.")
	return sb.String()
}

// userPrompt numbers the context passages 1..N in the order given.
// That order is a contract: citation markers are resolved positionally.
func (ag *AnswerGenerator) userPrompt(question string, candidates []models.Candidate) string {
	var sb strings.Builder

	if len(candidates) == 0 {
		sb.WriteString("CONTEXT:\n(no matching household records were found)\n\n")
	} else {
		sb.WriteString("CONTEXT:\n")
		for i, cand := range candidates {
			sb.WriteString(fmt.Sprintf("doc%d: %s\n", i+1, cand.Text))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("QUESTION:\n")
	sb.WriteString(question)
	sb.WriteString("\n\n")
	sb.WriteString(`Respond with a JSON object: {"answer": string, "citations": array of marker strings like "doc1", "actions": array of {"label", "type", "target"} UI suggestions}. Use empty arrays when nothing applies.`)
	return sb.String()
}
