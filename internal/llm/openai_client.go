// ABOUTME: OpenAI client for embeddings and grounded chat completions
// ABOUTME: Wraps the provider with bounded retry and hard dimension validation
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hearthkit/hearth/internal/util"
)

const (
	// DefaultChatModel is the default model for answer generation
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = "text-embedding-3-small"
	// DefaultDimension is the vector size of the default embedding model
	DefaultDimension = 1536
)

// ErrDimensionMismatch means the provider returned a vector of the wrong
// size. This indicates model drift and must never be silently accepted.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Dimension      int
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:         apiKey,
		ChatModel:      DefaultChatModel,
		EmbeddingModel: DefaultEmbeddingModel,
		Dimension:      DefaultDimension,
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		RetryDelay:     2 * time.Second,
	}
}

// Client wraps the OpenAI API client with retry logic
type Client struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	dimension      int
	timeout        time.Duration
	retry          util.RetryPolicy
}

// NewClient creates a new OpenAI client
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = DefaultDimension
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		client:         openai.NewClient(cfg.APIKey),
		chatModel:      cfg.ChatModel,
		embeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		dimension:      cfg.Dimension,
		timeout:        cfg.Timeout,
		retry:          util.RetryPolicy{MaxAttempts: cfg.MaxRetries, Delay: cfg.RetryDelay},
	}, nil
}

// Dimension returns the expected embedding vector size
func (c *Client) Dimension() int {
	return c.dimension
}

// Embed generates an embedding vector for a single text
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates one embedding vector per input text.
// Each returned vector is validated against the configured dimension;
// a mismatch is a hard error, not something to coerce.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to embed")
	}

	var vectors [][]float64
	err := c.retry.Do(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: c.embeddingModel,
		})
		if err != nil {
			return err
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
		}

		vectors = make([][]float64, len(resp.Data))
		for i, data := range resp.Data {
			embedding := make([]float64, len(data.Embedding))
			for j, v := range data.Embedding {
				embedding[j] = float64(v)
			}
			vectors[i] = embedding
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	for i, vec := range vectors {
		if err := ValidateDimension(vec, c.dimension); err != nil {
			return nil, fmt.Errorf("embedding %d: %w", i, err)
		}
	}
	return vectors, nil
}

// Complete runs a chat completion and returns the raw message content.
// When forceJSON is set the provider is asked for a JSON object response.
func (c *Client) Complete(ctx context.Context, messages []openai.ChatCompletionMessage, forceJSON bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    messages,
		Temperature: 0.2,
	}
	if forceJSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var content string
	err := c.retry.Do(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateChatCompletion(callCtx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no completion choices returned")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	return content, nil
}

// ValidateDimension checks a vector against the expected embedding size
func ValidateDimension(vector []float64, expected int) error {
	if len(vector) != expected {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, expected, len(vector))
	}
	return nil
}
