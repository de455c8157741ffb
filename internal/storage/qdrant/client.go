// ABOUTME: Qdrant REST client for the household document index
// ABOUTME: Collection lifecycle, hashed point ids, filtered search, best-effort deletes
package qdrant

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hearthkit/hearth/internal/models"
)

// ErrMissingIndex marks a search rejected because a payload index is not
// built yet. Callers retry once with the type filter dropped.
var ErrMissingIndex = errors.New("payload index missing")

// payloadIndexes are the secondary indexes every collection needs for
// scoped retrieval
var payloadIndexes = []struct {
	field  string
	schema string
}{
	{"household_id", "integer"},
	{"user_id", "integer"},
	{"document_type", "keyword"},
	{"source_id", "keyword"},
}

// Config holds connection settings for the vector store
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Dimension  int
	Timeout    time.Duration
}

// Client is a minimal REST client to a Qdrant-style vector store
type Client struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

// NewClient creates a vector store client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		url:        strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		client:     &http.Client{Timeout: timeout},
	}
}

// StringToIntID deterministically hashes a stable string id to the
// unsigned integer point id the store requires. SHA-256 truncated to
// 32 bits keeps re-upserts idempotent while avoiding collisions across
// unrelated entities.
func StringToIntID(stableID string) uint32 {
	sum := sha256.Sum256([]byte(stableID))
	return binary.BigEndian.Uint32(sum[:4])
}

// InitializeCollection is idempotent: it creates the collection if absent
// and ensures the payload indexes exist. Index creation is best-effort;
// an "already exists" response counts as success.
func (c *Client) InitializeCollection(ctx context.Context) error {
	exists, err := c.collectionExists(ctx)
	if err != nil {
		return fmt.Errorf("checking collection: %w", err)
	}

	if !exists {
		body := map[string]any{
			"vectors": map[string]any{
				"size":     c.dimension,
				"distance": "Cosine",
			},
		}
		if err := c.do(ctx, http.MethodPut, c.collectionPath(""), body, nil); err != nil {
			return fmt.Errorf("creating collection: %w", err)
		}
	}

	for _, idx := range payloadIndexes {
		body := map[string]any{
			"field_name":   idx.field,
			"field_schema": idx.schema,
		}
		err := c.do(ctx, http.MethodPut, c.collectionPath("/index"), body, nil)
		if err != nil && !isAlreadyExists(err) {
			return fmt.Errorf("creating index on %s: %w", idx.field, err)
		}
	}
	return nil
}

// UpsertDocuments writes one point per document, fully replacing any
// previous point with the same stable id
func (c *Client) UpsertDocuments(ctx context.Context, docs []models.Document, vectors [][]float64) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("documents and vectors length mismatch: %d vs %d", len(docs), len(vectors))
	}
	if len(docs) == 0 {
		return nil
	}

	points := make([]map[string]any, len(docs))
	for i, doc := range docs {
		points[i] = map[string]any{
			"id":     StringToIntID(doc.SourceID),
			"vector": vectors[i],
			"payload": map[string]any{
				"source_id":     doc.SourceID,
				"household_id":  doc.HouseholdID,
				"user_id":       doc.UserID,
				"document_type": string(doc.Type),
				"chunk_index":   doc.ChunkIndex,
				"entity_id":     entityIDFromSource(doc.SourceID),
				"text":          doc.Text,
			},
		}
	}

	body := map[string]any{"points": points}
	if err := c.do(ctx, http.MethodPut, c.collectionPath("/points?wait=true"), body, nil); err != nil {
		return fmt.Errorf("upserting %d points: %w", len(points), err)
	}
	return nil
}

// Search runs a filtered nearest-neighbor query. If the store rejects the
// document_type filter for a missing index, the search is retried once
// with only that filter dropped, so household and user scoping still hold.
func (c *Client) Search(ctx context.Context, vector []float64, limit int, filters map[string]any) ([]models.Candidate, error) {
	candidates, err := c.searchOnce(ctx, vector, limit, filters)
	if err == nil {
		return candidates, nil
	}

	if errors.Is(err, ErrMissingIndex) {
		if _, ok := filters["document_type"]; ok {
			relaxed := make(map[string]any, len(filters))
			for k, v := range filters {
				if k != "document_type" {
					relaxed[k] = v
				}
			}
			return c.searchOnce(ctx, vector, limit, relaxed)
		}
	}
	return nil, err
}

func (c *Client) searchOnce(ctx context.Context, vector []float64, limit int, filters map[string]any) ([]models.Candidate, error) {
	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
		"with_vector":  false,
	}
	if f := buildMustFilter(filters); f != nil {
		req["filter"] = f
	}

	var resp struct {
		Result []struct {
			ID      uint32         `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, c.collectionPath("/points/search"), req, &resp); err != nil {
		if isMissingTypeIndex(err) {
			return nil, fmt.Errorf("%w: %v", ErrMissingIndex, err)
		}
		return nil, fmt.Errorf("search failed: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(resp.Result))
	for _, r := range resp.Result {
		candidates = append(candidates, candidateFromPayload(r.ID, r.Score, r.Payload))
	}
	return candidates, nil
}

// DeletePoint removes one point by its stable string id. Failures are
// returned for the caller to log; stale vectors degrade search quality
// but never block the write that triggered the delete.
func (c *Client) DeletePoint(ctx context.Context, stableID string) error {
	body := map[string]any{
		"points": []uint32{StringToIntID(stableID)},
	}
	if err := c.do(ctx, http.MethodPost, c.collectionPath("/points/delete?wait=true"), body, nil); err != nil {
		return fmt.Errorf("deleting point %s: %w", stableID, err)
	}
	return nil
}

// DeleteByFilter removes every point matching the conjunctive filter
func (c *Client) DeleteByFilter(ctx context.Context, filters map[string]any) error {
	f := buildMustFilter(filters)
	if f == nil {
		return fmt.Errorf("refusing to delete with empty filter")
	}
	body := map[string]any{"filter": f}
	if err := c.do(ctx, http.MethodPost, c.collectionPath("/points/delete?wait=true"), body, nil); err != nil {
		return fmt.Errorf("deleting by filter: %w", err)
	}
	return nil
}

// buildMustFilter turns a key/value map into a Qdrant must-match-all
// filter. Every supplied key becomes a condition, in sorted order, so a
// non-empty map can never collapse into an unscoped match-all filter.
func buildMustFilter(filters map[string]any) map[string]any {
	if len(filters) == 0 {
		return nil
	}
	keys := make([]string, 0, len(filters))
	for key := range filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	must := make([]map[string]any, 0, len(keys))
	for _, key := range keys {
		must = append(must, map[string]any{
			"key":   key,
			"match": map[string]any{"value": filters[key]},
		})
	}
	return map[string]any{"must": must}
}

// candidateFromPayload maps a search hit back into a Candidate
func candidateFromPayload(id uint32, score float64, payload map[string]any) models.Candidate {
	cand := models.Candidate{ID: id, Score: score}
	if v, ok := payload["text"].(string); ok {
		cand.Text = v
	}
	if v, ok := payload["source_id"].(string); ok {
		cand.SourceID = v
	}
	if v, ok := payload["document_type"].(string); ok {
		cand.Type = models.DocumentType(v)
	}
	if v, ok := payload["household_id"].(float64); ok {
		cand.HouseholdID = int64(v)
	}
	if v, ok := payload["user_id"].(float64); ok {
		cand.UserID = int64(v)
	}
	if v, ok := payload["entity_id"].(float64); ok {
		cand.EntityID = int64(v)
	}
	return cand
}

// entityIDFromSource pulls the numeric entity id out of a stable id
// ("<type>:<entity id>:<chunk index>")
func entityIDFromSource(sourceID string) int64 {
	parts := strings.Split(sourceID, ":")
	if len(parts) != 3 {
		return 0
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (c *Client) collectionExists(ctx context.Context) (bool, error) {
	err := c.do(ctx, http.MethodGet, c.collectionPath(""), nil, nil)
	if err == nil {
		return true, nil
	}
	var httpErr *apiError
	if errors.As(err, &httpErr) && httpErr.status == http.StatusNotFound {
		return false, nil
	}
	return false, err
}

func (c *Client) collectionPath(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", c.url, c.collection, suffix)
}

// apiError carries the status and body of a failed request so callers can
// branch on specific store responses
type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("vector store returned %d: %s", e.status, e.body)
}

// isMissingTypeIndex detects the store's index-not-found rejection when it
// specifically references the document_type field
func isMissingTypeIndex(err error) bool {
	var httpErr *apiError
	if !errors.As(err, &httpErr) {
		return false
	}
	body := strings.ToLower(httpErr.body)
	return strings.Contains(body, "index") && strings.Contains(body, "document_type")
}

// isAlreadyExists detects the store's duplicate-resource rejection
func isAlreadyExists(err error) bool {
	var httpErr *apiError
	if !errors.As(err, &httpErr) {
		return false
	}
	return strings.Contains(strings.ToLower(httpErr.body), "already exists")
}

// do issues one JSON request and decodes the response into out when set
func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &apiError{status: resp.StatusCode, body: string(data)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
