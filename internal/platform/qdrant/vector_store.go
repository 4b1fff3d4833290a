package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/platform/openai"
)

const maxErrorBodyBytes = 1024

// Document is one scored passage returned from the collection.
type Document struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// VectorStore performs similarity search over the Plum document collection.
// Query embedding happens here so callers only deal in text.
type VectorStore interface {
	Ready(ctx context.Context) error
	Search(ctx context.Context, query string, limit int) ([]Document, error)
}

type vectorStore struct {
	log      *logger.Logger
	cfg      Config
	baseURL  string
	embedder openai.Client
	http     *http.Client
}

type qdrantEnvelope struct {
	Result json.RawMessage `json:"result"`
	Status json.RawMessage `json:"status"`
	Time   float64         `json:"time"`
}

type qdrantSearchResultItem struct {
	ID      json.RawMessage `json:"id"`
	Score   float64         `json:"score"`
	Payload map[string]any  `json:"payload"`
}

func NewVectorStore(log *logger.Logger, cfg Config, embedder openai.Client) (VectorStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	s := &vectorStore{
		log:      log.With("service", "QdrantVectorStore"),
		cfg:      cfg,
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		embedder: embedder,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	log.Info(
		"Qdrant vector store configured",
		"url", s.baseURL,
		"collection", cfg.Collection,
	)
	return s, nil
}

func (s *vectorStore) Ready(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("qdrant vector store not initialized")
	}
	const op = "ready_check"

	readyReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/readyz", nil)
	if err != nil {
		return opErr(op, OperationErrorTransportFailed, "build ready request failed", err)
	}
	if s.cfg.APIKey != "" {
		readyReq.Header.Set("api-key", s.cfg.APIKey)
	}
	readyResp, err := s.http.Do(readyReq)
	if err != nil {
		return opErr(op, OperationErrorTransportFailed, "qdrant ready check failed", err)
	}
	_ = readyResp.Body.Close()
	if readyResp.StatusCode < 200 || readyResp.StatusCode >= 300 {
		return &OperationError{
			Code:       OperationErrorQueryFailed,
			Operation:  op,
			StatusCode: readyResp.StatusCode,
			Message:    fmt.Sprintf("qdrant ready check returned status=%d", readyResp.StatusCode),
		}
	}
	return nil
}

func (s *vectorStore) Search(ctx context.Context, query string, limit int) ([]Document, error) {
	if s == nil {
		return nil, fmt.Errorf("vector store unavailable")
	}
	const op = "search"
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, opErr(op, OperationErrorValidation, "query text required", nil)
	}
	if limit <= 0 {
		limit = 10
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, opErr(op, OperationErrorQueryFailed, "embed query failed", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, opErr(op, OperationErrorQueryFailed, "embedder returned no vector", nil)
	}

	req := map[string]any{
		"vector":       vectors[0],
		"limit":        limit,
		"with_payload": true,
		"with_vector":  false,
	}
	var rawResults []qdrantSearchResultItem
	if err := s.doJSON(
		ctx,
		op,
		http.MethodPost,
		s.collectionPath("/points/search"),
		req,
		&rawResults,
	); err != nil {
		return nil, err
	}

	out := make([]Document, 0, len(rawResults))
	for _, item := range rawResults {
		out = append(out, Document{
			ID:       decodePointID(item.ID),
			Score:    item.Score,
			Content:  payloadContent(item.Payload),
			Metadata: payloadMetadata(item.Payload),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].ID < out[j].ID
		}
		return out[i].Score > out[j].Score
	})
	return out, nil
}

func (s *vectorStore) doJSON(ctx context.Context, op, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return opErr(op, OperationErrorEncodeFailed, "encode request failed", err)
		}
		body = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return opErr(op, OperationErrorTransportFailed, "build request failed", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("api-key", s.cfg.APIKey)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return opErr(op, OperationErrorTransportFailed, "qdrant request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return opErr(op, OperationErrorTransportFailed, "read response failed", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(raw)
		if len(snippet) > maxErrorBodyBytes {
			snippet = snippet[:maxErrorBodyBytes]
		}
		return &OperationError{
			Code:       OperationErrorQueryFailed,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Message:    snippet,
		}
	}

	if out == nil {
		return nil
	}
	var envelope qdrantEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return opErr(op, OperationErrorDecodeFailed, "decode envelope failed", err)
	}
	if len(envelope.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return opErr(op, OperationErrorDecodeFailed, "decode result failed", err)
	}
	return nil
}

func (s *vectorStore) collectionPath(suffix string) string {
	return "/collections/" + s.cfg.Collection + suffix
}

func decodePointID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber.String()
	}
	return strings.Trim(string(raw), `"`)
}

// payloadContent pulls the passage text out of a point payload. Collections
// written by the ingestion pipeline store it under "page_content".
func payloadContent(payload map[string]any) string {
	if payload == nil {
		return ""
	}
	for _, key := range []string{"page_content", "content", "text"} {
		if v, ok := payload[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func payloadMetadata(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	if md, ok := payload["metadata"].(map[string]any); ok {
		return md
	}
	return nil
}
