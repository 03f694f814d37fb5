package improver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bethropolis/redline/internal/logger"
	"github.com/bethropolis/redline/internal/types"
)

// HTTP calls a processing server exposing the improve endpoints.
type HTTP struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewHTTP creates a client for the server at cfg.BaseURL.
func NewHTTP(cfg Config) *HTTP {
	return &HTTP{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (h *HTTP) Name() string { return "http" }

type wireTokens struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
	Total      int `json:"total"`
}

type wireCost struct {
	InputCost  float64 `json:"input_cost"`
	OutputCost float64 `json:"output_cost"`
	TotalCost  float64 `json:"total_cost"`
}

func (h *HTTP) usage(t wireTokens, c wireCost, elapsed time.Duration) types.Usage {
	return types.Usage{
		Model:        h.model,
		InputTokens:  t.Prompt,
		OutputTokens: t.Completion,
		InputCost:    c.InputCost,
		OutputCost:   c.OutputCost,
		TotalCost:    c.TotalCost,
		Elapsed:      elapsed,
	}
}

type improveTextBody struct {
	Text      string `json:"text"`
	Context   string `json:"context"`
	SegmentID int    `json:"segment_id"`
}

type improveTextResponse struct {
	OriginalText string     `json:"original_text"`
	ImprovedText string     `json:"improved_text"`
	SegmentID    int        `json:"segment_id"`
	Tokens       wireTokens `json:"tokens"`
	Cost         wireCost   `json:"cost"`
}

type sentenceBody struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	StartPos int    `json:"startPos"`
	EndPos   int    `json:"endPos"`
}

type improveSentencesBody struct {
	Sentences []sentenceBody `json:"sentences"`
	Context   string         `json:"context"`
}

type improveSentencesResponse struct {
	Results []struct {
		ID           int    `json:"id"`
		OriginalText string `json:"original_text"`
		ImprovedText string `json:"improved_text"`
		IsImproved   bool   `json:"is_improved"`
	} `json:"results"`
	Tokens wireTokens `json:"tokens"`
	Cost   wireCost   `json:"cost"`
}

// post sends body as JSON and decodes a 2xx reply into out.
func (h *HTTP) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiErrorFrom(resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func apiErrorFrom(status int, data []byte) *APIError {
	var body struct {
		Detail interface{} `json:"detail"`
	}
	detail := strings.TrimSpace(string(data))
	if err := json.Unmarshal(data, &body); err == nil && body.Detail != nil {
		if s, ok := body.Detail.(string); ok {
			detail = s
		} else if b, err := json.Marshal(body.Detail); err == nil {
			detail = string(b)
		}
	}
	if detail == "" {
		detail = http.StatusText(status)
	}
	return &APIError{Status: status, Detail: detail}
}

// ImproveText calls /api/improve-text.
func (h *HTTP) ImproveText(ctx context.Context, req TextRequest) (TextResult, error) {
	started := time.Now()
	var resp improveTextResponse
	err := h.post(ctx, "/api/improve-text", improveTextBody{
		Text: req.Text, Context: req.Context, SegmentID: req.SegmentID,
	}, &resp)
	if err != nil {
		return TextResult{}, err
	}
	logger.DebugTagf("improver", "HTTP: improve-text segment %d, %d tokens", resp.SegmentID, resp.Tokens.Total)
	return TextResult{
		OriginalText: req.Text,
		ImprovedText: resp.ImprovedText,
		SegmentID:    resp.SegmentID,
		Usage:        h.usage(resp.Tokens, resp.Cost, time.Since(started)),
	}, nil
}

// ImproveSentences calls /api/improve-multiple-sentences. A reply with a
// different number of results than sentences is an error.
func (h *HTTP) ImproveSentences(ctx context.Context, req SentencesRequest) (SentencesResult, error) {
	started := time.Now()
	body := improveSentencesBody{Context: req.Context}
	for _, s := range req.Sentences {
		body.Sentences = append(body.Sentences, sentenceBody{ID: s.ID, Text: s.Text, StartPos: s.Start, EndPos: s.End})
	}

	var resp improveSentencesResponse
	if err := h.post(ctx, "/api/improve-multiple-sentences", body, &resp); err != nil {
		return SentencesResult{}, err
	}
	if len(resp.Results) != len(req.Sentences) {
		return SentencesResult{}, &APIError{
			Status: http.StatusOK,
			Detail: fmt.Sprintf("got %d results for %d sentences", len(resp.Results), len(req.Sentences)),
		}
	}

	out := SentencesResult{Usage: h.usage(resp.Tokens, resp.Cost, time.Since(started))}
	for _, r := range resp.Results {
		out.Results = append(out.Results, SentenceResult{
			ID:           r.ID,
			OriginalText: r.OriginalText,
			ImprovedText: r.ImprovedText,
			IsImproved:   r.IsImproved,
		})
	}
	logger.DebugTagf("improver", "HTTP: improve-multiple-sentences %d sentence(s), %d tokens",
		len(out.Results), resp.Tokens.Total)
	return out, nil
}
