package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultHFModel matches the model the summarization contract was written
// against; any model with the same request/response shape works.
const DefaultHFModel = "facebook/bart-large-cnn"

const hfMinInputChars = 50

// HuggingFace implements Summarizer against the Hugging Face inference API
// (or any endpoint honoring its summarization request/response shape).
type HuggingFace struct {
	APIKey     string
	Model      string // defaults to DefaultHFModel
	HTTPClient *http.Client
	// BaseURL overrides the inference endpoint root, for tests and stubs.
	BaseURL string

	MaxLength int // summary token budget per chunk; default 150
	MinLength int // default 50
	ChunkSize int // default DefaultChunkSize
}

func (h *HuggingFace) Summarize(ctx context.Context, text string) (string, error) {
	return summarizeChunks(ctx, text, h.ChunkSize, h.summarizeChunk)
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type hfResponse struct {
	SummaryText string `json:"summary_text"`
}

func (h *HuggingFace) summarizeChunk(ctx context.Context, chunk string) (string, error) {
	// The model rejects very short inputs; passing them through unchanged
	// is more useful than a guaranteed upstream error.
	if len(chunk) < hfMinInputChars {
		return chunk, nil
	}

	maxLen := h.MaxLength
	if maxLen <= 0 {
		maxLen = 150
	}
	minLen := h.MinLength
	if minLen <= 0 {
		minLen = 50
	}
	payload, err := json.Marshal(hfRequest{
		Inputs:     chunk,
		Parameters: hfParameters{MaxLength: maxLen, MinLength: minLen, DoSample: false},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.APIKey)
	}

	hc := h.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrFailed, resp.StatusCode)
	}
	summary, err := parseHFResponse(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	return summary, nil
}

func (h *HuggingFace) endpoint() string {
	if h.BaseURL != "" {
		return h.BaseURL
	}
	model := h.Model
	if model == "" {
		model = DefaultHFModel
	}
	return "https://api-inference.huggingface.co/models/" + model
}

// parseHFResponse accepts both response shapes the API serves: a single
// object and a one-element array of objects.
func parseHFResponse(body []byte) (string, error) {
	var single hfResponse
	if err := json.Unmarshal(body, &single); err == nil && single.SummaryText != "" {
		return single.SummaryText, nil
	}
	var list []hfResponse
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 && list[0].SummaryText != "" {
		return list[0].SummaryText, nil
	}
	return "", fmt.Errorf("unexpected response body: %s", truncateBody(body))
}

func truncateBody(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
