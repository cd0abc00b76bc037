package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func longText(n int) string {
	para := "This paragraph talks about the topic at hand in enough detail to be summarized."
	return strings.TrimSpace(strings.Repeat(para+"\n", n))
}

func TestHuggingFace_SummarizesChunksSequentially(t *testing.T) {
	t.Parallel()
	var calls, inflight, maxInflight int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := atomic.AddInt32(&inflight, 1)
		if cur > atomic.LoadInt32(&maxInflight) {
			atomic.StoreInt32(&maxInflight, cur)
		}
		defer atomic.AddInt32(&inflight, -1)
		atomic.AddInt32(&calls, 1)

		var req hfRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Parameters.MaxLength != 150 || req.Parameters.MinLength != 50 {
			t.Errorf("unexpected parameters: %+v", req.Parameters)
		}
		_ = json.NewEncoder(w).Encode(hfResponse{SummaryText: "chunk summary"})
	}))
	defer srv.Close()

	h := &HuggingFace{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()}
	got, err := h.Summarize(context.Background(), longText(40))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if atomic.LoadInt32(&calls) < 2 {
		t.Fatalf("expected multiple chunk calls, got %d", calls)
	}
	if atomic.LoadInt32(&maxInflight) != 1 {
		t.Fatalf("chunk calls overlapped: max inflight %d", maxInflight)
	}
	parts := strings.Split(got, "\n\n")
	if int32(len(parts)) != atomic.LoadInt32(&calls) {
		t.Fatalf("expected one summary per chunk, got %d for %d calls", len(parts), calls)
	}
}

func TestHuggingFace_ArrayResponseShape(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"summary_text": "from array"}]`))
	}))
	defer srv.Close()

	h := &HuggingFace{BaseURL: srv.URL, HTTPClient: srv.Client()}
	got, err := h.Summarize(context.Background(), longText(2))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "from array" {
		t.Fatalf("got %q", got)
	}
}

func TestHuggingFace_ChunkFailureAbortsCall(t *testing.T) {
	t.Parallel()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 2 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(hfResponse{SummaryText: "ok"})
	}))
	defer srv.Close()

	h := &HuggingFace{BaseURL: srv.URL, HTTPClient: srv.Client()}
	_, err := h.Summarize(context.Background(), longText(40))
	if !errors.Is(err, ErrFailed) {
		t.Fatalf("expected ErrFailed, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected abort after failing chunk, got %d calls", calls)
	}
}

func TestHuggingFace_ShortInputPassesThrough(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("endpoint should not be called for short input")
	}))
	defer srv.Close()

	h := &HuggingFace{BaseURL: srv.URL, HTTPClient: srv.Client()}
	got, err := h.Summarize(context.Background(), "tiny text")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "tiny text" {
		t.Fatalf("got %q", got)
	}
}
