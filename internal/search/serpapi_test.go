package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSerpAPI_Search_ParsesOrganicResults(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("engine"); got != "google" {
			t.Errorf("expected engine=google, got %q", got)
		}
		if got := r.URL.Query().Get("num"); got != "15" {
			t.Errorf("expected num=15, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"organic_results": []map[string]any{
				{"title": "Doc", "link": "https://example.com/a", "snippet": "snippet"},
				{"title": "No link", "link": "", "snippet": "dropped"},
				{"title": "Other", "link": "https://example.org/b"},
			},
		})
	}))
	defer srv.Close()

	s := &SerpAPI{APIKey: "test", BaseURL: srv.URL, HTTPClient: srv.Client()}
	got, err := s.Search(context.Background(), "query", 15)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 valid results, got %d", len(got))
	}
	if got[0].URL != "https://example.com/a" || got[1].URL != "https://example.org/b" {
		t.Fatalf("unexpected urls: %q, %q", got[0].URL, got[1].URL)
	}
}

func TestSerpAPI_Search_MissingKey(t *testing.T) {
	t.Parallel()
	s := &SerpAPI{}
	if _, err := s.Search(context.Background(), "query", 10); err != ErrMissingAPIKey {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestSerpAPI_Search_LocaleParams(t *testing.T) {
	t.Parallel()
	var hl, gl string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hl = r.URL.Query().Get("hl")
		gl = r.URL.Query().Get("gl")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"organic_results":[]}`))
	}))
	defer srv.Close()

	s := &SerpAPI{APIKey: "test", BaseURL: srv.URL, HTTPClient: srv.Client(), Locale: "id-ID"}
	if _, err := s.Search(context.Background(), "query", 5); err != nil {
		t.Fatalf("search error: %v", err)
	}
	if hl != "id" {
		t.Fatalf("expected hl=id, got %q", hl)
	}
	if gl != "id" {
		t.Fatalf("expected gl=id, got %q", gl)
	}
}
