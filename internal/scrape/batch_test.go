package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCrawlBatch_PreservesInputOrder(t *testing.T) {
	stubSleep(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/fail") {
			fmt.Fprint(w, "tiny")
			return
		}
		fmt.Fprint(w, okBody())
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	urls := []string{
		srv.URL + "/a",
		srv.URL + "/fail1",
		srv.URL + "/b",
		srv.URL + "/c",
		srv.URL + "/fail2",
		srv.URL + "/d",
		srv.URL + "/e",
	}
	crawler := &Crawler{Client: &Client{HTTPClient: srv.Client(), MaxAttempts: 1}, DisableDelay: true}
	pages := crawler.CrawlBatch(context.Background(), urls)

	if len(pages) != len(urls) {
		t.Fatalf("expected %d pages, got %d", len(urls), len(pages))
	}
	for i, p := range pages {
		if p.URL != urls[i] {
			t.Fatalf("slot %d: got %q, want %q", i, p.URL, urls[i])
		}
	}
}

func TestCrawlBatch_FailuresDoNotAbortBatch(t *testing.T) {
	stubSleep(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/fail") {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, okBody())
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	urls := []string{srv.URL + "/fail", srv.URL + "/ok1", srv.URL + "/ok2", srv.URL + "/ok3"}
	crawler := &Crawler{Client: &Client{HTTPClient: srv.Client(), MaxAttempts: 1}, DisableDelay: true}
	pages := crawler.CrawlBatch(context.Background(), urls)

	if pages[0].Success {
		t.Fatal("expected first URL to fail")
	}
	if pages[0].Error == "" {
		t.Fatal("failed page must carry an error")
	}
	for i := 1; i < len(pages); i++ {
		if !pages[i].Success {
			t.Fatalf("url %d should have succeeded: %s", i, pages[i].Error)
		}
	}
}

func TestCrawlBatch_EmptyInput(t *testing.T) {
	crawler := &Crawler{Client: &Client{}, DisableDelay: true}
	pages := crawler.CrawlBatch(context.Background(), nil)
	if len(pages) != 0 {
		t.Fatalf("expected no pages, got %d", len(pages))
	}
}
