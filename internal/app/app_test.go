package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/goperspective/internal/scrape"
)

func articlePage(title string, paras ...string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<html><head><title>%s</title></head><body><article>", title)
	fmt.Fprintf(&sb, "<h1>%s</h1>", title)
	for _, p := range paras {
		fmt.Fprintf(&sb, "<p>%s</p>", p)
	}
	sb.WriteString("</article></body></html>")
	return sb.String()
}

// TestNew_RobotsGateWiring pins the crawl politeness defaults: no robots.txt
// gate unless asked for, and the configured Referer reaching the client.
func TestNew_RobotsGateWiring(t *testing.T) {
	t.Parallel()
	base := Config{
		Query:          "some query",
		FileSearchPath: "results.json",
		HFBaseURL:      "http://127.0.0.1:1",
	}

	a, err := New(context.Background(), base)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close(context.Background())
	crawler := a.pipeline.Crawler.(*scrape.Crawler)
	if crawler.Client.Robots != nil {
		t.Fatal("robots gate must be off by default")
	}

	gated := base
	gated.RobotsEnabled = true
	gated.Referer = "https://duckduckgo.com/"
	b, err := New(context.Background(), gated)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer b.Close(context.Background())
	crawler = b.pipeline.Crawler.(*scrape.Crawler)
	if crawler.Client.Robots == nil {
		t.Fatal("crawl.robots must enable the gate")
	}
	if crawler.Client.Robots.UserAgent == "" {
		t.Fatal("the enabled gate must identify itself to robots.txt")
	}
	if crawler.Client.Referer != "https://duckduckgo.com/" {
		t.Fatalf("referer not carried to the client: %q", crawler.Client.Referer)
	}
}

// TestApp_EndToEnd drives a full run through the real wiring: file-based
// search, HTTP crawl against a local server, in-process clustering, stubbed
// summarization endpoint, in-memory store and the Markdown report writer.
func TestApp_EndToEnd(t *testing.T) {
	para := "Jakarta officials outlined the new flood mitigation plan in detail today. "

	// Target site serving two crawlable articles.
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a":
			fmt.Fprint(w, articlePage("Jakarta flood plan announced",
				para+"One", para+"Two", para+"Three"))
		case "/b":
			fmt.Fprint(w, articlePage("Critics question Jakarta flood budget",
				para+"Four", para+"Five", para+"Six"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer site.Close()

	// Summarization endpoint answering in the upstream response shape.
	summarizer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]string{{"summary_text": "A flood plan summary."}})
	}))
	defer summarizer.Close()

	dir := t.TempDir()
	searchFile := filepath.Join(dir, "results.json")
	results := fmt.Sprintf(`[
  {"title": "Jakarta flood plan announced", "url": "%s/a"},
  {"title": "Critics question Jakarta flood budget", "url": "%s/b"}
]`, site.URL, site.URL)
	if err := os.WriteFile(searchFile, []byte(results), 0o644); err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(dir, "topic.md")
	cfg := Config{
		Query:          "jakarta flood",
		OutputPath:     outPath,
		FileSearchPath: searchFile,
		ClustererMode:  ClustererNative,
		HFBaseURL:      summarizer.URL,
		DisableDelay:   true,
	}

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close(context.Background())

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	report, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(report)
	if !strings.Contains(md, "# jakarta flood") {
		t.Fatalf("report missing query heading:\n%s", md)
	}
	if !strings.Contains(md, "## Perspective 1") {
		t.Fatalf("report missing perspectives:\n%s", md)
	}
	if !strings.Contains(md, "A flood plan summary.") {
		t.Fatalf("report missing summaries:\n%s", md)
	}
}
