package app

import (
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/goperspective/internal/store"
)

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()
	topic := &store.Topic{
		ID:          "abc123",
		Query:       "housing crisis",
		Description: "Two camps disagree on zoning reform.",
		Perspectives: []store.Perspective{
			{Content: "Reform advocates argue supply is the problem.", Sources: []string{"Article one text about zoning and supply."}},
			{Content: "Preservationists warn about displacement.", Sources: []string{"Article two text about displacement."}},
		},
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	md := RenderMarkdown(topic)

	for _, want := range []string{
		"# housing crisis",
		"Two camps disagree on zoning reform.",
		"## Perspective 1",
		"## Perspective 2",
		"Sources:",
		"Topic ID: abc123",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("report missing %q:\n%s", want, md)
		}
	}
	if strings.Index(md, "Reform advocates") > strings.Index(md, "Preservationists") {
		t.Fatal("perspectives must render in order")
	}
}

func TestSourcePreview_TruncatesLongArticles(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("word ", 100)
	got := sourcePreview(long)
	if len([]rune(got)) > sourcePreviewChars+1 {
		t.Fatalf("preview too long: %d runes", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatal("truncated preview must end with ellipsis")
	}
	if strings.Contains(got, "\n") {
		t.Fatal("preview must be a single line")
	}
}
