package app

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/goperspective/internal/store"
)

const sourcePreviewChars = 200

// RenderMarkdown turns a stored topic into a human-readable Markdown report:
// the query as title, the description, then one section per perspective with
// its summary and a short excerpt of each source article.
func RenderMarkdown(topic *store.Topic) string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(topic.Query)
	sb.WriteString("\n\n")
	sb.WriteString(topic.Description)
	sb.WriteString("\n")

	for i, p := range topic.Perspectives {
		fmt.Fprintf(&sb, "\n## Perspective %d\n\n", i+1)
		sb.WriteString(p.Content)
		sb.WriteString("\n")
		if len(p.Sources) > 0 {
			sb.WriteString("\nSources:\n")
			for j, src := range p.Sources {
				fmt.Fprintf(&sb, "%d. %s\n", j+1, sourcePreview(src))
			}
		}
	}

	if topic.ID != "" || !topic.CreatedAt.IsZero() {
		sb.WriteString("\n---\n")
		if topic.ID != "" {
			fmt.Fprintf(&sb, "Topic ID: %s\n", topic.ID)
		}
		if !topic.CreatedAt.IsZero() {
			fmt.Fprintf(&sb, "Created: %s\n", topic.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		}
	}
	return sb.String()
}

// sourcePreview flattens a normalized article to a single line and keeps only
// the beginning, enough to identify the article without reprinting it.
func sourcePreview(article string) string {
	flat := strings.Join(strings.Fields(article), " ")
	runes := []rune(flat)
	if len(runes) <= sourcePreviewChars {
		return flat
	}
	return string(runes[:sourcePreviewChars]) + "…"
}
