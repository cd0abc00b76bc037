// Package normalize turns scraped pages into the plain-text articles the
// clusterer operates on. It is pure: no I/O, input order preserved.
package normalize

import (
	"strings"

	"github.com/hyperifyio/goperspective/internal/noise"
	"github.com/hyperifyio/goperspective/internal/scrape"
)

const (
	minLineLen     = 25
	minTrimmedLen  = 20
	minArticleLen  = 100
	minKeptTextLen = 20
)

// Articles converts scraped pages into normalized article texts. Failed pages
// are dropped, noisy or too-short content lines are filtered, and anything
// that boils down to fewer than about twenty characters is discarded rather
// than passed on as a degenerate "article".
func Articles(pages []scrape.Page) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		if !p.Success {
			continue
		}
		text := normalizeOne(p)
		if len(text) > minKeptTextLen {
			out = append(out, text)
		}
	}
	return out
}

func normalizeOne(p scrape.Page) string {
	cleaned := make([]string, 0, len(p.Content))
	for _, line := range p.Content {
		if len(line) < minLineLen {
			continue
		}
		if noise.Contains(line) {
			continue
		}
		line = strings.TrimSpace(line)
		if len(line) <= minTrimmedLen {
			continue
		}
		cleaned = append(cleaned, line)
	}

	parts := make([]string, 0, len(cleaned)+2)
	for _, s := range []string{p.Title, p.Description} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, cleaned...)
	full := strings.Join(parts, "\n\n")

	if len(full) > minArticleLen {
		return full
	}
	// Too little body text: fall back to the bare title, which the length
	// gate in Articles will still reject when it is empty or trivial.
	return p.Title
}
