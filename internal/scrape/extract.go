package scrape

import (
	"bytes"
	"errors"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"

	"github.com/hyperifyio/goperspective/internal/noise"
)

const (
	maxHeadings      = 10
	maxParagraphs    = 20
	maxImages        = 5
	minParagraphLen  = 30
	minHeadingLen    = 5
	maxHeadingLen    = 200
	minSelectorParas = 3 // a selector chain wins with more than 2 kept paragraphs
)

// contentSelectors is tried in order from most to least specific; the first
// selector yielding more than two filtered paragraphs wins.
var contentSelectors = []string{
	"article p",
	".article-content p",
	".post-content p",
	".content p",
	".entry-content p",
	".article-body p",
	".story-content p",
	".news-content p",
	"main p",
	"#content p",
	".main-content p",
	"p",
}

var (
	pipeSuffixRe = regexp.MustCompile(`\s*\|\s*.*$`)
	dashSuffixRe = regexp.MustCompile(`\s+-\s+.*$`)
)

// ExtractPage parses raw HTML into a structured article Page. It performs no
// network I/O; image URLs are resolved against pageURL. An error is returned
// only when neither a title nor any content paragraph could be recovered.
func ExtractPage(body []byte, pageURL string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Page{}, err
	}

	// Drop chrome and obvious noise before looking at anything else.
	doc.Find("script, style, nav, header, footer, aside, .advertisement, .ads, .social-share, .comment").Remove()

	title := extractTitle(doc)
	description := extractDescription(doc)
	headings := extractHeadings(doc)
	content := extractContent(doc)
	if len(content) == 0 {
		content = readabilityFallback(body, pageURL)
	}
	images := extractImages(doc, pageURL)

	if title == "" && len(content) == 0 {
		return Page{}, errors.New("No meaningful content extracted")
	}
	if title == "" {
		title = "No title"
	}
	return Page{
		URL:         pageURL,
		Title:       title,
		Description: description,
		Headings:    headings,
		Content:     content,
		Images:      images,
		Success:     true,
	}, nil
}

// extractTitle tries h1, then <title>, then og:title, then a name=title meta,
// and strips trailing site-name suffixes like " | Example News".
func extractTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		if v, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
			title = strings.TrimSpace(v)
		}
	}
	if title == "" {
		if v, ok := doc.Find(`meta[name="title"]`).Attr("content"); ok {
			title = strings.TrimSpace(v)
		}
	}
	title = pipeSuffixRe.ReplaceAllString(title, "")
	title = dashSuffixRe.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

func extractDescription(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if v, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func extractHeadings(doc *goquery.Document) []string {
	var out []string
	doc.Find("h1, h2, h3, h4").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		h := strings.TrimSpace(sel.Text())
		if len(h) > minHeadingLen && len(h) < maxHeadingLen {
			out = append(out, h)
		}
		return len(out) < maxHeadings
	})
	return out
}

func extractContent(doc *goquery.Document) []string {
	for _, selector := range contentSelectors {
		paras := filterParagraphs(selectionTexts(doc, selector))
		if len(paras) >= minSelectorParas {
			if len(paras) > maxParagraphs {
				paras = paras[:maxParagraphs]
			}
			return paras
		}
	}
	return nil
}

func selectionTexts(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		out = append(out, strings.TrimSpace(sel.Text()))
	})
	return out
}

func filterParagraphs(paras []string) []string {
	out := make([]string, 0, len(paras))
	for _, p := range paras {
		if len(p) < minParagraphLen {
			continue
		}
		if noise.Contains(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// readabilityFallback runs go-readability when no selector chain produced
// enough paragraphs, e.g. on pages whose article body is not in <p> tags.
// Its plain-text output is split into lines and pushed through the same
// paragraph filter, so downstream filtering invariants hold either way.
func readabilityFallback(body []byte, pageURL string) []string {
	u, err := url.Parse(pageURL)
	if err != nil {
		u = nil
	}
	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		return nil
	}
	lines := filterParagraphs(strings.Split(article.TextContent, "\n"))
	if len(lines) < minSelectorParas {
		return nil
	}
	if len(lines) > maxParagraphs {
		lines = lines[:maxParagraphs]
	}
	return lines
}

func extractImages(doc *goquery.Document, pageURL string) []string {
	base, baseErr := url.Parse(pageURL)
	var out []string
	doc.Find("img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, ok := sel.Attr("src")
		if !ok || src == "" || strings.HasPrefix(src, "data:") {
			return true
		}
		lower := strings.ToLower(src)
		if strings.Contains(lower, "logo") || strings.Contains(lower, "icon") || strings.Contains(lower, "avatar") {
			return true
		}
		resolved := resolveImageURL(src, base, baseErr)
		if resolved != "" {
			out = append(out, resolved)
		}
		return len(out) < maxImages
	})
	return out
}

func resolveImageURL(src string, base *url.URL, baseErr error) string {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	if baseErr != nil || base == nil {
		return ""
	}
	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// charsetReader wraps r so that non-UTF-8 documents are transparently
// decoded before parsing, using the Content-Type charset hint when present.
func charsetReader(r io.Reader, contentType string) (io.Reader, error) {
	return charset.NewReader(r, contentType)
}
