package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// SerpAPI implements Provider against the serpapi.com Google search endpoint.
type SerpAPI struct {
	APIKey     string
	Engine     string // defaults to "google"
	Locale     string // BCP 47 hint, e.g. "id" or "en-US"; drives hl/gl
	HTTPClient *http.Client
	// BaseURL overrides the production endpoint, for tests.
	BaseURL string
}

func (s *SerpAPI) Name() string { return "serpapi" }

func (s *SerpAPI) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(s.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if limit <= 0 {
		limit = 15
	}
	base := s.BaseURL
	if base == "" {
		base = "https://serpapi.com/search.json"
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("api_key", s.APIKey)
	engine := s.Engine
	if engine == "" {
		engine = "google"
	}
	q.Set("engine", engine)
	q.Set("num", fmt.Sprintf("%d", limit))
	if hl, gl, ok := localeParams(s.Locale); ok {
		q.Set("hl", hl)
		if gl != "" {
			q.Set("gl", gl)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	hc := s.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("serpapi status: %d", resp.StatusCode)
	}
	var sr serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(sr.OrganicResults))
	for _, r := range sr.OrganicResults {
		if strings.TrimSpace(r.Link) == "" {
			continue
		}
		out = append(out, Result{
			Title:   strings.TrimSpace(r.Title),
			URL:     strings.TrimSpace(r.Link),
			Snippet: strings.TrimSpace(r.Snippet),
			Source:  s.Name(),
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type serpResponse struct {
	OrganicResults []struct {
		Link    string `json:"link"`
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

// localeParams splits a BCP 47 locale hint into the provider's hl (interface
// language) and gl (country) parameters. An unparsable hint is ignored.
func localeParams(locale string) (hl, gl string, ok bool) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return "", "", false
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return "", "", false
	}
	if base, conf := tag.Base(); conf != language.No {
		hl = base.String()
	}
	if region, conf := tag.Region(); conf != language.No && region.IsCountry() {
		gl = strings.ToLower(region.String())
	}
	if hl == "" {
		return "", "", false
	}
	return hl, gl, true
}
