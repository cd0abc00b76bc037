package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goperspective/internal/robots"
)

// userAgents is a small pool of realistic browser identities; one is picked
// uniformly per request so repeated fetches do not present a constant UA.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}

const (
	defaultTimeout      = 45 * time.Second
	defaultMaxRedirects = 10
	defaultMaxAttempts  = 3
	minBodyBytes        = 100
)

// Client fetches pages with browser-like headers and converts every failure
// into a Page value rather than an error.
type Client struct {
	HTTPClient *http.Client
	// AcceptLanguage tunes the Accept-Language header to the target locale.
	AcceptLanguage string
	// Referer is sent on every request; a generic search engine referrer
	// keeps some hosts from serving stripped-down pages.
	Referer string
	// Timeout bounds each request. Zero means the 45s default.
	Timeout time.Duration
	// RedirectMaxHops caps redirect following. Zero means default (10).
	RedirectMaxHops int
	// MaxAttempts includes the initial attempt. Zero means default (3).
	MaxAttempts int
	// Robots, when set, gates fetches on robots.txt. Nil disables the check.
	Robots *robots.Manager
}

// sleepFn allows tests to stub out backoff waits.
var sleepFn = time.Sleep

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

func (c *Client) httpClient() *http.Client {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = defaultMaxRedirects
	}
	check := func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if req.URL == nil || !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
	if c.HTTPClient != nil {
		// Clone to attach the redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = check
		return &base
	}
	return &http.Client{Timeout: c.timeout(), CheckRedirect: check}
}

// Fetch GETs the URL and extracts an article Page from the body. It never
// returns an error: all failures are downgraded to Page{Success: false}.
func (c *Client) Fetch(ctx context.Context, rawURL string) Page {
	if c.Robots != nil && !c.Robots.Allowed(ctx, rawURL) {
		return failedPage(rawURL, "blocked by robots.txt")
	}

	body, err := c.get(ctx, rawURL)
	if err != nil {
		return failedPage(rawURL, err.Error())
	}
	if len(body) < minBodyBytes {
		return failedPage(rawURL, "Response too short or empty")
	}

	page, err := ExtractPage(body, rawURL)
	if err != nil {
		return failedPage(rawURL, err.Error())
	}
	return page
}

// FetchWithRetry wraps Fetch with up to MaxAttempts tries, backing off
// 1000*attempt plus up to 1s of jitter between tries. Retries fire both on
// failure and on "successful" fetches that extracted no content. The last
// outcome is downgraded to a failed Page after retries run out.
func (c *Client) FetchWithRetry(ctx context.Context, rawURL string) Page {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	var last Page
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			wait := time.Duration(1000*attempt+rand.Intn(1000)) * time.Millisecond
			log.Debug().Str("url", rawURL).Int("attempt", attempt).Dur("wait", wait).Msg("retrying fetch")
			sleepFn(wait)
		}
		if err := ctx.Err(); err != nil {
			return failedPage(rawURL, err.Error())
		}
		last = c.Fetch(ctx, rawURL)
		if last.Success && len(last.Content) > 0 {
			return last
		}
	}
	if last.Error == "" {
		last.Error = "No content extracted after all retries"
	}
	last.Success = false
	last.Content = nil
	return last
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if req.URL == nil || !isHTTPScheme(req.URL) {
		return nil, fmt.Errorf("unsupported URL scheme: %q", rawURL)
	}

	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	lang := c.AcceptLanguage
	if lang == "" {
		lang = "en-US,en;q=0.9"
	}
	req.Header.Set("Accept-Language", lang)
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Cache-Control", "max-age=0")
	referer := c.Referer
	if referer == "" {
		referer = "https://www.google.com/"
	}
	req.Header.Set("Referer", referer)

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()
	req = req.WithContext(ctx)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: unexpected status", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return decodeBody(raw, resp.Header.Get("Content-Type")), nil
}

// decodeBody converts non-UTF-8 documents to UTF-8 using the Content-Type
// charset hint plus sniffing. On any decoding problem the raw bytes win.
func decodeBody(raw []byte, contentType string) []byte {
	decoded, err := charsetReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return raw
	}
	out, err := io.ReadAll(decoded)
	if err != nil {
		return raw
	}
	return out
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
