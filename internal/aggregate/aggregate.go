package aggregate

import (
	"net/url"
	"strings"

	"github.com/hyperifyio/goperspective/internal/search"
)

// socialDomains are never worth scraping for article text: they either wall
// content behind logins or serve script-rendered shells.
var socialDomains = []string{
	"facebook.com",
	"instagram.com",
	"tiktok.com",
	"youtube.com",
	"twitter.com",
	"x.com",
	"linkedin.com",
	"pinterest.com",
}

// DefaultMaxCandidates caps how many URLs a single run will crawl.
const DefaultMaxCandidates = 10

// FilterCandidates turns ranked search results into the candidate URL list:
// it canonicalizes URLs, trims obvious tracking parameters, drops blocklisted
// social domains and empty links, de-duplicates, and caps the list while
// preserving provider rank order.
func FilterCandidates(results []search.Result, max int) []string {
	if max <= 0 {
		max = DefaultMaxCandidates
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, max)
	for _, r := range results {
		if strings.TrimSpace(r.URL) == "" {
			continue
		}
		u, err := url.Parse(r.URL)
		if err != nil {
			continue
		}
		normalizeURL(u)
		if isBlockedHost(u.Host) {
			continue
		}
		key := u.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
		if len(out) >= max {
			break
		}
	}
	return out
}

func isBlockedHost(host string) bool {
	host = strings.ToLower(host)
	for _, d := range socialDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func normalizeURL(u *url.URL) {
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	q := u.Query()
	// Remove common tracking params
	for _, p := range []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "utm_id", "gclid", "fbclid"} {
		q.Del(p)
	}
	u.RawQuery = q.Encode()
}
