// Package robots gates fetches on robots.txt. It is a politeness measure,
// not a correctness one: when the rules cannot be fetched or parsed, the
// URL is allowed.
package robots

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/temoto/robotstxt"
)

const defaultEntryExpiry = 30 * time.Minute

// Manager fetches and caches per-host robots.txt rules in memory for the
// duration of a run.
type Manager struct {
	HTTPClient *http.Client
	UserAgent  string
	// EntryExpiry bounds how long cached rules are reused. Zero means 30m.
	EntryExpiry time.Duration

	mu  sync.Mutex
	mem map[string]memEntry
	now func() time.Time
}

type memEntry struct {
	group  *robotstxt.Group
	expiry time.Time
}

// Allowed reports whether rawURL may be fetched under the host's robots.txt.
func (m *Manager) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}
	group := m.groupFor(ctx, u)
	if group == nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return group.Test(path)
}

func (m *Manager) groupFor(ctx context.Context, u *url.URL) *robotstxt.Group {
	key := u.Scheme + "://" + u.Host

	// All lazy initialization happens under the lock; concurrent first
	// fetches from the batch crawler land here at the same time.
	m.mu.Lock()
	if m.now == nil {
		m.now = time.Now
	}
	if m.mem == nil {
		m.mem = make(map[string]memEntry)
	}
	if entry, ok := m.mem[key]; ok && m.now().Before(entry.expiry) {
		m.mu.Unlock()
		return entry.group
	}
	m.mu.Unlock()

	group := m.fetchGroup(ctx, key+"/robots.txt")

	expiry := m.EntryExpiry
	if expiry <= 0 {
		expiry = defaultEntryExpiry
	}
	m.mu.Lock()
	m.mem[key] = memEntry{group: group, expiry: m.now().Add(expiry)}
	m.mu.Unlock()
	return group
}

// fetchGroup returns nil (allow everything) on any fetch or parse problem.
func (m *Manager) fetchGroup(ctx context.Context, robotsURL string) *robotstxt.Group {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	if m.UserAgent != "" {
		req.Header.Set("User-Agent", m.UserAgent)
	}
	hc := m.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("url", robotsURL).Msg("robots.txt fetch failed; allowing")
		return nil
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil
	}
	agent := m.UserAgent
	if agent == "" {
		agent = "*"
	}
	return data.FindGroup(agent)
}
