package search

import (
	"context"
	"errors"
)

// Result represents a single search hit from any provider.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source,omitempty"` // provider name for observability
}

// Provider is a minimal interface for search providers.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Name() string
}

// ErrMissingAPIKey indicates the provider requires a credential that was
// never configured. Callers must treat this as fatal rather than retrying.
var ErrMissingAPIKey = errors.New("search api key not configured")
