// Package pipeline orchestrates one query's journey from free text to a
// persisted topic: search, crawl, normalize, cluster, summarize, assemble,
// store. Each stage is a barrier: all fan-out work for a stage completes
// before the next stage starts. Per-URL and per-cluster failures are
// absorbed at the lowest layer that can handle them; only run-wide
// conditions surface as a terminal error.
package pipeline

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goperspective/internal/aggregate"
	"github.com/hyperifyio/goperspective/internal/cluster"
	"github.com/hyperifyio/goperspective/internal/normalize"
	"github.com/hyperifyio/goperspective/internal/scrape"
	"github.com/hyperifyio/goperspective/internal/search"
	"github.com/hyperifyio/goperspective/internal/store"
	"github.com/hyperifyio/goperspective/internal/summarize"
)

// Crawler abstracts the batch crawler for testing; *scrape.Crawler is the
// production implementation.
type Crawler interface {
	CrawlBatch(ctx context.Context, urls []string) []scrape.Page
}

const (
	minQueryLen        = 2
	descriptionMaxLen  = 300
	defaultSearchLimit = 15
	// placeholderDescription is used when no cluster summary survives
	// assembly with usable text.
	placeholderDescription = "No description available"
)

// Pipeline wires the collaborators for one deployment. All fields except
// Store are required; a nil Store skips persistence and lookup.
type Pipeline struct {
	Search     search.Provider
	Crawler    Crawler
	Clusterer  cluster.Clusterer
	Summarizer summarize.Summarizer
	Store      store.TopicStore

	// SearchLimit is how many results to request from the provider
	// before filtering. Zero means 15.
	SearchLimit int
	// MaxCandidates caps the crawl list. Zero means the default of 10.
	MaxCandidates int
	// SkipLookup disables the check for an already-stored topic matching
	// the query before doing any network work.
	SkipLookup bool
}

// Run executes the full pipeline for query. On success the stored (or
// assembled, when no store is configured) topic is returned. On failure the
// error is always a *Error; for persistence failures the assembled topic is
// returned alongside the error so callers can retry the write without
// recomputing anything.
func (p *Pipeline) Run(ctx context.Context, query string) (*store.Topic, error) {
	var stats Stats

	query = strings.TrimSpace(query)
	if len(query) < minQueryLen {
		return nil, stageErr(StageValidate, stats, ErrInvalidQuery)
	}

	if topic := p.lookupExisting(ctx, query); topic != nil {
		return topic, nil
	}

	// Search
	results, err := p.Search.Search(ctx, query, p.searchLimit())
	if err != nil {
		return nil, stageErr(StageSearch, stats, err)
	}
	urls := aggregate.FilterCandidates(results, p.MaxCandidates)
	stats.URLs = len(urls)
	if len(urls) == 0 {
		return nil, stageErr(StageSearch, stats, ErrNoResults)
	}
	log.Info().Str("query", query).Int("candidates", len(urls)).Msg("search complete")

	// Crawl. Individual failures never abort the run.
	pages := p.Crawler.CrawlBatch(ctx, urls)
	for _, page := range pages {
		if page.Success && len(page.Content) > 0 {
			stats.PagesOK++
		} else {
			stats.PagesFailed++
			log.Warn().Str("url", page.URL).Str("error", page.Error).Msg("page yielded no content")
		}
	}
	if stats.PagesOK == 0 {
		return nil, stageErr(StageCrawl, stats, ErrNoContent)
	}
	log.Info().Int("ok", stats.PagesOK).Int("failed", stats.PagesFailed).Msg("crawl complete")

	// Normalize
	articles := normalize.Articles(pages)
	stats.Articles = len(articles)
	if len(articles) == 0 {
		return nil, stageErr(StageNormalize, stats, ErrNoContent)
	}

	// Cluster. Partial or malformed output is never trusted.
	partition, err := p.Clusterer.Cluster(ctx, articles)
	if err != nil {
		return nil, stageErr(StageCluster, stats, err)
	}
	if len(partition) == 0 {
		return nil, stageErr(StageCluster, stats, &cluster.FailedError{Err: ErrNoContent})
	}
	if err := cluster.CheckPartition(articles, partition); err != nil {
		return nil, stageErr(StageCluster, stats, &cluster.FailedError{Err: err})
	}
	stats.Clusters = len(partition)
	log.Info().Int("clusters", len(partition)).Msg("clustering complete")

	// Summarize each cluster independently and concurrently. A failing
	// cluster is dropped; only losing all of them kills the run.
	summarized := p.summarizeClusters(ctx, partition, &stats)
	if len(summarized) == 0 {
		return nil, stageErr(StageSummarize, stats, ErrAllSummariesFailed)
	}

	// Assemble
	topic := assembleTopic(query, summarized)

	// Persist. Upstream work is not transactional: a store failure
	// surfaces with the assembled topic attached, nothing is rolled back.
	if p.Store != nil {
		id, err := p.Store.CreateTopic(ctx, topic)
		if err != nil {
			return topic, stageErr(StagePersist, stats, err)
		}
		topic.ID = id
		log.Info().Str("id", id).Int("perspectives", len(topic.Perspectives)).Msg("topic stored")
	}
	return topic, nil
}

func (p *Pipeline) searchLimit() int {
	if p.SearchLimit > 0 {
		return p.SearchLimit
	}
	return defaultSearchLimit
}

// lookupExisting short-circuits the run when the store already holds a topic
// for this query. Lookup errors are logged and ignored; a broken lookup
// should not block fresh research.
func (p *Pipeline) lookupExisting(ctx context.Context, query string) *store.Topic {
	if p.Store == nil || p.SkipLookup {
		return nil
	}
	existing, err := p.Store.FindTopicsByQuery(ctx, query)
	if err != nil {
		log.Warn().Err(err).Msg("topic lookup failed; continuing with fresh run")
		return nil
	}
	if len(existing) == 0 {
		return nil
	}
	log.Info().Str("id", existing[0].ID).Msg("query already covered by stored topic")
	return &existing[0]
}

type summarizedCluster struct {
	key      string
	summary  string
	articles []string
}

// summarizeClusters fans out one goroutine per cluster and joins at a
// barrier. Each goroutine writes only its own slot, and results are
// re-associated with their cluster by index, never by completion order.
func (p *Pipeline) summarizeClusters(ctx context.Context, partition cluster.Partition, stats *Stats) []summarizedCluster {
	keys := make([]string, 0, len(partition))
	for key := range partition {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	type slot struct {
		summary string
		err     error
	}
	slots := make([]slot, len(keys))
	done := make(chan struct{})
	for i, key := range keys {
		go func(i int, articles []string) {
			summary, err := p.Summarizer.Summarize(ctx, strings.Join(articles, "\n\n"))
			slots[i] = slot{summary: summary, err: err}
			done <- struct{}{}
		}(i, partition[key])
	}
	for range keys {
		<-done
	}

	out := make([]summarizedCluster, 0, len(keys))
	for i, key := range keys {
		if slots[i].err != nil {
			stats.SummariesFailed++
			log.Warn().Err(slots[i].err).Str("cluster", key).Msg("cluster summarization failed; dropping cluster")
			continue
		}
		stats.SummariesOK++
		out = append(out, summarizedCluster{key: key, summary: slots[i].summary, articles: partition[key]})
	}
	return out
}

func assembleTopic(query string, summarized []summarizedCluster) *store.Topic {
	perspectives := make([]store.Perspective, 0, len(summarized))
	description := ""
	for _, sc := range summarized {
		if description == "" {
			description = truncate(sc.summary, descriptionMaxLen)
		}
		perspectives = append(perspectives, store.Perspective{
			Content: sc.summary,
			Sources: append([]string(nil), sc.articles...),
		})
	}
	if description == "" {
		description = placeholderDescription
	}
	return &store.Topic{
		Query:        query,
		Description:  description,
		Perspectives: perspectives,
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
