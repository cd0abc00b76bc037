package scrape

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultConcurrency is the per-chunk fan-out of the batch crawler.
const DefaultConcurrency = 3

// Crawler runs a fetch client over an ordered URL list in polite chunks.
type Crawler struct {
	Client *Client
	// Concurrency is the chunk size; fetches within a chunk run in
	// parallel. Zero means DefaultConcurrency.
	Concurrency int
	// DisableDelay skips the inter-chunk politeness sleep, for tests.
	DisableDelay bool
}

// CrawlBatch fetches every URL with retry, preserving input order in the
// returned slice. One URL failing never aborts its chunk or the batch; the
// failure is carried as a Page{Success: false} in that URL's slot. Between
// chunks the crawler sleeps 2-4s so target hosts see a paced client rather
// than a burst.
func (c *Crawler) CrawlBatch(ctx context.Context, urls []string) []Page {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	results := make([]Page, len(urls))
	for start := 0; start < len(urls); start += concurrency {
		end := start + concurrency
		if end > len(urls) {
			end = len(urls)
		}
		chunk := urls[start:end]
		log.Debug().Int("batch", start/concurrency+1).Int("size", len(chunk)).Msg("crawling batch")

		var wg sync.WaitGroup
		for i, u := range chunk {
			wg.Add(1)
			go func(slot int, u string) {
				defer wg.Done()
				// Each goroutine writes only its own slot.
				results[slot] = c.Client.FetchWithRetry(ctx, u)
			}(start+i, u)
		}
		wg.Wait()

		if end < len(urls) && !c.DisableDelay {
			wait := time.Duration(2000+rand.Intn(2000)) * time.Millisecond
			log.Debug().Dur("wait", wait).Msg("politeness delay before next batch")
			select {
			case <-ctx.Done():
				// Mark the rest failed instead of leaving zero Pages.
				for i := end; i < len(urls); i++ {
					results[i] = failedPage(urls[i], ctx.Err().Error())
				}
				return results
			case <-time.After(wait):
			}
		}
	}
	return results
}
