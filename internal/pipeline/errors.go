package pipeline

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step an error belongs to.
type Stage string

const (
	StageValidate  Stage = "validate"
	StageSearch    Stage = "search"
	StageCrawl     Stage = "crawl"
	StageNormalize Stage = "normalize"
	StageCluster   Stage = "cluster"
	StageSummarize Stage = "summarize"
	StagePersist   Stage = "persist"
)

var (
	// ErrInvalidQuery rejects queries whose trimmed length is under two
	// characters, before any network call is made.
	ErrInvalidQuery = errors.New("search query too short or missing")
	// ErrNoResults means search returned nothing usable after filtering.
	ErrNoResults = errors.New("no valid search results found")
	// ErrNoContent means every URL failed or yielded no usable article text.
	ErrNoContent = errors.New("no articles could be scraped successfully")
	// ErrAllSummariesFailed means every cluster's summarization failed.
	ErrAllSummariesFailed = errors.New("all cluster summaries failed")
)

// Stats counts per-stage outcomes so a failed run can distinguish "no data
// exists" from "upstream outage" from "misconfiguration".
type Stats struct {
	URLs            int
	PagesOK         int
	PagesFailed     int
	Articles        int
	Clusters        int
	SummariesOK     int
	SummariesFailed int
}

// Error is the single structured error a failed run returns.
type Error struct {
	Stage Stage
	Stats Stats
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pipeline failed at %s: %v (urls %d ok/%d failed, clusters %d, summaries %d ok/%d failed)",
		e.Stage, e.Err, e.Stats.PagesOK, e.Stats.PagesFailed, e.Stats.Clusters, e.Stats.SummariesOK, e.Stats.SummariesFailed)
}

func (e *Error) Unwrap() error { return e.Err }

func stageErr(stage Stage, stats Stats, err error) *Error {
	return &Error{Stage: stage, Stats: stats, Err: err}
}
