// Package cluster groups normalized article texts into "perspectives":
// disjoint, non-empty sets of articles that share a viewpoint. The grouping
// algorithm is pluggable behind Clusterer; callers own timeout enforcement
// and malformed-output handling, not the implementations' internals.
package cluster

import (
	"context"
	"errors"
	"fmt"
)

// Partition maps an opaque cluster key to the article texts in that cluster.
// A valid partition covers a subset of the input: clusters are pairwise
// disjoint, none is empty, and every member text came from the input.
type Partition map[string][]string

// Clusterer is the pluggable grouping strategy.
type Clusterer interface {
	Cluster(ctx context.Context, articles []string) (Partition, error)
}

// ErrEmptyInput is a precondition violation: clustering zero articles is a
// caller bug, surfaced before any external invocation happens.
var ErrEmptyInput = errors.New("no articles to cluster")

// ErrTimeout indicates the external clustering process exceeded its
// wall-clock budget and was killed.
var ErrTimeout = errors.New("clustering timed out")

// FailedError wraps a clusterer crash or malformed output, carrying captured
// stderr for diagnostics. Partial output is never trusted.
type FailedError struct {
	Stderr string
	Err    error
}

func (e *FailedError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("clustering failed: %v: %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("clustering failed: %v", e.Err)
}

func (e *FailedError) Unwrap() error { return e.Err }

// CheckPartition verifies the partition property against the input articles:
// no empty clusters, no text outside the input, no text in two clusters.
func CheckPartition(articles []string, p Partition) error {
	counts := make(map[string]int, len(articles))
	for _, a := range articles {
		counts[a]++
	}
	seen := make(map[string]int, len(articles))
	for key, members := range p {
		if len(members) == 0 {
			return fmt.Errorf("cluster %q is empty", key)
		}
		for _, m := range members {
			seen[m]++
			if seen[m] > counts[m] {
				if counts[m] == 0 {
					return fmt.Errorf("cluster %q contains text not present in input", key)
				}
				return fmt.Errorf("text assigned to more than one cluster (%q)", key)
			}
		}
	}
	return nil
}
