// clusterd reads a JSON array of article texts on stdin, groups them into
// perspectives and writes a JSON object of cluster name to article texts on
// stdout. It is the default clustering subprocess for goperspective and can
// be swapped for any program speaking the same contract.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hyperifyio/goperspective/internal/cluster"
)

func main() {
	var k int
	flag.IntVar(&k, "k", 0, "Maximum number of clusters (default 3)")
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, k); err != nil {
		fmt.Fprintf(os.Stderr, "clusterd: %v\n", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer, k int) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	var articles []string
	if err := json.Unmarshal(raw, &articles); err != nil {
		return fmt.Errorf("parse input: expected a JSON array of strings: %w", err)
	}
	if len(articles) == 0 {
		return fmt.Errorf("no articles to cluster")
	}

	clusterer := &cluster.TFIDF{K: k}
	partition, err := clusterer.Cluster(context.Background(), articles)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	return enc.Encode(partition)
}
