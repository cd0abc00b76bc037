// Package summarize produces an abstractive summary for a block of article
// text via an external model endpoint. Oversized input is chunked by
// paragraph and the chunks are summarized one at a time, sequentially, to
// stay inside external rate limits.
package summarize

import (
	"context"
	"errors"
	"strings"
)

// Summarizer is the external summarization collaborator.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// ErrFailed wraps any chunk-level summarization failure. One failing chunk
// aborts the whole call; the orchestrator decides what that means for the
// cluster it belonged to.
var ErrFailed = errors.New("summarization failed")

// DefaultChunkSize is the per-chunk character budget.
const DefaultChunkSize = 1000

// ChunkByParagraph splits text on newlines into chunks of at most maxLen
// characters without ever splitting a paragraph across chunks. A single
// paragraph longer than maxLen becomes its own oversized chunk.
func ChunkByParagraph(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultChunkSize
	}
	var chunks []string
	var current strings.Builder
	for _, paragraph := range strings.Split(text, "\n") {
		if current.Len() > 0 && current.Len()+len(paragraph) > maxLen {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(paragraph)
		current.WriteString("\n")
	}
	if strings.TrimSpace(current.String()) != "" {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}

// summarizeChunks runs fn over each chunk in order and joins the results
// with a blank line. Chunks run strictly sequentially.
func summarizeChunks(ctx context.Context, text string, chunkSize int, fn func(context.Context, string) (string, error)) (string, error) {
	chunks := ChunkByParagraph(text, chunkSize)
	summaries := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		s, err := fn(ctx, chunk)
		if err != nil {
			return "", err
		}
		if s != "" {
			summaries = append(summaries, s)
		}
	}
	return strings.Join(summaries, "\n\n"), nil
}
