package cluster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/goperspective/internal/llm"
)

// LLM groups articles by asking a chat model to assign each article index to
// a named perspective. The model only ever returns indices, so its output
// can be mapped back onto the exact input texts and validated.
type LLM struct {
	Client llm.Client
	Model  string
	// MaxClusters caps the number of perspectives requested. Zero means 3.
	MaxClusters int
}

const llmSystemPrompt = "You group news articles by the viewpoint they take on a topic. " +
	"Reply with a single JSON object mapping perspective names to arrays of zero-based article indices. " +
	"Every index appears at most once, no perspective is empty, and you output nothing but the JSON object."

func (c *LLM) Cluster(ctx context.Context, articles []string) (Partition, error) {
	if len(articles) == 0 {
		return nil, ErrEmptyInput
	}
	if c.Client == nil || strings.TrimSpace(c.Model) == "" {
		return nil, errors.New("llm clusterer not configured")
	}
	maxClusters := c.MaxClusters
	if maxClusters <= 0 {
		maxClusters = 3
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Group these %d articles into at most %d perspectives.\n", len(articles), maxClusters)
	for i, a := range articles {
		fmt.Fprintf(&sb, "\n--- Article %d ---\n%s\n", i, truncateForPrompt(a, 1500))
	}

	resp, err := c.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: llmSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
		Temperature: 0.1,
		N:           1,
	})
	if err != nil {
		return nil, &FailedError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &FailedError{Err: errors.New("model returned no choices")}
	}
	return partitionFromIndices(articles, resp.Choices[0].Message.Content)
}

func partitionFromIndices(articles []string, content string) (Partition, error) {
	content = strings.TrimSpace(content)
	// Models sometimes wrap JSON in a fence despite instructions.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw map[string][]int
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, &FailedError{Stderr: content, Err: errors.New("failed to parse clustering output")}
	}
	used := make(map[int]bool, len(articles))
	partition := make(Partition, len(raw))
	for key, indices := range raw {
		var members []string
		for _, idx := range indices {
			if idx < 0 || idx >= len(articles) || used[idx] {
				continue
			}
			used[idx] = true
			members = append(members, articles[idx])
		}
		if len(members) > 0 {
			partition[key] = members
		}
	}
	if len(partition) == 0 {
		return nil, &FailedError{Stderr: content, Err: errors.New("model assigned no articles")}
	}
	return partition, nil
}

func truncateForPrompt(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
