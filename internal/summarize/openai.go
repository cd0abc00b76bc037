package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/goperspective/internal/llm"
)

const openAISystemPrompt = "You write short abstractive summaries of news text. " +
	"Summarize the user's text in two to four sentences, keeping only facts present in the text. " +
	"Output the summary and nothing else."

// OpenAI implements Summarizer on any OpenAI-compatible chat endpoint,
// including local servers exposing that API.
type OpenAI struct {
	Client    llm.Client
	Model     string
	ChunkSize int // default DefaultChunkSize
}

// sleepFn allows tests to stub the single retry backoff.
var sleepFn = time.Sleep

func (o *OpenAI) Summarize(ctx context.Context, text string) (string, error) {
	if o.Client == nil || strings.TrimSpace(o.Model) == "" {
		return "", fmt.Errorf("%w: summarizer not configured", ErrFailed)
	}
	return summarizeChunks(ctx, text, o.ChunkSize, o.summarizeChunk)
}

func (o *OpenAI) summarizeChunk(ctx context.Context, chunk string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openAISystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: chunk},
		},
		Temperature: 0.1,
		N:           1,
	}
	resp, err := o.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		// Single retry after a short backoff before giving up on the chunk.
		sleepFn(100 * time.Millisecond)
		resp, err = o.Client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrFailed, err)
		}
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %v", ErrFailed, errors.New("model returned no choices"))
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("%w: %v", ErrFailed, errors.New("model returned empty summary"))
	}
	return out, nil
}
