// Package llm asks a chat-completion language model for an emotional
// analysis of a transcript and for song recommendations matching it.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is the chat model used when none is configured.
	DefaultModel = openai.GPT4oMini

	// DefaultTemperature is the sampling temperature used when none is configured.
	DefaultTemperature = 0.7
)

// ErrEmptyResponse is returned when the model answers with no content.
var ErrEmptyResponse = errors.New("empty model response")

// ChatClient is the subset of the OpenAI client used by this package.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Options configures the chat requests.
type Options struct {
	Model       string
	Temperature float32
}

func (o Options) withDefaults() Options {
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.Temperature == 0 {
		o.Temperature = DefaultTemperature
	}
	return o
}

// completeJSON sends a system prompt plus one user message in JSON-object
// response mode and returns the raw content of the first choice.
func completeJSON(ctx context.Context, client ChatClient, opts Options, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: opts.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrEmptyResponse)
	}

	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return "", fmt.Errorf("model refused: %s", choice.Message.Refusal)
	}

	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
