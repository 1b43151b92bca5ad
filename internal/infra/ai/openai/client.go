package openai

import (
	"context"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/brainscan-api/internal/domain/ai"
	"github.com/bryanwahyu/brainscan-api/internal/infra/ai/prompt"
)

const (
	// BaseURL is the OpenAI compatible endpoint every request goes to.
	BaseURL = "https://openrouter.ai/api/v1"
	// Model is the only model the service talks to.
	Model = "GPT-4.1"
)

// go-openai omits a zero temperature from the request body, which leaves the
// provider default in place. The smallest positive float keeps decoding greedy.
const greedyTemperature = math.SmallestNonzeroFloat32

type Client struct {
	*openai.Client
	Model string
}

// NewClient builds a client for BaseURL and Model. It is safe for concurrent use.
func NewClient(apiKey string) *Client {
	return newClient(apiKey, BaseURL)
}

func newClient(apiKey, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: Model}
}

func (c *Client) Analyze(ctx context.Context, imageBase64 string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.Model,
		Temperature: greedyTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt.GetUserPrompt()},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: prompt.ImageDataURL(imageBase64)},
					},
				},
			},
		},
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ai.ErrEmptyReply
	}

	return resp.Choices[0].Message.Content, nil
}
