package adapter

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI is the interface for OpenAI-compatible chat completion endpoints.
// A custom base URL allows pointing at compatible providers such as Groq.
type OpenAI interface {
	Generate(ctx context.Context, systemPrompt, input string) (string, error)
}

type openaiClient struct {
	client      *openai.Client
	model       string
	temperature float64
}

type OpenAIOption func(*openaiClient)

func WithOpenAIModel(model string) OpenAIOption {
	return func(c *openaiClient) {
		c.model = model
	}
}

func WithOpenAITemperature(t float64) OpenAIOption {
	return func(c *openaiClient) {
		c.temperature = t
	}
}

// NewOpenAI creates a chat completion client. baseURL may be empty to use
// the default OpenAI endpoint.
func NewOpenAI(apiKey, baseURL string, opts ...OpenAIOption) OpenAI {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(reqOpts...)

	c := &openaiClient{
		client:      &client,
		model:       "gpt-4o-mini",
		temperature: 0.1,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *openaiClient) Generate(ctx context.Context, systemPrompt, input string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Temperature: openai.Float(c.temperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(input),
		},
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to call chat completion", goerr.V("model", c.model))
	}

	if len(resp.Choices) == 0 {
		return "", goerr.New("empty response from model", goerr.V("model", c.model))
	}

	return resp.Choices[0].Message.Content, nil
}
