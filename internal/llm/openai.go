package llm

import (
	"context"
	"errors"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient calls the Chat Completions API of OpenAI or any compatible gateway.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIClient creates a client. An empty baseURL keeps the OpenAI default.
func NewOpenAIClient(apiKey, baseURL, model string, temperature float32) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

func (c *OpenAIClient) Name() string { return "openai:" + c.model }

// WithTemperature returns a copy sharing the HTTP client but sampling differently.
func (c *OpenAIClient) WithTemperature(t float32) *OpenAIClient {
	cp := *c
	cp.temperature = t
	return &cp
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: wireTemperature(c.temperature),
	})
	if err != nil {
		return "", c.classify(ctx, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", unavailable(c.Name(), ReasonEmpty, errors.New("no response choices"))
	}
	return resp.Choices[0].Message.Content, nil
}

// wireTemperature keeps an explicit 0 on the wire. The request field is
// omitempty, so a literal 0 would fall back to the API default of 1.
func wireTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

func (c *OpenAIClient) classify(ctx context.Context, err error) error {
	if reason, ok := contextReason(ctx, err); ok {
		return unavailable(c.Name(), reason, err)
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return unavailable(c.Name(), reasonForStatus(apiErr.HTTPStatusCode), err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return unavailable(c.Name(), reasonForStatus(reqErr.HTTPStatusCode), err)
	}
	return unavailable(c.Name(), ReasonNetwork, err)
}
