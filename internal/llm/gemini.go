package llm

import (
	"context"
	"errors"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli         *genai.Client
	model       string
	temperature float32
}

func NewGeminiClient(ctx context.Context, apiKey, model string, temperature float32) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model, temperature: temperature}, nil
}

func (g *GeminiClient) Name() string { return "gemini:" + g.model }

// WithTemperature returns a copy sharing the underlying client.
func (g *GeminiClient) WithTemperature(t float32) *GeminiClient {
	cp := *g
	cp.temperature = t
	return &cp
}

func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	temp := g.temperature
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{Temperature: &temp},
	)
	if err != nil {
		return "", g.classify(ctx, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", unavailable(g.Name(), ReasonEmpty, errors.New("no candidates"))
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", unavailable(g.Name(), ReasonEmpty, errors.New("empty candidate"))
	}
	return sb.String(), nil
}

func (g *GeminiClient) classify(ctx context.Context, err error) error {
	if reason, ok := contextReason(ctx, err); ok {
		return unavailable(g.Name(), reason, err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return unavailable(g.Name(), reasonForStatus(apiErr.Code), err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return unavailable(g.Name(), reasonForStatus(apiErrPtr.Code), err)
	}
	return unavailable(g.Name(), ReasonNetwork, err)
}
