package llm

import (
	"context"
	"fmt"

	"alumind-feedback/internal/config"
	"alumind-feedback/internal/metrics"
)

// Clients holds the two model handles the service needs: a deterministic one
// for classification and a warmer one for the narrative report.
type Clients struct {
	Classifier Client
	Reporter   Client
}

// NewFromConfig builds the configured backend wrapped with timeout, retry and
// instrumentation.
func NewFromConfig(ctx context.Context, cfg config.ModelConfig, m *metrics.Metrics) (*Clients, error) {
	var classifier, reporter Client

	switch cfg.Provider {
	case config.ProviderOpenAI:
		base := NewOpenAIClient(cfg.OpenAIAPIKey, cfg.BaseURL, cfg.ModelName(), cfg.Temperature)
		classifier, reporter = base, base.WithTemperature(cfg.ReportTemperature)
	case config.ProviderGemini:
		base, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.ModelName(), cfg.Temperature)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		classifier, reporter = base, base.WithTemperature(cfg.ReportTemperature)
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}

	wrap := func(c Client) Client {
		return Wrap(c,
			Instrument(m),
			Retry(cfg.MaxAttempts, cfg.RetryBaseDelay),
			Timeout(cfg.Timeout),
		)
	}
	return &Clients{Classifier: wrap(classifier), Reporter: wrap(reporter)}, nil
}
