package classifier

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"alumind-feedback/internal/llm"
	"alumind-feedback/internal/metrics"
	"alumind-feedback/internal/models"
	"alumind-feedback/internal/prompts"
)

const (
	opSpamCheck = "spam_check"
	opAnalysis  = "analysis"
)

// Store is the persistence the pipeline needs.
type Store interface {
	Create(ctx context.Context, f *models.Feedback) error
}

// Pipeline classifies one submission at a time: spam gate, analysis, then a
// single insert. It holds no per-call state and is safe for concurrent use.
type Pipeline struct {
	store     Store
	model     llm.Client
	metrics   *metrics.Metrics
	maxLength int
}

// NewPipeline wires the pipeline. maxLength <= 0 disables the length limit.
func NewPipeline(store Store, model llm.Client, m *metrics.Metrics, maxLength int) *Pipeline {
	return &Pipeline{store: store, model: model, metrics: m, maxLength: maxLength}
}

// Classify runs a submission through the pipeline and returns the stored
// analysis. Errors wrap one of the sentinels in errors.go.
func (p *Pipeline) Classify(ctx context.Context, sub models.Submission) (models.AnalysisResult, error) {
	result, err := p.classify(ctx, sub)
	outcome := Outcome(err)
	p.metrics.FeedbackOutcome(outcome)

	switch {
	case err == nil:
		log.Printf("✅ Feedback %q classified as %s", sub.ID, result.Sentiment)
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrRejectedAsSpam), errors.Is(err, ErrDuplicateID):
		log.Printf("⚠️  Feedback %q not stored (%s): %v", sub.ID, outcome, err)
	default:
		log.Printf("❌ Feedback %q failed (%s): %v", sub.ID, outcome, err)
	}
	return result, err
}

func (p *Pipeline) classify(ctx context.Context, sub models.Submission) (models.AnalysisResult, error) {
	sub, err := p.validate(sub)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	valid, err := p.checkSpam(ctx, sub)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	if !valid {
		return models.AnalysisResult{}, ErrRejectedAsSpam
	}

	result, err := p.analyze(ctx, sub)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	if err := p.store.Create(ctx, models.NewFeedback(sub, result)); err != nil {
		if errors.Is(err, ErrDuplicateID) {
			return models.AnalysisResult{}, fmt.Errorf("feedback %q: %w", sub.ID, err)
		}
		return models.AnalysisResult{}, fmt.Errorf("%w: %v", ErrStorageFault, err)
	}
	return result, nil
}

func (p *Pipeline) validate(sub models.Submission) (models.Submission, error) {
	sub.ID = strings.TrimSpace(sub.ID)
	if sub.ID == "" {
		return sub, fmt.Errorf("%w: id is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(sub.Text) == "" {
		return sub, fmt.Errorf("%w: feedback text is required", ErrInvalidRequest)
	}
	if p.maxLength > 0 && utf8.RuneCountInString(sub.Text) > p.maxLength {
		return sub, fmt.Errorf("%w: feedback text exceeds %d characters", ErrInvalidRequest, p.maxLength)
	}
	return sub, nil
}

func (p *Pipeline) checkSpam(ctx context.Context, sub models.Submission) (bool, error) {
	prompt, err := prompts.SpamCheck(sub)
	if err != nil {
		return false, fmt.Errorf("render spam prompt: %w", err)
	}
	raw, err := p.model.Complete(llm.WithOperation(ctx, opSpamCheck), prompt)
	if err != nil {
		return false, fmt.Errorf("spam check: %w", asUnavailable(p.model, err))
	}
	return ParseSpamVerdict(raw)
}

func (p *Pipeline) analyze(ctx context.Context, sub models.Submission) (models.AnalysisResult, error) {
	prompt, err := prompts.Analysis(sub)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("render analysis prompt: %w", err)
	}
	raw, err := p.model.Complete(llm.WithOperation(ctx, opAnalysis), prompt)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("analysis: %w", asUnavailable(p.model, err))
	}
	return ParseAnalysisResult(raw)
}

// asUnavailable makes sure any client failure reads as ErrModelUnavailable,
// including errors from clients that do not classify their own failures.
func asUnavailable(c llm.Client, err error) error {
	if errors.Is(err, ErrModelUnavailable) {
		return err
	}
	return &llm.UnavailableError{Model: c.Name(), Reason: llm.ReasonUpstream, Err: err}
}
