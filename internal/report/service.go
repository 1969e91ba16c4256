package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"

	"alumind-feedback/internal/classifier"
	"alumind-feedback/internal/llm"
	"alumind-feedback/internal/metrics"
	"alumind-feedback/internal/models"
	"alumind-feedback/internal/notify"
	"alumind-feedback/internal/prompts"

	"github.com/google/uuid"
)

const opWeeklyReport = "weekly_report"

var (
	// ErrReportInProgress is returned when another report run holds the lock.
	ErrReportInProgress = errors.New("weekly report already in progress")
	// ErrDeliveryFailed wraps notifier failures.
	ErrDeliveryFailed = errors.New("report delivery failed")
)

var htmlTag = regexp.MustCompile(`<[a-zA-Z!/][^>]*>`)

// Source is the read side of the feedback store.
type Source interface {
	SentimentCounts(ctx context.Context, from, to time.Time) (map[models.Sentiment]int64, error)
	FeatureCounts(ctx context.Context, from, to time.Time) ([]models.FeatureCount, error)
}

type Service struct {
	source   Source
	model    llm.Client
	notifier notify.Notifier
	metrics  *metrics.Metrics
	window   time.Duration

	running sync.Mutex
}

func NewService(source Source, model llm.Client, notifier notify.Notifier, m *metrics.Metrics, window time.Duration) *Service {
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	return &Service{source: source, model: model, notifier: notifier, metrics: m, window: window}
}

// Summarize aggregates the feedback stored in [now-window, now].
func (s *Service) Summarize(ctx context.Context, now time.Time) (models.WeeklySummary, error) {
	from := now.Add(-s.window)

	counts, err := s.source.SentimentCounts(ctx, from, now)
	if err != nil {
		return models.WeeklySummary{}, fmt.Errorf("count sentiments: %w", err)
	}
	features, err := s.source.FeatureCounts(ctx, from, now)
	if err != nil {
		return models.WeeklySummary{}, fmt.Errorf("count feature requests: %w", err)
	}
	if features == nil {
		features = []models.FeatureCount{}
	}

	summary := models.WeeklySummary{
		Start:           from,
		End:             now,
		Sentiments:      sentimentStats(counts),
		FeatureRequests: features,
	}
	for _, st := range summary.Sentiments {
		summary.Total += st.Count
	}
	return summary, nil
}

// sentimentStats lists every sentiment in fixed order. Percentages are taken
// over decisive rows only.
func sentimentStats(counts map[models.Sentiment]int64) []models.SentimentStat {
	var decisive int64
	for _, s := range models.Sentiments {
		if s.Decisive() {
			decisive += counts[s]
		}
	}

	stats := make([]models.SentimentStat, 0, len(models.Sentiments))
	for _, s := range models.Sentiments {
		st := models.SentimentStat{Sentiment: s, Count: counts[s]}
		if s.Decisive() && decisive > 0 {
			pct := math.Round(float64(st.Count)/float64(decisive)*1000) / 10
			st.Percentage = &pct
		}
		stats = append(stats, st)
	}
	return stats
}

// BuildWeeklyReport asks the model for the HTML report of the window ending
// at now. The completion is returned verbatim.
func (s *Service) BuildWeeklyReport(ctx context.Context, now time.Time) (string, error) {
	summary, err := s.Summarize(ctx, now)
	if err != nil {
		return "", err
	}
	prompt, err := prompts.WeeklyReport(summary)
	if err != nil {
		return "", err
	}

	html, err := s.model.Complete(llm.WithOperation(ctx, opWeeklyReport), prompt)
	if err != nil {
		return "", fmt.Errorf("weekly report: %w", err)
	}
	if strings.TrimSpace(html) == "" || !htmlTag.MatchString(html) {
		return "", fmt.Errorf("%w: report completion is not HTML (%d bytes)", classifier.ErrMalformedModelOutput, len(html))
	}
	return html, nil
}

// SendWeeklyReport builds the report and hands it to the notifier. Only one
// run may be active at a time.
func (s *Service) SendWeeklyReport(ctx context.Context, now time.Time) error {
	if !s.running.TryLock() {
		s.metrics.ReportRun("skipped")
		return ErrReportInProgress
	}
	defer s.running.Unlock()

	runID := uuid.NewString()
	log.Printf("📊 Weekly report run %s started", runID)

	html, err := s.BuildWeeklyReport(ctx, now)
	if err != nil {
		s.metrics.ReportRun("build_failed")
		log.Printf("❌ Weekly report run %s failed to build: %v", runID, err)
		return err
	}

	msg := notify.Message{
		Subject: "Relatório semanal de feedbacks - " + now.Format("2006-01-02"),
		HTML:    html,
		RefID:   runID,
	}
	if err := s.notifier.Publish(ctx, msg); err != nil {
		s.metrics.ReportRun("send_failed")
		log.Printf("❌ Weekly report run %s failed to send: %v", runID, err)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	s.metrics.ReportRun("sent")
	log.Printf("✅ Weekly report run %s sent", runID)
	return nil
}
