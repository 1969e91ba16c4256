package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.FeedbackOutcome("completed")
		m.ObserveModel("gpt", "spam_check", "ok", time.Second)
		m.ObserveHTTP("/health", "GET", "200", time.Millisecond)
		m.ReportRun("sent")
	})
}

func TestCountersRecord(t *testing.T) {
	m := New()

	m.FeedbackOutcome("completed")
	m.FeedbackOutcome("completed")
	m.FeedbackOutcome("rejected_spam")
	m.ReportRun("sent")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.feedbackOutcomes.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.feedbackOutcomes.WithLabelValues("rejected_spam")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reportRuns.WithLabelValues("sent")))
}
