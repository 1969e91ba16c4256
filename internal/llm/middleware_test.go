package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"alumind-feedback/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	calls   atomic.Int32
	results []error
	out     string
}

func (s *scriptedClient) Name() string { return "scripted" }

func (s *scriptedClient) Complete(ctx context.Context, prompt string) (string, error) {
	i := int(s.calls.Add(1)) - 1
	if i < len(s.results) && s.results[i] != nil {
		return "", s.results[i]
	}
	return s.out, nil
}

func TestRetryRecoversFromTransientFailure(t *testing.T) {
	inner := &scriptedClient{
		results: []error{unavailable("scripted", ReasonRateLimit, nil), unavailable("scripted", ReasonNetwork, nil)},
		out:     "N",
	}
	c := Wrap(inner, Retry(3, time.Millisecond))

	out, err := c.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "N", out)
	assert.EqualValues(t, 3, inner.calls.Load())
}

func TestRetryStopsOnAuthFailure(t *testing.T) {
	inner := &scriptedClient{results: []error{unavailable("scripted", ReasonAuth, nil)}}
	c := Wrap(inner, Retry(5, time.Millisecond))

	_, err := c.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, ReasonAuth, ReasonOf(err))
	assert.EqualValues(t, 1, inner.calls.Load())
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	fail := unavailable("scripted", ReasonUpstream, nil)
	inner := &scriptedClient{results: []error{fail, fail, fail, fail}}
	c := Wrap(inner, Retry(2, time.Millisecond))

	_, err := c.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModelUnavailable))
	assert.EqualValues(t, 2, inner.calls.Load())
}

func TestSingleAttemptMeansNoRetry(t *testing.T) {
	inner := &scriptedClient{results: []error{unavailable("scripted", ReasonTimeout, nil)}}
	c := Wrap(inner, Retry(1, time.Millisecond))

	_, err := c.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.EqualValues(t, 1, inner.calls.Load())
}

func TestInstrumentPassesThrough(t *testing.T) {
	inner := &scriptedClient{out: "Y"}
	c := Wrap(inner, Instrument(metrics.New()))

	out, err := c.Complete(WithOperation(context.Background(), "spam_check"), "p")
	require.NoError(t, err)
	assert.Equal(t, "Y", out)
	assert.Equal(t, "scripted", c.Name())
}

func TestOperationFromDefaults(t *testing.T) {
	assert.Equal(t, "unknown", OperationFrom(context.Background()))
	assert.Equal(t, "analysis", OperationFrom(WithOperation(context.Background(), "analysis")))
}

func TestUnavailableErrorMatchesSentinel(t *testing.T) {
	err := unavailable("m", ReasonAuth, errors.New("401"))
	assert.True(t, errors.Is(err, ErrModelUnavailable))
	assert.Contains(t, err.Error(), "auth")
	assert.Equal(t, Reason(""), ReasonOf(errors.New("other")))
}
