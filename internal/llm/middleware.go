package llm

import (
	"context"
	"errors"
	"log"
	"time"

	"alumind-feedback/internal/metrics"
)

// Middleware decorates a Client with a cross-cutting concern.
type Middleware func(Client) Client

// Wrap applies middlewares left to right: Wrap(c, A, B) == A(B(c)).
func Wrap(inner Client, mws ...Middleware) Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// Timeout bounds every call. An expired deadline is reported as ReasonTimeout.
func Timeout(d time.Duration) Middleware {
	return func(next Client) Client {
		return &timeoutClient{next: next, d: d}
	}
}

type timeoutClient struct {
	next Client
	d    time.Duration
}

func (c *timeoutClient) Name() string { return c.next.Name() }

func (c *timeoutClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.d <= 0 {
		return c.next.Complete(ctx, prompt)
	}
	ctx, cancel := context.WithTimeout(ctx, c.d)
	defer cancel()

	out, err := c.next.Complete(ctx, prompt)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && ReasonOf(err) != ReasonTimeout {
		return "", unavailable(c.Name(), ReasonTimeout, err)
	}
	return out, err
}

// Retry retries retryable failures up to maxAttempts with exponential backoff
// starting at baseDelay. Auth failures and non-model errors are returned at once.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next Client) Client {
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next Client
	max  int
	base time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }

func (r *retrying) Complete(ctx context.Context, prompt string) (string, error) {
	var last error
	for i := 0; i < r.max; i++ {
		out, err := r.next.Complete(ctx, prompt)
		if err == nil {
			return out, nil
		}
		last = err
		if !ReasonOf(err).Retryable() || i == r.max-1 {
			break
		}
		log.Printf("⚠️  %s %s attempt %d/%d failed: %v", r.Name(), OperationFrom(ctx), i+1, r.max, err)
		select {
		case <-ctx.Done():
			return "", unavailable(r.Name(), ReasonTimeout, ctx.Err())
		case <-time.After(r.base * time.Duration(1<<i)):
		}
	}
	return "", last
}

// Instrument records latency and result of every call.
func Instrument(m *metrics.Metrics) Middleware {
	return func(next Client) Client {
		return &instrumented{next: next, m: m}
	}
}

type instrumented struct {
	next Client
	m    *metrics.Metrics
}

func (c *instrumented) Name() string { return c.next.Name() }

func (c *instrumented) Complete(ctx context.Context, prompt string) (string, error) {
	op := OperationFrom(ctx)
	start := time.Now()
	out, err := c.next.Complete(ctx, prompt)
	elapsed := time.Since(start)

	result := "ok"
	if err != nil {
		result = string(ReasonOf(err))
		if result == "" {
			result = "error"
		}
		log.Printf("❌ model %s %s failed after %v: %v", c.Name(), op, elapsed.Round(time.Millisecond), err)
	} else {
		log.Printf("🤖 model %s %s: %d prompt bytes, %d completion bytes in %v", c.Name(), op, len(prompt), len(out), elapsed.Round(time.Millisecond))
	}
	c.m.ObserveModel(c.Name(), op, result, elapsed)
	return out, err
}
