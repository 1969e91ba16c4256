// Package llm adapts external language models to a single prompt-in,
// text-out operation and classifies their failures.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client sends one fully rendered prompt and returns the raw completion.
type Client interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrModelUnavailable matches every failure of the model collaborator.
var ErrModelUnavailable = errors.New("model unavailable")

// Reason tells why the model was unavailable.
type Reason string

const (
	ReasonTimeout   Reason = "timeout"
	ReasonNetwork   Reason = "network"
	ReasonAuth      Reason = "auth"
	ReasonRateLimit Reason = "rate_limit"
	ReasonUpstream  Reason = "upstream"
	ReasonEmpty     Reason = "empty"
)

// Retryable reports whether another attempt may succeed.
func (r Reason) Retryable() bool {
	switch r {
	case ReasonTimeout, ReasonNetwork, ReasonRateLimit, ReasonUpstream:
		return true
	}
	return false
}

type UnavailableError struct {
	Model  string
	Reason Reason
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: model unavailable (%s)", e.Model, e.Reason)
	}
	return fmt.Sprintf("%s: model unavailable (%s): %v", e.Model, e.Reason, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrModelUnavailable }

// ReasonOf extracts the reason from err, or "" when err is not a model failure.
func ReasonOf(err error) Reason {
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return ue.Reason
	}
	return ""
}

func unavailable(model string, reason Reason, err error) error {
	return &UnavailableError{Model: model, Reason: reason, Err: err}
}

// contextReason classifies a failure caused by the call's own context.
func contextReason(ctx context.Context, err error) (Reason, bool) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ReasonTimeout, true
	}
	if errors.Is(err, context.Canceled) {
		return ReasonNetwork, true
	}
	return "", false
}

// reasonForStatus maps an HTTP status returned by a provider.
func reasonForStatus(status int) Reason {
	switch {
	case status == 401 || status == 403:
		return ReasonAuth
	case status == 429:
		return ReasonRateLimit
	case status == 408 || status == 504:
		return ReasonTimeout
	case status == 0:
		return ReasonNetwork
	default:
		return ReasonUpstream
	}
}

type operationKey struct{}

// WithOperation tags ctx with the logical operation a model call serves.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

// OperationFrom returns the operation set by WithOperation, or "unknown".
func OperationFrom(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey{}).(string); ok && op != "" {
		return op
	}
	return "unknown"
}
