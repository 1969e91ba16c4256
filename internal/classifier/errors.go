package classifier

import (
	"errors"

	"alumind-feedback/internal/llm"
	"alumind-feedback/internal/repository"
)

// Outcomes a submission can end in besides success. Callers classify them
// with errors.Is; every returned error wraps exactly one of these.
var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrRejectedAsSpam       = errors.New("feedback rejected as spam")
	ErrAmbiguousVerdict     = errors.New("ambiguous spam verdict")
	ErrMalformedModelOutput = errors.New("malformed model output")
	ErrModelUnavailable     = llm.ErrModelUnavailable
	ErrDuplicateID          = repository.ErrDuplicateID
	ErrStorageFault         = errors.New("storage fault")
)

// Outcome names a terminal state for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "completed"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrRejectedAsSpam):
		return "rejected_spam"
	case errors.Is(err, ErrAmbiguousVerdict):
		return "ambiguous_verdict"
	case errors.Is(err, ErrMalformedModelOutput):
		return "malformed_model_output"
	case errors.Is(err, ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, ErrDuplicateID):
		return "duplicate_id"
	case errors.Is(err, ErrStorageFault):
		return "storage_fault"
	default:
		return "internal_error"
	}
}
