package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"alumind-feedback/internal/classifier"
	"alumind-feedback/internal/report"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// writeFailure maps a pipeline or report error onto a stable status and code.
// Model output never reaches the body; only invalid requests echo the error.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, classifier.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_request")
	case errors.Is(err, classifier.ErrRejectedAsSpam):
		writeError(w, http.StatusBadRequest, "feedback rejected as spam", "rejected_spam")
	case errors.Is(err, classifier.ErrDuplicateID):
		writeError(w, http.StatusConflict, "feedback with this id already exists", "duplicate_id")
	case errors.Is(err, classifier.ErrAmbiguousVerdict):
		writeError(w, http.StatusBadGateway, "language model returned an ambiguous spam verdict", "ambiguous_verdict")
	case errors.Is(err, classifier.ErrMalformedModelOutput):
		writeError(w, http.StatusBadGateway, "language model returned malformed output", "malformed_model_output")
	case errors.Is(err, classifier.ErrModelUnavailable):
		writeError(w, http.StatusServiceUnavailable, "language model unavailable", "model_unavailable")
	case errors.Is(err, classifier.ErrStorageFault):
		writeError(w, http.StatusInternalServerError, "failed to store feedback", "storage_fault")
	case errors.Is(err, report.ErrReportInProgress):
		writeError(w, http.StatusConflict, "weekly report already in progress", "report_in_progress")
	case errors.Is(err, report.ErrDeliveryFailed):
		writeError(w, http.StatusBadGateway, "failed to deliver weekly report", "notification_failed")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error", "internal_error")
	}
}
