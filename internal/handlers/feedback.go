package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"alumind-feedback/internal/models"
)

const maxBodyBytes = 1 << 20

// Classifier runs a submission through spam check, analysis and storage.
type Classifier interface {
	Classify(ctx context.Context, sub models.Submission) (models.AnalysisResult, error)
}

// Summarizer aggregates the trailing window of stored feedback.
type Summarizer interface {
	Summarize(ctx context.Context, now time.Time) (models.WeeklySummary, error)
}

type FeedbackHandler struct {
	classifier Classifier
	summarizer Summarizer
	now        func() time.Time
}

func NewFeedbackHandler(classifier Classifier, summarizer Summarizer) *FeedbackHandler {
	return &FeedbackHandler{
		classifier: classifier,
		summarizer: summarizer,
		now:        time.Now,
	}
}

type SubmitFeedbackRequest struct {
	ID       string `json:"id"`
	Feedback string `json:"feedback"`
}

type FeedbackResponse struct {
	ID            string           `json:"id"`
	Sentiment     models.Sentiment `json:"sentiment"`
	FeatureCode   *string          `json:"feature_code"`
	FeatureReason *string          `json:"feature_reason"`
}

// --- POST /feedbacks ---

func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "invalid_request")
		return
	}

	result, err := h.classifier.Classify(r.Context(), models.Submission{ID: req.ID, Text: req.Feedback})
	if err != nil {
		writeFailure(w, err)
		return
	}

	stored := models.NewFeedback(models.Submission{ID: strings.TrimSpace(req.ID)}, result)
	resp := FeedbackResponse{
		ID:            stored.ID,
		Sentiment:     stored.Sentiment,
		FeatureCode:   stored.FeatureCode,
		FeatureReason: stored.FeatureReason,
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "feedback processed and stored successfully",
		"feedback": resp,
	})
}

// --- GET /feedbacks/summary ---

func (h *FeedbackHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summarizer.Summarize(r.Context(), h.now())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
