package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"alumind-feedback/internal/middleware"
)

// Reports builds and sends the weekly report on demand.
type Reports interface {
	BuildWeeklyReport(ctx context.Context, now time.Time) (string, error)
	SendWeeklyReport(ctx context.Context, now time.Time) error
}

type ReportHandler struct {
	reports Reports
	now     func() time.Time
}

func NewReportHandler(reports Reports) *ReportHandler {
	return &ReportHandler{reports: reports, now: time.Now}
}

// --- POST /admin/reports/weekly ---

func (h *ReportHandler) SendWeekly(w http.ResponseWriter, r *http.Request) {
	log.Printf("📊 Weekly report requested by %s", middleware.GetSubject(r.Context()))

	if err := h.reports.SendWeeklyReport(r.Context(), h.now()); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "weekly report sent"})
}

// --- GET /admin/reports/weekly/preview ---

func (h *ReportHandler) PreviewWeekly(w http.ResponseWriter, r *http.Request) {
	html, err := h.reports.BuildWeeklyReport(r.Context(), h.now())
	if err != nil {
		writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}
