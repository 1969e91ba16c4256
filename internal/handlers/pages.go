package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"time"

	"alumind-feedback/internal/models"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

//go:embed web/templates/*.html web/static/*
var webFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"pct": func(p *float64) string {
		if p == nil {
			return "n/a"
		}
		return formatPercent(*p)
	},
	"date": func(t time.Time) string { return t.Format("02/01/2006") },
}).ParseFS(webFS, "web/templates/*.html"))

const summaryCacheKey = "weekly"

// PagesHandler serves the server-rendered dashboard and submission form.
type PagesHandler struct {
	summarizer Summarizer
	cache      *expirable.LRU[string, models.WeeklySummary]
	now        func() time.Time
}

// NewPagesHandler caches the dashboard summary for ttl; ttl <= 0 disables caching.
func NewPagesHandler(summarizer Summarizer, ttl time.Duration) *PagesHandler {
	h := &PagesHandler{summarizer: summarizer, now: time.Now}
	if ttl > 0 {
		h.cache = expirable.NewLRU[string, models.WeeklySummary](1, nil, ttl)
	}
	return h
}

// --- GET /dashboard ---

func (h *PagesHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.cachedSummary()
	if !ok {
		var err error
		summary, err = h.summarizer.Summarize(r.Context(), h.now())
		if err != nil {
			log.Printf("Error building dashboard summary: %v", err)
			http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
			return
		}
		if h.cache != nil {
			h.cache.Add(summaryCacheKey, summary)
		}
	}
	h.render(w, "dashboard.html", summary)
}

// --- GET /submit ---

func (h *PagesHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "submit.html", nil)
}

// Static serves the embedded scripts under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

func (h *PagesHandler) cachedSummary() (models.WeeklySummary, bool) {
	if h.cache == nil {
		return models.WeeklySummary{}, false
	}
	return h.cache.Get(summaryCacheKey)
}

func (h *PagesHandler) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}
