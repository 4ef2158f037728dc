package api

import (
	"net/http"

	"github.com/jovemegidio/Zyntra-sub004/internal/service"
)

// ScraperHandler handles the CDR scraper HTTP requests
type ScraperHandler struct {
	svc *service.Scraper
}

// NewScraperHandler creates a new scraper handler
func NewScraperHandler(svc *service.Scraper) *ScraperHandler {
	return &ScraperHandler{svc: svc}
}

// Status handles GET /api/v1/cdr/status
func (h *ScraperHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.GetStatus())
}

// Origins handles GET /api/v1/cdr/origins
func (h *ScraperHandler) Origins(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	origins := h.svc.ListOrigins(r.Context(), q.Get("start_date"), q.Get("end_date"))
	respondJSON(w, http.StatusOK, origins)
}

// Records handles GET /api/v1/cdr/records
func (h *ScraperHandler) Records(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.FetchRecords(r.Context(),
		q.Get("start_date"), q.Get("end_date"),
		q.Get("type"), q.Get("origin"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid query", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Summary handles GET /api/v1/cdr/summary
func (h *ScraperHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.GetSummary(r.Context(), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid query", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
