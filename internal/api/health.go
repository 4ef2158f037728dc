package api

import (
	"net/http"
	"time"

	"github.com/jovemegidio/Zyntra-sub004/internal/cache"
	"github.com/jovemegidio/Zyntra-sub004/internal/models"
	"github.com/jovemegidio/Zyntra-sub004/internal/service"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	svc     *service.Scraper
	results *cache.ResultCache
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(svc *service.Scraper, results *cache.ResultCache, version string) *HealthHandler {
	return &HealthHandler{svc: svc, results: results, version: version}
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	response := &models.HealthResponse{
		Status:    "ok",
		Service:   "cdr-scraper",
		Version:   h.version,
		Timestamp: time.Now(),
		Portal:    "configured",
		Cache:     "ok",
	}

	status := h.svc.GetStatus()
	if !status.Configured {
		response.Status = "degraded"
		response.Portal = "not configured"
	}

	statusCode := http.StatusOK
	if response.Status != "ok" {
		statusCode = http.StatusServiceUnavailable
	}

	respondJSON(w, statusCode, response)
}

// Stats handles GET /health/stats
func (h *HealthHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{
		"cache":  h.results.Stats(),
		"status": h.svc.GetStatus(),
	}

	respondJSON(w, http.StatusOK, stats)
}
