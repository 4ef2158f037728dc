// Package service exposes the scraper's public operations to the rest
// of the ERP. One Scraper instance owns the session, the result cache
// and the directory; it is constructed once per process and passed by
// reference to the route layer.
package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/jovemegidio/Zyntra-sub004/internal/cache"
	"github.com/jovemegidio/Zyntra-sub004/internal/config"
	"github.com/jovemegidio/Zyntra-sub004/internal/directory"
	"github.com/jovemegidio/Zyntra-sub004/internal/models"
	"github.com/jovemegidio/Zyntra-sub004/internal/normalize"
	"github.com/jovemegidio/Zyntra-sub004/internal/portal"
	"github.com/jovemegidio/Zyntra-sub004/internal/report"
	"github.com/jovemegidio/Zyntra-sub004/internal/stats"
)

// RecordSource is the slice of the result cache the facade uses.
type RecordSource interface {
	GetOrFetch(ctx context.Context, q report.Query) ([]models.CallRecord, error)
	Stats() cache.Stats
}

// Scraper composes the session manager, result cache and aggregator
// behind the operations consumed by the ERP's route layer.
type Scraper struct {
	cfg      *config.Config
	sessions *portal.Manager
	source   RecordSource
	dir      *directory.Directory
}

// New creates the service facade.
func New(cfg *config.Config, sessions *portal.Manager, source RecordSource, dir *directory.Directory) *Scraper {
	return &Scraper{cfg: cfg, sessions: sessions, source: source, dir: dir}
}

// GetStatus reports configuration presence, session state and cache
// liveness. Read-only; it never touches the portal.
func (s *Scraper) GetStatus() models.Status {
	authenticated, lastAuth := s.sessions.Status()

	var lastAuthStr *string
	if !lastAuth.IsZero() {
		v := lastAuth.Format(time.RFC3339)
		lastAuthStr = &v
	}

	cacheStats := s.source.Stats()

	return models.Status{
		Configured:    s.cfg.PortalConfigured(),
		URL:           s.cfg.Portal.URL,
		Username:      s.cfg.MaskedUsername(),
		Authenticated: authenticated,
		LastAuthTime:  lastAuthStr,
		CacheActive:   cacheStats.FreshEntries > 0,
		CachedRecords: cacheStats.Records,
	}
}

// ListOrigins returns the distinct ramais seen in the date range with
// resolved operator names. When the live fetch fails the static
// directory is returned instead, so the caller always gets a usable
// list.
func (s *Scraper) ListOrigins(ctx context.Context, start, end string) []models.Origin {
	q, _, err := s.parseQuery(start, end, "", "")
	if err != nil {
		return s.dir.All()
	}

	records, err := s.source.GetOrFetch(ctx, q)
	if err != nil {
		log.Printf("[Scraper] origins fetch failed, falling back to directory: %v", err)
		return s.dir.All()
	}

	seen := make(map[string]bool)
	origins := []models.Origin{}
	for i := range records {
		rec := &records[i]
		if seen[rec.Ramal] {
			continue
		}
		seen[rec.Ramal] = true
		origins = append(origins, models.Origin{Ramal: rec.Ramal, Name: rec.Operator})
	}
	sort.Slice(origins, func(i, j int) bool {
		return origins[i].Ramal < origins[j].Ramal
	})
	return origins
}

// FetchRecords returns the call records for a date range. Portal
// failures degrade to an empty-shaped result with the error set, so
// dependent dashboards stay renderable.
func (s *Scraper) FetchRecords(ctx context.Context, start, end, typeFilter, originFilter string) (*models.RecordsResult, error) {
	q, period, err := s.parseQuery(start, end, typeFilter, originFilter)
	if err != nil {
		return nil, err
	}

	result := &models.RecordsResult{Period: period, Records: []models.CallRecord{}}

	records, err := s.source.GetOrFetch(ctx, q)
	if err != nil {
		log.Printf("[Scraper] records fetch failed: %v", err)
		result.Error = err.Error()
		return result, nil
	}

	result.Records = records
	result.Total = len(records)
	return result, nil
}

// GetSummary returns the aggregate view of a date range, with the
// same degradation behavior as FetchRecords.
func (s *Scraper) GetSummary(ctx context.Context, start, end string) (*models.SummaryResult, error) {
	q, period, err := s.parseQuery(start, end, "", "")
	if err != nil {
		return nil, err
	}

	result := &models.SummaryResult{Period: period}

	records, err := s.source.GetOrFetch(ctx, q)
	if err != nil {
		log.Printf("[Scraper] summary fetch failed: %v", err)
		result.Summary = stats.Summarize(nil)
		result.Error = err.Error()
		return result, nil
	}

	result.Summary = stats.Summarize(records)
	return result, nil
}

// Shutdown tears down the browser session. Idempotent; meant to be
// called on process exit.
func (s *Scraper) Shutdown() {
	s.sessions.Shutdown()
}

// parseQuery normalizes the accepted date forms (YYYY-MM-DD or
// DD/MM/YYYY, both days default to today when empty) and validates
// the call-type filter.
func (s *Scraper) parseQuery(start, end, typeFilter, originFilter string) (report.Query, models.Period, error) {
	if !s.cfg.PortalConfigured() {
		return report.Query{}, models.Period{}, fmt.Errorf("portal is not configured")
	}

	today := time.Now().Format("2006-01-02")
	if start == "" {
		start = today
	}
	if end == "" {
		end = today
	}

	startDate, err := normalize.ParseDate(start)
	if err != nil {
		return report.Query{}, models.Period{}, fmt.Errorf("invalid start date: %w", err)
	}
	endDate, err := normalize.ParseDate(end)
	if err != nil {
		return report.Query{}, models.Period{}, fmt.Errorf("invalid end date: %w", err)
	}
	if endDate.Before(startDate) {
		return report.Query{}, models.Period{}, fmt.Errorf("end date before start date")
	}

	var callType models.CallType
	switch models.CallType(typeFilter) {
	case "", models.CallTypeMobile, models.CallTypeFixed, models.CallTypeInternal, models.CallTypeOther:
		callType = models.CallType(typeFilter)
	default:
		return report.Query{}, models.Period{}, fmt.Errorf("unknown call type %q", typeFilter)
	}

	q := report.Query{
		Start:      startDate,
		End:        endDate,
		TypeFilter: callType,
		TextFilter: originFilter,
	}
	period := models.Period{
		Start: normalize.FormatPortalDate(startDate),
		End:   normalize.FormatPortalDate(endDate),
	}
	return q, period, nil
}
