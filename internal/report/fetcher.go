package report

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jovemegidio/Zyntra-sub004/internal/config"
	"github.com/jovemegidio/Zyntra-sub004/internal/models"
	"github.com/jovemegidio/Zyntra-sub004/internal/normalize"
	"github.com/jovemegidio/Zyntra-sub004/internal/portal"
)

// sortOrder is the only order the fetcher ever requests: the
// pagination summary is meaningful only when pages are walked in a
// stable sequence.
const sortOrder = "data_asc"

// Query identifies one report request. Filters are applied
// client-side over the fully fetched set, never pushed to the portal,
// so page walking stays deterministic.
type Query struct {
	Start      time.Time
	End        time.Time
	TypeFilter models.CallType
	TextFilter string
}

// Key canonicalizes the query for caching.
func (q Query) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s",
		normalize.FormatPortalDate(q.Start),
		normalize.FormatPortalDate(q.End),
		q.TypeFilter,
		strings.ToLower(strings.TrimSpace(q.TextFilter)))
}

// FetchError reports a pagination walk aborted by a portal failure.
// Pages is the count of pages fully fetched before the abort; partial
// results are discarded, and the next call restarts from page 1.
type FetchError struct {
	Pages int
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("report fetch aborted after %d page(s): %v", e.Pages, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher walks the portal's server-side-paginated calls report and
// turns it into normalized records.
type Fetcher struct {
	cfg      *config.Config
	sessions *portal.Manager
	resolve  func(string) string
}

// NewFetcher creates a report fetcher. resolve maps ramais to
// operator display names and may be nil.
func NewFetcher(cfg *config.Config, sessions *portal.Manager, resolve func(string) string) *Fetcher {
	return &Fetcher{cfg: cfg, sessions: sessions, resolve: resolve}
}

// Fetch acquires a session, drives the portal to the calls report and
// walks every page of it in increasing page order.
func (f *Fetcher) Fetch(ctx context.Context, q Query) ([]models.CallRecord, error) {
	runID := uuid.NewString()[:8]
	started := time.Now()

	sess, err := f.sessions.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	drv := sess.Driver()

	if err := drv.OpenCallsReport(ctx); err != nil {
		f.sessions.Invalidate()
		return nil, &FetchError{Pages: 0, Err: err}
	}

	req := portal.PageRequest{
		StartDate: normalize.FormatPortalDate(q.Start),
		EndDate:   normalize.FormatPortalDate(q.End),
		Sort:      sortOrder,
	}

	var raws []normalize.RawRow
	skipped := 0
	pages := 0

	for page := 1; ; page++ {
		if page > f.cfg.Portal.MaxPages {
			return nil, &FetchError{
				Pages: pages,
				Err:   fmt.Errorf("page limit %d exceeded, pagination summary looks malformed", f.cfg.Portal.MaxPages),
			}
		}

		req.Page = page
		html, err := drv.FetchReportPage(ctx, req)
		if err != nil {
			f.sessions.Invalidate()
			return nil, &FetchError{Pages: pages, Err: err}
		}

		frag, err := parseFragment(html)
		if err != nil {
			return nil, &FetchError{Pages: pages, Err: err}
		}
		pages++
		skipped += frag.skipped

		if frag.empty() {
			break
		}
		raws = append(raws, frag.rows...)

		if frag.total > 0 && frag.shown >= frag.total {
			break
		}
	}

	records := make([]models.CallRecord, 0, len(raws))
	for _, raw := range raws {
		rec, err := normalize.Record(raw, f.resolve)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	records = applyFilters(records, q)

	log.Printf("[Fetcher] run=%s pages=%d rows=%d skipped=%d elapsed=%s",
		runID, pages, len(records), skipped, time.Since(started).Round(time.Millisecond))

	return records, nil
}

// applyFilters is a client-side pass over the already-fetched set.
func applyFilters(records []models.CallRecord, q Query) []models.CallRecord {
	if q.TypeFilter == "" && q.TextFilter == "" {
		return records
	}

	text := strings.ToLower(strings.TrimSpace(q.TextFilter))
	out := records[:0]
	for _, rec := range records {
		if q.TypeFilter != "" && rec.Type != q.TypeFilter {
			continue
		}
		if text != "" && !matchesText(&rec, text) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesText(rec *models.CallRecord, text string) bool {
	for _, field := range []string{rec.Ramal, rec.Operator, rec.Destination, rec.Locality} {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	return false
}
