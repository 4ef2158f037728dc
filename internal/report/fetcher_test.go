package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jovemegidio/Zyntra-sub004/internal/config"
	"github.com/jovemegidio/Zyntra-sub004/internal/models"
	"github.com/jovemegidio/Zyntra-sub004/internal/portal"
)

// portalDriver serves canned report fragments keyed by page number.
type portalDriver struct {
	pages     map[int]string
	pageCalls int
	failAt    int // fail the data request for this page, 0 = never
}

func (d *portalDriver) Open(ctx context.Context) error                 { return nil }
func (d *portalDriver) Navigate(ctx context.Context, url string) error { return nil }
func (d *portalDriver) Location(ctx context.Context) (string, error) {
	return "https://portal.example.com/painel/relatorios/chamadas", nil
}
func (d *portalDriver) SubmitLogin(ctx context.Context, user, pass string) error { return nil }
func (d *portalDriver) Probe(ctx context.Context) error                          { return nil }
func (d *portalDriver) OpenCallsReport(ctx context.Context) error                { return nil }
func (d *portalDriver) Close() error                                             { return nil }

func (d *portalDriver) FetchReportPage(ctx context.Context, req portal.PageRequest) (string, error) {
	d.pageCalls++
	if d.failAt != 0 && req.Page == d.failAt {
		return "", errors.New("portal timed out")
	}
	html, ok := d.pages[req.Page]
	if !ok {
		return fragmentHTML(nil, 0, 0), nil
	}
	return html, nil
}

// row renders one report table row.
func row(stamp, ramal, dest, locality, duration, value string) string {
	return fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
		stamp, ramal, dest, locality, duration, value)
}

func fragmentHTML(rows []string, shown, total int) string {
	var b strings.Builder
	b.WriteString("<table><tbody>")
	for _, r := range rows {
		b.WriteString(r)
	}
	b.WriteString("</tbody></table>")
	if total > 0 {
		fmt.Fprintf(&b, `<div class="info-paginacao">Mostrando de %d até %d de %d registros</div>`,
			shown-len(rows)+1, shown, total)
	} else {
		b.WriteString(`<div class="info-paginacao">Nenhum registro encontrado</div>`)
	}
	return b.String()
}

func testSetup(t *testing.T, drv portal.Driver) *Fetcher {
	t.Helper()
	cfg := config.Default()
	cfg.Portal.URL = "https://portal.example.com"
	cfg.Portal.Username = "empresa01"
	cfg.Portal.Password = "secret"
	sessions := portal.NewManager(cfg, func() portal.Driver { return drv })
	return NewFetcher(cfg, sessions, nil)
}

func testQuery() Query {
	return Query{
		Start: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}
}

// twoPageDriver builds the canonical two-page report: 15 rows then 5,
// summary "20 de 20" on page 2. Boundary dates included.
func twoPageDriver() *portalDriver {
	var page1, page2 []string
	page1 = append(page1, row("01/08/2026 00:00:00", "2001", "1133334444", "FIXO LOCAL", "1 min", "R$ 0,10"))
	for i := 1; i < 15; i++ {
		page1 = append(page1, row(
			fmt.Sprintf("%02d/08/2026 10:00:00", i),
			"2001", "11988887777", "SAO PAULO CELULAR", "2 min", "R$ 0,90"))
	}
	for i := 0; i < 4; i++ {
		page2 = append(page2, row(
			fmt.Sprintf("2%d/08/2026 16:30:00", i),
			"2002", "2122223333", "DDD RIO DE JANEIRO", "", ""))
	}
	page2 = append(page2, row("31/08/2026 23:59:59", "2002", "1144445555", "FIXO LOCAL", "45 seg", "R$ 0,15"))

	return &portalDriver{pages: map[int]string{
		1: fragmentHTML(page1, 15, 20),
		2: fragmentHTML(page2, 20, 20),
	}}
}

func TestFetchWalksAllPages(t *testing.T) {
	drv := twoPageDriver()
	f := testSetup(t, drv)
	q := testQuery()

	records, err := f.Fetch(context.Background(), q)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(records) != 20 {
		t.Fatalf("got %d records, want 20", len(records))
	}
	if drv.pageCalls != 2 {
		t.Errorf("pageCalls = %d, want 2 (must stop once shown == total)", drv.pageCalls)
	}

	for _, rec := range records {
		if rec.Timestamp.Before(q.Start) || rec.Timestamp.After(q.End.Add(24*time.Hour)) {
			t.Errorf("record at %v outside query range", rec.Timestamp)
		}
	}
}

func TestFetchEmptyReport(t *testing.T) {
	drv := &portalDriver{pages: map[int]string{}}
	f := testSetup(t, drv)

	records, err := f.Fetch(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	if drv.pageCalls != 1 {
		t.Errorf("pageCalls = %d, want 1", drv.pageCalls)
	}
}

func TestFetchSkipsMalformedRows(t *testing.T) {
	rows := []string{
		row("05/08/2026 09:00:00", "2001", "1133334444", "FIXO LOCAL", "1 min", "R$ 0,10"),
		"<tr><td>linha quebrada</td></tr>",
		row("não é data", "2001", "1133334444", "FIXO LOCAL", "1 min", "R$ 0,10"),
	}
	drv := &portalDriver{pages: map[int]string{
		1: fragmentHTML(rows, 3, 3),
	}}
	f := testSetup(t, drv)

	records, err := f.Fetch(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1 (malformed rows skipped, not fatal)", len(records))
	}
}

func TestFetchClientSideFilters(t *testing.T) {
	drv := twoPageDriver()
	f := testSetup(t, drv)

	q := testQuery()
	q.TypeFilter = models.CallTypeMobile
	records, err := f.Fetch(context.Background(), q)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 14 {
		t.Errorf("mobile filter: got %d records, want 14", len(records))
	}

	q = testQuery()
	q.TextFilter = "2002"
	records, err = f.Fetch(context.Background(), q)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 5 {
		t.Errorf("text filter: got %d records, want 5", len(records))
	}
}

func TestFetchAbortsWithPartialPageCount(t *testing.T) {
	drv := twoPageDriver()
	drv.failAt = 2
	f := testSetup(t, drv)

	_, err := f.Fetch(context.Background(), testQuery())
	if err == nil {
		t.Fatal("expected fetch failure")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fetchErr.Pages != 1 {
		t.Errorf("Pages = %d, want 1", fetchErr.Pages)
	}
}

func TestFetchPageSafetyBound(t *testing.T) {
	// A portal whose summary never converges must not loop forever.
	rows := []string{row("05/08/2026 09:00:00", "2001", "1133334444", "FIXO LOCAL", "1 min", "R$ 0,10")}
	stuck := fragmentHTML(rows, 1, 99)

	drv := &portalDriver{pages: map[int]string{}}
	for p := 1; p <= 10; p++ {
		drv.pages[p] = stuck
	}

	cfg := config.Default()
	cfg.Portal.URL = "https://portal.example.com"
	cfg.Portal.Username = "empresa01"
	cfg.Portal.Password = "secret"
	cfg.Portal.MaxPages = 3
	sessions := portal.NewManager(cfg, func() portal.Driver { return drv })
	f := NewFetcher(cfg, sessions, nil)

	_, err := f.Fetch(context.Background(), testQuery())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError from the page cap, got %v", err)
	}
	if drv.pageCalls != 3 {
		t.Errorf("pageCalls = %d, want 3", drv.pageCalls)
	}
}

func TestQueryKeyCanonical(t *testing.T) {
	a := Query{Start: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), TextFilter: "  Alice "}
	b := Query{Start: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), TextFilter: "alice"}
	if a.Key() != b.Key() {
		t.Errorf("keys differ: %q vs %q", a.Key(), b.Key())
	}
	if !strings.Contains(a.Key(), "01/08/2026") {
		t.Errorf("key should carry portal-format dates: %q", a.Key())
	}
}
