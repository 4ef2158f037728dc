package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jovemegidio/Zyntra-sub004/internal/normalize"
)

// paginationInfo matches the portal's "Mostrando de 1 até 15 de 20
// registros" summary line.
var paginationInfo = regexp.MustCompile(`(?i)de\s+(\d+)\s+at[eé]\s+(\d+)\s+de\s+(\d+)`)

// fragment is one parsed page of the report.
type fragment struct {
	rows    []normalize.RawRow
	shown   int // cumulative rows shown so far ("até Y")
	total   int // total rows reported by the portal
	skipped int // rows dropped for not matching the expected shape
}

// empty reports whether the portal answered with no rows at all.
func (f *fragment) empty() bool {
	return len(f.rows) == 0
}

// parseFragment extracts the table rows and pagination summary from
// one HTML fragment returned by the portal's data endpoint. Rows with
// fewer than six cells are skipped, not fatal: a single degraded row
// must not sink the report.
func parseFragment(html string) (*fragment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	frag := &fragment{}

	doc.Find("table tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td").Map(func(_ int, td *goquery.Selection) string {
			return strings.TrimSpace(td.Text())
		})
		if len(cells) < 6 {
			frag.skipped++
			return
		}
		frag.rows = append(frag.rows, normalize.RawRow{
			Stamp:       cells[0],
			Ramal:       cells[1],
			Destination: cells[2],
			Locality:    cells[3],
			Duration:    cells[4],
			Value:       cells[5],
		})
	})

	info := strings.TrimSpace(doc.Find(".info-paginacao").Text())
	if m := paginationInfo.FindStringSubmatch(info); m != nil {
		frag.shown, _ = strconv.Atoi(m[2])
		frag.total, _ = strconv.Atoi(m[3])
	}

	return frag, nil
}
