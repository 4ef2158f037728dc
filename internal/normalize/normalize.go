package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jovemegidio/Zyntra-sub004/internal/models"
)

// Timestamp layouts used by the portal's report rows.
const (
	portalStampLayout      = "02/01/2006 15:04:05"
	portalStampShortLayout = "02/01/2006 15:04"
	portalDateLayout       = "02/01/2006"
	isoDateLayout          = "2006-01-02"
)

// RawRow is one table row as extracted from a report fragment, before
// any typing. Field order matches the portal's column order.
type RawRow struct {
	Stamp       string
	Ramal       string
	Destination string
	Locality    string
	Duration    string
	Value       string
}

// ParseTimestamp parses the portal's DD/MM/YYYY HH:MM[:SS] cell.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(portalStampLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(portalStampShortLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q", s)
}

// ParseDate accepts a query date in either YYYY-MM-DD or the portal's
// native DD/MM/YYYY form.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(isoDateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(portalDateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("parse date %q", s)
}

// FormatPortalDate renders a date the way the portal expects it.
func FormatPortalDate(t time.Time) string {
	return t.Format(portalDateLayout)
}

var durationPart = regexp.MustCompile(`(\d+)\s*(h|hora|horas|min|seg)`)

// ParseDuration converts the portal's duration text ("3 min 15 seg",
// "45 seg", "1 h 2 min") into seconds. Empty or unrecognized text
// yields zero, matching an unanswered call.
func ParseDuration(s string) int {
	total := 0
	for _, m := range durationPart.FindAllStringSubmatch(strings.ToLower(s), -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		switch m[2] {
		case "h", "hora", "horas":
			total += n * 3600
		case "min":
			total += n * 60
		case "seg":
			total += n
		}
	}
	if total < 0 {
		return 0
	}
	return total
}

// ParseMoney converts the portal's monetary text ("R$ 1.234,56") into
// a float value. Empty or unrecognized text yields zero.
func ParseMoney(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

var (
	mobileMarkers   = []string{"CELULAR", "MOVEL", "MÓVEL", "VC1", "VC2", "VC3"}
	fixedMarkers    = []string{"FIXO", "LOCAL", "DDD", "LDN"}
	internalMarkers = []string{"RAMAL", "INTERNA", "INTERNO"}
)

// Classify derives the call type from the destination locality label.
func Classify(locality string) models.CallType {
	u := strings.ToUpper(locality)
	for _, m := range mobileMarkers {
		if strings.Contains(u, m) {
			return models.CallTypeMobile
		}
	}
	for _, m := range fixedMarkers {
		if strings.Contains(u, m) {
			return models.CallTypeFixed
		}
	}
	for _, m := range internalMarkers {
		if strings.Contains(u, m) {
			return models.CallTypeInternal
		}
	}
	return models.CallTypeOther
}

// Record builds a typed CallRecord from a raw row. The resolve func
// maps a ramal to its operator display name; normalization falls back
// to the raw ramal when the directory doesn't know it.
func Record(raw RawRow, resolve func(string) string) (models.CallRecord, error) {
	stamp, err := ParseTimestamp(raw.Stamp)
	if err != nil {
		return models.CallRecord{}, fmt.Errorf("row %s/%s: %w", raw.Ramal, raw.Destination, err)
	}

	ramal := strings.TrimSpace(raw.Ramal)
	if ramal == "" {
		return models.CallRecord{}, fmt.Errorf("row at %s: empty ramal", raw.Stamp)
	}

	operator := ramal
	if resolve != nil {
		if name := resolve(ramal); name != "" {
			operator = name
		}
	}

	seconds := ParseDuration(raw.Duration)

	return models.CallRecord{
		Timestamp:    stamp,
		Ramal:        ramal,
		Operator:     operator,
		Destination:  strings.TrimSpace(raw.Destination),
		Locality:     strings.TrimSpace(raw.Locality),
		DurationText: strings.TrimSpace(raw.Duration),
		DurationSec:  seconds,
		Value:        ParseMoney(raw.Value),
		Direction:    "outbound",
		Type:         Classify(raw.Locality),
		Answered:     seconds > 0,
	}, nil
}
