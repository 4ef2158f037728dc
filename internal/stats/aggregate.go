// Package stats computes summary views over normalized call records.
package stats

import "github.com/jovemegidio/Zyntra-sub004/internal/models"

// Summarize computes totals and groupings for a record set. Pure; an
// empty input yields zero totals and empty (non-nil) groupings. The
// groupings are unordered maps; ordering is the consumer's problem.
func Summarize(records []models.CallRecord) *models.Summary {
	summary := &models.Summary{
		ByRamal: make(map[string]*models.RamalBucket),
		ByType:  make(map[models.CallType]*models.TypeBucket),
		ByHour:  make(map[int]int),
	}

	for i := range records {
		rec := &records[i]

		summary.Total++
		if rec.Answered {
			summary.Answered++
		} else {
			summary.NotAnswered++
		}
		summary.TotalDuration += rec.DurationSec
		summary.TotalValue += rec.Value

		ramal := summary.ByRamal[rec.Ramal]
		if ramal == nil {
			ramal = &models.RamalBucket{Ramal: rec.Ramal, Operator: rec.Operator}
			summary.ByRamal[rec.Ramal] = ramal
		}
		ramal.Count++
		ramal.DurationSec += rec.DurationSec
		ramal.Value += rec.Value

		typ := summary.ByType[rec.Type]
		if typ == nil {
			typ = &models.TypeBucket{}
			summary.ByType[rec.Type] = typ
		}
		typ.Count++
		typ.DurationSec += rec.DurationSec
		typ.Value += rec.Value

		summary.ByHour[rec.Hour()]++
	}

	return summary
}
