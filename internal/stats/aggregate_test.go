package stats

import (
	"math"
	"testing"
	"time"

	"github.com/jovemegidio/Zyntra-sub004/internal/models"
)

func TestSummarizeThreeRecords(t *testing.T) {
	records := []models.CallRecord{
		{
			Timestamp:   time.Date(2026, 8, 10, 9, 15, 0, 0, time.UTC),
			Ramal:       "2001",
			Operator:    "Alice",
			DurationSec: 60,
			Value:       0.50,
			Type:        models.CallTypeMobile,
			Answered:    true,
		},
		{
			Timestamp:   time.Date(2026, 8, 10, 9, 45, 0, 0, time.UTC),
			Ramal:       "2001",
			Operator:    "Alice",
			DurationSec: 30,
			Value:       0.10,
			Type:        models.CallTypeFixed,
			Answered:    true,
		},
		{
			Timestamp:   time.Date(2026, 8, 10, 14, 0, 0, 0, time.UTC),
			Ramal:       "2002",
			Operator:    "Bruno",
			DurationSec: 0,
			Type:        models.CallTypeFixed,
			Answered:    false,
		},
	}

	s := Summarize(records)

	if s.Total != 3 || s.Answered != 2 || s.NotAnswered != 1 {
		t.Errorf("totals = %d/%d/%d, want 3/2/1", s.Total, s.Answered, s.NotAnswered)
	}
	if s.TotalDuration != 90 {
		t.Errorf("TotalDuration = %d, want 90", s.TotalDuration)
	}
	if math.Abs(s.TotalValue-0.60) > 1e-9 {
		t.Errorf("TotalValue = %v, want 0.60", s.TotalValue)
	}

	alice := s.ByRamal["2001"]
	if alice == nil || alice.Count != 2 || alice.DurationSec != 90 || alice.Operator != "Alice" {
		t.Errorf("ByRamal[2001] = %+v, want count=2 duration=90 operator=Alice", alice)
	}

	fixed := s.ByType[models.CallTypeFixed]
	if fixed == nil || fixed.Count != 2 || fixed.DurationSec != 30 {
		t.Errorf("ByType[fixed] = %+v, want count=2 duration=30", fixed)
	}

	if s.ByHour[9] != 2 || s.ByHour[14] != 1 {
		t.Errorf("ByHour = %v, want 9:2 14:1", s.ByHour)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	if s.Total != 0 || s.TotalDuration != 0 || s.TotalValue != 0 {
		t.Errorf("empty summary has non-zero totals: %+v", s)
	}
	if s.ByRamal == nil || s.ByType == nil || s.ByHour == nil {
		t.Error("groupings must be empty maps, not nil")
	}
	if len(s.ByRamal) != 0 || len(s.ByType) != 0 || len(s.ByHour) != 0 {
		t.Error("groupings must be empty")
	}
}
