package normalize

import (
	"testing"
	"time"

	"github.com/jovemegidio/Zyntra-sub004/internal/models"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"3 min 15 seg", 195},
		{"45 seg", 45},
		{"1 min", 60},
		{"1 h 2 min", 3720},
		{"2 horas 30 min", 9000},
		{"", 0},
		{"-", 0},
		{"abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseDuration(tt.in); got != tt.want {
				t.Errorf("ParseDuration(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"R$ 1,23", 1.23},
		{"R$ 1.234,56", 1234.56},
		{"0,75", 0.75},
		{"", 0},
		{"--", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseMoney(tt.in); got != tt.want {
				t.Errorf("ParseMoney(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("31/08/2026 14:03:22")
	if err != nil {
		t.Fatalf("ParseTimestamp: %v", err)
	}
	want := time.Date(2026, 8, 31, 14, 3, 22, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := ParseTimestamp("2026-08-31 14:03"); err == nil {
		t.Error("expected error for non-portal layout")
	}
}

func TestParseDateBothForms(t *testing.T) {
	iso, err := ParseDate("2026-08-31")
	if err != nil {
		t.Fatalf("ParseDate ISO: %v", err)
	}
	br, err := ParseDate("31/08/2026")
	if err != nil {
		t.Fatalf("ParseDate BR: %v", err)
	}
	if !iso.Equal(br) {
		t.Errorf("forms disagree: %v vs %v", iso, br)
	}
	if FormatPortalDate(iso) != "31/08/2026" {
		t.Errorf("FormatPortalDate = %q", FormatPortalDate(iso))
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		locality string
		want     models.CallType
	}{
		{"SAO PAULO CELULAR", models.CallTypeMobile},
		{"Movel SP", models.CallTypeMobile},
		{"FIXO LOCAL", models.CallTypeFixed},
		{"DDD RIO DE JANEIRO", models.CallTypeFixed},
		{"RAMAL 2004", models.CallTypeInternal},
		{"0800", models.CallTypeOther},
		{"", models.CallTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.locality, func(t *testing.T) {
			if got := Classify(tt.locality); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.locality, got, tt.want)
			}
		})
	}
}

func TestRecordAnsweredState(t *testing.T) {
	raw := RawRow{
		Stamp:       "31/08/2026 09:15:00",
		Ramal:       "2001",
		Destination: "1133334444",
		Locality:    "FIXO LOCAL",
		Duration:    "3 min 15 seg",
		Value:       "R$ 0,50",
	}

	rec, err := Record(raw, func(ramal string) string {
		if ramal == "2001" {
			return "Alice"
		}
		return ""
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	if rec.DurationSec != 195 || !rec.Answered {
		t.Errorf("got duration=%d answered=%v, want 195/true", rec.DurationSec, rec.Answered)
	}
	if rec.Operator != "Alice" {
		t.Errorf("operator = %q, want Alice", rec.Operator)
	}

	raw.Duration = ""
	rec, err = Record(raw, nil)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.DurationSec != 0 || rec.Answered {
		t.Errorf("empty duration: got duration=%d answered=%v, want 0/false", rec.DurationSec, rec.Answered)
	}
	if rec.Operator != "2001" {
		t.Errorf("operator fallback = %q, want 2001", rec.Operator)
	}
}

func TestRecordMalformed(t *testing.T) {
	if _, err := Record(RawRow{Stamp: "not a date", Ramal: "2001"}, nil); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
	if _, err := Record(RawRow{Stamp: "31/08/2026 09:15:00", Ramal: "  "}, nil); err == nil {
		t.Error("expected error for empty ramal")
	}
}
