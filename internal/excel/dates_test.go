package excel

import (
	"testing"

	"github.com/HusseinZein235/SalesAssociate/internal/model"
)

func TestParseExpiry_AcceptedForms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want model.Date
	}{
		{"2025-12-31", model.NewDate(2025, 12, 31)},
		{"2025-1-5", model.NewDate(2025, 1, 5)},
		{"2025/12/31", model.NewDate(2025, 12, 31)},
		{"31/12/2025", model.NewDate(2025, 12, 31)},
		{"31-12-2025", model.NewDate(2025, 12, 31)},
		{"31.12.2025", model.NewDate(2025, 12, 31)},
		{"1/2/2026", model.NewDate(2026, 2, 1)},
		{"08/2027", model.NewDate(2027, 8, 1)},
		{"08/02027", model.NewDate(2027, 8, 1)},
		{"12-2026", model.NewDate(2026, 12, 1)},
		{" 2025-12-31 ", model.NewDate(2025, 12, 31)},
	}

	for _, tc := range cases {
		got := ParseExpiry(tc.raw)
		if got == nil {
			t.Errorf("ParseExpiry(%q) = nil, want %s", tc.raw, tc.want)
			continue
		}
		if *got != tc.want {
			t.Errorf("ParseExpiry(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestParseExpiry_EquivalentForms(t *testing.T) {
	t.Parallel()

	iso := ParseExpiry("2025-12-31")
	slash := ParseExpiry("31/12/2025")
	dash := ParseExpiry("31-12-2025")
	if iso == nil || slash == nil || dash == nil {
		t.Fatal("expected all three forms to parse")
	}
	if *iso != *slash || *iso != *dash {
		t.Errorf("forms disagree: iso=%s slash=%s dash=%s", iso, slash, dash)
	}
}

func TestParseExpiry_Rejected(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"",
		"   ",
		"not a date",
		"31/02/2025", // impossible day
		"13-13-2025",
		"2025-00-10",
		"-5",
	} {
		if got := ParseExpiry(raw); got != nil {
			t.Errorf("ParseExpiry(%q) = %s, want nil", raw, got)
		}
	}
}

func TestParseExpiry_SerialNumber(t *testing.T) {
	t.Parallel()

	got := ParseExpiry("45000")
	if got == nil {
		t.Fatal("ParseExpiry(45000) = nil, want a date")
	}
	want := model.NewDate(2023, 3, 15)
	if *got != want {
		t.Errorf("ParseExpiry(45000) = %s, want %s", got, want)
	}
}
