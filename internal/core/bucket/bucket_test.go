package bucket

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"thursday maps back to monday", "2024-03-14T09:30:00Z", "2024-03-11"},
		{"monday maps to itself", "2024-03-11T00:00:00Z", "2024-03-11"},
		{"sunday maps back six days", "2024-03-17T23:59:59Z", "2024-03-11"},
		{"week spanning a month edge", "2024-03-01T12:00:00Z", "2024-02-26"},
		{"week spanning a year edge", "2025-01-01T00:00:00Z", "2024-12-30"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			in, err := time.Parse(time.RFC3339, tc.in)
			if err != nil {
				t.Fatalf("parse fixture: %v", err)
			}
			if got := WeekStart(in); got != tc.want {
				t.Fatalf("WeekStart(%s) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestWeekStart_NormalizesToUTC(t *testing.T) {
	t.Parallel()

	// 23:00 in +02:00 is 21:00 UTC the same day
	loc := time.FixedZone("east", 2*60*60)
	in := time.Date(2024, 3, 18, 1, 0, 0, 0, loc) // monday 01:00 local, sunday 23:00 UTC
	if got := WeekStart(in); got != "2024-03-11" {
		t.Fatalf("expected the UTC week, got %q", got)
	}
}

func TestMonthKey(t *testing.T) {
	t.Parallel()

	in, _ := time.Parse(time.RFC3339, "2024-03-14T09:30:00Z")
	if got := MonthKey(in); got != "2024-03" {
		t.Fatalf("MonthKey = %q", got)
	}

	dec, _ := time.Parse(time.RFC3339, "2024-12-31T23:00:00Z")
	if got := MonthKey(dec); got != "2024-12" {
		t.Fatalf("MonthKey = %q", got)
	}
}
