package leaderboard

import (
	"testing"
	"time"
)

func TestComputeWindow(t *testing.T) {
	pst := time.FixedZone("PST", -8*3600)
	tests := []struct {
		name     string
		now      time.Time
		wantFrom string
		wantTo   string
	}{
		{"mid month", time.Date(2024, 5, 17, 14, 3, 0, 0, time.UTC), "2024-05-01", "2024-05-17"},
		{"first of month", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), "2024-07-01", "2024-07-01"},
		{"leap day", time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), "2024-02-01", "2024-02-29"},
		{"year end", time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC), "2023-12-01", "2023-12-31"},
		{"single digit padding", time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC), "2025-03-01", "2025-03-09"},
		// 23:30 PST on May 31 is already June 1 in UTC; the local calendar wins.
		{"local calendar not utc", time.Date(2024, 5, 31, 23, 30, 0, 0, pst), "2024-05-01", "2024-05-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ComputeWindow(tt.now)
			if got := w.FromString(); got != tt.wantFrom {
				t.Errorf("From = %s, want %s", got, tt.wantFrom)
			}
			if got := w.ToString(); got != tt.wantTo {
				t.Errorf("To = %s, want %s", got, tt.wantTo)
			}
		})
	}
}

func TestComputeWindowEveryDayOfYear(t *testing.T) {
	day := time.Date(2024, 1, 1, 18, 45, 0, 0, time.Local)
	for i := 0; i < 366; i++ {
		now := day.AddDate(0, 0, i)
		w := ComputeWindow(now)
		if w.From.After(w.To) {
			t.Fatalf("%s: From %s after To %s", now, w.FromString(), w.ToString())
		}
		if w.From.Day() != 1 || w.From.Month() != now.Month() || w.From.Year() != now.Year() {
			t.Fatalf("%s: From = %s, want first of month", now, w.FromString())
		}
		if w.ToString() != now.Format(DateLayout) {
			t.Fatalf("%s: To = %s, want %s", now, w.ToString(), now.Format(DateLayout))
		}
		if len(w.FromString()) != 10 || len(w.ToString()) != 10 {
			t.Fatalf("%s: dates not zero padded: %s %s", now, w.FromString(), w.ToString())
		}
	}
}
