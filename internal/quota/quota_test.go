package quota

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStartOfDayUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"midday utc",
			time.Date(2026, 8, 30, 13, 45, 12, 0, time.UTC),
			time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			"exactly midnight",
			time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			"late local evening crosses into next utc day",
			time.Date(2026, 8, 29, 22, 30, 0, 0, est),
			time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StartOfDayUTC(tt.in); !got.Equal(tt.want) {
				t.Errorf("StartOfDayUTC(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFileTrackerCounting(t *testing.T) {
	tr := NewFileTracker(filepath.Join(t.TempDir(), "downloads.json"))
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	// Yesterday's event must not count today.
	if err := tr.RecordEvent("u1", day.Add(-2*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := tr.RecordEvent("u1", day.Add(9*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := tr.RecordEvent("u2", day.Add(10*time.Hour)); err != nil {
		t.Fatal(err)
	}

	count, err := tr.CountEventsSince("u1", day)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("u1 count = %d, want 1", count)
	}
	count, _ = tr.CountEventsSince("u2", day)
	if count != 1 {
		t.Errorf("u2 count = %d, want 1", count)
	}
	count, _ = tr.CountEventsSince("unknown", day)
	if count != 0 {
		t.Errorf("unknown user count = %d, want 0", count)
	}
}

func TestFileTrackerBoundaryInclusive(t *testing.T) {
	tr := NewFileTracker(filepath.Join(t.TempDir(), "downloads.json"))
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	if err := tr.RecordEvent("u1", day); err != nil {
		t.Fatal(err)
	}
	count, _ := tr.CountEventsSince("u1", day)
	if count != 1 {
		t.Errorf("event at the boundary counted %d times, want 1", count)
	}
}

func TestFileTrackerPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "downloads.json")
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tr := NewFileTracker(path)
	if err := tr.RecordEvent("u1", at); err != nil {
		t.Fatal(err)
	}

	reopened := NewFileTracker(path)
	count, err := reopened.CountEventsSince("u1", StartOfDayUTC(at))
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("count after reopen = %d, want 1", count)
	}
}
