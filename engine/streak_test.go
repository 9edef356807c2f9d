package engine

import (
	"testing"
	"time"

	"github.com/example/salahtrack/dates"
	"github.com/example/salahtrack/models"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := dates.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

// fullDay builds a record with all five slots completed on time.
func fullDay(userID uint, date string) models.PrayerRecord {
	rec := models.PrayerRecord{UserID: userID, Date: date}
	for _, slot := range models.Slots {
		rec.SetStatus(slot, models.PrayerStatus{Completed: true, OnTime: true})
	}
	return rec
}

// partialDay builds a record with the first n slots completed, none on time.
func partialDay(userID uint, date string, n int) models.PrayerRecord {
	rec := models.PrayerRecord{UserID: userID, Date: date}
	for i, slot := range models.Slots {
		if i < n {
			rec.SetStatus(slot, models.PrayerStatus{Completed: true})
		}
	}
	return rec
}

func fullRange(t *testing.T, userID uint, start, end string) []models.PrayerRecord {
	t.Helper()
	days, err := dates.Enumerate(day(t, start), day(t, end))
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	out := make([]models.PrayerRecord, 0, len(days))
	for _, d := range days {
		out = append(out, fullDay(userID, d))
	}
	return out
}

func TestComputeStatisticsEmpty(t *testing.T) {
	today := day(t, "2024-01-10")
	stats := ComputeStatistics(nil, today)

	if stats.CurrentStreak != 0 || stats.BestStreak != 0 || stats.TotalPrayers != 0 {
		t.Errorf("empty history: got %+v, want zeros", stats)
	}
	if stats.BestStreak < stats.CurrentStreak {
		t.Error("BestStreak < CurrentStreak on empty history")
	}
	if stats.LastStreakUpdate != "2024-01-10" {
		t.Errorf("LastStreakUpdate = %s, want 2024-01-10", stats.LastStreakUpdate)
	}
}

func TestCurrentStreakBreaksOnGap(t *testing.T) {
	records := fullRange(t, 1, "2024-01-01", "2024-01-03")
	records = append(records, fullDay(1, "2024-01-05"))

	stats := ComputeStatistics(records, day(t, "2024-01-05"))
	if stats.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1 (gap on 01-04 breaks the run)", stats.CurrentStreak)
	}
	if stats.BestStreak != 3 {
		t.Errorf("BestStreak = %d, want 3", stats.BestStreak)
	}
}

func TestCurrentStreakStopsOnIncompleteDay(t *testing.T) {
	records := fullRange(t, 1, "2024-01-01", "2024-01-02")
	records = append(records, partialDay(1, "2024-01-03", 4))
	records = append(records, fullRange(t, 1, "2024-01-04", "2024-01-05")...)

	stats := ComputeStatistics(records, day(t, "2024-01-05"))
	if stats.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", stats.CurrentStreak)
	}
	if stats.BestStreak != 2 {
		t.Errorf("BestStreak = %d, want 2", stats.BestStreak)
	}
}

func TestBestStreakAtLeastCurrent(t *testing.T) {
	histories := [][]models.PrayerRecord{
		nil,
		fullRange(t, 1, "2024-01-01", "2024-01-07"),
		append(fullRange(t, 1, "2024-01-01", "2024-01-03"), fullDay(1, "2024-01-05")),
		{partialDay(1, "2024-01-01", 2)},
	}
	for i, records := range histories {
		stats := ComputeStatistics(records, day(t, "2024-02-01"))
		if stats.BestStreak < stats.CurrentStreak {
			t.Errorf("history %d: BestStreak %d < CurrentStreak %d", i, stats.BestStreak, stats.CurrentStreak)
		}
	}
}

func TestLifetimeTotals(t *testing.T) {
	records := []models.PrayerRecord{
		fullDay(1, "2024-01-01"),        // 5 completed, 5 on time
		partialDay(1, "2024-01-03", 3),  // 3 completed, 2 missed
		partialDay(1, "2024-01-07", 0),  // 5 missed
	}

	stats := ComputeStatistics(records, day(t, "2024-01-07"))
	if stats.TotalPrayers != 8 {
		t.Errorf("TotalPrayers = %d, want 8", stats.TotalPrayers)
	}
	if stats.OnTimePrayers != 5 {
		t.Errorf("OnTimePrayers = %d, want 5", stats.OnTimePrayers)
	}
	// Only observed slots count: the absent 01-02 and 01-04..06 are not
	// retroactively missed in the lifetime pass.
	if stats.QazaPrayers != 7 {
		t.Errorf("QazaPrayers = %d, want 7", stats.QazaPrayers)
	}
}

func TestPerfectWeeks(t *testing.T) {
	// Full Monday-Sunday week: all 35 slots observed and completed.
	records := fullRange(t, 1, "2024-01-01", "2024-01-07")

	stats := ComputeStatistics(records, day(t, "2024-01-07"))
	if stats.PerfectWeeks != 1 {
		t.Errorf("PerfectWeeks = %d, want exactly 1", stats.PerfectWeeks)
	}

	// A second, partially observed week must not count either way.
	records = append(records, fullRange(t, 1, "2024-01-08", "2024-01-10")...)
	stats = ComputeStatistics(records, day(t, "2024-01-10"))
	if stats.PerfectWeeks != 1 {
		t.Errorf("PerfectWeeks with partial second week = %d, want 1", stats.PerfectWeeks)
	}

	// Completing the second week adds exactly one more.
	records = append(records, fullRange(t, 1, "2024-01-11", "2024-01-14")...)
	stats = ComputeStatistics(records, day(t, "2024-01-14"))
	if stats.PerfectWeeks != 2 {
		t.Errorf("PerfectWeeks after second full week = %d, want 2", stats.PerfectWeeks)
	}
}

func TestPerfectWeekNeedsAllSlots(t *testing.T) {
	records := fullRange(t, 1, "2024-01-01", "2024-01-06")
	records = append(records, partialDay(1, "2024-01-07", 4))

	stats := ComputeStatistics(records, day(t, "2024-01-07"))
	if stats.PerfectWeeks != 0 {
		t.Errorf("PerfectWeeks = %d, want 0 (34/35 completed)", stats.PerfectWeeks)
	}
}
