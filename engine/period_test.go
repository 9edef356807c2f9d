package engine

import (
	"testing"

	"github.com/example/salahtrack/dates"
	"github.com/example/salahtrack/models"
)

func TestAggregateEmptyYear(t *testing.T) {
	today := day(t, "2025-03-10")
	a, err := Aggregate(nil, dates.PeriodYear, today, today)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	// 69 elapsed days in a non-leap year, five slots each.
	if a.Summary.TotalPossible != 345 {
		t.Errorf("TotalPossible = %d, want 345", a.Summary.TotalPossible)
	}
	if a.Summary.TotalPrayers != 0 || a.Summary.SuccessRate != 0 {
		t.Errorf("empty year summary = %+v, want zero prayers and rate", a.Summary)
	}
	if a.Summary.QazaPrayers != 345 {
		t.Errorf("QazaPrayers = %d, want 345", a.Summary.QazaPrayers)
	}
	if a.YearlyQaza.QazaRemaining != 345 {
		t.Errorf("YearlyQaza.QazaRemaining = %d, want 345", a.YearlyQaza.QazaRemaining)
	}
	if a.StartDate != "2025-01-01" || a.EndDate != "2025-03-10" {
		t.Errorf("window = %s..%s, want 2025-01-01..2025-03-10", a.StartDate, a.EndDate)
	}
}

func TestAggregateWeekAbsenceCountsMissed(t *testing.T) {
	// Fully elapsed week, only two days recorded.
	records := []models.PrayerRecord{
		fullDay(1, "2024-01-01"),
		partialDay(1, "2024-01-03", 3),
	}
	a, err := Aggregate(records, dates.PeriodWeek, day(t, "2024-01-03"), day(t, "2024-02-01"))
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if a.Summary.TotalPossible != 35 {
		t.Errorf("TotalPossible = %d, want 35", a.Summary.TotalPossible)
	}
	if a.Summary.TotalPrayers != 8 {
		t.Errorf("TotalPrayers = %d, want 8", a.Summary.TotalPrayers)
	}
	if a.Summary.QazaPrayers != 27 {
		t.Errorf("QazaPrayers = %d, want 27 (unrecorded days count as missed)", a.Summary.QazaPrayers)
	}
	if a.Summary.OnTimePrayers != 5 {
		t.Errorf("OnTimePrayers = %d, want 5", a.Summary.OnTimePrayers)
	}
	// 8/35 rounds to 23.
	if a.Summary.SuccessRate != 23 {
		t.Errorf("SuccessRate = %d, want 23", a.Summary.SuccessRate)
	}
}

func TestDistributionPerSlot(t *testing.T) {
	records := []models.PrayerRecord{
		fullDay(1, "2024-01-01"),
		partialDay(1, "2024-01-02", 2), // fajr + dhuhr only
	}
	a, err := Aggregate(records, dates.PeriodWeek, day(t, "2024-01-01"), day(t, "2024-02-01"))
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if len(a.Distribution) != models.SlotCount {
		t.Fatalf("distribution has %d slots, want %d", len(a.Distribution), models.SlotCount)
	}
	want := map[models.Slot]int{
		models.SlotFajr:    2,
		models.SlotDhuhr:   2,
		models.SlotAsr:     1,
		models.SlotMaghrib: 1,
		models.SlotIsha:    1,
	}
	for _, d := range a.Distribution {
		if d.Total != 7 {
			t.Errorf("%s: Total = %d, want 7", d.Slot, d.Total)
		}
		if d.Completed != want[d.Slot] {
			t.Errorf("%s: Completed = %d, want %d", d.Slot, d.Completed, want[d.Slot])
		}
	}
}

func TestWeekTrendAlwaysSevenLabels(t *testing.T) {
	records := []models.PrayerRecord{
		fullDay(1, "2024-01-01"),
		partialDay(1, "2024-01-02", 3),
	}
	// Reference week still in progress: Wednesday. The summary window
	// clamps to today, but the trend keeps all seven day labels with
	// future days reading zero.
	a, err := Aggregate(records, dates.PeriodWeek, day(t, "2024-01-01"), day(t, "2024-01-03"))
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if len(a.Trend) != 7 {
		t.Fatalf("trend has %d points, want 7", len(a.Trend))
	}
	wantLabels := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	wantValues := []int{5, 3, 0, 0, 0, 0, 0}
	for i, p := range a.Trend {
		if p.Label != wantLabels[i] || p.Value != wantValues[i] {
			t.Errorf("trend[%d] = {%s %d}, want {%s %d}", i, p.Label, p.Value, wantLabels[i], wantValues[i])
		}
	}
}

func TestYearTrendAlwaysTwelveLabels(t *testing.T) {
	a, err := Aggregate(nil, dates.PeriodYear, day(t, "2025-03-10"), day(t, "2025-03-10"))
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(a.Trend) != 12 {
		t.Fatalf("year trend has %d points, want 12", len(a.Trend))
	}
	if a.Trend[0].Label != "Jan" || a.Trend[11].Label != "Dec" {
		t.Errorf("labels = %s..%s, want Jan..Dec", a.Trend[0].Label, a.Trend[11].Label)
	}
}

func TestMonthTrendBucketsByWeek(t *testing.T) {
	records := fullRange(t, 1, "2024-01-01", "2024-01-07")
	a, err := Aggregate(records, dates.PeriodMonth, day(t, "2024-01-15"), day(t, "2024-01-15"))
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	// Jan 1-7, 8-14, 15 clamped: three week buckets.
	if len(a.Trend) != 3 {
		t.Fatalf("month trend has %d buckets, want 3", len(a.Trend))
	}
	if a.Trend[0].Label != "Week 1" {
		t.Errorf("first bucket label = %q, want %q", a.Trend[0].Label, "Week 1")
	}
	if a.Trend[0].Value != 5 {
		t.Errorf("Week 1 mean = %d, want 5", a.Trend[0].Value)
	}
	if a.Trend[1].Value != 0 {
		t.Errorf("Week 2 mean = %d, want 0", a.Trend[1].Value)
	}
}

func TestAggregateRejectsUnknownPeriod(t *testing.T) {
	if _, err := Aggregate(nil, dates.Period("decade"), day(t, "2024-01-01"), day(t, "2024-01-01")); err == nil {
		t.Fatal("expected error for unknown period")
	}
}
