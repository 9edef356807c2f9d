package engine

import (
	"testing"

	"github.com/example/salahtrack/models"
)

func evaluateAt(t *testing.T, records []models.PrayerRecord, todayStr string) []Candidate {
	t.Helper()
	today := day(t, todayStr)
	stats := ComputeStatistics(records, today)
	return Evaluate(records, stats, today)
}

func candidatesOf(cands []Candidate, typ models.AchievementType) []Candidate {
	var out []Candidate
	for _, c := range cands {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

func TestStreakMilestoneExactlySeven(t *testing.T) {
	records := fullRange(t, 1, "2024-01-01", "2024-01-07")
	got := candidatesOf(evaluateAt(t, records, "2024-01-07"), models.AchievementStreakMilestone)
	if len(got) != 1 {
		t.Fatalf("streak of 7: got %d candidates, want 1", len(got))
	}
	if meta, ok := got[0].Metadata.(models.StreakMetadata); !ok || meta.StreakDays != 7 {
		t.Errorf("metadata = %#v, want StreakMetadata{7}", got[0].Metadata)
	}

	// One day past the milestone nothing fires: no retroactive awards.
	records = append(records, fullDay(1, "2024-01-08"))
	got = candidatesOf(evaluateAt(t, records, "2024-01-08"), models.AchievementStreakMilestone)
	if len(got) != 0 {
		t.Errorf("streak of 8: got %d candidates, want 0", len(got))
	}
}

func TestPrayerMilestoneExactness(t *testing.T) {
	records := fullRange(t, 1, "2024-05-01", "2024-05-20") // 100 prayers
	got := candidatesOf(evaluateAt(t, records, "2024-05-20"), models.AchievementPrayerMilestone)
	if len(got) != 1 {
		t.Fatalf("100 prayers: got %d candidates, want 1", len(got))
	}
	if meta, ok := got[0].Metadata.(models.MilestoneMetadata); !ok || meta.Count != 100 {
		t.Errorf("metadata = %#v, want MilestoneMetadata{100}", got[0].Metadata)
	}

	records = append(records, partialDay(1, "2024-05-21", 1)) // 101
	got = candidatesOf(evaluateAt(t, records, "2024-05-21"), models.AchievementPrayerMilestone)
	if len(got) != 0 {
		t.Errorf("101 prayers: got %d candidates, want 0", len(got))
	}
}

func TestPerfectDayRule(t *testing.T) {
	records := []models.PrayerRecord{fullDay(1, "2024-01-03")}
	got := candidatesOf(evaluateAt(t, records, "2024-01-03"), models.AchievementPerfectDay)
	if len(got) != 1 {
		t.Fatalf("full day: got %d candidates, want 1", len(got))
	}

	records = []models.PrayerRecord{partialDay(1, "2024-01-03", 4)}
	got = candidatesOf(evaluateAt(t, records, "2024-01-03"), models.AchievementPerfectDay)
	if len(got) != 0 {
		t.Errorf("4/5 day: got %d candidates, want 0", len(got))
	}
}

func TestSlotStreakWatchesOneSlot(t *testing.T) {
	// Three days with only fajr completed.
	records := []models.PrayerRecord{
		partialDay(1, "2024-01-01", 1),
		partialDay(1, "2024-01-02", 1),
		partialDay(1, "2024-01-03", 1),
	}
	cands := evaluateAt(t, records, "2024-01-03")

	got := candidatesOf(cands, models.AchievementEarlyBird)
	if len(got) != 1 {
		t.Fatalf("fajr streak of 3: got %d early_bird candidates, want 1", len(got))
	}
	if meta, ok := got[0].Metadata.(models.StreakMetadata); !ok || meta.StreakDays != 3 {
		t.Errorf("metadata = %#v, want StreakMetadata{3}", got[0].Metadata)
	}
	if len(candidatesOf(cands, models.AchievementNightOwl)) != 0 {
		t.Error("night_owl fired without any isha completions")
	}
	if len(candidatesOf(cands, models.AchievementGoldenHour)) != 0 {
		t.Error("golden_hour fired without any maghrib completions")
	}
}

func TestPerfectWeekRequiresFullWeek(t *testing.T) {
	// A lone perfect Monday reads 100% over the clamped window but the
	// week has not elapsed, so nothing fires yet.
	records := []models.PrayerRecord{fullDay(1, "2024-01-01")}
	got := candidatesOf(evaluateAt(t, records, "2024-01-01"), models.AchievementPerfectWeek)
	if len(got) != 0 {
		t.Fatalf("single perfect Monday: got %d perfect_week candidates, want 0", len(got))
	}

	// Mid-week, still all completed, still nothing.
	records = fullRange(t, 1, "2024-01-01", "2024-01-04")
	got = candidatesOf(evaluateAt(t, records, "2024-01-04"), models.AchievementPerfectWeek)
	if len(got) != 0 {
		t.Fatalf("perfect Mon-Thu: got %d perfect_week candidates, want 0", len(got))
	}

	// All 35 slots observed and completed: fires once, on Sunday.
	records = fullRange(t, 1, "2024-01-01", "2024-01-07")
	got = candidatesOf(evaluateAt(t, records, "2024-01-07"), models.AchievementPerfectWeek)
	if len(got) != 1 {
		t.Fatalf("full perfect week: got %d candidates, want 1", len(got))
	}
	meta, ok := got[0].Metadata.(models.RangeMetadata)
	if !ok || meta.StartDate != "2024-01-01" || meta.EndDate != "2024-01-07" {
		t.Errorf("metadata = %#v, want RangeMetadata{2024-01-01, 2024-01-07}", got[0].Metadata)
	}
}

func TestComebackNeedsPriorMiss(t *testing.T) {
	records := []models.PrayerRecord{partialDay(1, "2024-01-09", 4)}
	records = append(records, fullRange(t, 1, "2024-01-10", "2024-01-12")...)

	got := candidatesOf(evaluateAt(t, records, "2024-01-12"), models.AchievementComeback)
	if len(got) != 1 {
		t.Fatalf("3-day streak after a miss: got %d candidates, want 1", len(got))
	}
	if meta, ok := got[0].Metadata.(models.StreakMetadata); !ok || meta.StreakDays != 3 {
		t.Errorf("metadata = %#v, want StreakMetadata{3}", got[0].Metadata)
	}

	// Same streak without a recorded miss before it is no comeback.
	records = fullRange(t, 1, "2024-01-10", "2024-01-12")
	got = candidatesOf(evaluateAt(t, records, "2024-01-12"), models.AchievementComeback)
	if len(got) != 0 {
		t.Errorf("streak with empty history before it: got %d candidates, want 0", len(got))
	}
}

func TestWeekendWarriorFirstWeekend(t *testing.T) {
	records := []models.PrayerRecord{
		fullDay(1, "2024-01-06"), // Saturday
		fullDay(1, "2024-01-07"), // Sunday
	}
	cands := evaluateAt(t, records, "2024-01-07")

	got := candidatesOf(cands, models.AchievementWeekendWarrior)
	if len(got) != 1 {
		t.Fatalf("first perfect weekend: got %d candidates, want 1", len(got))
	}
	if meta, ok := got[0].Metadata.(models.MilestoneMetadata); !ok || meta.Count != 1 {
		t.Errorf("metadata = %#v, want MilestoneMetadata{1}", got[0].Metadata)
	}
	// One weekend is not yet a dedication run.
	if len(candidatesOf(cands, models.AchievementDedication)) != 0 {
		t.Error("dedication fired on a single weekend")
	}
}

func TestDedicationThreeWeekendRun(t *testing.T) {
	var records []models.PrayerRecord
	for _, sat := range []string{"2024-01-06", "2024-01-13", "2024-01-20"} {
		records = append(records, fullDay(1, sat))
		records = append(records, fullDay(1, day(t, sat).AddDate(0, 0, 1).Format("2006-01-02")))
	}
	cands := evaluateAt(t, records, "2024-01-22")

	got := candidatesOf(cands, models.AchievementDedication)
	if len(got) != 1 {
		t.Fatalf("three weekend run: got %d candidates, want 1", len(got))
	}
	if meta, ok := got[0].Metadata.(models.MilestoneMetadata); !ok || meta.Count != 3 {
		t.Errorf("metadata = %#v, want MilestoneMetadata{3}", got[0].Metadata)
	}
	// Count 3 is not a weekend_warrior level, so that family stays quiet.
	if len(candidatesOf(cands, models.AchievementWeekendWarrior)) != 0 {
		t.Error("weekend_warrior fired at count 3")
	}
}

func TestSeasonalAndMonthlyChampion(t *testing.T) {
	records := fullRange(t, 1, "2025-03-01", "2025-03-31")
	cands := evaluateAt(t, records, "2025-03-31")

	seasonal := candidatesOf(cands, models.AchievementSeasonal)
	if len(seasonal) != 1 {
		t.Fatalf("perfect March at month end: got %d seasonal candidates, want 1", len(seasonal))
	}
	if seasonal[0].Title != "Spring Devotion" {
		t.Errorf("title = %q, want %q", seasonal[0].Title, "Spring Devotion")
	}
	if meta, ok := seasonal[0].Metadata.(models.RangeMetadata); !ok || meta.StartDate != "2025-03-01" || meta.EndDate != "2025-03-31" {
		t.Errorf("metadata = %#v, want RangeMetadata{2025-03-01, 2025-03-31}", seasonal[0].Metadata)
	}

	champ := candidatesOf(cands, models.AchievementMonthlyChampion)
	if len(champ) != 1 {
		t.Fatalf("first perfect month: got %d monthly_champion candidates, want 1", len(champ))
	}
	if meta, ok := champ[0].Metadata.(models.MilestoneMetadata); !ok || meta.Count != 1 {
		t.Errorf("metadata = %#v, want MilestoneMetadata{1}", champ[0].Metadata)
	}
}

func TestSeasonalWaitsForMonthEnd(t *testing.T) {
	records := fullRange(t, 1, "2025-03-01", "2025-03-30")
	got := candidatesOf(evaluateAt(t, records, "2025-03-30"), models.AchievementSeasonal)
	if len(got) != 0 {
		t.Errorf("mid-month: got %d seasonal candidates, want 0", len(got))
	}
}

func TestConsistencyWeekly(t *testing.T) {
	records := fullRange(t, 1, "2024-01-01", "2024-01-06")
	records = append(records, partialDay(1, "2024-01-07", 2)) // 32/35 = 91%
	got := candidatesOf(evaluateAt(t, records, "2024-01-07"), models.AchievementConsistency)
	if len(got) != 1 {
		t.Fatalf("91%% week: got %d candidates, want 1", len(got))
	}
	meta, ok := got[0].Metadata.(models.ConsistencyMetadata)
	if !ok || meta.ConsistencyRate != 91 || meta.Period != "week" {
		t.Errorf("metadata = %#v, want ConsistencyMetadata{91, week}", got[0].Metadata)
	}
}

func TestConsistencyBelowThreshold(t *testing.T) {
	records := fullRange(t, 1, "2024-01-01", "2024-01-06")
	records = append(records, partialDay(1, "2024-01-07", 0)) // 30/35 = 86%
	got := candidatesOf(evaluateAt(t, records, "2024-01-07"), models.AchievementConsistency)
	if len(got) != 0 {
		t.Errorf("86%% week: got %d candidates, want 0", len(got))
	}
}

func TestConsistencyMonthlyOnLastDay(t *testing.T) {
	// April 2024: 24 full days, four absent, two 4/5 days at the end.
	// 128/150 = 85% for the month; the final week reads 8/10 = 80%, so
	// the weekly arm stays below its 90% bar.
	records := fullRange(t, 1, "2024-04-01", "2024-04-24")
	records = append(records, partialDay(1, "2024-04-29", 4))
	records = append(records, partialDay(1, "2024-04-30", 4))

	got := candidatesOf(evaluateAt(t, records, "2024-04-30"), models.AchievementConsistency)
	if len(got) != 1 {
		t.Fatalf("85%% month on its last day: got %d candidates, want 1", len(got))
	}
	meta, ok := got[0].Metadata.(models.ConsistencyMetadata)
	if !ok || meta.ConsistencyRate != 85 || meta.Period != "month" {
		t.Errorf("metadata = %#v, want ConsistencyMetadata{85, month}", got[0].Metadata)
	}

	// The same history a day earlier is mid-month: the monthly arm
	// only fires on the month's last day.
	got = candidatesOf(evaluateAt(t, records, "2024-04-29"), models.AchievementConsistency)
	if len(got) != 0 {
		t.Errorf("mid-month: got %d candidates, want 0", len(got))
	}
}

func TestConsistencyWeeklyTakesPrecedence(t *testing.T) {
	// A perfect April: on the 30th both arms qualify, but the family
	// emits a single weekly candidate.
	records := fullRange(t, 1, "2024-04-01", "2024-04-30")
	got := candidatesOf(evaluateAt(t, records, "2024-04-30"), models.AchievementConsistency)
	if len(got) != 1 {
		t.Fatalf("both arms qualifying: got %d candidates, want 1", len(got))
	}
	meta, ok := got[0].Metadata.(models.ConsistencyMetadata)
	if !ok || meta.Period != "week" {
		t.Errorf("metadata = %#v, want the weekly arm to win", got[0].Metadata)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	records := fullRange(t, 1, "2024-01-01", "2024-01-07")
	today := day(t, "2024-01-07")
	stats := ComputeStatistics(records, today)

	first := Evaluate(records, stats, today)
	second := Evaluate(records, stats, today)
	if len(first) != len(second) {
		t.Fatalf("repeated evaluation: %d then %d candidates", len(first), len(second))
	}
	for i := range first {
		if first[i].Type != second[i].Type {
			t.Errorf("candidate %d: %s then %s", i, first[i].Type, second[i].Type)
		}
	}
}
