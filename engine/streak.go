package engine

import (
	"sort"
	"time"

	"github.com/example/salahtrack/dates"
	"github.com/example/salahtrack/models"
)

// ComputeStatistics derives the user's aggregate statistics from the
// full record set. The input order is not assumed; the function sorts a
// copy. Absent days are not counted as missed here: the lifetime pass
// has no fixed horizon, so absence-as-missed only applies to the period
// aggregator's bounded ranges.
func ComputeStatistics(records []models.PrayerRecord, today time.Time) models.UserStatistics {
	stats := models.UserStatistics{
		LastStreakUpdate: dates.Format(today),
	}
	if len(records) > 0 {
		stats.UserID = records[0].UserID
	}

	sorted := make([]models.PrayerRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	stats.CurrentStreak = currentStreak(sorted)
	stats.BestStreak = bestStreak(sorted)
	if stats.CurrentStreak > stats.BestStreak {
		stats.BestStreak = stats.CurrentStreak
	}

	for i := range sorted {
		for _, slot := range models.Slots {
			st := sorted[i].Status(slot)
			if st.Completed {
				stats.TotalPrayers++
				if st.OnTime {
					stats.OnTimePrayers++
				}
			} else {
				stats.QazaPrayers++
			}
		}
	}

	stats.PerfectWeeks = perfectWeeks(sorted)
	return stats
}

// currentStreak walks from the most recent record backward. A day
// counts only when all five slots are completed and it is contiguous
// with the previously counted day; the first gap or incomplete day
// stops the walk.
func currentStreak(asc []models.PrayerRecord) int {
	streak := 0
	var prev time.Time
	for i := len(asc) - 1; i >= 0; i-- {
		day, err := dates.Parse(asc[i].Date)
		if err != nil {
			break
		}
		if streak > 0 && int(prev.Sub(day).Hours()/24) != 1 {
			break
		}
		if !asc[i].AllCompleted() {
			break
		}
		streak++
		prev = day
	}
	return streak
}

// bestStreak walks the records ascending, accumulating a running streak
// that resets on any gap or incomplete day, and returns the maximum
// run seen.
func bestStreak(asc []models.PrayerRecord) int {
	best, run := 0, 0
	var prev time.Time
	for i := range asc {
		day, err := dates.Parse(asc[i].Date)
		if err != nil {
			continue
		}
		contiguous := run > 0 && int(day.Sub(prev).Hours()/24) == 1
		if asc[i].AllCompleted() {
			if contiguous {
				run++
			} else {
				run = 1
			}
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
		prev = day
	}
	return best
}

// perfectWeeks counts Monday-Sunday weeks where all 35 slots were
// observed and completed. Weeks with fewer than 35 observed slots
// (partial or just-started weeks) are excluded entirely, not counted
// as imperfect.
func perfectWeeks(records []models.PrayerRecord) int {
	type weekTally struct {
		observed  int
		completed int
	}
	weeks := make(map[string]*weekTally)

	for i := range records {
		day, err := dates.Parse(records[i].Date)
		if err != nil {
			continue
		}
		key := dates.Format(dates.WeekStart(day))
		tally, ok := weeks[key]
		if !ok {
			tally = &weekTally{}
			weeks[key] = tally
		}
		tally.observed += models.SlotCount
		tally.completed += records[i].CompletedCount()
	}

	count := 0
	for _, tally := range weeks {
		if tally.observed >= 7*models.SlotCount && tally.completed == tally.observed {
			count++
		}
	}
	return count
}
