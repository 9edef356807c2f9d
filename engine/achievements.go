package engine

import (
	"fmt"
	"time"

	"github.com/example/salahtrack/dates"
	"github.com/example/salahtrack/models"
)

// Candidate is a newly-qualifying achievement proposed by the rule set.
// The reconciler, not the evaluator, deduplicates candidates against
// the store's (user, type, earnedDate) idempotency key.
type Candidate struct {
	Type        models.AchievementType
	Title       string
	Description string
	Metadata    models.AchievementMetadata
}

// Milestone threshold tables. A rule fires only when its statistic
// exactly equals a threshold: the current milestone is awarded, never
// every milestone already passed.
var (
	streakMilestones   = []int{7, 30, 50, 100, 200, 365}
	prayerMilestones   = []int{50, 100, 250, 500, 1000, 2500, 5000}
	slotStreakLevels   = []int{3, 7, 15, 30, 60, 100}
	weekendLevels      = []int{1, 2, 4, 8, 12, 24}
	dedicationLevels   = []int{3, 7, 15, 30}
	comebackLevels     = []int{3, 7, 15, 30}
	monthChampLevels   = []int{1, 2, 3, 6, 12}
	weeklyConsistency  = 90
	monthlyConsistency = 80
)

// seasonalMonths are the two calendar months whose full completion
// earns a seasonal achievement at month end.
var seasonalMonths = map[time.Month]string{
	time.March:     "Spring Devotion",
	time.September: "Autumn Devotion",
}

// slotStreakFamilies maps the per-slot streak rule families to the
// prayer slot they watch.
var slotStreakFamilies = []struct {
	typ   models.AchievementType
	slot  models.Slot
	title string
}{
	{models.AchievementEarlyBird, models.SlotFajr, "Early Bird"},
	{models.AchievementNightOwl, models.SlotIsha, "Night Owl"},
	{models.AchievementGoldenHour, models.SlotMaghrib, "Golden Hour"},
}

// Evaluate runs every rule family against the user's record set and
// freshly recomputed statistics. It is a pure function: calling it
// repeatedly with the same inputs yields the same candidates and has
// no side effects. At most one candidate per family per invocation.
func Evaluate(records []models.PrayerRecord, stats models.UserStatistics, today time.Time) []Candidate {
	byDate := make(map[string]*models.PrayerRecord, len(records))
	for i := range records {
		byDate[records[i].Date] = &records[i]
	}

	var out []Candidate
	add := func(c *Candidate) {
		if c != nil {
			out = append(out, *c)
		}
	}

	weekly := periodSummary(byDate, dates.PeriodWeek, today)
	monthly := periodSummary(byDate, dates.PeriodMonth, today)

	add(perfectDayRule(byDate, today))
	add(perfectWeekRule(weekly, today))
	add(streakMilestoneRule(stats))
	add(prayerMilestoneRule(stats))
	add(consistencyRule(weekly, monthly, today))
	for _, fam := range slotStreakFamilies {
		add(slotStreakRule(byDate, fam.typ, fam.slot, fam.title, today))
	}
	add(weekendWarriorRule(byDate))
	add(dedicationRule(byDate, today))
	add(comebackRule(byDate, stats, records))
	add(monthlyChampionRule(byDate))
	add(seasonalRule(monthly, today))
	return out
}

// periodSummary computes the clamped week/month rollup ending today.
func periodSummary(byDate map[string]*models.PrayerRecord, period dates.Period, today time.Time) PeriodSummary {
	rng, err := dates.PeriodRange(period, today, today)
	if err != nil {
		return PeriodSummary{}
	}
	return summarize(byDate, rng.Dates)
}

func matchExact(value int, levels []int) bool {
	for _, l := range levels {
		if value == l {
			return true
		}
	}
	return false
}

func perfectDayRule(byDate map[string]*models.PrayerRecord, today time.Time) *Candidate {
	rec, ok := byDate[dates.Format(today)]
	if !ok || !rec.AllCompleted() {
		return nil
	}
	return &Candidate{
		Type:        models.AchievementPerfectDay,
		Title:       "Perfect Day",
		Description: "Completed all five prayers in a single day",
	}
}

func perfectWeekRule(weekly PeriodSummary, today time.Time) *Candidate {
	// The week must be fully elapsed: a 100% rate over a clamped
	// partial week (a lone perfect Monday) is not a perfect week.
	if weekly.TotalPossible != 7*models.SlotCount || weekly.SuccessRate != 100 {
		return nil
	}
	start := dates.WeekStart(today)
	return &Candidate{
		Type:        models.AchievementPerfectWeek,
		Title:       "Perfect Week",
		Description: "Completed every prayer of the week",
		Metadata: models.RangeMetadata{
			StartDate: dates.Format(start),
			EndDate:   dates.Format(start.AddDate(0, 0, 6)),
		},
	}
}

func streakMilestoneRule(stats models.UserStatistics) *Candidate {
	if !matchExact(stats.CurrentStreak, streakMilestones) {
		return nil
	}
	return &Candidate{
		Type:        models.AchievementStreakMilestone,
		Title:       fmt.Sprintf("%d-Day Streak", stats.CurrentStreak),
		Description: fmt.Sprintf("Completed all prayers for %d consecutive days", stats.CurrentStreak),
		Metadata:    models.StreakMetadata{StreakDays: stats.CurrentStreak},
	}
}

func prayerMilestoneRule(stats models.UserStatistics) *Candidate {
	if !matchExact(stats.TotalPrayers, prayerMilestones) {
		return nil
	}
	return &Candidate{
		Type:        models.AchievementPrayerMilestone,
		Title:       fmt.Sprintf("%d Prayers", stats.TotalPrayers),
		Description: fmt.Sprintf("Completed %d prayers in total", stats.TotalPrayers),
		Metadata:    models.MilestoneMetadata{Count: stats.TotalPrayers},
	}
}

// consistencyRule fires on a weekly rate of at least 90%, or on the
// last day of a month with a monthly rate of at least 80%. Weekly takes
// precedence so the family emits a single candidate.
func consistencyRule(weekly, monthly PeriodSummary, today time.Time) *Candidate {
	if weekly.TotalPossible > 0 && weekly.SuccessRate >= weeklyConsistency {
		return &Candidate{
			Type:        models.AchievementConsistency,
			Title:       "Consistency",
			Description: fmt.Sprintf("Kept a %d%% completion rate this week", weekly.SuccessRate),
			Metadata:    models.ConsistencyMetadata{ConsistencyRate: weekly.SuccessRate, Period: "week"},
		}
	}
	lastOfMonth := dates.Format(today) == dates.Format(dates.MonthEnd(today))
	if lastOfMonth && monthly.TotalPossible > 0 && monthly.SuccessRate >= monthlyConsistency {
		return &Candidate{
			Type:        models.AchievementConsistency,
			Title:       "Consistency",
			Description: fmt.Sprintf("Kept a %d%% completion rate this month", monthly.SuccessRate),
			Metadata:    models.ConsistencyMetadata{ConsistencyRate: monthly.SuccessRate, Period: "month"},
		}
	}
	return nil
}

// slotStreak counts consecutive days ending today on which the named
// slot was completed. A missing day or an incomplete slot breaks it.
func slotStreak(byDate map[string]*models.PrayerRecord, slot models.Slot, today time.Time) int {
	streak := 0
	for d := today; ; d = d.AddDate(0, 0, -1) {
		rec, ok := byDate[dates.Format(d)]
		if !ok || !rec.Status(slot).Completed {
			break
		}
		streak++
	}
	return streak
}

func slotStreakRule(byDate map[string]*models.PrayerRecord, typ models.AchievementType, slot models.Slot, title string, today time.Time) *Candidate {
	streak := slotStreak(byDate, slot, today)
	if !matchExact(streak, slotStreakLevels) {
		return nil
	}
	return &Candidate{
		Type:        typ,
		Title:       title,
		Description: fmt.Sprintf("Completed %s %d days in a row", slot, streak),
		Metadata:    models.StreakMetadata{StreakDays: streak},
	}
}

// perfectWeekend reports whether the weekend anchored at the given
// Saturday has both Saturday and Sunday fully completed.
func perfectWeekend(byDate map[string]*models.PrayerRecord, saturday time.Time) bool {
	sat, okSat := byDate[dates.Format(saturday)]
	sun, okSun := byDate[dates.Format(saturday.AddDate(0, 0, 1))]
	return okSat && okSun && sat.AllCompleted() && sun.AllCompleted()
}

func weekendWarriorRule(byDate map[string]*models.PrayerRecord) *Candidate {
	count := 0
	for day, rec := range byDate {
		d, err := dates.Parse(day)
		if err != nil || d.Weekday() != time.Saturday || !rec.AllCompleted() {
			continue
		}
		if perfectWeekend(byDate, d) {
			count++
		}
	}
	if !matchExact(count, weekendLevels) {
		return nil
	}
	return &Candidate{
		Type:        models.AchievementWeekendWarrior,
		Title:       "Weekend Warrior",
		Description: fmt.Sprintf("Completed %d perfect weekends", count),
		Metadata:    models.MilestoneMetadata{Count: count},
	}
}

// dedicationRule counts consecutive perfect weekends ending at the most
// recent weekend that has fully passed.
func dedicationRule(byDate map[string]*models.PrayerRecord, today time.Time) *Candidate {
	// Most recent Saturday whose Sunday is not after today.
	saturday := today
	for saturday.Weekday() != time.Saturday {
		saturday = saturday.AddDate(0, 0, -1)
	}
	if saturday.AddDate(0, 0, 1).After(today) {
		saturday = saturday.AddDate(0, 0, -7)
	}

	streak := 0
	for sat := saturday; perfectWeekend(byDate, sat); sat = sat.AddDate(0, 0, -7) {
		streak++
	}
	if !matchExact(streak, dedicationLevels) {
		return nil
	}
	return &Candidate{
		Type:        models.AchievementDedication,
		Title:       "Dedication",
		Description: fmt.Sprintf("Completed %d perfect weekends in a row", streak),
		Metadata:    models.MilestoneMetadata{Count: streak},
	}
}

// comebackRule fires when the current fully-completed streak sits
// immediately after a day with at least one missed slot.
func comebackRule(byDate map[string]*models.PrayerRecord, stats models.UserStatistics, records []models.PrayerRecord) *Candidate {
	if !matchExact(stats.CurrentStreak, comebackLevels) {
		return nil
	}

	// The streak ends at the most recent record date.
	latest := ""
	for i := range records {
		if records[i].Date > latest {
			latest = records[i].Date
		}
	}
	end, err := dates.Parse(latest)
	if err != nil {
		return nil
	}

	dayBefore := end.AddDate(0, 0, -stats.CurrentStreak)
	rec, ok := byDate[dates.Format(dayBefore)]
	if !ok || rec.AllCompleted() {
		return nil
	}
	return &Candidate{
		Type:        models.AchievementComeback,
		Title:       "Comeback",
		Description: fmt.Sprintf("Bounced back with a %d-day streak after a missed day", stats.CurrentStreak),
		Metadata:    models.StreakMetadata{StreakDays: stats.CurrentStreak},
	}
}

// monthlyChampionRule counts calendar months where every day of the
// month is recorded and every slot completed. Partially observed
// months never qualify.
func monthlyChampionRule(byDate map[string]*models.PrayerRecord) *Candidate {
	type monthTally struct {
		observed  int
		completed int
		daysIn    int
	}
	months := make(map[string]*monthTally)
	for day, rec := range byDate {
		d, err := dates.Parse(day)
		if err != nil {
			continue
		}
		key := day[:7]
		tally, ok := months[key]
		if !ok {
			tally = &monthTally{daysIn: dates.MonthEnd(d).Day()}
			months[key] = tally
		}
		tally.observed += models.SlotCount
		tally.completed += rec.CompletedCount()
	}

	count := 0
	for _, tally := range months {
		if tally.observed == tally.daysIn*models.SlotCount && tally.completed == tally.observed {
			count++
		}
	}
	if !matchExact(count, monthChampLevels) {
		return nil
	}
	return &Candidate{
		Type:        models.AchievementMonthlyChampion,
		Title:       "Monthly Champion",
		Description: fmt.Sprintf("Completed %d perfect months", count),
		Metadata:    models.MilestoneMetadata{Count: count},
	}
}

// seasonalRule awards full completion of one of the special months,
// checked on the month's last day.
func seasonalRule(monthly PeriodSummary, today time.Time) *Candidate {
	title, ok := seasonalMonths[today.Month()]
	if !ok {
		return nil
	}
	if dates.Format(today) != dates.Format(dates.MonthEnd(today)) {
		return nil
	}
	if monthly.TotalPossible == 0 || monthly.SuccessRate != 100 {
		return nil
	}
	return &Candidate{
		Type:        models.AchievementSeasonal,
		Title:       title,
		Description: fmt.Sprintf("Completed every prayer of %s", today.Month()),
		Metadata: models.RangeMetadata{
			StartDate: dates.Format(dates.MonthStart(today)),
			EndDate:   dates.Format(today),
		},
	}
}
