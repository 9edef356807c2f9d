package engine

import (
	"math"
	"strconv"
	"time"

	"github.com/example/salahtrack/dates"
	"github.com/example/salahtrack/models"
)

// SlotDistribution counts completed vs. expected observations for one
// prayer slot over a period. A date with no record still contributes to
// Total: inside a bounded range, absence counts as all-missed.
type SlotDistribution struct {
	Slot      models.Slot `json:"slot"`
	Completed int         `json:"completed"`
	Total     int         `json:"total"`
}

// TrendPoint is one bucket of the period's trend series. Value is the
// mean completed-slot count of the bucket's days, rounded to nearest.
type TrendPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// PeriodSummary is the single success-rate rollup for a period.
type PeriodSummary struct {
	TotalPrayers  int `json:"total_prayers"`
	TotalPossible int `json:"total_possible"`
	SuccessRate   int `json:"success_rate"`
	QazaPrayers   int `json:"qaza_prayers"`
	OnTimePrayers int `json:"on_time_prayers"`
}

// YearlyQaza is the year-to-date backlog metric, always computed for
// the current calendar year regardless of the requested period.
type YearlyQaza struct {
	TotalPossible int `json:"total_possible"`
	Completed     int `json:"completed"`
	QazaRemaining int `json:"qaza_remaining"`
}

// Analytics is the full period report returned to callers.
type Analytics struct {
	Period       dates.Period       `json:"period"`
	StartDate    string             `json:"start_date"`
	EndDate      string             `json:"end_date"`
	Distribution []SlotDistribution `json:"distribution"`
	Trend        []TrendPoint       `json:"trend"`
	Summary      PeriodSummary      `json:"summary"`
	YearlyQaza   YearlyQaza         `json:"yearly_qaza"`
}

// Aggregate builds the period analytics for a user's record set. The
// records may span any range; only those inside the resolved window
// count, except the yearly Qaza metric which always looks at the
// current calendar year to date.
func Aggregate(records []models.PrayerRecord, period dates.Period, ref, today time.Time) (*Analytics, error) {
	rng, err := dates.PeriodRange(period, ref, today)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*models.PrayerRecord, len(records))
	for i := range records {
		byDate[records[i].Date] = &records[i]
	}

	out := &Analytics{
		Period:    period,
		StartDate: rng.Start,
		EndDate:   rng.End,
	}

	out.Distribution = distribution(byDate, rng.Dates)
	out.Trend = trend(byDate, period, rng)
	out.Summary = summarize(byDate, rng.Dates)
	out.YearlyQaza = yearlyQaza(byDate, today)
	return out, nil
}

func distribution(byDate map[string]*models.PrayerRecord, days []string) []SlotDistribution {
	dist := make([]SlotDistribution, 0, models.SlotCount)
	for _, slot := range models.Slots {
		d := SlotDistribution{Slot: slot}
		for _, day := range days {
			d.Total++
			if rec, ok := byDate[day]; ok && rec.Status(slot).Completed {
				d.Completed++
			}
		}
		dist = append(dist, d)
	}
	return dist
}

func summarize(byDate map[string]*models.PrayerRecord, days []string) PeriodSummary {
	s := PeriodSummary{TotalPossible: len(days) * models.SlotCount}
	for _, day := range days {
		rec, ok := byDate[day]
		if !ok {
			continue
		}
		for _, slot := range models.Slots {
			st := rec.Status(slot)
			if st.Completed {
				s.TotalPrayers++
				if st.OnTime {
					s.OnTimePrayers++
				}
			}
		}
	}
	s.QazaPrayers = s.TotalPossible - s.TotalPrayers
	if s.TotalPossible > 0 {
		s.SuccessRate = int(math.Round(100 * float64(s.TotalPrayers) / float64(s.TotalPossible)))
	}
	return s
}

// trend buckets the window by period granularity: week buckets by day
// (Mon..Sun labels), month by week-of-month, year by calendar month
// with all 12 labels present even when months have no data yet.
func trend(byDate map[string]*models.PrayerRecord, period dates.Period, rng dates.Range) []TrendPoint {
	completedOn := func(day string) int {
		if rec, ok := byDate[day]; ok {
			return rec.CompletedCount()
		}
		return 0
	}

	switch period {
	case dates.PeriodWeek:
		// Always seven Mon..Sun points; days past today read zero,
		// mirroring the year trend's fixed twelve labels.
		start, err := dates.Parse(rng.Start)
		if err != nil {
			return nil
		}
		points := make([]TrendPoint, 0, 7)
		for i := 0; i < 7; i++ {
			d := start.AddDate(0, 0, i)
			points = append(points, TrendPoint{
				Label: d.Weekday().String()[:3],
				Value: completedOn(dates.Format(d)),
			})
		}
		return points

	case dates.PeriodMonth:
		type bucket struct {
			label string
			sum   int
			n     int
		}
		var buckets []*bucket
		index := make(map[string]*bucket)
		for _, day := range rng.Dates {
			d, err := dates.Parse(day)
			if err != nil {
				continue
			}
			key := dates.Format(dates.WeekStart(d))
			b, ok := index[key]
			if !ok {
				b = &bucket{label: weekOfMonthLabel(len(buckets) + 1)}
				index[key] = b
				buckets = append(buckets, b)
			}
			b.sum += completedOn(day)
			b.n++
		}
		points := make([]TrendPoint, 0, len(buckets))
		for _, b := range buckets {
			points = append(points, TrendPoint{Label: b.label, Value: meanRounded(b.sum, b.n)})
		}
		return points

	case dates.PeriodYear:
		sums := make([]int, 12)
		counts := make([]int, 12)
		for _, day := range rng.Dates {
			d, err := dates.Parse(day)
			if err != nil {
				continue
			}
			m := int(d.Month()) - 1
			sums[m] += completedOn(day)
			counts[m]++
		}
		points := make([]TrendPoint, 0, 12)
		for m := 0; m < 12; m++ {
			points = append(points, TrendPoint{
				Label: time.Month(m + 1).String()[:3],
				Value: meanRounded(sums[m], counts[m]),
			})
		}
		return points
	}
	return nil
}

func weekOfMonthLabel(n int) string {
	return "Week " + strconv.Itoa(n)
}

func meanRounded(sum, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// yearlyQaza computes the current-year backlog: five slots expected per
// day since Jan 1 inclusive, minus what was actually completed.
func yearlyQaza(byDate map[string]*models.PrayerRecord, today time.Time) YearlyQaza {
	q := YearlyQaza{TotalPossible: dates.DaysSinceYearStart(today) * models.SlotCount}

	startOfYear := dates.Format(dates.YearStart(today))
	todayStr := dates.Format(today)
	for day, rec := range byDate {
		if day < startOfYear || day > todayStr {
			continue
		}
		q.Completed += rec.CompletedCount()
	}

	q.QazaRemaining = q.TotalPossible - q.Completed
	if q.QazaRemaining < 0 {
		q.QazaRemaining = 0
	}
	return q
}
