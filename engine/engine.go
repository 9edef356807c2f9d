// Package engine turns a user's dated prayer-completion records into
// streaks, Qaza backlogs, period analytics, and deduplicated
// achievement awards. It speaks plain data and sentinel errors; HTTP
// and persistence live outside.
package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/salahtrack/dates"
	"github.com/example/salahtrack/models"
	"github.com/example/salahtrack/store"
)

// MaxBatchSize caps the number of dates a single batch write may carry.
const MaxBatchSize = 7

// DayUpdate is one date's payload inside a batch write.
type DayUpdate struct {
	Date  string                              `json:"date"`
	Slots map[models.Slot]models.PrayerStatus `json:"prayers"`
}

// Engine is the authoritative prayer statistics engine. Every entry
// point takes an explicit "today" so behavior is deterministic and
// testable without wall-clock mocking.
type Engine struct {
	store store.RecordStore
	rec   *Reconciler
	log   *zap.SugaredLogger
}

// New creates an engine over the given record store.
func New(s store.RecordStore, log *zap.SugaredLogger) *Engine {
	return &Engine{store: s, rec: NewReconciler(s, log), log: log}
}

// validateSlots checks that the payload carries exactly the five named
// slots and nothing else.
func validateSlots(slots map[models.Slot]models.PrayerStatus) error {
	if len(slots) != models.SlotCount {
		return fmt.Errorf("%w: expected %d slots, got %d", ErrInvalidRecord, models.SlotCount, len(slots))
	}
	for _, slot := range models.Slots {
		if _, ok := slots[slot]; !ok {
			return fmt.Errorf("%w: missing slot %q", ErrInvalidRecord, slot)
		}
	}
	return nil
}

// RecordDay validates and writes one day's prayers, then reconciles the
// user's derived statistics. A reconciliation failure is logged and
// swallowed: the write has already succeeded and aggregates may stay
// stale until the next successful pass.
func (e *Engine) RecordDay(ctx context.Context, userID uint, date string, slots map[models.Slot]models.PrayerStatus, today time.Time) (*models.PrayerRecord, error) {
	if _, err := dates.Parse(date); err != nil {
		return nil, err
	}
	if err := validateSlots(slots); err != nil {
		return nil, err
	}

	rec, err := e.store.UpsertRecord(ctx, userID, date, slots)
	if err != nil {
		return nil, err
	}

	if err := e.rec.Reconcile(ctx, userID, today); err != nil && e.log != nil {
		e.log.Warnf("reconcile after write failed user=%d date=%s: %v", userID, date, err)
	}
	return rec, nil
}

// RecordBatch applies up to MaxBatchSize day updates sequentially, each
// through the same write+reconcile path as a single-day write, so
// statistics always reflect the latest fully-applied write.
func (e *Engine) RecordBatch(ctx context.Context, userID uint, updates []DayUpdate, today time.Time) ([]models.PrayerRecord, error) {
	if len(updates) == 0 || len(updates) > MaxBatchSize {
		return nil, fmt.Errorf("%w: batch size must be 1..%d, got %d", ErrInvalidRecord, MaxBatchSize, len(updates))
	}

	out := make([]models.PrayerRecord, 0, len(updates))
	for _, u := range updates {
		rec, err := e.RecordDay(ctx, userID, u.Date, u.Slots, today)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

// Record returns one day's record, or nil when the day is unset.
func (e *Engine) Record(ctx context.Context, userID uint, date string) (*models.PrayerRecord, error) {
	if _, err := dates.Parse(date); err != nil {
		return nil, err
	}
	return e.store.GetRecord(ctx, userID, date)
}

// Records lists the user's raw records, optionally bounded.
func (e *Engine) Records(ctx context.Context, userID uint, start, end string) ([]models.PrayerRecord, error) {
	if start != "" {
		if _, err := dates.Parse(start); err != nil {
			return nil, err
		}
	}
	if end != "" {
		if _, err := dates.Parse(end); err != nil {
			return nil, err
		}
	}
	if start != "" && end != "" && start > end {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start, end)
	}
	return e.store.ListRecords(ctx, userID, start, end)
}

// PeriodAnalytics builds the week/month/year report. refDate defaults
// to today when empty.
func (e *Engine) PeriodAnalytics(ctx context.Context, userID uint, period dates.Period, refDate string, today time.Time) (*Analytics, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w: unknown period %q", ErrInvalidRange, period)
	}

	ref := today
	if refDate != "" {
		var err error
		if ref, err = dates.Parse(refDate); err != nil {
			return nil, err
		}
	}

	records, err := e.store.ListRecords(ctx, userID, "", "")
	if err != nil {
		return nil, err
	}
	return Aggregate(records, period, ref, today)
}

// Statistics returns the user's aggregate row, materializing it lazily
// on first read when records exist. A user with no records at all gets
// ErrNotFound.
func (e *Engine) Statistics(ctx context.Context, userID uint, today time.Time) (*models.UserStatistics, error) {
	stats, err := e.store.GetStatistics(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stats != nil {
		return stats, nil
	}

	records, err := e.store.ListRecords(ctx, userID, "", "")
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no statistics for user %d", ErrNotFound, userID)
	}

	computed := ComputeStatistics(records, today)
	computed.UserID = userID
	return e.store.UpsertStatistics(ctx, &computed)
}

// Achievements lists everything the user has earned.
func (e *Engine) Achievements(ctx context.Context, userID uint) ([]models.Achievement, error) {
	return e.store.ListAchievements(ctx, userID)
}
