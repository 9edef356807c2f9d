// Package store defines the persistence boundary the statistics engine
// depends on, plus the MySQL-backed and in-memory implementations.
package store

import (
	"context"
	"errors"

	"github.com/example/salahtrack/models"
)

// ErrUnavailable wraps any backend failure surfaced through the store.
// The engine propagates it without retrying; retry policy belongs to
// the backend's own client.
var ErrUnavailable = errors.New("record store unavailable")

// RecordStore is the minimal contract the engine requires from durable
// storage. Absent rows are reported as nil values, not errors.
type RecordStore interface {
	// GetRecord returns the record for (userID, date), or nil when the
	// day is unset.
	GetRecord(ctx context.Context, userID uint, date string) (*models.PrayerRecord, error)
	// ListRecords returns the user's records within [start, end],
	// unfiltered when both bounds are empty.
	ListRecords(ctx context.Context, userID uint, start, end string) ([]models.PrayerRecord, error)
	// UpsertRecord creates the day's record on first write and mutates
	// it in place on later writes to the same (userID, date) key.
	UpsertRecord(ctx context.Context, userID uint, date string, slots map[models.Slot]models.PrayerStatus) (*models.PrayerRecord, error)
	// GetStatistics returns the user's aggregate row, or nil when it
	// has not been materialized yet.
	GetStatistics(ctx context.Context, userID uint) (*models.UserStatistics, error)
	// UpsertStatistics writes the aggregate row wholesale.
	UpsertStatistics(ctx context.Context, stats *models.UserStatistics) (*models.UserStatistics, error)
	// ListAchievements returns every achievement the user has earned.
	ListAchievements(ctx context.Context, userID uint) ([]models.Achievement, error)
	// CreateAchievementIfAbsent inserts an achievement keyed by
	// (userID, type, earnedDate) and returns the existing row unchanged
	// on a key collision.
	CreateAchievementIfAbsent(ctx context.Context, a models.Achievement) (*models.Achievement, error)
}
