package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/salahtrack/models"
)

// GormStore implements RecordStore on MySQL through GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store backed by the given database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func wrapDBErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

// GetRecord returns the record for (userID, date), or nil when absent.
func (s *GormStore) GetRecord(ctx context.Context, userID uint, date string) (*models.PrayerRecord, error) {
	var rec models.PrayerRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDBErr("get record", err)
	}
	return &rec, nil
}

// ListRecords returns the user's records within [start, end] ordered by
// date ascending; empty bounds leave that side unfiltered.
func (s *GormStore) ListRecords(ctx context.Context, userID uint, start, end string) ([]models.PrayerRecord, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if start != "" {
		q = q.Where("date >= ?", start)
	}
	if end != "" {
		q = q.Where("date <= ?", end)
	}

	var records []models.PrayerRecord
	if err := q.Order("date ASC").Find(&records).Error; err != nil {
		return nil, wrapDBErr("list records", err)
	}
	return records, nil
}

// UpsertRecord writes a day's slots, creating the row on first write and
// updating it in place afterwards. Last write wins for overlapping
// writers on the same key.
func (s *GormStore) UpsertRecord(ctx context.Context, userID uint, date string, slots map[models.Slot]models.PrayerStatus) (*models.PrayerRecord, error) {
	var rec models.PrayerRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = models.PrayerRecord{UserID: userID, Date: date}
	case err != nil:
		return nil, wrapDBErr("load record for upsert", err)
	}

	for slot, st := range slots {
		rec.SetStatus(slot, st)
	}

	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			UpdateAll: true,
		}).
		Save(&rec).Error; err != nil {
		return nil, wrapDBErr("upsert record", err)
	}
	return &rec, nil
}

// GetStatistics returns the user's aggregate row, or nil when absent.
func (s *GormStore) GetStatistics(ctx context.Context, userID uint) (*models.UserStatistics, error) {
	var stats models.UserStatistics
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDBErr("get statistics", err)
	}
	return &stats, nil
}

// UpsertStatistics writes the aggregate row wholesale, creating it on
// first need.
func (s *GormStore) UpsertStatistics(ctx context.Context, stats *models.UserStatistics) (*models.UserStatistics, error) {
	var existing models.UserStatistics
	err := s.db.WithContext(ctx).Where("user_id = ?", stats.UserID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.WithContext(ctx).Create(stats).Error; err != nil {
			return nil, wrapDBErr("create statistics", err)
		}
		return stats, nil
	case err != nil:
		return nil, wrapDBErr("load statistics for upsert", err)
	}

	stats.ID = existing.ID
	stats.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(stats).Error; err != nil {
		return nil, wrapDBErr("update statistics", err)
	}
	return stats, nil
}

// ListAchievements returns the user's achievements, most recent first.
func (s *GormStore) ListAchievements(ctx context.Context, userID uint) ([]models.Achievement, error) {
	var out []models.Achievement
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_date DESC, type ASC").
		Find(&out).Error; err != nil {
		return nil, wrapDBErr("list achievements", err)
	}
	return out, nil
}

// CreateAchievementIfAbsent inserts the achievement unless the
// (user_id, type, earned_date) key already exists, in which case the
// existing row is returned unchanged. The unique index makes the insert
// race-safe; DoNothing turns a concurrent duplicate into a fetch.
func (s *GormStore) CreateAchievementIfAbsent(ctx context.Context, a models.Achievement) (*models.Achievement, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "type"}, {Name: "earned_date"}},
			DoNothing: true,
		}).
		Create(&a)
	if res.Error != nil {
		return nil, wrapDBErr("create achievement", res.Error)
	}
	if res.RowsAffected > 0 {
		return &a, nil
	}

	var existing models.Achievement
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND earned_date = ?", a.UserID, a.Type, a.EarnedDate).
		First(&existing).Error; err != nil {
		return nil, wrapDBErr("load existing achievement", err)
	}
	return &existing, nil
}
