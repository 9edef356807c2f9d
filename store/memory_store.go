package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/salahtrack/models"
)

// recordKey is the composite key for a user's day. A dedicated key type
// replaces ad hoc "userId-date" string concatenation.
type recordKey struct {
	UserID uint
	Date   string
}

// achievementKey is the idempotency key for an awarded achievement.
type achievementKey struct {
	UserID     uint
	Type       models.AchievementType
	EarnedDate string
}

// MemoryStore is an in-process RecordStore used by tests and as a
// fallback when no database is configured.
type MemoryStore struct {
	mu           sync.Mutex
	records      map[recordKey]*models.PrayerRecord
	stats        map[uint]*models.UserStatistics
	achievements map[achievementKey]*models.Achievement

	nextRecordID uint
	nextStatsID  uint

	// UpsertRecordCalls and UpsertStatisticsCalls count invocations;
	// tests use them to assert per-date write and reconcile behavior.
	UpsertRecordCalls     int
	UpsertStatisticsCalls int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:      make(map[recordKey]*models.PrayerRecord),
		stats:        make(map[uint]*models.UserStatistics),
		achievements: make(map[achievementKey]*models.Achievement),
	}
}

// GetRecord returns a copy of the record for (userID, date), or nil.
func (m *MemoryStore) GetRecord(ctx context.Context, userID uint, date string) (*models.PrayerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[recordKey{UserID: userID, Date: date}]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

// ListRecords returns the user's records within [start, end], sorted by
// date ascending. Empty bounds leave that side unfiltered.
func (m *MemoryStore) ListRecords(ctx context.Context, userID uint, start, end string) ([]models.PrayerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.PrayerRecord
	for key, rec := range m.records {
		if key.UserID != userID {
			continue
		}
		if start != "" && key.Date < start {
			continue
		}
		if end != "" && key.Date > end {
			continue
		}
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// UpsertRecord creates or mutates the day's record in place.
func (m *MemoryStore) UpsertRecord(ctx context.Context, userID uint, date string, slots map[models.Slot]models.PrayerStatus) (*models.PrayerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpsertRecordCalls++

	key := recordKey{UserID: userID, Date: date}
	rec, ok := m.records[key]
	if !ok {
		m.nextRecordID++
		rec = &models.PrayerRecord{
			ID:        m.nextRecordID,
			UserID:    userID,
			Date:      date,
			CreatedAt: time.Now(),
		}
		m.records[key] = rec
	}
	for slot, st := range slots {
		rec.SetStatus(slot, st)
	}
	rec.UpdatedAt = time.Now()

	cp := *rec
	return &cp, nil
}

// GetStatistics returns a copy of the user's aggregate row, or nil.
func (m *MemoryStore) GetStatistics(ctx context.Context, userID uint) (*models.UserStatistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, ok := m.stats[userID]
	if !ok {
		return nil, nil
	}
	cp := *stats
	return &cp, nil
}

// UpsertStatistics writes the aggregate row wholesale.
func (m *MemoryStore) UpsertStatistics(ctx context.Context, stats *models.UserStatistics) (*models.UserStatistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpsertStatisticsCalls++

	existing, ok := m.stats[stats.UserID]
	cp := *stats
	if ok {
		cp.ID = existing.ID
		cp.CreatedAt = existing.CreatedAt
	} else {
		m.nextStatsID++
		cp.ID = m.nextStatsID
		cp.CreatedAt = time.Now()
	}
	cp.UpdatedAt = time.Now()
	m.stats[stats.UserID] = &cp

	out := cp
	return &out, nil
}

// ListAchievements returns the user's achievements, most recent first.
func (m *MemoryStore) ListAchievements(ctx context.Context, userID uint) ([]models.Achievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Achievement
	for key, a := range m.achievements {
		if key.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EarnedDate != out[j].EarnedDate {
			return out[i].EarnedDate > out[j].EarnedDate
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}

// CreateAchievementIfAbsent inserts the achievement unless its key
// already exists, returning the existing row unchanged on collision.
func (m *MemoryStore) CreateAchievementIfAbsent(ctx context.Context, a models.Achievement) (*models.Achievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := achievementKey{UserID: a.UserID, Type: a.Type, EarnedDate: a.EarnedDate}
	if existing, ok := m.achievements[key]; ok {
		cp := *existing
		return &cp, nil
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now()
	m.achievements[key] = &a

	cp := a
	return &cp, nil
}
