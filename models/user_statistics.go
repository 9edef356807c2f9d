package models

import "time"

// UserStatistics is the per-user aggregate recomputed after every prayer
// write. It is only ever written wholesale by the reconciler; raw record
// CRUD never touches it. Invariant: BestStreak >= CurrentStreak.
type UserStatistics struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalPrayers     int       `gorm:"default:0" json:"total_prayers"`
	OnTimePrayers    int       `gorm:"default:0" json:"on_time_prayers"`
	QazaPrayers      int       `gorm:"default:0" json:"qaza_prayers"`
	CurrentStreak    int       `gorm:"default:0" json:"current_streak"`
	BestStreak       int       `gorm:"default:0" json:"best_streak"`
	PerfectWeeks     int       `gorm:"default:0" json:"perfect_weeks"`
	LastStreakUpdate string    `gorm:"size:10" json:"last_streak_update"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
