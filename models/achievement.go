package models

import (
	"encoding/json"
	"time"
)

// AchievementType tags the rule family an achievement belongs to.
type AchievementType string

const (
	AchievementPerfectDay      AchievementType = "perfect_day"
	AchievementPerfectWeek     AchievementType = "perfect_week"
	AchievementStreakMilestone AchievementType = "streak_milestone"
	AchievementPrayerMilestone AchievementType = "prayer_milestone"
	AchievementConsistency     AchievementType = "consistency"
	AchievementEarlyBird       AchievementType = "early_bird"
	AchievementNightOwl        AchievementType = "night_owl"
	AchievementGoldenHour      AchievementType = "golden_hour"
	AchievementWeekendWarrior  AchievementType = "weekend_warrior"
	AchievementDedication      AchievementType = "dedication"
	AchievementComeback        AchievementType = "comeback"
	AchievementMonthlyChampion AchievementType = "monthly_champion"
	AchievementSeasonal        AchievementType = "seasonal"
)

// AchievementMetadata is the tagged payload attached to an achievement.
// Each rule family has its own variant; the achievement type decides
// which one the Metadata column holds.
type AchievementMetadata interface {
	achievementMetadata()
}

// StreakMetadata describes streak-style achievements (streak_milestone,
// early_bird, night_owl, golden_hour, dedication, comeback).
type StreakMetadata struct {
	StreakDays int `json:"streak_days"`
}

// MilestoneMetadata describes count-threshold achievements
// (prayer_milestone, weekend_warrior, monthly_champion).
type MilestoneMetadata struct {
	Count int `json:"count"`
}

// ConsistencyMetadata describes success-rate achievements (consistency).
type ConsistencyMetadata struct {
	ConsistencyRate int    `json:"consistency_rate"`
	Period          string `json:"period"`
}

// RangeMetadata describes achievements earned over a date range
// (perfect_week, seasonal).
type RangeMetadata struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (StreakMetadata) achievementMetadata()      {}
func (MilestoneMetadata) achievementMetadata()   {}
func (ConsistencyMetadata) achievementMetadata() {}
func (RangeMetadata) achievementMetadata()       {}

// Achievement records a milestone a user has unlocked. The composite
// unique index on (user_id, type, earned_date) is the idempotency key:
// inserting a duplicate returns the existing row, never a second one.
// Rows are created once and never mutated or deleted.
type Achievement struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	UserID      uint            `gorm:"index:idx_achievement_key,unique;not null" json:"user_id"`
	Type        AchievementType `gorm:"index:idx_achievement_key,unique;size:32;not null" json:"type"`
	EarnedDate  string          `gorm:"index:idx_achievement_key,unique;size:10;not null" json:"earned_date"`
	Title       string          `gorm:"size:128" json:"title"`
	Description string          `gorm:"size:255" json:"description"`
	Metadata    string          `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// EncodeMetadata marshals a metadata variant for storage. A nil variant
// yields the empty string.
func EncodeMetadata(meta AchievementMetadata) string {
	if meta == nil {
		return ""
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(b)
}
