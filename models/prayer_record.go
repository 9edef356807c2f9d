package models

import (
	"time"

	"gorm.io/gorm"
)

// Slot names one of the five daily prayers.
type Slot string

const (
	SlotFajr    Slot = "fajr"
	SlotDhuhr   Slot = "dhuhr"
	SlotAsr     Slot = "asr"
	SlotMaghrib Slot = "maghrib"
	SlotIsha    Slot = "isha"
)

// Slots lists the five prayer slots in their daily order.
var Slots = []Slot{SlotFajr, SlotDhuhr, SlotAsr, SlotMaghrib, SlotIsha}

// SlotCount is the number of prayer slots observed per day.
const SlotCount = 5

// PrayerStatus holds the completion state of a single prayer slot.
type PrayerStatus struct {
	Completed   bool       `json:"completed"`
	OnTime      bool       `json:"on_time"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// PrayerRecord stores one user's prayer log for a single calendar date.
// The date is kept as an ISO YYYY-MM-DD string; (user_id, date) is the
// natural key, so a later write to the same day updates the row in place.
// A day with no row is an unset day, never an empty record.
type PrayerRecord struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    uint         `gorm:"index:idx_prayer_user_date,unique;not null" json:"user_id"`
	Date      string       `gorm:"index:idx_prayer_user_date,unique;size:10;not null" json:"date"`
	Fajr      PrayerStatus `gorm:"embedded;embeddedPrefix:fajr_" json:"fajr"`
	Dhuhr     PrayerStatus `gorm:"embedded;embeddedPrefix:dhuhr_" json:"dhuhr"`
	Asr       PrayerStatus `gorm:"embedded;embeddedPrefix:asr_" json:"asr"`
	Maghrib   PrayerStatus `gorm:"embedded;embeddedPrefix:maghrib_" json:"maghrib"`
	Isha      PrayerStatus `gorm:"embedded;embeddedPrefix:isha_" json:"isha"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (r *PrayerRecord) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (r *PrayerRecord) BeforeUpdate(tx *gorm.DB) error {
	r.UpdatedAt = time.Now()
	return nil
}

// Status returns the state of the named slot.
func (r *PrayerRecord) Status(slot Slot) PrayerStatus {
	switch slot {
	case SlotFajr:
		return r.Fajr
	case SlotDhuhr:
		return r.Dhuhr
	case SlotAsr:
		return r.Asr
	case SlotMaghrib:
		return r.Maghrib
	case SlotIsha:
		return r.Isha
	}
	return PrayerStatus{}
}

// SetStatus replaces the state of the named slot. Unknown slots are ignored.
func (r *PrayerRecord) SetStatus(slot Slot, st PrayerStatus) {
	switch slot {
	case SlotFajr:
		r.Fajr = st
	case SlotDhuhr:
		r.Dhuhr = st
	case SlotAsr:
		r.Asr = st
	case SlotMaghrib:
		r.Maghrib = st
	case SlotIsha:
		r.Isha = st
	}
}

// SlotMap exposes the five slots as a map keyed by slot name.
func (r *PrayerRecord) SlotMap() map[Slot]PrayerStatus {
	return map[Slot]PrayerStatus{
		SlotFajr:    r.Fajr,
		SlotDhuhr:   r.Dhuhr,
		SlotAsr:     r.Asr,
		SlotMaghrib: r.Maghrib,
		SlotIsha:    r.Isha,
	}
}

// AllCompleted reports whether every slot of the day is completed.
func (r *PrayerRecord) AllCompleted() bool {
	for _, slot := range Slots {
		if !r.Status(slot).Completed {
			return false
		}
	}
	return true
}

// CompletedCount returns how many of the five slots are completed.
func (r *PrayerRecord) CompletedCount() int {
	n := 0
	for _, slot := range Slots {
		if r.Status(slot).Completed {
			n++
		}
	}
	return n
}
