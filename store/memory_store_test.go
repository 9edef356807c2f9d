package store

import (
	"context"
	"testing"

	"github.com/example/salahtrack/models"
)

func completedSlots(completed ...models.Slot) map[models.Slot]models.PrayerStatus {
	slots := make(map[models.Slot]models.PrayerStatus, models.SlotCount)
	for _, s := range models.Slots {
		slots[s] = models.PrayerStatus{}
	}
	for _, s := range completed {
		slots[s] = models.PrayerStatus{Completed: true, OnTime: true}
	}
	return slots
}

func TestUpsertRecordMutatesInPlace(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	first, err := ms.UpsertRecord(ctx, 1, "2024-01-05", completedSlots(models.SlotFajr))
	if err != nil {
		t.Fatalf("UpsertRecord: %v", err)
	}
	second, err := ms.UpsertRecord(ctx, 1, "2024-01-05", completedSlots(models.SlotFajr, models.SlotIsha))
	if err != nil {
		t.Fatalf("UpsertRecord: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("second upsert allocated a new row: ID %d then %d", first.ID, second.ID)
	}
	if !second.Status(models.SlotIsha).Completed {
		t.Error("second upsert did not apply the isha update")
	}

	recs, err := ms.ListRecords(ctx, 1, "", "")
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("store holds %d records for the day, want 1", len(recs))
	}
}

func TestListRecordsBoundsAndOrder(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	for _, date := range []string{"2024-01-10", "2024-01-02", "2024-01-06"} {
		if _, err := ms.UpsertRecord(ctx, 1, date, completedSlots()); err != nil {
			t.Fatalf("UpsertRecord %s: %v", date, err)
		}
	}
	// Another user's rows never leak in.
	if _, err := ms.UpsertRecord(ctx, 2, "2024-01-06", completedSlots()); err != nil {
		t.Fatalf("UpsertRecord: %v", err)
	}

	recs, err := ms.ListRecords(ctx, 1, "2024-01-03", "2024-01-10")
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Date != "2024-01-06" || recs[1].Date != "2024-01-10" {
		t.Errorf("order = [%s %s], want ascending by date", recs[0].Date, recs[1].Date)
	}

	all, err := ms.ListRecords(ctx, 1, "", "")
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("unbounded list returned %d records, want 3", len(all))
	}
}

func TestGetStatisticsAbsentIsNil(t *testing.T) {
	ms := NewMemoryStore()
	stats, err := ms.GetStatistics(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}
	if stats != nil {
		t.Errorf("stats = %+v, want nil for an unseen user", stats)
	}
}

func TestUpsertStatisticsKeepsIdentity(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	first, err := ms.UpsertStatistics(ctx, &models.UserStatistics{UserID: 1, TotalPrayers: 5})
	if err != nil {
		t.Fatalf("UpsertStatistics: %v", err)
	}
	second, err := ms.UpsertStatistics(ctx, &models.UserStatistics{UserID: 1, TotalPrayers: 10})
	if err != nil {
		t.Fatalf("UpsertStatistics: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("rewrite changed the row ID: %d then %d", first.ID, second.ID)
	}
	if second.TotalPrayers != 10 {
		t.Errorf("TotalPrayers = %d, want 10", second.TotalPrayers)
	}
}

func TestCreateAchievementIfAbsentIdempotent(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	award := models.Achievement{
		UserID:     1,
		Type:       models.AchievementPerfectDay,
		Title:      "Perfect Day",
		EarnedDate: "2024-01-05",
	}

	first, err := ms.CreateAchievementIfAbsent(ctx, award)
	if err != nil {
		t.Fatalf("CreateAchievementIfAbsent: %v", err)
	}
	second, err := ms.CreateAchievementIfAbsent(ctx, award)
	if err != nil {
		t.Fatalf("CreateAchievementIfAbsent: %v", err)
	}

	if first.ID == "" {
		t.Fatal("first insert did not assign an ID")
	}
	if first.ID != second.ID {
		t.Errorf("duplicate insert created a new row: %s then %s", first.ID, second.ID)
	}

	earned, err := ms.ListAchievements(ctx, 1)
	if err != nil {
		t.Fatalf("ListAchievements: %v", err)
	}
	if len(earned) != 1 {
		t.Errorf("store holds %d rows, want 1", len(earned))
	}

	// Same type on a different day is a distinct award.
	award.EarnedDate = "2024-01-06"
	if _, err := ms.CreateAchievementIfAbsent(ctx, award); err != nil {
		t.Fatalf("CreateAchievementIfAbsent: %v", err)
	}
	earned, _ = ms.ListAchievements(ctx, 1)
	if len(earned) != 2 {
		t.Errorf("store holds %d rows, want 2", len(earned))
	}
}
