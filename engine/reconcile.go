package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/example/salahtrack/dates"
	"github.com/example/salahtrack/models"
	"github.com/example/salahtrack/store"
)

// Reconciler recomputes a user's derived views after every prayer
// write: reload the record set, recompute statistics, persist them, and
// award any newly-qualifying achievements through the store's
// idempotent create.
type Reconciler struct {
	store store.RecordStore
	log   *zap.SugaredLogger
}

// NewReconciler creates a reconciler over the given store.
func NewReconciler(s store.RecordStore, log *zap.SugaredLogger) *Reconciler {
	return &Reconciler{store: s, log: log}
}

// Reconcile runs one full pass for the user. Statistics and
// achievements are a best-effort derived view: the caller logs and
// swallows any returned error so the originating write never fails on
// reconciliation.
func (r *Reconciler) Reconcile(ctx context.Context, userID uint, today time.Time) error {
	records, err := r.store.ListRecords(ctx, userID, "", "")
	if err != nil {
		return err
	}

	stats := ComputeStatistics(records, today)
	stats.UserID = userID
	if _, err := r.store.UpsertStatistics(ctx, &stats); err != nil {
		return err
	}

	earned := dates.Format(today)
	for _, c := range Evaluate(records, stats, today) {
		_, err := r.store.CreateAchievementIfAbsent(ctx, models.Achievement{
			UserID:      userID,
			Type:        c.Type,
			EarnedDate:  earned,
			Title:       c.Title,
			Description: c.Description,
			Metadata:    models.EncodeMetadata(c.Metadata),
		})
		if err != nil && r.log != nil {
			// A failed award is dropped, not retried; the next write
			// re-evaluates the same rules.
			r.log.Warnf("achievement award failed user=%d type=%s: %v", userID, c.Type, err)
		}
	}
	return nil
}
