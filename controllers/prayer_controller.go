package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/example/salahtrack/dates"
	"github.com/example/salahtrack/engine"
	"github.com/example/salahtrack/models"
	"github.com/example/salahtrack/store"
	"github.com/example/salahtrack/utils"
)

// PrayerController exposes the prayer log write and read endpoints.
type PrayerController struct {
	engine *engine.Engine
}

// NewPrayerController creates a controller backed by the database store.
func NewPrayerController(db *gorm.DB) *PrayerController {
	return &PrayerController{
		engine: engine.New(store.NewGormStore(db), utils.Sugar),
	}
}

// RecordDay writes one day's prayers and triggers reconciliation.
func (p *PrayerController) RecordDay(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var slots map[models.Slot]models.PrayerStatus
	if err := ctx.ShouldBindJSON(&slots); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid prayers payload")
		return
	}

	rec, err := p.engine.RecordDay(ctx.Request.Context(), userID, ctx.Param("date"), slots, todayDate())
	if err != nil {
		respondEngineError(ctx, err)
		return
	}

	utils.InvalidateUserAnalytics(userID)
	utils.Success(ctx, rec)
}

// RecordBatch writes up to seven days in one call, each date going
// through the same write+reconcile path as a single write.
func (p *PrayerController) RecordBatch(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Updates []engine.DayUpdate `json:"updates" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid batch payload")
		return
	}

	recs, err := p.engine.RecordBatch(ctx.Request.Context(), userID, req.Updates, todayDate())
	if err != nil {
		respondEngineError(ctx, err)
		return
	}

	utils.InvalidateUserAnalytics(userID)
	utils.Success(ctx, gin.H{"records": recs, "count": len(recs)})
}

// GetRecord returns one day's record; an unset day answers 404.
func (p *PrayerController) GetRecord(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	rec, err := p.engine.Record(ctx.Request.Context(), userID, ctx.Param("date"))
	if err != nil {
		respondEngineError(ctx, err)
		return
	}
	if rec == nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "no record for date")
		return
	}
	utils.Success(ctx, rec)
}

// ListRecords returns the user's raw records, optionally bounded by
// start and end query parameters.
func (p *PrayerController) ListRecords(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	recs, err := p.engine.Records(ctx.Request.Context(), userID, ctx.Query("start"), ctx.Query("end"))
	if err != nil {
		respondEngineError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"records": recs, "count": len(recs)})
}

// todayDate resolves "today" from the local clock once per request and
// normalizes it to the engine's calendar-date form.
func todayDate() time.Time {
	d, _ := dates.Parse(time.Now().In(time.Local).Format(dates.Layout))
	return d
}

// respondEngineError maps engine sentinels onto HTTP statuses.
func respondEngineError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidRange):
		utils.Error(ctx, http.StatusBadRequest, 40022, err.Error())
	case errors.Is(err, engine.ErrInvalidRecord):
		utils.Error(ctx, http.StatusBadRequest, 40023, err.Error())
	case errors.Is(err, engine.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40421, err.Error())
	case errors.Is(err, engine.ErrStoreUnavailable):
		utils.Error(ctx, http.StatusServiceUnavailable, 50301, "storage temporarily unavailable")
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50020, "internal error")
	}
}
