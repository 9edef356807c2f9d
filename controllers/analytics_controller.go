package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/example/salahtrack/dates"
	"github.com/example/salahtrack/engine"
	"github.com/example/salahtrack/store"
	"github.com/example/salahtrack/utils"
)

// AnalyticsController serves period analytics and aggregate statistics.
// Analytics reads never touch the achievement rules.
type AnalyticsController struct {
	engine *engine.Engine
}

// NewAnalyticsController creates a controller backed by the database store.
func NewAnalyticsController(db *gorm.DB) *AnalyticsController {
	return &AnalyticsController{
		engine: engine.New(store.NewGormStore(db), utils.Sugar),
	}
}

// GetAnalytics returns the week/month/year report. Responses are cached
// per (user, period, reference date, today) and invalidated on write.
func (a *AnalyticsController) GetAnalytics(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	period := dates.Period(ctx.DefaultQuery("period", string(dates.PeriodWeek)))
	refDate := ctx.Query("date")
	today := todayDate()

	cacheKey := utils.AnalyticsCacheKey(userID, string(period), refDate, dates.Format(today))
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	report, err := a.engine.PeriodAnalytics(ctx.Request.Context(), userID, period, refDate, today)
	if err != nil {
		respondEngineError(ctx, err)
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: report}
	utils.CacheSetJSON(cacheKey, wrapper, 10*time.Minute)
	utils.Success(ctx, report)
}

// GetStatistics returns the user's aggregate statistics, materializing
// them lazily when records exist but no row does yet.
func (a *AnalyticsController) GetStatistics(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	stats, err := a.engine.Statistics(ctx.Request.Context(), userID, todayDate())
	if err != nil {
		respondEngineError(ctx, err)
		return
	}
	utils.Success(ctx, stats)
}
