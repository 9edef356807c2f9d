package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/example/salahtrack/engine"
	"github.com/example/salahtrack/store"
	"github.com/example/salahtrack/utils"
)

// AchievementController lists the milestones a user has unlocked.
type AchievementController struct {
	engine *engine.Engine
}

// NewAchievementController creates a controller backed by the database store.
func NewAchievementController(db *gorm.DB) *AchievementController {
	return &AchievementController{
		engine: engine.New(store.NewGormStore(db), utils.Sugar),
	}
}

// List returns every achievement the user has earned, most recent first.
func (c *AchievementController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	achievements, err := c.engine.Achievements(ctx.Request.Context(), userID)
	if err != nil {
		respondEngineError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"achievements": achievements, "count": len(achievements)})
}
