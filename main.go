package main

import (
	"github.com/example/salahtrack/config"
	"github.com/example/salahtrack/models"
	"github.com/example/salahtrack/routes"
	"github.com/example/salahtrack/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.PrayerRecord{},
		&models.UserStatistics{},
		&models.Achievement{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
