package main

import (
	"log/slog"
	"os"

	"focusflow/backend/internal/config"
	"focusflow/backend/internal/db"
	"focusflow/backend/internal/handler"
	"focusflow/backend/internal/repository"
	"focusflow/backend/internal/router"
	"focusflow/backend/internal/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg := config.Load()

	fileSettings, err := config.LoadSettingsFile(cfg.SettingsFile)
	if err != nil {
		slog.Error("load settings file", "path", cfg.SettingsFile, "error", err)
		os.Exit(1)
	}

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		slog.Error("run migrations", "error", err)
		os.Exit(1)
	}

	repo := repository.NewStateRepository(database)
	timerService := service.NewTimerService(service.Deps{
		Repo:                 repo,
		Interval:             cfg.TickInterval,
		DefaultAudio:         fileSettings.Audio,
		DefaultNotifications: fileSettings.Notifications,
	})
	defer timerService.Close()

	engine := router.New(
		handler.NewTimerHandler(timerService),
		handler.NewSessionHandler(timerService),
		handler.NewStatsHandler(timerService),
		handler.NewSyncHandler(timerService),
		cfg.CORSOrigins,
	)

	slog.Info("backend listening", "port", cfg.Port)
	if err := engine.Run(":" + cfg.Port); err != nil {
		slog.Error("run server", "error", err)
		os.Exit(1)
	}
}
