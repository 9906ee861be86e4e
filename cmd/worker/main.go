package main

import (
	"log"

	"framerr/internal/pkg/logger"
	"framerr/internal/platform/config"
	"framerr/internal/platform/database"
	"framerr/internal/platform/repositories"
	"framerr/internal/workers"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	notificationRepo := repositories.NewNotificationRepository(db)

	log.Println("Starting Framerr background workers...")

	retention := workers.NewRetentionWorker(notificationRepo, cfg.Retention)
	go retention.Run(make(chan struct{}))

	// Keep process alive
	select {}
}
