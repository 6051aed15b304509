package main

import (
	"pulse/pkg/cache"
	"pulse/pkg/config"
	"pulse/pkg/database"
	"pulse/pkg/logger"
	"pulse/pkg/queue"
	ledgerApp "pulse/services/ledger/internal/app"
)

// @title           Pulse Ledger API
// @version         1.0
// @description     Subscription and earnings ledger for the Pulse creator platform

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Validate JWT_SECRET for services that use JWT
	if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	// Migrations are handled by goose - see cmd/migrate/main.go

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		panic(err)
	}

	// Event publishing is best-effort: the outbox table keeps the
	// durable record, so a missing broker only degrades fan-out.
	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("RabbitMQ unavailable, running without event fan-out: %v", err)
		queueClient = nil
	}

	ledgerApp.Run(cfg, log, db, redisClient, queueClient)
}
