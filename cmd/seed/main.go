package main

import (
	"context"
	"fmt"

	"pulse/pkg/cache"
	"pulse/pkg/config"
	"pulse/pkg/database"
	"pulse/pkg/logger"
	"pulse/pkg/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		panic(err)
	}

	if err := seedDatabase(cfg, db, redisClient, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log *logger.Logger) error {
	ctx := context.Background()

	demoCreators := []struct {
		address string
		fee     int64
	}{
		{"0xdemo-creator-alice", 10_000000},
		{"0xdemo-creator-bob", 5_000000},
		{"0xdemo-creator-carol", 25_000000},
	}

	for _, creatorData := range demoCreators {
		var existing models.Creator
		result := db.Where("address = ?", creatorData.address).First(&existing)
		if result.Error == nil {
			log.Info("Creator %s already exists, skipping", creatorData.address)
			continue
		}

		creator := &models.Creator{
			Address:         creatorData.address,
			SubscriptionFee: creatorData.fee,
			Registered:      true,
		}
		if err := creator.BeforeCreate(nil); err != nil {
			return fmt.Errorf("failed to generate creator ID: %w", err)
		}
		if err := db.Create(creator).Error; err != nil {
			log.Error("Failed to create creator %s: %v", creatorData.address, err)
			continue
		}

		// Mirror the advertised fee the way the service does on register
		key := fmt.Sprintf("creator:%s", creatorData.address)
		if err := redisClient.HSet(ctx, key, "subscription_fee", creatorData.fee).Err(); err != nil {
			log.Error("Failed to mirror fee for %s: %v", creatorData.address, err)
		}

		log.Info("Created creator: %s (fee %d)", creatorData.address, creatorData.fee)
	}

	demoSubscribers := []string{
		"0xdemo-subscriber-dave",
		"0xdemo-subscriber-eve",
	}

	for _, address := range demoSubscribers {
		var existing models.TokenBalance
		result := db.Where("address = ?", address).First(&existing)
		if result.Error == nil {
			log.Info("Balance for %s already exists, skipping", address)
			continue
		}

		balance := &models.TokenBalance{
			Address: address,
			Balance: 1000_000000,
		}
		if err := balance.BeforeCreate(nil); err != nil {
			return fmt.Errorf("failed to generate balance ID: %w", err)
		}
		if err := db.Create(balance).Error; err != nil {
			log.Error("Failed to create balance for %s: %v", address, err)
			continue
		}

		// Pre-approve the vault so demo subscriptions work immediately
		allowance := &models.TokenAllowance{
			OwnerAddress:   address,
			SpenderAddress: cfg.VaultAddress,
			Amount:         100_000000,
		}
		if err := allowance.BeforeCreate(nil); err != nil {
			return fmt.Errorf("failed to generate allowance ID: %w", err)
		}
		if err := db.Create(allowance).Error; err != nil {
			log.Error("Failed to create allowance for %s: %v", address, err)
			continue
		}

		log.Info("Funded subscriber: %s", address)
	}

	if cfg.OperatorKeyHash == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte("demo-operator-key"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash demo operator key: %w", err)
		}
		log.Info("No OPERATOR_KEY_HASH set; for local minting use:")
		log.Info("  OPERATOR_KEY_HASH=%s (key: demo-operator-key)", string(hash))
	}

	return nil
}
