package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pulse/pkg/config"
	"pulse/pkg/jwt"
	"pulse/pkg/logger"
	"pulse/pkg/middleware"
	"pulse/pkg/queue"
	ledgerHTTP "pulse/services/ledger/internal/controller/http"
	"pulse/services/ledger/internal/repo/persistent"
	"pulse/services/ledger/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	// Initialize repositories
	ledgerRepo := persistent.NewLedgerRepository(db)
	tokenRepo := persistent.NewTokenRepository(db)

	// Initialize use cases
	tokenUseCase := usecase.NewTokenUseCase(tokenRepo, log)
	vault := usecase.NewTokenVault(tokenUseCase, cfg.VaultAddress)

	var publisher usecase.EventPublisher
	if queueClient != nil {
		publisher = queueClient
	}
	ledgerUseCase := usecase.NewLedgerUseCase(ledgerRepo, vault, publisher, redisClient, log)

	// Initialize HTTP handlers
	ledgerHandler := ledgerHTTP.NewLedgerHandler(ledgerUseCase, log)
	tokenHandler := ledgerHTTP.NewTokenHandler(tokenUseCase, cfg.VaultAddress, cfg.OperatorKeyHash, log)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Operator-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))

	// Public reads for discovery surfaces and access-control callers
	{
		api.GET("/creators", ledgerHandler.ListCreators)
		api.GET("/creators/:creator_address", ledgerHandler.GetCreator)
		api.GET("/entitlements/:subscriber/:creator_address", ledgerHandler.GetEntitlement)
		api.GET("/token/balance/:address", tokenHandler.GetBalanceByAddress)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(jwtService))

	{
		authed.POST("/creators/register", ledgerHandler.RegisterCreator)
		authed.POST("/creators/withdraw", ledgerHandler.Withdraw)
		authed.PUT("/creators/fee", ledgerHandler.UpdateFee)
		authed.POST("/subscriptions/:creator_address", ledgerHandler.Subscribe)
		authed.GET("/subscriptions/:creator_address/status", ledgerHandler.SubscriptionStatus)

		authed.GET("/token/balance", tokenHandler.GetBalance)
		authed.GET("/token/allowance", tokenHandler.GetAllowance)
		authed.POST("/token/approve", tokenHandler.Approve)
		authed.POST("/token/transfer", tokenHandler.Transfer)
		authed.POST("/token/mint", tokenHandler.Mint)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Ledger service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down ledger service...")

	// The context is used to inform the server it has 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis: %v", err)
	}

	// Close RabbitMQ connection
	if queueClient != nil {
		queueClient.Close()
	}

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Ledger service exited")
}
