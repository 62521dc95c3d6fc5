package main

import (
	"log"
	"time"

	"cast_manager/internal/config"
	"cast_manager/internal/database"
	"cast_manager/internal/handlers"
	"cast_manager/internal/redis"
	"cast_manager/internal/repository"
	"cast_manager/internal/services"
	"cast_manager/pkg/notify"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Initialize notifier
	var notifier services.RecalcNotifier
	if cfg.NotifyWebhookURL != "" {
		notifier = notify.NewClient(cfg.NotifyWebhookURL, cfg.NotifyAuthToken)
	}

	// Initialize repositories
	settingsRepo := repository.NewSettingsRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	castRepo := repository.NewCastRepository(db)
	productRepo := repository.NewProductRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	channelRepo := repository.NewChannelSaleRepository(db)
	dailyRepo := repository.NewDailyRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)

	// Initialize services
	recalcService := services.NewRecalcService(
		settingsRepo, orderRepo, castRepo, productRepo,
		attendanceRepo, channelRepo, dailyRepo,
		redisClient, notifier,
		time.Duration(cfg.LockTTLSeconds)*time.Second,
	)
	reportService := services.NewReportService(dailyRepo, redisClient, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	settingsService := services.NewSettingsService(settingsRepo)
	castService := services.NewCastService(castRepo)
	promotionService := services.NewPromotionService(promotionRepo, orderRepo, settingsRepo)

	// Initialize handlers
	apiHandler := handlers.NewAPIHandler(recalcService, reportService, settingsService, castService, promotionService)

	// Setup routes
	router := gin.Default()

	api := router.Group("/api")
	{
		api.POST("/recalculate", apiHandler.Recalculate)

		api.GET("/stores/:store_id/daily-stats", apiHandler.GetDailyStats)
		api.GET("/stores/:store_id/daily-items", apiHandler.GetDailyItems)

		api.GET("/stores/:store_id/settings", apiHandler.GetSettings)
		api.PUT("/stores/:store_id/settings", apiHandler.UpdateSettings)

		api.GET("/stores/:store_id/casts", apiHandler.GetCasts)
		api.POST("/stores/:store_id/casts", apiHandler.CreateCast)

		api.GET("/stores/:store_id/promotions", apiHandler.GetPromotions)
		api.POST("/promotions", apiHandler.CreatePromotion)
		api.POST("/promotions/:promotion_id/evaluate", apiHandler.EvaluatePromotion)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
