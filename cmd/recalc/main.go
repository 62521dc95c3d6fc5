package main

import (
	"flag"
	"os"
	"time"

	"cast_manager/internal/config"
	"cast_manager/internal/database"
	"cast_manager/internal/redis"
	"cast_manager/internal/repository"
	"cast_manager/internal/services"
	"cast_manager/pkg/notify"

	"github.com/sirupsen/logrus"
)

// Batch entry point for the nightly recalculation. Runs the same service the
// HTTP endpoint uses and exits non-zero on failure so cron can alert.
func main() {
	storeID := flag.Uint("store", 1, "store id to recalculate")
	dateStr := flag.String("date", "", "business date (YYYY-MM-DD), defaults to yesterday")
	flag.Parse()

	date := time.Now().AddDate(0, 0, -1)
	if *dateStr != "" {
		parsed, err := time.Parse("2006-01-02", *dateStr)
		if err != nil {
			logrus.WithError(err).Fatal("invalid -date, expected YYYY-MM-DD")
		}
		date = parsed
	}

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to Redis")
	}
	defer redisClient.Close()

	var notifier services.RecalcNotifier
	if cfg.NotifyWebhookURL != "" {
		notifier = notify.NewClient(cfg.NotifyWebhookURL, cfg.NotifyAuthToken)
	}

	recalcService := services.NewRecalcService(
		repository.NewSettingsRepository(db),
		repository.NewOrderRepository(db),
		repository.NewCastRepository(db),
		repository.NewProductRepository(db),
		repository.NewAttendanceRepository(db),
		repository.NewChannelSaleRepository(db),
		repository.NewDailyRepository(db),
		redisClient, notifier,
		time.Duration(cfg.LockTTLSeconds)*time.Second,
	)

	result := recalcService.RecalculateDaily(*storeID, date)
	logger := logrus.WithFields(logrus.Fields{
		"store_id": *storeID,
		"date":     date.Format("2006-01-02"),
		"casts":    result.CastsProcessed,
		"items":    result.ItemsProcessed,
	})
	if !result.Success {
		logger.WithField("error", result.Error).Error("recalculation failed")
		os.Exit(1)
	}
	logger.Info("recalculation finished")
}
