package services

import (
	"time"

	"cast_manager/internal/models"
	"cast_manager/internal/redis"
	"cast_manager/internal/repository"

	"github.com/sirupsen/logrus"
)

// ReportService reads the recalculation output for the dashboard endpoints,
// with a short-lived cache in front of the stats query.
type ReportService interface {
	GetDailyStats(storeID uint, date time.Time) ([]models.CastDailyStats, error)
	GetDailyItems(storeID uint, date time.Time) ([]models.CastDailyItem, error)
	GetDailyItemsByCast(storeID uint, date time.Time, castID uint) ([]models.CastDailyItem, error)
}

type reportService struct {
	dailyRepo repository.DailyRepository
	cache     *redis.Client
	cacheTTL  time.Duration
}

func NewReportService(dailyRepo repository.DailyRepository, cache *redis.Client, cacheTTL time.Duration) ReportService {
	return &reportService{dailyRepo: dailyRepo, cache: cache, cacheTTL: cacheTTL}
}

func (s *reportService) GetDailyStats(storeID uint, date time.Time) ([]models.CastDailyStats, error) {
	dateStr := date.Format("2006-01-02")
	if s.cache != nil {
		var cached []models.CastDailyStats
		hit, err := s.cache.GetDailyStats(storeID, dateStr, &cached)
		if err != nil {
			logrus.WithError(err).Warn("stats cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	stats, err := s.dailyRepo.GetStatsByStoreAndDate(storeID, date)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetDailyStats(storeID, dateStr, stats, s.cacheTTL); err != nil {
			logrus.WithError(err).Warn("stats cache write failed")
		}
	}
	return stats, nil
}

func (s *reportService) GetDailyItems(storeID uint, date time.Time) ([]models.CastDailyItem, error) {
	return s.dailyRepo.GetItemsByStoreAndDate(storeID, date)
}

func (s *reportService) GetDailyItemsByCast(storeID uint, date time.Time, castID uint) ([]models.CastDailyItem, error) {
	return s.dailyRepo.GetItemsByCast(storeID, date, castID)
}
