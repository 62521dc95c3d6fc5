package services

import (
	"errors"
	"fmt"
	"time"

	"cast_manager/internal/models"
	"cast_manager/internal/repository"
	"cast_manager/internal/salescalc"

	"gorm.io/gorm"
)

// PromotionService evaluates receipts against a promotion's reward
// thresholds. It reads only; achievements are returned, never persisted.
type PromotionService interface {
	EvaluateDay(promotionID uint, date time.Time) ([]models.PromotionAchievement, *models.PromotionBatchStats, error)
	EvaluateOrder(promotionID uint, orderID uint) (*models.PromotionAchievement, error)
	GetPromotions(storeID uint) ([]models.EventPromotion, error)
	CreatePromotion(promotion *models.EventPromotion) error
}

type promotionService struct {
	promotionRepo repository.PromotionRepository
	orderRepo     repository.OrderRepository
	settingsRepo  repository.SettingsRepository
}

func NewPromotionService(promotionRepo repository.PromotionRepository, orderRepo repository.OrderRepository, settingsRepo repository.SettingsRepository) PromotionService {
	return &promotionService{
		promotionRepo: promotionRepo,
		orderRepo:     orderRepo,
		settingsRepo:  settingsRepo,
	}
}

func (s *promotionService) EvaluateDay(promotionID uint, date time.Time) ([]models.PromotionAchievement, *models.PromotionBatchStats, error) {
	promo, err := s.promotionRepo.GetByID(promotionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load promotion: %w", err)
	}
	taxPercent, err := s.taxPercent(promo.StoreID)
	if err != nil {
		return nil, nil, err
	}
	orders, err := s.orderRepo.GetByStoreAndDate(promo.StoreID, date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load orders: %w", err)
	}

	achievements := make([]models.PromotionAchievement, 0, len(orders))
	for i := range orders {
		achievements = append(achievements, salescalc.EvaluateReceipt(&orders[i], promo, taxPercent))
	}
	stats := salescalc.BatchStats(achievements)
	return achievements, &stats, nil
}

func (s *promotionService) EvaluateOrder(promotionID uint, orderID uint) (*models.PromotionAchievement, error) {
	promo, err := s.promotionRepo.GetByID(promotionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load promotion: %w", err)
	}
	taxPercent, err := s.taxPercent(promo.StoreID)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	a := salescalc.EvaluateReceipt(order, promo, taxPercent)
	return &a, nil
}

func (s *promotionService) GetPromotions(storeID uint) ([]models.EventPromotion, error) {
	return s.promotionRepo.GetByStoreID(storeID)
}

func (s *promotionService) CreatePromotion(promotion *models.EventPromotion) error {
	if promotion.Name == "" {
		return errors.New("promotion name is required")
	}
	for _, t := range promotion.Thresholds {
		if t.MaxAmount != nil && *t.MaxAmount <= t.MinAmount {
			return fmt.Errorf("threshold %q: max amount must exceed min amount", t.RewardName)
		}
	}
	return s.promotionRepo.Create(promotion)
}

func (s *promotionService) taxPercent(storeID uint) (float64, error) {
	rate, err := s.settingsRepo.GetTaxRate(storeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 10, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load tax rate: %w", err)
	}
	return rate.ConsumptionTaxPercent, nil
}
