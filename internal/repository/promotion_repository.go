package repository

import (
	"cast_manager/internal/models"

	"gorm.io/gorm"
)

type PromotionRepository interface {
	Create(promotion *models.EventPromotion) error
	GetByID(id uint) (*models.EventPromotion, error)
	GetByStoreID(storeID uint) ([]models.EventPromotion, error)
}

type promotionRepository struct {
	db *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) PromotionRepository {
	return &promotionRepository{db: db}
}

func (r *promotionRepository) Create(promotion *models.EventPromotion) error {
	return r.db.Create(promotion).Error
}

func (r *promotionRepository) GetByID(id uint) (*models.EventPromotion, error) {
	var promotion models.EventPromotion
	err := r.db.Preload("Thresholds").First(&promotion, id).Error
	if err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (r *promotionRepository) GetByStoreID(storeID uint) ([]models.EventPromotion, error) {
	var promotions []models.EventPromotion
	err := r.db.Preload("Thresholds").Where("store_id = ?", storeID).Find(&promotions).Error
	return promotions, err
}
