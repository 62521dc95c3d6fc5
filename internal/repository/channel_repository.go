package repository

import (
	"time"

	"cast_manager/internal/models"

	"gorm.io/gorm"
)

type ChannelSaleRepository interface {
	Create(sale *models.ChannelSale) error
	GetUnprocessed(storeID uint, date time.Time) ([]models.ChannelSale, error)
}

type channelSaleRepository struct {
	db *gorm.DB
}

func NewChannelSaleRepository(db *gorm.DB) ChannelSaleRepository {
	return &channelSaleRepository{db: db}
}

func (r *channelSaleRepository) Create(sale *models.ChannelSale) error {
	return r.db.Create(sale).Error
}

func (r *channelSaleRepository) GetUnprocessed(storeID uint, date time.Time) ([]models.ChannelSale, error) {
	var sales []models.ChannelSale
	err := r.db.Where("store_id = ? AND sale_date = ? AND processed = ?", storeID, dateOnly(date), false).
		Order("id").
		Find(&sales).Error
	return sales, err
}
