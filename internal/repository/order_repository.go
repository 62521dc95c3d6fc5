package repository

import (
	"time"

	"cast_manager/internal/models"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByStoreAndDate(storeID uint, date time.Time) ([]models.Order, error)
	GetByDateRange(storeID uint, startDate, endDate time.Time) ([]models.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByStoreAndDate(storeID uint, date time.Time) ([]models.Order, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return r.GetByDateRange(storeID, start, start.AddDate(0, 0, 1))
}

func (r *orderRepository) GetByDateRange(storeID uint, startDate, endDate time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("store_id = ? AND order_date >= ? AND order_date < ?", storeID, startDate, endDate).
		Order("id").
		Find(&orders).Error
	return orders, err
}
