package repository

import (
	"cast_manager/internal/models"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *models.Product) error
	GetByStoreID(storeID uint) ([]models.Product, error)
	GetBackRates(storeID uint) ([]models.CastBackRate, error)
	CreateBackRate(rate *models.CastBackRate) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepository) GetByStoreID(storeID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("store_id = ?", storeID).Find(&products).Error
	return products, err
}

func (r *productRepository) GetBackRates(storeID uint) ([]models.CastBackRate, error) {
	var rates []models.CastBackRate
	err := r.db.Where("store_id = ?", storeID).Find(&rates).Error
	return rates, err
}

func (r *productRepository) CreateBackRate(rate *models.CastBackRate) error {
	return r.db.Create(rate).Error
}
