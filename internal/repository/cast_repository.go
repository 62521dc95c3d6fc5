package repository

import (
	"cast_manager/internal/models"

	"gorm.io/gorm"
)

type CastRepository interface {
	Create(cast *models.Cast) error
	GetByID(id uint) (*models.Cast, error)
	GetByStoreID(storeID uint) ([]models.Cast, error)
	Update(cast *models.Cast) error
	Delete(id uint) error
}

type castRepository struct {
	db *gorm.DB
}

func NewCastRepository(db *gorm.DB) CastRepository {
	return &castRepository{db: db}
}

func (r *castRepository) Create(cast *models.Cast) error {
	return r.db.Create(cast).Error
}

func (r *castRepository) GetByID(id uint) (*models.Cast, error) {
	var cast models.Cast
	err := r.db.First(&cast, id).Error
	if err != nil {
		return nil, err
	}
	return &cast, nil
}

func (r *castRepository) GetByStoreID(storeID uint) ([]models.Cast, error) {
	var casts []models.Cast
	err := r.db.Where("store_id = ? AND is_active = ?", storeID, true).Find(&casts).Error
	return casts, err
}

func (r *castRepository) Update(cast *models.Cast) error {
	return r.db.Save(cast).Error
}

func (r *castRepository) Delete(id uint) error {
	return r.db.Delete(&models.Cast{}, id).Error
}
