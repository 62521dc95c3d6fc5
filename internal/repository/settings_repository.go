package repository

import (
	"errors"

	"cast_manager/internal/models"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	GetByStoreID(storeID uint) (*models.SalesSettings, error)
	Upsert(settings *models.SalesSettings) error
	GetTaxRate(storeID uint) (*models.TaxRate, error)
	UpsertTaxRate(rate *models.TaxRate) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetByStoreID(storeID uint) (*models.SalesSettings, error) {
	var settings models.SalesSettings
	err := r.db.Where("store_id = ?", storeID).First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Upsert(settings *models.SalesSettings) error {
	var existing models.SalesSettings
	err := r.db.Where("store_id = ?", settings.StoreID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(settings).Error
	}
	if err != nil {
		return err
	}
	settings.ID = existing.ID
	return r.db.Save(settings).Error
}

func (r *settingsRepository) GetTaxRate(storeID uint) (*models.TaxRate, error) {
	var rate models.TaxRate
	err := r.db.Where("store_id = ?", storeID).First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *settingsRepository) UpsertTaxRate(rate *models.TaxRate) error {
	var existing models.TaxRate
	err := r.db.Where("store_id = ?", rate.StoreID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(rate).Error
	}
	if err != nil {
		return err
	}
	rate.ID = existing.ID
	return r.db.Save(rate).Error
}
