package services

import (
	"errors"
	"fmt"

	"cast_manager/internal/models"
	"cast_manager/internal/repository"
	"cast_manager/internal/salescalc"
)

type SettingsService interface {
	GetSettings(storeID uint) (*models.SalesSettings, error)
	UpdateSettings(settings *models.SalesSettings) error
	GetTaxRate(storeID uint) (*models.TaxRate, error)
	ResolvePolicy(storeID uint, view salescalc.AggregationView) (*salescalc.Policy, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) GetSettings(storeID uint) (*models.SalesSettings, error) {
	return s.settingsRepo.GetByStoreID(storeID)
}

func (s *settingsService) UpdateSettings(settings *models.SalesSettings) error {
	if settings.StoreID == 0 {
		return errors.New("store id is required")
	}
	if err := validateTaxBasis(&settings.Item, "item"); err != nil {
		return err
	}
	if err := validateTaxBasis(&settings.Receipt, "receipt"); err != nil {
		return err
	}
	return s.settingsRepo.Upsert(settings)
}

func (s *settingsService) GetTaxRate(storeID uint) (*models.TaxRate, error) {
	return s.settingsRepo.GetTaxRate(storeID)
}

// ResolvePolicy exposes the flattened policy for preview purposes.
func (s *settingsService) ResolvePolicy(storeID uint, view salescalc.AggregationView) (*salescalc.Policy, error) {
	settings, err := s.settingsRepo.GetByStoreID(storeID)
	if err != nil {
		return nil, err
	}
	p := salescalc.ResolvePolicy(settings, view)
	return &p, nil
}

// validateTaxBasis enforces that exactly one tax basis is active per view:
// tax-included (neither flag), tax-excluded, or tax-and-service-excluded.
// Excluding the service charge while keeping consumption tax mixes bases.
func validateTaxBasis(g *models.AggregationSetting, view string) error {
	if g.ExcludeServiceCharge && !g.ExcludeConsumptionTax {
		return fmt.Errorf("%s view: service charge cannot be excluded without consumption tax", view)
	}
	return nil
}
