package services

import (
	"errors"

	"cast_manager/internal/models"
	"cast_manager/internal/repository"
)

type CastService interface {
	GetCasts(storeID uint) ([]models.Cast, error)
	CreateCast(cast *models.Cast) error
	DeactivateCast(id uint) error
}

type castService struct {
	castRepo repository.CastRepository
}

func NewCastService(castRepo repository.CastRepository) CastService {
	return &castService{castRepo: castRepo}
}

func (s *castService) GetCasts(storeID uint) ([]models.Cast, error) {
	return s.castRepo.GetByStoreID(storeID)
}

func (s *castService) CreateCast(cast *models.Cast) error {
	if cast.Name == "" {
		return errors.New("cast name is required")
	}
	if cast.StoreID == 0 {
		return errors.New("store id is required")
	}
	cast.IsActive = true
	return s.castRepo.Create(cast)
}

// DeactivateCast hides a cast from the roster without losing historical rows.
func (s *castService) DeactivateCast(id uint) error {
	cast, err := s.castRepo.GetByID(id)
	if err != nil {
		return err
	}
	cast.IsActive = false
	return s.castRepo.Update(cast)
}
