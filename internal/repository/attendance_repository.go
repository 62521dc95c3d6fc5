package repository

import (
	"errors"
	"time"

	"cast_manager/internal/models"

	"gorm.io/gorm"
)

type AttendanceRepository interface {
	GetByStoreAndDate(storeID uint, date time.Time) ([]models.Attendance, error)
	GetWageTiers(storeID uint) ([]models.WageTier, error)
	GetCostumeBonuses(storeID uint) ([]models.CostumeBonus, error)
	GetSpecialDayWage(storeID uint, date time.Time) (*models.SpecialDayWage, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) GetByStoreAndDate(storeID uint, date time.Time) ([]models.Attendance, error) {
	var rows []models.Attendance
	err := r.db.Where("store_id = ? AND date = ?", storeID, dateOnly(date)).Find(&rows).Error
	return rows, err
}

func (r *attendanceRepository) GetWageTiers(storeID uint) ([]models.WageTier, error) {
	var tiers []models.WageTier
	err := r.db.Where("store_id = ?", storeID).Find(&tiers).Error
	return tiers, err
}

func (r *attendanceRepository) GetCostumeBonuses(storeID uint) ([]models.CostumeBonus, error) {
	var bonuses []models.CostumeBonus
	err := r.db.Where("store_id = ?", storeID).Find(&bonuses).Error
	return bonuses, err
}

// GetSpecialDayWage returns nil without error when the day carries no
// adjustment.
func (r *attendanceRepository) GetSpecialDayWage(storeID uint, date time.Time) (*models.SpecialDayWage, error) {
	var row models.SpecialDayWage
	err := r.db.Where("store_id = ? AND date = ?", storeID, dateOnly(date)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
