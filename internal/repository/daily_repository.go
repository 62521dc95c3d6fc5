package repository

import (
	"errors"
	"time"

	"cast_manager/internal/models"

	"gorm.io/gorm"
)

type DailyRepository interface {
	GetFinalizedCastIDs(storeID uint, date time.Time) ([]uint, error)
	GetStatsByStoreAndDate(storeID uint, date time.Time) ([]models.CastDailyStats, error)
	GetItemsByStoreAndDate(storeID uint, date time.Time) ([]models.CastDailyItem, error)
	GetItemsByCast(storeID uint, date time.Time, castID uint) ([]models.CastDailyItem, error)
	ReplaceDay(storeID uint, date time.Time, castIDs []uint, items []models.CastDailyItem, stats []models.CastDailyStats, processedChannelIDs []uint) error
}

type dailyRepository struct {
	db *gorm.DB
}

func NewDailyRepository(db *gorm.DB) DailyRepository {
	return &dailyRepository{db: db}
}

func (r *dailyRepository) GetFinalizedCastIDs(storeID uint, date time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.CastDailyStats{}).
		Where("store_id = ? AND date = ? AND is_finalized = ?", storeID, dateOnly(date), true).
		Pluck("cast_id", &ids).Error
	return ids, err
}

func (r *dailyRepository) GetStatsByStoreAndDate(storeID uint, date time.Time) ([]models.CastDailyStats, error) {
	var stats []models.CastDailyStats
	err := r.db.Where("store_id = ? AND date = ?", storeID, dateOnly(date)).
		Order("cast_id").
		Find(&stats).Error
	return stats, err
}

func (r *dailyRepository) GetItemsByStoreAndDate(storeID uint, date time.Time) ([]models.CastDailyItem, error) {
	var items []models.CastDailyItem
	err := r.db.Where("store_id = ? AND date = ?", storeID, dateOnly(date)).
		Order("cast_id, order_id, product_name").
		Find(&items).Error
	return items, err
}

func (r *dailyRepository) GetItemsByCast(storeID uint, date time.Time, castID uint) ([]models.CastDailyItem, error) {
	var items []models.CastDailyItem
	err := r.db.Where("store_id = ? AND date = ? AND cast_id = ?", storeID, dateOnly(date), castID).
		Order("order_id, product_name").
		Find(&items).Error
	return items, err
}

// ReplaceDay commits one recalculation atomically: delete the named casts'
// item rows for the day, insert the fresh ones, upsert stats and flag the
// consumed channel sales. Finalized casts must already be excluded from
// castIDs and stats by the caller; the stats upsert still refuses to touch a
// finalized row as a last line of defense.
func (r *dailyRepository) ReplaceDay(storeID uint, date time.Time, castIDs []uint, items []models.CastDailyItem, stats []models.CastDailyStats, processedChannelIDs []uint) error {
	day := dateOnly(date)
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(castIDs) > 0 {
			err := tx.Where("store_id = ? AND date = ? AND cast_id IN ?", storeID, day, castIDs).
				Delete(&models.CastDailyItem{}).Error
			if err != nil {
				return err
			}
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		for i := range stats {
			if err := upsertStats(tx, &stats[i]); err != nil {
				return err
			}
		}
		if len(processedChannelIDs) > 0 {
			err := tx.Model(&models.ChannelSale{}).
				Where("id IN ?", processedChannelIDs).
				Update("processed", true).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertStats(tx *gorm.DB, stats *models.CastDailyStats) error {
	var existing models.CastDailyStats
	err := tx.Where("store_id = ? AND cast_id = ? AND date = ?", stats.StoreID, stats.CastID, stats.Date).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(stats).Error
	}
	if err != nil {
		return err
	}
	if existing.IsFinalized {
		return nil
	}
	stats.ID = existing.ID
	stats.IsFinalized = existing.IsFinalized
	stats.CreatedAt = existing.CreatedAt
	return tx.Save(stats).Error
}
