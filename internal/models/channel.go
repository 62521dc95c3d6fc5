package models

import (
	"time"

	"gorm.io/gorm"
)

// ChannelSale is a sale ingested from an external marketplace channel.
// Ingestion itself happens elsewhere; the recalculation engine only reads
// unprocessed rows, folds them into the cast's self sales and flips Processed.
type ChannelSale struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	StoreID     uint           `json:"store_id" gorm:"index;not null"`
	CastID      uint           `json:"cast_id" gorm:"index;not null"`
	SaleDate    time.Time      `json:"sale_date" gorm:"type:date;index;not null"`
	ActualPrice int64          `json:"actual_price" gorm:"not null"`
	Quantity    int            `json:"quantity" gorm:"not null;default:1"`
	Processed   bool           `json:"processed" gorm:"default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
