package models

import (
	"time"

	"gorm.io/gorm"
)

// CastBackRate is one entry of the commission lookup cascade. ProductName and
// Category are both nil for the store-wide default entry.
type CastBackRate struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	StoreID       uint           `json:"store_id" gorm:"index;not null"`
	CastID        uint           `json:"cast_id" gorm:"index;not null"`
	ProductName   *string        `json:"product_name"`
	Category      *string        `json:"category"`
	SelfBackRatio float64        `json:"self_back_ratio"`
	HelpBackRatio *float64       `json:"help_back_ratio"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
