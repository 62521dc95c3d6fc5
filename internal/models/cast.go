package models

import (
	"time"

	"gorm.io/gorm"
)

type Cast struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	StoreID   uint           `json:"store_id" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"not null"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type Product struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	StoreID  uint    `json:"store_id" gorm:"index;not null"`
	Name     string  `json:"name" gorm:"not null"`
	Category *string `json:"category"`
	// Products like flat table charges carry no staff attribution.
	NeedsCast bool           `json:"needs_cast" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
