package models

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	StoreID     uint   `json:"store_id" gorm:"index;not null"`
	OrderNumber string `json:"order_number" gorm:"not null"`
	// Nominated staff. A comma-joined list when multiple nominations are allowed,
	// or a non-help label (e.g. walk-in) when no specific person was requested.
	StaffName string         `json:"staff_name"`
	OrderDate time.Time      `json:"order_date" gorm:"index;not null"`
	Items     []OrderItem    `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
