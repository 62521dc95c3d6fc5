package models

import (
	"time"

	"gorm.io/gorm"
)

type OrderItem struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	OrderID     uint    `json:"order_id" gorm:"index;not null"`
	ProductName string  `json:"product_name" gorm:"not null"`
	Category    *string `json:"category"`
	// Staff attached to this line, comma-joined. May be empty.
	CastName  string         `json:"cast_name"`
	Quantity  int            `json:"quantity" gorm:"not null"`
	UnitPrice int64          `json:"unit_price" gorm:"not null"`
	Subtotal  int64          `json:"subtotal" gorm:"not null"`
	NeedsCast bool           `json:"needs_cast" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
