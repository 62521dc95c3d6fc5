package models

import (
	"time"

	"gorm.io/gorm"
)

// Attendance is one clock-in/out record. ClockOut earlier than ClockIn means
// the shift crossed midnight.
type Attendance struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	StoreID   uint           `json:"store_id" gorm:"index;not null"`
	CastID    uint           `json:"cast_id" gorm:"index;not null"`
	Date      time.Time      `json:"date" gorm:"type:date;index;not null"`
	ClockIn   *time.Time     `json:"clock_in"`
	ClockOut  *time.Time     `json:"clock_out"`
	CostumeID *uint          `json:"costume_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type WageTier struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	StoreID        uint      `json:"store_id" gorm:"index;not null"`
	CastID         uint      `json:"cast_id" gorm:"uniqueIndex;not null"`
	BaseHourlyWage int64     `json:"base_hourly_wage" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CostumeBonus struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	StoreID      uint      `json:"store_id" gorm:"index;not null"`
	CostumeName  string    `json:"costume_name"`
	BonusPerHour int64     `json:"bonus_per_hour"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SpecialDayWage is a flat hourly bonus applied to every cast working the day.
type SpecialDayWage struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	StoreID      uint      `json:"store_id" gorm:"index;not null"`
	Date         time.Time `json:"date" gorm:"type:date;index;not null"`
	BonusPerHour int64     `json:"bonus_per_hour"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
