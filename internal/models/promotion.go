package models

import (
	"time"

	"gorm.io/gorm"
)

type PromotionAggregationType string

const (
	CategoryBased PromotionAggregationType = "category_based"
	TotalBased    PromotionAggregationType = "total_based"
)

// EventPromotion defines a threshold-based reward campaign. Achievement is a
// pure function of one receipt against this definition; nothing is persisted.
type EventPromotion struct {
	ID              uint                     `json:"id" gorm:"primaryKey"`
	StoreID         uint                     `json:"store_id" gorm:"index;not null"`
	Name            string                   `json:"name" gorm:"not null"`
	AggregationType PromotionAggregationType `json:"aggregation_type" gorm:"default:'total_based'"`
	// Comma-separated category names; only consulted for category_based promotions.
	TargetCategories string         `json:"target_categories"`
	ExcludeTax       bool           `json:"exclude_tax"`
	RoundingMethod   RoundingMethod `json:"rounding_method" gorm:"default:'none'"`
	RoundingPosition int64          `json:"rounding_position" gorm:"default:100"`

	Thresholds []PromotionThreshold `json:"thresholds" gorm:"foreignKey:PromotionID"`

	StartDate *time.Time     `json:"start_date"`
	EndDate   *time.Time     `json:"end_date"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type PromotionThreshold struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PromotionID uint      `json:"promotion_id" gorm:"index;not null"`
	MinAmount   int64     `json:"min_amount" gorm:"not null"`
	MaxAmount   *int64    `json:"max_amount"`
	RewardName  string    `json:"reward_name" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PromotionAchievement is the evaluation result for one receipt.
type PromotionAchievement struct {
	OrderID        uint   `json:"order_id"`
	TargetAmount   int64  `json:"target_amount"`
	AchievedReward string `json:"achieved_reward,omitempty"`
	NextReward     string `json:"next_reward,omitempty"`
	NextGap        int64  `json:"next_gap,omitempty"`
	Achieved       bool   `json:"achieved"`
}

// PromotionBatchStats aggregates a list of per-receipt achievements.
type PromotionBatchStats struct {
	ReceiptCount    int            `json:"receipt_count"`
	AchievedCount   int            `json:"achieved_count"`
	AchievementRate float64        `json:"achievement_rate"`
	RewardCounts    map[string]int `json:"reward_counts"`
}
