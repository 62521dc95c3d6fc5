package models

import (
	"time"
)

// CastDailyItem is one revenue-split row: one (order, product, self-cast,
// help-cast) pairing on a given date. Rows are fully recreated per
// store+date+cast on every recompute; rows of a finalized cast are never
// touched. Both views' self sales are carried so switching the published
// aggregation later needs no recompute.
type CastDailyItem struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	StoreID    uint      `json:"store_id" gorm:"index:idx_daily_item_day;not null"`
	Date       time.Time `json:"date" gorm:"type:date;index:idx_daily_item_day;not null"`
	OrderID    uint      `json:"order_id" gorm:"not null"`
	CastID     uint      `json:"cast_id" gorm:"index;not null"`
	HelpCastID *uint     `json:"help_cast_id"`

	ProductName string  `json:"product_name" gorm:"not null"`
	Category    *string `json:"category"`
	Quantity    int     `json:"quantity"`

	SelfSales             int64 `json:"self_sales"`
	HelpSales             int64 `json:"help_sales"`
	SelfSalesItemBased    int64 `json:"self_sales_item_based"`
	SelfSalesReceiptBased int64 `json:"self_sales_receipt_based"`

	SelfBackRate   float64 `json:"self_back_rate"`
	SelfBackAmount int64   `json:"self_back_amount"`
	HelpBackRate   float64 `json:"help_back_rate"`
	HelpBackAmount int64   `json:"help_back_amount"`

	IsSelf    bool      `json:"is_self"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CastDailyStats is the per-cast daily summary. IsFinalized is set by an
// external back-office action; the recalculation engine only reads it and
// must leave finalized rows untouched.
type CastDailyStats struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	StoreID uint      `json:"store_id" gorm:"uniqueIndex:idx_daily_stats_key;not null"`
	CastID  uint      `json:"cast_id" gorm:"uniqueIndex:idx_daily_stats_key;not null"`
	Date    time.Time `json:"date" gorm:"type:date;uniqueIndex:idx_daily_stats_key;not null"`

	SelfSalesItemBased     int64 `json:"self_sales_item_based"`
	HelpSalesItemBased     int64 `json:"help_sales_item_based"`
	TotalSalesItemBased    int64 `json:"total_sales_item_based"`
	SelfSalesReceiptBased  int64 `json:"self_sales_receipt_based"`
	HelpSalesReceiptBased  int64 `json:"help_sales_receipt_based"`
	TotalSalesReceiptBased int64 `json:"total_sales_receipt_based"`

	ProductBackTotal int64 `json:"product_back_total"`

	WorkMinutes     int   `json:"work_minutes"`
	HourlyWage      int64 `json:"hourly_wage"`
	WageAmount      int64 `json:"wage_amount"`
	NominationCount int   `json:"nomination_count"`

	IsFinalized bool      `json:"is_finalized" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecalcResult is the structured outcome of one daily recalculation run.
type RecalcResult struct {
	Success        bool   `json:"success"`
	CastsProcessed int    `json:"casts_processed"`
	ItemsProcessed int    `json:"items_processed"`
	Error          string `json:"error,omitempty"`
}
