package models

import (
	"time"
)

// Aggregation view selectors and policy enums used across the engine.
type PublishedAggregation string

const (
	PublishItemBased    PublishedAggregation = "item_based"
	PublishReceiptBased PublishedAggregation = "receipt_based"
	PublishNone         PublishedAggregation = "none"
)

type MultiCastDistribution string

const (
	NominationOnly MultiCastDistribution = "nomination_only"
	AllEqual       MultiCastDistribution = "all_equal"
)

type HelpDistributionMethod string

const (
	AllToNomination HelpDistributionMethod = "all_to_nomination"
	EqualSplit      HelpDistributionMethod = "equal"
	RatioSplit      HelpDistributionMethod = "ratio"
	EqualPerPerson  HelpDistributionMethod = "equal_per_person"
)

type HelpSalesInclusion string

const (
	SelfOnly        HelpSalesInclusion = "self_only"
	BothSelfAndHelp HelpSalesInclusion = "both"
)

type RoundingMethod string

const (
	RoundFloor RoundingMethod = "floor"
	RoundCeil  RoundingMethod = "ceil"
	RoundHalf  RoundingMethod = "round"
	RoundNone  RoundingMethod = "none"
)

type RoundingTiming string

const (
	PerItemTiming RoundingTiming = "per_item"
	TotalTiming   RoundingTiming = "total"
)

// AggregationSetting is one configuration group of SalesSettings. The store
// carries two instances: one for the item-based view and one for the
// receipt-based view. NominationDistributeAll only has meaning for the item
// view; the resolver ignores it for the receipt view. HelpRatio 0 means
// "unset" and resolves to 50 for the ratio method; a zero help cut is
// configured via HelpSalesInclusion, not a zero ratio.
type AggregationSetting struct {
	ExcludeConsumptionTax   bool                   `json:"exclude_consumption_tax"`
	ExcludeServiceCharge    bool                   `json:"exclude_service_charge"`
	MultiCastDistribution   MultiCastDistribution  `json:"multi_cast_distribution" gorm:"default:'nomination_only'"`
	HelpDistributionMethod  HelpDistributionMethod `json:"help_distribution_method" gorm:"default:'all_to_nomination'"`
	HelpRatio               float64                `json:"help_ratio" gorm:"default:50"`
	HelpSalesInclusion      HelpSalesInclusion     `json:"help_sales_inclusion" gorm:"default:'self_only'"`
	RoundingMethod          RoundingMethod         `json:"rounding_method" gorm:"default:'none'"`
	RoundingPosition        int64                  `json:"rounding_position" gorm:"default:100"`
	RoundingTiming          RoundingTiming         `json:"rounding_timing" gorm:"default:'per_item'"`
	NominationDistributeAll bool                   `json:"nomination_distribute_all"`
}

// SalesSettings holds the full distribution configuration for one store.
type SalesSettings struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	StoreID uint `json:"store_id" gorm:"uniqueIndex;not null"`

	Item    AggregationSetting `json:"item" gorm:"embedded;embeddedPrefix:item_"`
	Receipt AggregationSetting `json:"receipt" gorm:"embedded;embeddedPrefix:receipt_"`

	// Labels that mean "no specific person nominated" (e.g. walk-in), comma separated.
	NonHelpStaffNames string `json:"non_help_staff_names"`
	// Percent shares applied when an order carries multiple nominations, comma separated.
	MultiNominationRatios string               `json:"multi_nomination_ratios"`
	PublishedAggregation  PublishedAggregation `json:"published_aggregation" gorm:"default:'item_based'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaxRate is the store's consumption tax / service charge configuration.
type TaxRate struct {
	ID                    uint      `json:"id" gorm:"primaryKey"`
	StoreID               uint      `json:"store_id" gorm:"uniqueIndex;not null"`
	ConsumptionTaxPercent float64   `json:"consumption_tax_percent" gorm:"default:10"`
	ServiceChargePercent  float64   `json:"service_charge_percent" gorm:"default:0"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
