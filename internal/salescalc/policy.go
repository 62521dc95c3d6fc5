package salescalc

import (
	"strconv"
	"strings"

	"cast_manager/internal/models"
)

type AggregationView string

const (
	ItemView    AggregationView = "item"
	ReceiptView AggregationView = "receipt"
)

// Policy is the flattened distribution policy for one aggregation view.
type Policy struct {
	View                    AggregationView
	ExcludeConsumptionTax   bool
	ExcludeServiceCharge    bool
	MultiCastDistribution   models.MultiCastDistribution
	HelpDistributionMethod  models.HelpDistributionMethod
	HelpRatio               float64
	HelpSalesInclusion      models.HelpSalesInclusion
	RoundingMethod          models.RoundingMethod
	RoundingPosition        int64
	RoundingTiming          models.RoundingTiming
	NominationDistributeAll bool
	NonHelpStaffNames       []string
	MultiNominationRatios   []float64
}

// ResolvePolicy flattens one view's configuration group with fallbacks. Pure
// lookup, no I/O.
func ResolvePolicy(s *models.SalesSettings, view AggregationView) Policy {
	group := s.Item
	if view == ReceiptView {
		group = s.Receipt
	}

	p := Policy{
		View:                   view,
		ExcludeConsumptionTax:  group.ExcludeConsumptionTax,
		ExcludeServiceCharge:   group.ExcludeServiceCharge,
		MultiCastDistribution:  group.MultiCastDistribution,
		HelpDistributionMethod: group.HelpDistributionMethod,
		HelpRatio:              group.HelpRatio,
		HelpSalesInclusion:     group.HelpSalesInclusion,
		RoundingMethod:         group.RoundingMethod,
		RoundingPosition:       group.RoundingPosition,
		RoundingTiming:         group.RoundingTiming,
		NonHelpStaffNames:      SplitNames(s.NonHelpStaffNames),
		MultiNominationRatios:  parseRatios(s.MultiNominationRatios),
	}
	if view == ItemView {
		p.NominationDistributeAll = group.NominationDistributeAll
	}

	if p.MultiCastDistribution == "" {
		p.MultiCastDistribution = models.NominationOnly
	}
	if p.HelpDistributionMethod == "" {
		p.HelpDistributionMethod = models.AllToNomination
	}
	if p.HelpSalesInclusion == "" {
		p.HelpSalesInclusion = models.SelfOnly
	}
	if p.RoundingMethod == "" {
		p.RoundingMethod = models.RoundNone
	}
	if p.RoundingPosition == 0 {
		p.RoundingPosition = 100
	}
	if p.RoundingTiming == "" {
		p.RoundingTiming = models.PerItemTiming
	}
	// HelpRatio 0 is reserved as "unset" (the column default is 50). A zero
	// help cut is expressed with help_sales_inclusion self_only, not ratio 0.
	if p.HelpRatio == 0 && p.HelpDistributionMethod == models.RatioSplit {
		p.HelpRatio = 50
	}
	return p
}

// SplitNames splits a comma-joined name list, trimming whitespace and
// dropping empty entries.
func SplitNames(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func parseRatios(joined string) []float64 {
	parts := SplitNames(joined)
	if len(parts) == 0 {
		return nil
	}
	ratios := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil
		}
		ratios = append(ratios, v)
	}
	return ratios
}
