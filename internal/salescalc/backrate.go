package salescalc

import (
	"cast_manager/internal/models"
)

// ResolveBackRate walks the commission cascade for one cast and line:
// exact product match > category-only match > store-wide default (no product,
// no category) > fallback. The fallback is the settings help ratio for help
// shares and 100% for self shares. A lookup miss is never an error.
func ResolveBackRate(rates []models.CastBackRate, castID uint, productName string, category *string, role Role, fallbackHelpRatio float64) float64 {
	var productMatch, categoryMatch, storeDefault *models.CastBackRate
	for i := range rates {
		r := &rates[i]
		if r.CastID != castID {
			continue
		}
		switch {
		case r.ProductName != nil && *r.ProductName == productName:
			if productMatch == nil {
				productMatch = r
			}
		case r.ProductName == nil && r.Category != nil && category != nil && *r.Category == *category:
			if categoryMatch == nil {
				categoryMatch = r
			}
		case r.ProductName == nil && r.Category == nil:
			if storeDefault == nil {
				storeDefault = r
			}
		}
	}

	pick := productMatch
	if pick == nil {
		pick = categoryMatch
	}
	if pick == nil {
		pick = storeDefault
	}

	if role == RoleHelp {
		if pick != nil && pick.HelpBackRatio != nil {
			return *pick.HelpBackRatio
		}
		return fallbackHelpRatio
	}
	if pick != nil {
		return pick.SelfBackRatio
	}
	return 100
}

// BackAmount computes the commission on a share: floor(share * ratio / 100).
func BackAmount(share int64, ratio float64) int64 {
	if share <= 0 || ratio <= 0 {
		return 0
	}
	return int64(float64(share) * ratio / 100)
}
