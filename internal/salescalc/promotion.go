package salescalc

import (
	"sort"

	"cast_manager/internal/models"
)

// TargetAmount sums the receipt lines a promotion targets (whole receipt for
// total_based, only the target categories for category_based) and applies the
// promotion's tax exclusion and rounding.
func TargetAmount(order *models.Order, promo *models.EventPromotion, taxPercent float64) int64 {
	categories := SplitNames(promo.TargetCategories)
	var sum int64
	for i := range order.Items {
		item := &order.Items[i]
		if promo.AggregationType == models.CategoryBased {
			if item.Category == nil || !contains(categories, *item.Category) {
				continue
			}
		}
		sum += item.Subtotal
	}
	if promo.ExcludeTax {
		sum = ExcludeTax(sum, taxPercent)
	}
	return ApplyRounding(sum, promo.RoundingMethod, promo.RoundingPosition)
}

// AchievedThreshold returns the highest tier the amount reaches: thresholds
// sorted descending by MinAmount, first where amount >= min and
// (max is nil or amount < max). Nil when nothing is achieved.
func AchievedThreshold(amount int64, thresholds []models.PromotionThreshold) *models.PromotionThreshold {
	sorted := make([]models.PromotionThreshold, len(thresholds))
	copy(sorted, thresholds)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinAmount > sorted[j].MinAmount })
	for i := range sorted {
		t := &sorted[i]
		if amount >= t.MinAmount && (t.MaxAmount == nil || amount < *t.MaxAmount) {
			return t
		}
	}
	return nil
}

// NextThreshold returns the first unmet tier above the amount and the gap to
// it. Nil when the top tier is already reached.
func NextThreshold(amount int64, thresholds []models.PromotionThreshold) (*models.PromotionThreshold, int64) {
	sorted := make([]models.PromotionThreshold, len(thresholds))
	copy(sorted, thresholds)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinAmount < sorted[j].MinAmount })
	for i := range sorted {
		t := &sorted[i]
		if t.MinAmount > amount {
			return t, t.MinAmount - amount
		}
	}
	return nil, 0
}

// EvaluateReceipt runs one receipt against one promotion.
func EvaluateReceipt(order *models.Order, promo *models.EventPromotion, taxPercent float64) models.PromotionAchievement {
	amount := TargetAmount(order, promo, taxPercent)
	a := models.PromotionAchievement{OrderID: order.ID, TargetAmount: amount}
	if hit := AchievedThreshold(amount, promo.Thresholds); hit != nil {
		a.Achieved = true
		a.AchievedReward = hit.RewardName
	}
	if next, gap := NextThreshold(amount, promo.Thresholds); next != nil {
		a.NextReward = next.RewardName
		a.NextGap = gap
	}
	return a
}

// BatchStats reduces a list of per-receipt achievements into aggregate
// statistics.
func BatchStats(achievements []models.PromotionAchievement) models.PromotionBatchStats {
	stats := models.PromotionBatchStats{
		ReceiptCount: len(achievements),
		RewardCounts: make(map[string]int),
	}
	for _, a := range achievements {
		if a.Achieved {
			stats.AchievedCount++
			stats.RewardCounts[a.AchievedReward]++
		}
	}
	if stats.ReceiptCount > 0 {
		stats.AchievementRate = float64(stats.AchievedCount) / float64(stats.ReceiptCount) * 100
	}
	return stats
}
