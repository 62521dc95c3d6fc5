package salescalc

import (
	"testing"

	"cast_manager/internal/models"
)

func amtPtr(v int64) *int64 { return &v }

func bronzeSilver() []models.PromotionThreshold {
	return []models.PromotionThreshold{
		{MinAmount: 5000, MaxAmount: amtPtr(10000), RewardName: "Bronze"},
		{MinAmount: 10000, RewardName: "Silver"},
	}
}

// Thresholds [5000..10000) Bronze, [10000..) Silver; receipt total 12000
// achieves Silver with nothing above it.
func TestAchievedThreshold(t *testing.T) {
	thresholds := bronzeSilver()

	cases := []struct {
		amount   int64
		expected string
	}{
		{12000, "Silver"},
		{10000, "Silver"},
		{9999, "Bronze"},
		{5000, "Bronze"},
		{4999, ""},
	}
	for _, tc := range cases {
		hit := AchievedThreshold(tc.amount, thresholds)
		got := ""
		if hit != nil {
			got = hit.RewardName
		}
		if got != tc.expected {
			t.Errorf("AchievedThreshold(%d) = %q, expected %q", tc.amount, got, tc.expected)
		}
	}
}

func TestNextThreshold(t *testing.T) {
	thresholds := bronzeSilver()

	next, gap := NextThreshold(4000, thresholds)
	if next == nil || next.RewardName != "Bronze" || gap != 1000 {
		t.Fatalf("NextThreshold(4000) = %v gap %d, expected Bronze gap 1000", next, gap)
	}
	next, gap = NextThreshold(7000, thresholds)
	if next == nil || next.RewardName != "Silver" || gap != 3000 {
		t.Fatalf("NextThreshold(7000) = %v gap %d, expected Silver gap 3000", next, gap)
	}
	next, _ = NextThreshold(12000, thresholds)
	if next != nil {
		t.Fatalf("NextThreshold(12000) = %v, expected nil at the top tier", next)
	}
}

func TestTargetAmount(t *testing.T) {
	order := &models.Order{
		Items: []models.OrderItem{
			{ProductName: "Champagne", Category: strPtr("Drink"), Subtotal: 8800},
			{ProductName: "Snack", Category: strPtr("Food"), Subtotal: 2200},
			{ProductName: "Charge", Subtotal: 1100},
		},
	}

	total := &models.EventPromotion{AggregationType: models.TotalBased}
	if got := TargetAmount(order, total, 10); got != 12100 {
		t.Errorf("total_based = %d, expected 12100", got)
	}

	drinks := &models.EventPromotion{
		AggregationType:  models.CategoryBased,
		TargetCategories: "Drink",
	}
	if got := TargetAmount(order, drinks, 10); got != 8800 {
		t.Errorf("category_based = %d, expected 8800", got)
	}

	normalized := &models.EventPromotion{
		AggregationType:  models.TotalBased,
		ExcludeTax:       true,
		RoundingMethod:   models.RoundFloor,
		RoundingPosition: 100,
	}
	// 12100 -> 11000 tax excluded -> floor100 -> 11000
	if got := TargetAmount(order, normalized, 10); got != 11000 {
		t.Errorf("normalized = %d, expected 11000", got)
	}
}

func TestEvaluateReceipt(t *testing.T) {
	promo := &models.EventPromotion{
		AggregationType: models.TotalBased,
		Thresholds:      bronzeSilver(),
	}
	order := &models.Order{
		ID:    7,
		Items: []models.OrderItem{{ProductName: "Bottle", Subtotal: 12000}},
	}
	a := EvaluateReceipt(order, promo, 10)
	if !a.Achieved || a.AchievedReward != "Silver" {
		t.Fatalf("achievement = %+v, expected Silver", a)
	}
	if a.NextReward != "" {
		t.Fatalf("next reward = %q, expected none", a.NextReward)
	}
	if a.TargetAmount != 12000 || a.OrderID != 7 {
		t.Fatalf("achievement = %+v", a)
	}
}

func TestBatchStats(t *testing.T) {
	achievements := []models.PromotionAchievement{
		{Achieved: true, AchievedReward: "Silver"},
		{Achieved: true, AchievedReward: "Bronze"},
		{Achieved: true, AchievedReward: "Bronze"},
		{Achieved: false},
	}
	stats := BatchStats(achievements)
	if stats.ReceiptCount != 4 || stats.AchievedCount != 3 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.AchievementRate != 75 {
		t.Errorf("achievement rate = %v, expected 75", stats.AchievementRate)
	}
	if stats.RewardCounts["Bronze"] != 2 || stats.RewardCounts["Silver"] != 1 {
		t.Errorf("reward counts = %v", stats.RewardCounts)
	}
}
