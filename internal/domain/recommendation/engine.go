// Package recommendation maps report scores to priced package tiers.
package recommendation

import "math"

// Tier is one of the three fixed package levels.
type Tier string

const (
	TierStarter  Tier = "starter"
	TierBusiness Tier = "business"
	TierPremium  Tier = "premium"
)

// Discount constants are global across tiers.
const (
	DiscountPercent = 15
	DiscountCode    = "SITE15"
	ValidityHours   = 48
)

// Recommendation is a priced package suggestion derived from a report score.
// It is purely a function of the score and is recomputable at any time.
type Recommendation struct {
	Tier            Tier     `json:"tier"`
	PackageName     string   `json:"packageName"`
	BasePrice       float64  `json:"basePrice"`
	DiscountPercent int      `json:"discountPercent"`
	DiscountedPrice float64  `json:"discountedPrice"`
	Code            string   `json:"code"`
	ValidityHours   int      `json:"validityHours"`
	Features        []string `json:"features"`
	Urgency         string   `json:"urgency"`
}

type catalogEntry struct {
	name      string
	basePrice float64
	features  []string
}

var catalog = map[Tier]catalogEntry{
	TierStarter: {
		name:      "Starter Tune-Up",
		basePrice: 299,
		features: []string{
			"Technical SEO tune-up",
			"Core Web Vitals check",
			"Monthly health report",
		},
	},
	TierBusiness: {
		name:      "Business Growth",
		basePrice: 499,
		features: []string{
			"Everything in Starter",
			"On-page content optimization",
			"Conversion funnel review",
			"Quarterly strategy call",
		},
	},
	TierPremium: {
		name:      "Premium Overhaul",
		basePrice: 899,
		features: []string{
			"Everything in Business",
			"Full site redesign consultation",
			"Competitor gap analysis",
			"Priority support",
		},
	},
}

// TierFor selects the package tier for a score. A nil score falls back to the
// business tier.
func TierFor(score *int) Tier {
	if score == nil {
		return TierBusiness
	}
	switch {
	case *score >= 85:
		return TierStarter
	case *score >= 60:
		return TierBusiness
	default:
		return TierPremium
	}
}

// Recommend builds the full recommendation for a score. The function performs
// no I/O and is idempotent: equal scores yield identical output.
func Recommend(score *int) Recommendation {
	tier := TierFor(score)
	entry := catalog[tier]

	return Recommendation{
		Tier:            tier,
		PackageName:     entry.name,
		BasePrice:       entry.basePrice,
		DiscountPercent: DiscountPercent,
		DiscountedPrice: round2(entry.basePrice * (1 - float64(DiscountPercent)/100)),
		Code:            DiscountCode,
		ValidityHours:   ValidityHours,
		Features:        entry.features,
		Urgency:         "Lock in your discount within 48 hours",
	}
}

// round2 rounds half-up to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
