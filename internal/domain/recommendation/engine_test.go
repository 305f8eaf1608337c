package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestTierForBoundaries(t *testing.T) {
	cases := []struct {
		score *int
		want  Tier
	}{
		{intPtr(100), TierStarter},
		{intPtr(85), TierStarter},
		{intPtr(84), TierBusiness},
		{intPtr(60), TierBusiness},
		{intPtr(59), TierPremium},
		{intPtr(0), TierPremium},
		{nil, TierBusiness},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, TierFor(tc.score))
	}
}

func TestRecommendPricing(t *testing.T) {
	rec := Recommend(intPtr(90))
	assert.Equal(t, TierStarter, rec.Tier)
	assert.Equal(t, "Starter Tune-Up", rec.PackageName)
	assert.Equal(t, 299.0, rec.BasePrice)
	assert.Equal(t, 254.15, rec.DiscountedPrice)

	rec = Recommend(intPtr(70))
	assert.Equal(t, TierBusiness, rec.Tier)
	assert.Equal(t, 499.0, rec.BasePrice)
	assert.Equal(t, 424.15, rec.DiscountedPrice)

	rec = Recommend(intPtr(20))
	assert.Equal(t, TierPremium, rec.Tier)
	assert.Equal(t, 899.0, rec.BasePrice)
	assert.Equal(t, 764.15, rec.DiscountedPrice)
}

func TestRecommendDiscountTerms(t *testing.T) {
	rec := Recommend(intPtr(70))
	assert.Equal(t, 15, rec.DiscountPercent)
	assert.Equal(t, "SITE15", rec.Code)
	assert.Equal(t, 48, rec.ValidityHours)
	assert.NotEmpty(t, rec.Features)
	assert.NotEmpty(t, rec.Urgency)
}

func TestRecommendIdempotent(t *testing.T) {
	a := Recommend(intPtr(42))
	b := Recommend(intPtr(42))
	assert.Equal(t, a, b)
}

func TestRecommendNilScoreFallsBackToBusiness(t *testing.T) {
	rec := Recommend(nil)
	assert.Equal(t, TierBusiness, rec.Tier)
	assert.Equal(t, "Business Growth", rec.PackageName)
}
