package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitpilot/models"
)

func smallProduct() models.ProductInput {
	return models.ProductInput{
		Name:         "Phone Case",
		SellingPrice: 19.99,
		COGS:         4,
		LengthCm:     15,
		WidthCm:      8,
		HeightCm:     2,
		WeightKg:     0.1,
	}
}

func TestClassifyShipping_SmallPackage(t *testing.T) {
	e := NewDefault()

	c := e.ClassifyShipping(smallProduct())

	assert.Equal(t, models.TierSmallPackage, c.Tier)
	assert.Equal(t, e.Tables().Shipping.SmallPackage, c.Cost)
	assert.True(t, c.Eligible)
	assert.Empty(t, c.Failures)
	assert.NotEmpty(t, c.Alternatives)
}

func TestClassifyShipping_CollectsAllFailures(t *testing.T) {
	e := NewDefault()

	p := smallProduct()
	p.LengthCm = 40 // over 35.3
	p.WeightKg = 1.5
	p.SellingPrice = 80 // over 60

	c := e.ClassifyShipping(p)

	assert.Equal(t, models.TierStandard, c.Tier)
	assert.False(t, c.Eligible)
	// Every violated limit must be reported, not just the first.
	assert.Len(t, c.Failures, 3)
}

func TestClassifyShipping_HeavyTier(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*models.ProductInput)
	}{
		{"over weight cutoff", func(p *models.ProductInput) { p.WeightKg = 25 }},
		{"over volume cutoff", func(p *models.ProductInput) {
			p.LengthCm, p.WidthCm, p.HeightCm = 50, 40, 30 // 60000 cm³
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewDefault()
			p := smallProduct()
			tc.mut(&p)

			c := e.ClassifyShipping(p)

			assert.Equal(t, models.TierHeavy, c.Tier)
			assert.Equal(t, e.Tables().Shipping.Heavy, c.Cost)
		})
	}
}

func TestClassifyShipping_OverrideBypassesTiers(t *testing.T) {
	e := NewDefault()

	zero := 0.0
	p := smallProduct()
	p.ShippingOverride = &zero

	c := e.ClassifyShipping(p)

	// Zero is a legal override: the platform absorbed shipping.
	assert.Equal(t, models.TierPlatform, c.Tier)
	assert.Equal(t, 0.0, c.Cost)
}

func TestSmallPackageMonotonicity(t *testing.T) {
	// Eligibility is a conjunction of independent upper bounds: shrinking
	// any one dimension of an eligible product must keep it eligible.
	e := NewDefault()
	base := smallProduct()

	eligible, _ := e.smallPackageEligibility(base)
	require.True(t, eligible)

	shrinks := []func(*models.ProductInput){
		func(p *models.ProductInput) { p.LengthCm /= 2 },
		func(p *models.ProductInput) { p.WidthCm /= 2 },
		func(p *models.ProductInput) { p.HeightCm /= 2 },
		func(p *models.ProductInput) { p.WeightKg /= 2 },
		func(p *models.ProductInput) { p.SellingPrice /= 2 },
	}
	for _, shrink := range shrinks {
		p := base
		shrink(&p)
		stillEligible, failures := e.smallPackageEligibility(p)
		assert.True(t, stillEligible, "shrinking a dimension broke eligibility: %v", failures)
	}
}
