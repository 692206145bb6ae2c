package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitpilot/models"
)

// electronicsProduct is the worked example: €50 gross price, €20 gross
// COGS, 8% Electronics fee, 19% German VAT, dimensions forcing the
// standard shipping tier.
func electronicsProduct() models.ProductInput {
	return models.ProductInput{
		Name:         "Bluetooth Speaker",
		Category:     "Electronics",
		Country:      "Germany",
		SellingPrice: 50,
		COGS:         20,
		LengthCm:     40,
		WidthCm:      30,
		HeightCm:     10,
		WeightKg:     2,
	}
}

func TestCalculate_WorkedExample(t *testing.T) {
	e := NewDefault()

	result, err := e.Calculate(electronicsProduct())
	require.NoError(t, err)

	assert.Equal(t, models.TierStandard, result.Shipping.Tier)
	assert.Equal(t, 5.50, result.Shipping.Cost)

	assert.Equal(t, 4.00, result.Fee.Amount)
	assert.Equal(t, 8.0, result.Fee.RatePercent)

	assert.Equal(t, 3.50, result.ReturnBuffer) // 2% of 50 + 2.50

	assert.Equal(t, 42.02, result.VAT.NetSellingPrice)
	assert.Equal(t, 16.81, result.VAT.NetCOGS)
	assert.Equal(t, 3.36, result.VAT.NetFee)
	assert.Equal(t, 4.62, result.VAT.NetShipping)
	assert.Equal(t, 2.94, result.VAT.NetBuffer)
	assert.Equal(t, 7.98, result.VAT.OutputVAT)
	assert.Equal(t, 5.27, result.VAT.TotalInputVAT)
	assert.Equal(t, 2.71, result.VAT.NetLiability)

	assert.Equal(t, 30.44, result.Totals.TotalCost)
	assert.Equal(t, 11.58, result.Totals.NetProfit)
	assert.Equal(t, 38.04, result.Totals.ROIPercent)
	assert.Equal(t, 27.56, result.Totals.MarginPercent)
	assert.Equal(t, 44, result.Totals.BreakEvenUnits) // ceil(500 / 11.58)
	assert.False(t, result.Totals.NeverBreaksEven)

	assert.True(t, result.Totals.IntegrityOK)
}

func TestCalculate_IntegrityInvariant(t *testing.T) {
	e := NewDefault()

	inputs := []models.ProductInput{
		electronicsProduct(),
		{Name: "Cheap", SellingPrice: 0.99, COGS: 0.10, Country: "Sweden"},
		{Name: "Pricey", SellingPrice: 1999.99, COGS: 850, Country: "France", Category: "Jewelry", WeightKg: 3},
		{Name: "Loss maker", SellingPrice: 10, COGS: 18, Country: "Poland"},
		{Name: "Small", SellingPrice: 12.49, COGS: 2.30, LengthCm: 10, WidthCm: 10, HeightCm: 2, WeightKg: 0.2},
	}

	for _, in := range inputs {
		result, err := e.Calculate(in)
		require.NoError(t, err, in.Name)

		// gross = totalCost + profit + outputVAT within two cents.
		reconstructed := Add(Add(result.Totals.TotalCost, result.Totals.NetProfit), result.VAT.OutputVAT)
		assert.InDelta(t, result.Input.SellingPrice, reconstructed, 0.02, in.Name)
		assert.True(t, result.Totals.IntegrityOK, in.Name)
	}
}

func TestCalculate_NeverBreaksEven(t *testing.T) {
	e := NewDefault()

	p := electronicsProduct()
	p.COGS = 49 // gross COGS nearly the full price: guaranteed loss

	result, err := e.Calculate(p)
	require.NoError(t, err)

	assert.True(t, result.Totals.NetProfit <= 0)
	// A legitimate "never breaks even" result, not an error.
	assert.True(t, result.Totals.NeverBreaksEven)
	assert.Equal(t, -1, result.Totals.BreakEvenUnits)
	assert.Equal(t, models.PerfCritical, result.Totals.Tier)
}

func TestCalculate_BlockingValidation(t *testing.T) {
	e := NewDefault()

	tests := []struct {
		name  string
		mut   func(*models.ProductInput)
		field string
	}{
		{"negative price", func(p *models.ProductInput) { p.SellingPrice = -1 }, "selling_price"},
		{"negative cogs", func(p *models.ProductInput) { p.COGS = -5 }, "cogs"},
		{"negative weight", func(p *models.ProductInput) { p.WeightKg = -2 }, "weight_kg"},
		{"return rate over 100", func(p *models.ProductInput) { p.ReturnRate = 101 }, "return_rate"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := electronicsProduct()
			tc.mut(&p)

			result, err := e.Calculate(p)
			require.Nil(t, result)

			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)

			found := false
			for _, m := range verr.Messages {
				if m.Field == tc.field && m.Severity == models.SeverityError {
					found = true
				}
			}
			assert.True(t, found, "expected blocking message for %s", tc.field)
		})
	}
}

func TestCalculate_WarningsAttachWithoutBlocking(t *testing.T) {
	e := NewDefault()

	p := electronicsProduct()
	p.COGS = 50 // equals the price: warning, not error

	result, err := e.Calculate(p)
	require.NoError(t, err)
	require.NotNil(t, result)

	hasWarning := false
	for _, m := range result.Warnings {
		if m.Field == "cogs" && m.Severity == models.SeverityWarning {
			hasWarning = true
		}
	}
	assert.True(t, hasWarning)
}

func TestCalculate_NormalizationDefaults(t *testing.T) {
	e := NewDefault()

	result, err := e.Calculate(models.ProductInput{Name: "Bare", SellingPrice: 25, COGS: 5})
	require.NoError(t, err)

	assert.Equal(t, DefaultCategory, result.Input.Category)
	assert.Equal(t, DefaultCountry, result.Input.Country)
	assert.Equal(t, 500, result.Input.AnnualVolume)
	assert.Equal(t, 500.0, result.Input.FixedCosts)
	require.NotNil(t, result.Input.Market)
}

func TestCalculate_ZeroCostROIIsZero(t *testing.T) {
	e := NewDefault()

	// Degenerate but valid: zero price with zero costs must produce zero
	// ratios, never a NaN or a panic.
	result, err := e.Calculate(models.ProductInput{Name: "Free", SellingPrice: 0, COGS: 0})
	require.NoError(t, err)

	assert.False(t, math.IsNaN(result.Totals.ROIPercent))
	assert.False(t, math.IsNaN(result.Totals.MarginPercent))
	assert.Equal(t, 0.0, result.Totals.MarginPercent)
}

func TestClassifyTierTable(t *testing.T) {
	tests := []struct {
		margin float64
		roi    float64
		want   models.PerformanceTier
	}{
		{35, 200, models.PerfExceptional},
		{30, 150, models.PerfExceptional},
		{25, 120, models.PerfExcellent},
		{30, 100, models.PerfExcellent}, // margin qualifies higher, ROI does not
		{15, 60, models.PerfGood},
		{8, 30, models.PerfFair},
		{2, 10, models.PerfPoor},
		{0, 0, models.PerfPoor},
		{-5, -10, models.PerfCritical},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, classifyTier(tc.margin, tc.roi), "margin=%v roi=%v", tc.margin, tc.roi)
	}
}
