package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"profitpilot/models"
)

func TestMarketplaceFee_CategoryLookup(t *testing.T) {
	e := NewDefault()

	tests := []struct {
		name         string
		category     string
		wantRate     float64
		wantCategory string
	}{
		{"known category", "Electronics", 8, "Electronics"},
		{"unknown falls back", "Garden Gnomes", 15, DefaultCategory},
		{"empty falls back", "", 15, DefaultCategory},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fee := e.MarketplaceFee(models.ProductInput{SellingPrice: 100, Category: tc.category})

			assert.Equal(t, tc.wantRate, fee.RatePercent)
			assert.Equal(t, tc.wantCategory, fee.Category)
			assert.Equal(t, tc.wantRate, fee.Amount) // rate% of 100
			assert.False(t, fee.Overridden)
		})
	}
}

func TestMarketplaceFee_OverrideBackComputesRate(t *testing.T) {
	e := NewDefault()

	override := 7.50
	fee := e.MarketplaceFee(models.ProductInput{
		SellingPrice: 50,
		Category:     "Electronics",
		PlatformFee:  &override,
	})

	assert.True(t, fee.Overridden)
	assert.Equal(t, 7.50, fee.Amount)
	assert.Equal(t, 15.0, fee.RatePercent) // 7.50 / 50 * 100, display only
}

func TestReturnBuffer(t *testing.T) {
	e := NewDefault()

	// 2% of gross price + 2.50 flat.
	assert.Equal(t, 3.50, e.ReturnBuffer(models.ProductInput{SellingPrice: 50}))
	assert.Equal(t, 2.50, e.ReturnBuffer(models.ProductInput{SellingPrice: 0}))
}

func TestDecomposeVAT_ConcreteScenario(t *testing.T) {
	e := NewDefault()

	p := models.ProductInput{SellingPrice: 50, COGS: 20, Country: "Germany"}
	vat := e.DecomposeVAT(p, 4.00, 5.50, 3.50)

	assert.Equal(t, 19.0, vat.RatePercent)
	assert.Equal(t, 42.02, vat.NetSellingPrice)
	assert.Equal(t, 7.98, vat.OutputVAT)
	assert.Equal(t, 16.81, vat.NetCOGS)
	assert.Equal(t, 3.19, vat.InputVATCOGS)
	assert.Equal(t, 3.36, vat.NetFee)
	assert.Equal(t, 4.62, vat.NetShipping)

	// The liability identity must hold exactly on the rounded figures.
	assert.Equal(t, vat.NetLiability, Sub(vat.OutputVAT, vat.TotalInputVAT))
}

func TestDecomposeVAT_UnknownCountryFallsBack(t *testing.T) {
	e := NewDefault()

	p := models.ProductInput{SellingPrice: 100, Country: "Atlantis"}
	vat := e.DecomposeVAT(p, 0, 0, 0)

	assert.Equal(t, e.Tables().VATRate(DefaultCountry), vat.RatePercent)
}

func TestVATRoundTrip(t *testing.T) {
	// net = gross/(1+r/100); net*(1+r/100) must reconstruct gross within
	// 1e-9 when computed at full precision.
	grosses := []float64{0.01, 1, 19.99, 50, 123.45, 9999.99}
	rates := []float64{7, 19, 20, 21, 25}

	for _, g := range grosses {
		for _, r := range rates {
			factor := decimal.NewFromFloat(1).Add(decimal.NewFromFloat(r).Div(decimal.NewFromInt(100)))
			net := decimal.NewFromFloat(g).DivRound(factor, 16)
			back, _ := net.Mul(factor).Float64()
			assert.InDelta(t, g, back, 1e-9, "gross=%v rate=%v", g, r)
		}
	}
}
