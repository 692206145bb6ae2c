package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitpilot/models"
)

func TestAdjustForReturns_ZeroRateIsIdentity(t *testing.T) {
	e := NewDefault()

	base, err := e.Calculate(electronicsProduct())
	require.NoError(t, err)

	adjusted := e.AdjustForReturns(base, 0, 100)
	require.NotNil(t, adjusted)
	require.NotNil(t, adjusted.ReturnImpact)

	impact := adjusted.ReturnImpact

	// The zero-rate path must short-circuit to the unmodified base
	// figures - identical, not merely close.
	assert.Equal(t, impact.ProfitWithoutReturns, impact.ProfitWithReturns)
	assert.Equal(t, 0.0, impact.LossTotal)
	assert.Equal(t, 0.0, impact.UnitsReturned)
	assert.Equal(t, models.ReturnNone, impact.Severity)

	// Base result untouched.
	assert.Equal(t, base.Totals.NetProfit, adjusted.Totals.NetProfit)
	assert.Equal(t, base.Totals.MarginPercent, adjusted.Totals.MarginPercent)
	assert.Nil(t, base.ReturnImpact)
}

func TestAdjustForReturns_FullReturnRate(t *testing.T) {
	e := NewDefault()

	base, err := e.Calculate(electronicsProduct())
	require.NoError(t, err)

	adjusted := e.AdjustForReturns(base, 100, 100)
	impact := adjusted.ReturnImpact
	require.NotNil(t, impact)

	// Everything comes back: no kept units, no revenue.
	assert.Equal(t, 0.0, impact.UnitsKept)
	assert.Equal(t, 100.0, impact.UnitsReturned)
	assert.Equal(t, 0.0, impact.RevenueAfterReturns)
	assert.Equal(t, models.ReturnSevere, impact.Severity)
	assert.Less(t, impact.ProfitWithReturns, 0.0)
}

func TestReturnImpact_CostAllocation(t *testing.T) {
	e := NewDefault()

	base, err := e.Calculate(electronicsProduct())
	require.NoError(t, err)

	vol := 100.0
	adjusted := e.AdjustForReturns(base, 10, vol)
	impact := adjusted.ReturnImpact
	require.NotNil(t, impact)

	assert.Equal(t, 10.0, impact.UnitsReturned)
	assert.Equal(t, 90.0, impact.UnitsKept)

	// Revenue only on kept units.
	assert.Equal(t, Mul(base.VAT.NetSellingPrice, 90), impact.RevenueAfterReturns)

	// Refund fee: 2% of returned-units gross revenue.
	assert.Equal(t, Mul(Mul(base.Input.SellingPrice, 10), 0.02), impact.RefundProcessingFee)

	// COGS and shipping are sunk on all units, fee and VAT only on kept.
	wantCosts := Add(
		Add(Mul(base.VAT.NetCOGS, vol), Mul(base.VAT.NetFee, 90)),
		Add(Mul(base.VAT.NetShipping, vol), Add(Mul(base.VAT.NetLiability, 90), impact.RefundProcessingFee)),
	)
	assert.Equal(t, Sub(impact.RevenueAfterReturns, wantCosts), impact.ProfitWithReturns)

	assert.Greater(t, impact.LossTotal, 0.0)
}

func TestClassifyReturnSeverity(t *testing.T) {
	tests := []struct {
		rate float64
		want models.ReturnSeverity
	}{
		{0, models.ReturnNone},
		{1, models.ReturnMinimal},
		{3, models.ReturnMinimal},
		{5, models.ReturnModerate},
		{8, models.ReturnModerate},
		{12, models.ReturnSignificant},
		{15, models.ReturnSignificant},
		{16, models.ReturnSevere},
		{60, models.ReturnSevere},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, classifyReturnSeverity(tc.rate), "rate=%v", tc.rate)
	}
}

func TestCalculate_AttachesImpactWhenRateSet(t *testing.T) {
	e := NewDefault()

	p := electronicsProduct()
	p.ReturnRate = 5

	result, err := e.Calculate(p)
	require.NoError(t, err)
	require.NotNil(t, result.ReturnImpact)
	assert.Equal(t, models.ReturnModerate, result.ReturnImpact.Severity)
}
