package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitpilot/models"
)

func TestRecalculateScenario_NilBaseline(t *testing.T) {
	e := NewDefault()

	_, err := e.RecalculateScenario(nil, models.ScenarioAdjustments{})
	assert.ErrorIs(t, err, ErrNilBaseline)
}

func TestRecalculateScenario_NoAdjustments(t *testing.T) {
	e := NewDefault()

	base := electronicsProduct()
	cmp, err := e.RecalculateScenario(&base, models.ScenarioAdjustments{})
	require.NoError(t, err)

	assert.False(t, cmp.IsAdjusted)
	assert.Equal(t, 0.0, cmp.Deltas.Profit)
	assert.Equal(t, 0.0, cmp.Deltas.MarginPoints)
	assert.Equal(t, 0, cmp.Deltas.HealthScore)
}

func TestRecalculateScenario_CheaperCOGSImproves(t *testing.T) {
	e := NewDefault()

	base := electronicsProduct()
	cheaper := 15.0
	cmp, err := e.RecalculateScenario(&base, models.ScenarioAdjustments{COGS: &cheaper})
	require.NoError(t, err)

	assert.True(t, cmp.IsAdjusted)

	// Positive = improvement for profit and margin.
	assert.Greater(t, cmp.Deltas.Profit, 0.0)
	assert.Greater(t, cmp.Deltas.MarginPoints, 0.0)

	// Break-even carries the inverse convention: negative = faster = better.
	assert.Less(t, cmp.Deltas.BreakEvenDays, 0.0)

	assert.Equal(t, -25.0, cmp.Adjustments.COGS) // 20 -> 15
}

func TestRecalculateScenario_PriceCutHurts(t *testing.T) {
	e := NewDefault()

	base := electronicsProduct()
	lower := 40.0
	cmp, err := e.RecalculateScenario(&base, models.ScenarioAdjustments{SellingPrice: &lower})
	require.NoError(t, err)

	assert.Less(t, cmp.Deltas.Profit, 0.0)
	assert.Less(t, cmp.Deltas.ProfitPercent, 0.0)
	assert.Greater(t, cmp.Deltas.BreakEvenDays, 0.0) // slower break-even
}

func TestRecalculateScenario_FullRecompute(t *testing.T) {
	e := NewDefault()

	// The adjusted side must equal a fresh calculation of the adjusted
	// input - no incremental shortcuts.
	base := electronicsProduct()
	newPrice := 55.0
	cmp, err := e.RecalculateScenario(&base, models.ScenarioAdjustments{SellingPrice: &newPrice})
	require.NoError(t, err)

	adjusted := base
	adjusted.SellingPrice = newPrice
	fresh, err := e.Calculate(adjusted)
	require.NoError(t, err)

	assert.Equal(t, fresh.Totals, cmp.Adjusted.Totals)
	assert.Equal(t, fresh.VAT, cmp.Adjusted.VAT)
}

func TestRecalculateScenario_NoiseFloor(t *testing.T) {
	e := NewDefault()

	base := electronicsProduct()

	// A relative change below 0.01% is floating-point noise, not an
	// adjustment.
	noise := base.COGS * (1 + 0.00005/100)
	cmp, err := e.RecalculateScenario(&base, models.ScenarioAdjustments{COGS: &noise})
	require.NoError(t, err)
	assert.False(t, cmp.IsAdjusted)

	bumped := base.COGS * 1.02
	cmp, err = e.RecalculateScenario(&base, models.ScenarioAdjustments{COGS: &bumped})
	require.NoError(t, err)
	assert.True(t, cmp.IsAdjusted)
}

func TestApplyAdjustments_OnlyExplicitFields(t *testing.T) {
	base := electronicsProduct()
	rate := 12.0
	vol := 60 // monthly

	out := applyAdjustments(base, models.ScenarioAdjustments{ReturnRate: &rate, MonthlyVolume: &vol})

	assert.Equal(t, base.SellingPrice, out.SellingPrice)
	assert.Equal(t, base.COGS, out.COGS)
	assert.Equal(t, 12.0, out.ReturnRate)
	assert.Equal(t, 720, out.AnnualVolume)
}
