package engine

import (
	"errors"
	"math"

	"profitpilot/models"
)

// adjustmentFloor is the relative change below which a parameter tweak is
// treated as floating-point noise rather than a real adjustment (0.01%).
const adjustmentFloor = 0.0001

// ErrNilBaseline marks a programmer error: scenarios need a baseline.
var ErrNilBaseline = errors.New("scenario: baseline input required")

// RecalculateScenario runs the full pipeline twice - once on the baseline,
// once on the baseline with the explicit adjustments applied - and diffs
// the two complete results. There is no incremental computation: a full
// recompute is the only way to guarantee the adjusted side matches what a
// fresh calculation of those parameters would produce.
func (e *Engine) RecalculateScenario(baseline *models.ProductInput, adj models.ScenarioAdjustments) (*models.ScenarioComparison, error) {
	if baseline == nil {
		return nil, ErrNilBaseline
	}

	adjustedInput := applyAdjustments(*baseline, adj)

	baseResult, err := e.Calculate(*baseline)
	if err != nil {
		return nil, err
	}
	adjResult, err := e.Calculate(adjustedInput)
	if err != nil {
		return nil, err
	}

	baseHealth := e.HealthScore(baseResult)
	adjHealth := e.HealthScore(adjResult)

	baseDays, _ := e.breakEvenDays(baseResult)
	adjDays, _ := e.breakEvenDays(adjResult)

	profitDelta := Sub(adjResult.Totals.NetProfit, baseResult.Totals.NetProfit)

	percents := adjustmentPercents(*baseline, adj)

	return &models.ScenarioComparison{
		Baseline:       baseResult,
		BaselineHealth: baseHealth,
		Adjusted:       adjResult,
		AdjustedHealth: adjHealth,

		Deltas: models.ScenarioDeltas{
			Profit:        profitDelta,
			ProfitPercent: Div(Mul(profitDelta, 100), baseResult.Totals.NetProfit, 0),
			MarginPoints:  Sub(adjResult.Totals.MarginPercent, baseResult.Totals.MarginPercent),
			// Negative means the adjusted scenario breaks even faster -
			// the sign convention is inverted relative to the other deltas.
			BreakEvenDays: Round2(adjDays - baseDays),
			HealthScore:   adjHealth.Total - baseHealth.Total,
		},
		Adjustments: percents,
		IsAdjusted: exceedsFloor(percents.COGS) || exceedsFloor(percents.SellingPrice) ||
			exceedsFloor(percents.ReturnRate) || exceedsFloor(percents.MonthlyVolume),
	}, nil
}

// applyAdjustments merges only the explicitly provided parameters onto a
// copy of the baseline. The adjustment struct enumerates the overridable
// fields; there is no loose map merge that could accept a typo as a new key.
func applyAdjustments(base models.ProductInput, adj models.ScenarioAdjustments) models.ProductInput {
	out := base
	if adj.COGS != nil {
		out.COGS = *adj.COGS
	}
	if adj.SellingPrice != nil {
		out.SellingPrice = *adj.SellingPrice
	}
	if adj.ReturnRate != nil {
		out.ReturnRate = *adj.ReturnRate
	}
	if adj.MonthlyVolume != nil {
		out.AnnualVolume = *adj.MonthlyVolume * 12
	}
	return out
}

func adjustmentPercents(base models.ProductInput, adj models.ScenarioAdjustments) models.AdjustmentPercents {
	var p models.AdjustmentPercents
	if adj.COGS != nil {
		p.COGS = relativeChange(base.COGS, *adj.COGS)
	}
	if adj.SellingPrice != nil {
		p.SellingPrice = relativeChange(base.SellingPrice, *adj.SellingPrice)
	}
	if adj.ReturnRate != nil {
		p.ReturnRate = relativeChange(base.ReturnRate, *adj.ReturnRate)
	}
	if adj.MonthlyVolume != nil {
		p.MonthlyVolume = relativeChange(base.MonthlyVolume(), float64(*adj.MonthlyVolume))
	}
	return p
}

// relativeChange is (new-old)/old in percent; a change from zero counts as
// 100% so it always registers as an adjustment.
func relativeChange(from, to float64) float64 {
	if from == 0 {
		if to == 0 {
			return 0
		}
		return 100
	}
	return Round((to-from)/from*100, 4)
}

func exceedsFloor(percent float64) bool {
	return math.Abs(percent) > adjustmentFloor*100
}
