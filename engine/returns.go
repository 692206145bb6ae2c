package engine

import "profitpilot/models"

// AdjustForReturns recomputes a completed calculation under an explicit
// return rate and attaches the impact to a copy of the result. The base
// result is never mutated.
func (e *Engine) AdjustForReturns(result *models.CalculationResult, ratePercent, monthlyVolume float64) *models.CalculationResult {
	if result == nil {
		return nil
	}
	adjusted := *result
	impact := e.returnImpact(result, ratePercent, monthlyVolume)
	adjusted.ReturnImpact = &impact
	return &adjusted
}

// returnImpact models a month of sales under returns. Revenue is earned
// only on kept units. COGS and shipping are sunk on every unit - the item
// was manufactured and shipped regardless of the return. Marketplace fee
// and VAT apply only to kept units (no sale, no fee, no tax). A refund
// processing fee on the returned revenue is unique to this path.
//
// A zero rate short-circuits to the unmodified base figures; running the
// subtraction path on a no-op would only introduce rounding noise.
func (e *Engine) returnImpact(result *models.CalculationResult, ratePercent, monthlyVolume float64) models.ReturnImpact {
	vat := result.VAT
	baseProfitPerUnit := result.Totals.NetProfit
	baseMonthlyProfit := Mul(baseProfitPerUnit, monthlyVolume)

	if ratePercent <= 0 {
		return models.ReturnImpact{
			ReturnRatePercent:    0,
			MonthlyVolume:        monthlyVolume,
			UnitsKept:            monthlyVolume,
			RevenueAfterReturns:  Mul(vat.NetSellingPrice, monthlyVolume),
			ProfitWithoutReturns: baseMonthlyProfit,
			ProfitWithReturns:    baseMonthlyProfit,
			Severity:             models.ReturnNone,
		}
	}

	unitsReturned := Mul(monthlyVolume, ratePercent/100)
	unitsKept := Sub(monthlyVolume, unitsReturned)

	revenueKept := Mul(vat.NetSellingPrice, unitsKept)
	refundFee := Mul(Mul(result.Input.SellingPrice, unitsReturned), e.tables.RefundFeeRatePercent/100)

	costs := Add(
		Add(Mul(vat.NetCOGS, monthlyVolume), Mul(vat.NetFee, unitsKept)),
		Add(Mul(vat.NetShipping, monthlyVolume), Add(Mul(vat.NetLiability, unitsKept), refundFee)),
	)

	profitWith := Sub(revenueKept, costs)
	lossTotal := Sub(baseMonthlyProfit, profitWith)

	return models.ReturnImpact{
		ReturnRatePercent: ratePercent,
		MonthlyVolume:     monthlyVolume,
		UnitsReturned:     unitsReturned,
		UnitsKept:         unitsKept,

		RevenueAfterReturns: revenueKept,
		RefundProcessingFee: refundFee,

		ProfitWithoutReturns: baseMonthlyProfit,
		ProfitWithReturns:    profitWith,

		LossPerUnit: Div(lossTotal, monthlyVolume, 0),
		LossTotal:   lossTotal,
		LossPercent: Div(Mul(lossTotal, 100), baseMonthlyProfit, 0),

		Severity: classifyReturnSeverity(ratePercent),
	}
}

func classifyReturnSeverity(ratePercent float64) models.ReturnSeverity {
	switch {
	case ratePercent <= 0:
		return models.ReturnNone
	case ratePercent <= 3:
		return models.ReturnMinimal
	case ratePercent <= 8:
		return models.ReturnModerate
	case ratePercent <= 15:
		return models.ReturnSignificant
	default:
		return models.ReturnSevere
	}
}
