package engine

import (
	"fmt"
	"math"

	"profitpilot/models"
)

// Factor weights in percent; the four must sum to 100.
const (
	weightBreakEven = 30
	weightMargin    = 30
	weightCashFlow  = 20
	weightRisk      = 20
)

// HealthScore computes the 0-100 composite from a completed calculation.
// A nil result or one with no usable input short-circuits to score 0 in
// the gray zone - "insufficient data", which is not the same as a
// genuinely poor score.
func (e *Engine) HealthScore(result *models.CalculationResult) *models.HealthScore {
	if result == nil || (result.Input.SellingPrice == 0 && result.Totals == (models.Totals{})) {
		return &models.HealthScore{
			Total:          0,
			Zone:           models.ZoneGray,
			Label:          "unknown",
			Recommendation: "Not enough data to assess this product. Run a calculation first.",
		}
	}

	breakEven := e.scoreBreakEven(result)
	margin := scoreMargin(result.Totals.MarginPercent)
	cashFlow := e.scoreCashFlow(result)
	risk := scoreRisk(result.Input.Market)

	weighted := float64(breakEven.Score)*weightBreakEven/100 +
		float64(margin.Score)*weightMargin/100 +
		float64(cashFlow.Score)*weightCashFlow/100 +
		float64(risk.Score)*weightRisk/100
	total := int(math.Round(10 * weighted))

	zone, label, recommendation := healthZone(total)

	return &models.HealthScore{
		Total:          total,
		Factors:        []models.HealthFactor{breakEven, margin, cashFlow, risk},
		Zone:           zone,
		Label:          label,
		Recommendation: recommendation,
	}
}

// breakEvenDays is the time to recover one month of inventory investment:
// days = inventoryCost / (profitPerUnit * monthlyVelocity) * 30. The second
// return is false when the horizon cannot be computed.
func (e *Engine) breakEvenDays(result *models.CalculationResult) (float64, bool) {
	velocity := result.Input.MonthlyVolume()
	inventoryCost := Mul(result.Input.COGS, velocity) // one month of stock
	profitPerUnit := result.Totals.NetProfit

	if profitPerUnit <= 0 || velocity <= 0 || inventoryCost <= 0 {
		return 0, false
	}
	return inventoryCost / (profitPerUnit * velocity) * 30, true
}

// scoreBreakEven rates how fast the initial inventory investment is
// recovered.
func (e *Engine) scoreBreakEven(result *models.CalculationResult) models.HealthFactor {
	f := models.HealthFactor{Name: models.FactorBreakEven, WeightPercent: weightBreakEven}

	if result.Totals.NetProfit <= 0 {
		// Explicit zero, not merely a low score: the product is not viable.
		f.Score = 0
		f.Status = "not viable"
		f.Detail = "no positive profit per unit; the investment is never recovered"
		return f
	}

	days, ok := e.breakEvenDays(result)
	if !ok {
		// Unknown is distinct from poor: we cannot compute a horizon.
		f.Score = 0
		f.Status = "unknown"
		f.Detail = "insufficient data: sales velocity or inventory cost missing"
		return f
	}
	f.Value = Round2(days)
	f.Detail = fmt.Sprintf("breaks even in %.1f days", days)

	switch {
	case days <= 7:
		f.Score, f.Status = 10, "excellent"
	case days <= 14:
		f.Score, f.Status = 8, "good"
	case days <= 30:
		f.Score, f.Status = 6, "acceptable"
	case days <= 60:
		f.Score, f.Status = 4, "slow"
	default:
		f.Score, f.Status = 1, "very slow"
	}
	return f
}

func scoreMargin(marginPercent float64) models.HealthFactor {
	f := models.HealthFactor{
		Name:          models.FactorMargin,
		WeightPercent: weightMargin,
		Value:         marginPercent,
		Detail:        fmt.Sprintf("net margin %.1f%%", marginPercent),
	}

	switch {
	case marginPercent > 30:
		f.Score, f.Status = 10, "excellent"
	case marginPercent >= 25:
		f.Score, f.Status = 9, "very good"
	case marginPercent >= 20:
		f.Score, f.Status = 8, "good"
	case marginPercent >= 15:
		f.Score, f.Status = 6, "acceptable"
	case marginPercent >= 10:
		f.Score, f.Status = 4, "thin"
	case marginPercent >= 5:
		f.Score, f.Status = 2, "very thin"
	default:
		f.Score, f.Status = 0, "unprofitable"
	}
	return f
}

// scoreCashFlow rates how long the cash reserve sustains reordering when
// monthly profit does not fully fund the next stock order.
func (e *Engine) scoreCashFlow(result *models.CalculationResult) models.HealthFactor {
	f := models.HealthFactor{Name: models.FactorCashFlow, WeightPercent: weightCashFlow}

	velocity := result.Input.MonthlyVolume()
	monthlyProfit := Mul(result.Totals.NetProfit, velocity)
	reorderCost := Mul(result.Input.COGS, velocity)

	if monthlyProfit <= 0 {
		f.Score = 0
		f.Status = "unsustainable"
		f.Detail = "monthly profit is not positive"
		return f
	}
	if monthlyProfit >= reorderCost {
		f.Score = 10
		f.Status = "self-sustaining"
		f.Detail = "monthly profit covers the full reorder cost"
		return f
	}

	months := Div(result.Input.CashReserve, Sub(reorderCost, monthlyProfit), 0)
	f.Value = months
	f.Detail = fmt.Sprintf("cash reserve sustains %.1f months of reordering", months)

	switch {
	case months >= 6:
		f.Score, f.Status = 10, "comfortable"
	case months >= 4:
		f.Score, f.Status = 8, "good"
	case months >= 2:
		f.Score, f.Status = 6, "adequate"
	case months >= 1:
		f.Score, f.Status = 4, "tight"
	default:
		f.Score, f.Status = 2, "critical"
	}
	return f
}

// scoreRisk averages four independently banded market sub-scores:
// competitor count, review count, seasonality and inventory turnover.
func scoreRisk(market *models.MarketProfile) models.HealthFactor {
	f := models.HealthFactor{Name: models.FactorRisk, WeightPercent: weightRisk}
	if market == nil {
		f.Score = 0
		f.Status = "unknown"
		f.Detail = "no market data"
		return f
	}

	var competitors int
	switch {
	case market.Competitors <= 5:
		competitors = 10
	case market.Competitors <= 15:
		competitors = 7
	case market.Competitors <= 30:
		competitors = 5
	case market.Competitors <= 50:
		competitors = 3
	default:
		competitors = 1
	}

	var reviews int
	switch {
	case market.Reviews >= 500:
		reviews = 10
	case market.Reviews >= 100:
		reviews = 8
	case market.Reviews >= 20:
		reviews = 5
	default:
		reviews = 3
	}

	seasonality := 10
	if market.Seasonal {
		seasonality = 4
	}

	var turnover int
	switch {
	case market.InventoryTurnDays <= 30:
		turnover = 10
	case market.InventoryTurnDays <= 60:
		turnover = 7
	case market.InventoryTurnDays <= 90:
		turnover = 4
	default:
		turnover = 2
	}

	f.Score = int(math.Round(float64(competitors+reviews+seasonality+turnover) / 4))
	f.Detail = fmt.Sprintf("competition %d/10, demand %d/10, seasonality %d/10, turnover %d/10",
		competitors, reviews, seasonality, turnover)

	switch {
	case f.Score >= 8:
		f.Status = "low risk"
	case f.Score >= 5:
		f.Status = "moderate risk"
	default:
		f.Status = "high risk"
	}
	return f
}

func healthZone(total int) (models.HealthZone, string, string) {
	switch {
	case total < 40:
		return models.ZoneRed, "poor",
			"This product is unlikely to be worth selling as configured. Revisit pricing, sourcing cost or shipping before committing."
	case total < 70:
		return models.ZoneYellow, "fair",
			"Workable, but with clear weak spots. Improve the lowest-scoring factor before scaling volume."
	default:
		return models.ZoneGreen, "good",
			"Healthy fundamentals. Suitable for scaling; monitor return rate and competition."
	}
}
