package models

// ReturnSeverity tags the impact of a return rate.
type ReturnSeverity string

const (
	ReturnNone        ReturnSeverity = "none"
	ReturnMinimal     ReturnSeverity = "minimal"
	ReturnModerate    ReturnSeverity = "moderate"
	ReturnSignificant ReturnSeverity = "significant"
	ReturnSevere      ReturnSeverity = "severe"
)

// ReturnImpact quantifies what a return rate does to a month of sales.
// Units may be fractional (volume * rate / 100). COGS and shipping are sunk
// on every unit; marketplace fee and VAT apply only to kept units.
type ReturnImpact struct {
	ReturnRatePercent float64 `json:"return_rate_percent"`
	MonthlyVolume     float64 `json:"monthly_volume"`
	UnitsReturned     float64 `json:"units_returned"`
	UnitsKept         float64 `json:"units_kept"`

	RevenueAfterReturns float64 `json:"revenue_after_returns"` // net, kept units only
	RefundProcessingFee float64 `json:"refund_processing_fee"`

	ProfitWithoutReturns float64 `json:"profit_without_returns"` // monthly
	ProfitWithReturns    float64 `json:"profit_with_returns"`    // monthly

	LossPerUnit float64 `json:"loss_per_unit"`
	LossTotal   float64 `json:"loss_total"`
	LossPercent float64 `json:"loss_percent"`

	Severity ReturnSeverity `json:"severity"`
}
