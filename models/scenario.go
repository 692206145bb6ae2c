package models

// ScenarioAdjustments are the overridable parameters of a what-if run.
// Only non-nil fields replace the baseline value; there is no way to smuggle
// an unknown key through this struct, unlike a loose JSON merge.
type ScenarioAdjustments struct {
	COGS          *float64 `json:"cogs,omitempty"`
	SellingPrice  *float64 `json:"selling_price,omitempty"`
	ReturnRate    *float64 `json:"return_rate,omitempty"`
	MonthlyVolume *int     `json:"monthly_volume,omitempty"`
}

// ScenarioDeltas are adjusted minus baseline. Sign convention: positive is
// an improvement for profit, margin and health. BreakEvenDays is the
// inverse - negative means the adjusted scenario breaks even FASTER, which
// is the improvement. Consumers must render that explicitly.
type ScenarioDeltas struct {
	Profit        float64 `json:"profit"`
	ProfitPercent float64 `json:"profit_percent"` // 0 when baseline profit is 0
	MarginPoints  float64 `json:"margin_points"`  // absolute percentage points
	BreakEvenDays float64 `json:"break_even_days"`
	HealthScore   int     `json:"health_score"`
}

// AdjustmentPercents records the relative change of each perturbed
// parameter, for display.
type AdjustmentPercents struct {
	COGS          float64 `json:"cogs"`
	SellingPrice  float64 `json:"selling_price"`
	ReturnRate    float64 `json:"return_rate"`
	MonthlyVolume float64 `json:"monthly_volume"`
}

// ScenarioComparison is a full baseline run vs a full adjusted run.
type ScenarioComparison struct {
	Baseline       *CalculationResult `json:"baseline"`
	BaselineHealth *HealthScore       `json:"baseline_health"`
	Adjusted       *CalculationResult `json:"adjusted"`
	AdjustedHealth *HealthScore       `json:"adjusted_health"`

	Deltas      ScenarioDeltas     `json:"deltas"`
	Adjustments AdjustmentPercents `json:"adjustments"`
	IsAdjusted  bool               `json:"is_adjusted"`
}
