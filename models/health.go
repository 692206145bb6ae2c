package models

// Health factor names. Exactly these four make up a HealthScore.
const (
	FactorBreakEven = "break_even"
	FactorMargin    = "margin"
	FactorCashFlow  = "cash_flow"
	FactorRisk      = "risk"
)

// HealthZone is the terminal indicator derived solely from the total score.
type HealthZone string

const (
	ZoneRed    HealthZone = "red"    // total < 40
	ZoneYellow HealthZone = "yellow" // 40 <= total < 70
	ZoneGreen  HealthZone = "green"  // total >= 70
	ZoneGray   HealthZone = "gray"   // insufficient data, distinct from poor
)

// HealthFactor is one weighted sub-score of the composite.
type HealthFactor struct {
	Name          string  `json:"name"`
	Score         int     `json:"score"` // 0-10
	WeightPercent int     `json:"weight_percent"`
	Status        string  `json:"status"`
	Detail        string  `json:"detail,omitempty"`
	Value         float64 `json:"value,omitempty"` // days, percent, months, ...
}

// HealthScore is the 0-100 composite of the four factors.
type HealthScore struct {
	Total          int            `json:"total"`
	Factors        []HealthFactor `json:"factors"`
	Zone           HealthZone     `json:"zone"`
	Label          string         `json:"label"`
	Recommendation string         `json:"recommendation"`
}
