package models

// ShippingTier identifies the classified package tier.
type ShippingTier string

const (
	TierSmallPackage ShippingTier = "small-package"
	TierStandard     ShippingTier = "standard"
	TierHeavy        ShippingTier = "heavy"
	TierPlatform     ShippingTier = "platform-provided"
)

// ShippingClassification is the classifier decision plus the tiers it did
// not pick, for user-facing comparison. Alternatives are descriptive only
// and never feed back into the calculation.
type ShippingClassification struct {
	Tier         ShippingTier          `json:"tier"`
	Cost         float64               `json:"cost"`
	Reason       string                `json:"reason"`
	Eligible     bool                  `json:"small_package_eligible"`
	Failures     []string              `json:"eligibility_failures,omitempty"`
	Alternatives []ShippingAlternative `json:"alternatives,omitempty"`
}

type ShippingAlternative struct {
	Tier ShippingTier `json:"tier"`
	Cost float64      `json:"cost"`
}

// FeeBreakdown is the marketplace commission. When a platform override is
// supplied the rate is back-computed from the amount for display.
type FeeBreakdown struct {
	RatePercent float64 `json:"rate_percent"`
	Amount      float64 `json:"amount"` // gross
	Category    string  `json:"category"`
	Overridden  bool    `json:"overridden"`
}

// VATBreakdown decomposes every gross figure into net + VAT portion.
// Invariants: gross = net * (1 + rate/100) for each pair, and
// NetLiability = OutputVAT - TotalInputVAT exactly. NetLiability may be
// negative (a net reclaim) and behaves downstream as a negative cost.
type VATBreakdown struct {
	RatePercent float64 `json:"rate_percent"`

	OutputVAT float64 `json:"output_vat"` // VAT collected on the sale

	InputVATCOGS     float64 `json:"input_vat_cogs"`
	InputVATFee      float64 `json:"input_vat_fee"`
	InputVATShipping float64 `json:"input_vat_shipping"`
	InputVATBuffer   float64 `json:"input_vat_buffer"`
	TotalInputVAT    float64 `json:"total_input_vat"`

	NetLiability float64 `json:"net_liability"`

	NetSellingPrice float64 `json:"net_selling_price"`
	NetCOGS         float64 `json:"net_cogs"`
	NetFee          float64 `json:"net_fee"`
	NetShipping     float64 `json:"net_shipping"`
	NetBuffer       float64 `json:"net_buffer"`
}

// PerformanceTier classifies a (margin, ROI) pair.
type PerformanceTier string

const (
	PerfExceptional PerformanceTier = "EXCEPTIONAL"
	PerfExcellent   PerformanceTier = "EXCELLENT"
	PerfGood        PerformanceTier = "GOOD"
	PerfFair        PerformanceTier = "FAIR"
	PerfPoor        PerformanceTier = "POOR"
	PerfCritical    PerformanceTier = "CRITICAL"
)

// Totals is the aggregate financial block, all on a net (tax-exclusive)
// basis. BreakEvenUnits is -1 with NeverBreaksEven set when net profit is
// not positive; JSON has no Infinity, so callers render the flag.
type Totals struct {
	TotalCost        float64         `json:"total_cost"`
	NetProfit        float64         `json:"net_profit"`
	ROIPercent       float64         `json:"roi_percent"`
	MarginPercent    float64         `json:"margin_percent"`
	BreakEvenUnits   int             `json:"break_even_units"`
	NeverBreaksEven  bool            `json:"never_breaks_even"`
	RecommendedPrice float64         `json:"recommended_price"` // advisory, approximate
	Tier             PerformanceTier `json:"tier"`
	IntegrityOK      bool            `json:"integrity_ok"`
	IntegrityDiff    float64         `json:"integrity_diff"`
}

// CalculationResult is the fully derived output of one engine run. It is a
// value object: built fresh per call, never mutated, JSON-serializable.
type CalculationResult struct {
	Input        ProductInput           `json:"input"` // normalized copy
	Shipping     ShippingClassification `json:"shipping"`
	Fee          FeeBreakdown           `json:"fee"`
	VAT          VATBreakdown           `json:"vat"`
	ReturnBuffer float64                `json:"return_buffer"` // gross
	Totals       Totals                 `json:"totals"`
	Warnings     []ValidationMessage    `json:"warnings,omitempty"`
	ReturnImpact *ReturnImpact          `json:"return_impact,omitempty"`
}
