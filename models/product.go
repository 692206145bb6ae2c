package models

// ProductInput is the normalized request to the calculation engine.
// SellingPrice and COGS are gross (VAT-inclusive) figures; every net value
// downstream is derived by dividing by (1 + VAT rate).
type ProductInput struct {
	Name     string `json:"name"`
	Category string `json:"category"` // falls back to "Default"
	Country  string `json:"country"`  // destination/buyer country, falls back to "Germany"
	Platform string `json:"platform,omitempty"`

	SellingPrice float64 `json:"selling_price"` // gross, EUR
	COGS         float64 `json:"cogs"`          // gross, EUR

	LengthCm float64 `json:"length_cm"`
	WidthCm  float64 `json:"width_cm"`
	HeightCm float64 `json:"height_cm"`
	WeightKg float64 `json:"weight_kg"`

	AnnualVolume int     `json:"annual_volume"` // default 500
	FixedCosts   float64 `json:"fixed_costs"`   // default 500
	CashReserve  float64 `json:"cash_reserve"`  // working capital for cash-flow scoring
	ReturnRate   float64 `json:"return_rate"`   // percent, 0-100

	// PlatformFee, when set, is authoritative and bypasses the category
	// rate lookup. PlatformFeeDetails is opaque display data from the
	// platform selector.
	PlatformFee        *float64           `json:"platform_fee,omitempty"`
	PlatformFeeDetails map[string]float64 `json:"platform_fee_details,omitempty"`

	// ShippingOverride bypasses tier classification. Exactly 0 is legal
	// and means carrier-absorbed shipping.
	ShippingOverride *float64 `json:"shipping_override,omitempty"`

	// Market data feeding the risk factor of the health score. Optional;
	// neutral defaults apply when absent.
	Market *MarketProfile `json:"market,omitempty"`
}

// MarketProfile carries competitive context for risk scoring.
type MarketProfile struct {
	Competitors       int  `json:"competitors"`
	Reviews           int  `json:"reviews"`
	Seasonal          bool `json:"seasonal"`
	InventoryTurnDays int  `json:"inventory_turn_days"`
}

// MonthlyVolume converts the annual figure to a monthly sales velocity.
func (p *ProductInput) MonthlyVolume() float64 {
	return float64(p.AnnualVolume) / 12.0
}

// VolumeCm3 is the package volume used for the heavy-freight cutoff.
func (p *ProductInput) VolumeCm3() float64 {
	return p.LengthCm * p.WidthCm * p.HeightCm
}
