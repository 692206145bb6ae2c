package engine

import "profitpilot/models"

// Reference tables are immutable lookup data injected into the engine at
// construction. No package-level mutable state.

const (
	DefaultCategory = "Default"
	DefaultCountry  = "Germany"
)

// SmallPackageLimits are the conjunct eligibility thresholds for the
// discounted small-package shipping tier.
type SmallPackageLimits struct {
	MaxLengthCm float64
	MaxWidthCm  float64
	MaxHeightCm float64
	MaxWeightKg float64
	MaxPriceEUR float64 // gross selling price
}

// ShippingCosts are the fixed per-tier costs in EUR.
type ShippingCosts struct {
	SmallPackage float64
	Standard     float64
	Heavy        float64
}

// Tables bundles every static lookup the pipeline needs.
type Tables struct {
	CategoryFeeRates    map[string]float64 // percent of gross price
	CountryVATRates     map[string]float64 // percent
	CategoryReturnRates map[string]float64 // percent, advisory defaults

	SmallPackage SmallPackageLimits
	Shipping     ShippingCosts

	HeavyWeightCutoffKg  float64
	HeavyVolumeCutoffCm3 float64

	ReturnBufferRatePercent float64 // of gross selling price
	ReturnBufferFlat        float64 // EUR, flat on top
	RefundFeeRatePercent    float64 // of refunded revenue
}

// Defaults fill the optional ProductInput fields during normalization.
type Defaults struct {
	Country      string
	AnnualVolume int
	FixedCosts   float64
	CashReserve  float64
	Market       models.MarketProfile
}

// DefaultTables returns the built-in reference data.
func DefaultTables() Tables {
	return Tables{
		CategoryFeeRates: map[string]float64{
			"Electronics":    8,
			"Computers":      7,
			"Clothing":       15,
			"Shoes":          15,
			"Home & Kitchen": 15,
			"Toys":           15,
			"Sports":         15,
			"Books":          15,
			"Beauty":         8,
			"Grocery":        8,
			"Jewelry":        20,
			"Watches":        16,
			DefaultCategory:  15,
		},
		CountryVATRates: map[string]float64{
			"Germany":        19,
			"Austria":        20,
			"France":         20,
			"Italy":          22,
			"Spain":          21,
			"Netherlands":    21,
			"Belgium":        21,
			"Poland":         23,
			"Czechia":        21,
			"Sweden":         25,
			"Denmark":        25,
			"Ireland":        23,
			"United Kingdom": 20,
		},
		CategoryReturnRates: map[string]float64{
			"Electronics":    6,
			"Computers":      8,
			"Clothing":       20,
			"Shoes":          22,
			"Home & Kitchen": 8,
			"Toys":           5,
			"Sports":         10,
			"Books":          3,
			"Beauty":         4,
			"Jewelry":        12,
			DefaultCategory:  8,
		},
		SmallPackage: SmallPackageLimits{
			MaxLengthCm: 35.3,
			MaxWidthCm:  25.0,
			MaxHeightCm: 8.0,
			MaxWeightKg: 1.0,
			MaxPriceEUR: 60.0,
		},
		Shipping: ShippingCosts{
			SmallPackage: 3.79,
			Standard:     5.50,
			Heavy:        14.50,
		},
		HeavyWeightCutoffKg:  20,
		HeavyVolumeCutoffCm3: 50000,

		ReturnBufferRatePercent: 2,
		ReturnBufferFlat:        2.50,
		RefundFeeRatePercent:    2,
	}
}

// DefaultSettings returns the normalization defaults.
func DefaultSettings() Defaults {
	return Defaults{
		Country:      DefaultCountry,
		AnnualVolume: 500,
		FixedCosts:   500,
		CashReserve:  2500,
		Market: models.MarketProfile{
			Competitors:       20,
			Reviews:           50,
			Seasonal:          false,
			InventoryTurnDays: 45,
		},
	}
}

// FeeRate resolves a category commission rate with Default fallback.
func (t Tables) FeeRate(category string) (float64, string) {
	if rate, ok := t.CategoryFeeRates[category]; ok {
		return rate, category
	}
	return t.CategoryFeeRates[DefaultCategory], DefaultCategory
}

// VATRate resolves a destination country rate, falling back to the default
// country when the country is unknown.
func (t Tables) VATRate(country string) float64 {
	if rate, ok := t.CountryVATRates[country]; ok {
		return rate
	}
	return t.CountryVATRates[DefaultCountry]
}

// ReturnRate resolves a category default return rate.
func (t Tables) ReturnRate(category string) float64 {
	if rate, ok := t.CategoryReturnRates[category]; ok {
		return rate
	}
	return t.CategoryReturnRates[DefaultCategory]
}
