package engine

import (
	"fmt"

	"profitpilot/models"
)

// ClassifyShipping decides the package tier for a product. Priority order:
// explicit override, heavy-freight cutoffs, small-package eligibility,
// standard. Alternatives list the tiers not chosen, for display only.
func (e *Engine) ClassifyShipping(p models.ProductInput) models.ShippingClassification {
	eligible, failures := e.smallPackageEligibility(p)

	if p.ShippingOverride != nil {
		// Platform-provided cost, which may legitimately be 0 when the
		// carrier absorbs shipping.
		return models.ShippingClassification{
			Tier:     models.TierPlatform,
			Cost:     Round2(*p.ShippingOverride),
			Reason:   "shipping cost supplied by the platform",
			Eligible: eligible,
			Failures: failures,
			Alternatives: []models.ShippingAlternative{
				{Tier: models.TierSmallPackage, Cost: e.tables.Shipping.SmallPackage},
				{Tier: models.TierStandard, Cost: e.tables.Shipping.Standard},
				{Tier: models.TierHeavy, Cost: e.tables.Shipping.Heavy},
			},
		}
	}

	switch {
	case p.WeightKg > e.tables.HeavyWeightCutoffKg || p.VolumeCm3() > e.tables.HeavyVolumeCutoffCm3:
		return models.ShippingClassification{
			Tier: models.TierHeavy,
			Cost: e.tables.Shipping.Heavy,
			Reason: fmt.Sprintf("weight %.1f kg or volume %.0f cm³ exceeds the parcel limits (%.0f kg / %.0f cm³)",
				p.WeightKg, p.VolumeCm3(), e.tables.HeavyWeightCutoffKg, e.tables.HeavyVolumeCutoffCm3),
			Eligible: eligible,
			Failures: failures,
			Alternatives: []models.ShippingAlternative{
				{Tier: models.TierStandard, Cost: e.tables.Shipping.Standard},
			},
		}
	case eligible:
		return models.ShippingClassification{
			Tier:     models.TierSmallPackage,
			Cost:     e.tables.Shipping.SmallPackage,
			Reason:   "all small-package limits satisfied",
			Eligible: true,
			Alternatives: []models.ShippingAlternative{
				{Tier: models.TierStandard, Cost: e.tables.Shipping.Standard},
			},
		}
	default:
		return models.ShippingClassification{
			Tier:     models.TierStandard,
			Cost:     e.tables.Shipping.Standard,
			Reason:   "not small-package eligible",
			Eligible: false,
			Failures: failures,
			Alternatives: []models.ShippingAlternative{
				{Tier: models.TierSmallPackage, Cost: e.tables.Shipping.SmallPackage},
				{Tier: models.TierHeavy, Cost: e.tables.Shipping.Heavy},
			},
		}
	}
}

// smallPackageEligibility checks every limit and collects all failures
// rather than short-circuiting, so the caller can show the full diagnostic.
func (e *Engine) smallPackageEligibility(p models.ProductInput) (bool, []string) {
	lim := e.tables.SmallPackage
	var failures []string

	if p.LengthCm > lim.MaxLengthCm {
		failures = append(failures, fmt.Sprintf("length %.1f cm exceeds %.1f cm", p.LengthCm, lim.MaxLengthCm))
	}
	if p.WidthCm > lim.MaxWidthCm {
		failures = append(failures, fmt.Sprintf("width %.1f cm exceeds %.1f cm", p.WidthCm, lim.MaxWidthCm))
	}
	if p.HeightCm > lim.MaxHeightCm {
		failures = append(failures, fmt.Sprintf("height %.1f cm exceeds %.1f cm", p.HeightCm, lim.MaxHeightCm))
	}
	if p.WeightKg > lim.MaxWeightKg {
		failures = append(failures, fmt.Sprintf("weight %.2f kg exceeds %.2f kg", p.WeightKg, lim.MaxWeightKg))
	}
	if p.SellingPrice > lim.MaxPriceEUR {
		failures = append(failures, fmt.Sprintf("price %.2f € exceeds %.2f €", p.SellingPrice, lim.MaxPriceEUR))
	}

	return len(failures) == 0, failures
}
