package engine

import "profitpilot/models"

// MarketplaceFee computes the commission on the gross selling price. An
// explicit platform fee is authoritative; the rate is then back-computed
// purely for display. Otherwise the category rate applies, with Default
// fallback for unknown categories.
func (e *Engine) MarketplaceFee(p models.ProductInput) models.FeeBreakdown {
	if p.PlatformFee != nil {
		amount := Round2(*p.PlatformFee)
		return models.FeeBreakdown{
			RatePercent: Div(Mul(amount, 100), p.SellingPrice, 0),
			Amount:      amount,
			Category:    p.Category,
			Overridden:  true,
		}
	}

	rate, category := e.tables.FeeRate(p.Category)
	return models.FeeBreakdown{
		RatePercent: rate,
		Amount:      Mul(p.SellingPrice, rate/100),
		Category:    category,
	}
}

// ReturnBuffer is the provisioning estimate for return-related costs:
// a percentage of the gross price plus a flat amount. The buffer is itself
// treated as a VAT-inclusive gross figure.
func (e *Engine) ReturnBuffer(p models.ProductInput) float64 {
	return Add(Mul(p.SellingPrice, e.tables.ReturnBufferRatePercent/100), e.tables.ReturnBufferFlat)
}

// grossToNet splits a gross figure into its net value and VAT portion:
// net = gross / (1 + rate/100), vat = gross - net.
func grossToNet(gross, ratePercent float64) (net, vat float64) {
	net = Div(gross, 1+ratePercent/100, 0)
	vat = Sub(gross, net)
	return net, vat
}

// DecomposeVAT derives the full VAT picture for one unit. Output VAT is the
// tax collected on the sale; input VAT is the reclaimable tax inside COGS,
// fee, shipping and buffer (all assumed VAT-inclusive purchases - a
// documented simplification, kept as specified rather than modeling real
// cross-border reclaim rules). The net liability, not the output VAT, is
// the actual cash cost and may be negative (a net reclaim).
func (e *Engine) DecomposeVAT(p models.ProductInput, feeGross, shippingGross, bufferGross float64) models.VATBreakdown {
	rate := e.tables.VATRate(p.Country)

	netPrice, outputVAT := grossToNet(p.SellingPrice, rate)
	netCOGS, vatCOGS := grossToNet(p.COGS, rate)
	netFee, vatFee := grossToNet(feeGross, rate)
	netShipping, vatShipping := grossToNet(shippingGross, rate)
	netBuffer, vatBuffer := grossToNet(bufferGross, rate)

	totalInput := Add(Add(vatCOGS, vatFee), Add(vatShipping, vatBuffer))

	return models.VATBreakdown{
		RatePercent: rate,

		OutputVAT: outputVAT,

		InputVATCOGS:     vatCOGS,
		InputVATFee:      vatFee,
		InputVATShipping: vatShipping,
		InputVATBuffer:   vatBuffer,
		TotalInputVAT:    totalInput,

		NetLiability: Sub(outputVAT, totalInput),

		NetSellingPrice: netPrice,
		NetCOGS:         netCOGS,
		NetFee:          netFee,
		NetShipping:     netShipping,
		NetBuffer:       netBuffer,
	}
}
