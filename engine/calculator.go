package engine

import (
	"math"

	"profitpilot/models"
)

// integrityTolerance is the self-consistency budget: each pipeline step
// rounds to the cent, so the reconstructed gross price may drift by at most
// two cents from the identity gross = totalCost + profit + outputVAT.
const integrityTolerance = 0.02

// Calculate runs the full pipeline on one product: validation, shipping
// classification, fee and VAT decomposition, totals and tier. Blocking
// validation errors return a *models.ValidationError; warnings attach to
// the result. When the input carries a return rate the result also gets a
// ReturnImpact.
func (e *Engine) Calculate(input models.ProductInput) (*models.CalculationResult, error) {
	msgs := Validate(input)
	if models.HasBlocking(msgs) {
		return nil, &models.ValidationError{Messages: msgs}
	}

	p := e.normalize(input)

	shipping := e.ClassifyShipping(p)
	fee := e.MarketplaceFee(p)
	buffer := e.ReturnBuffer(p)
	vat := e.DecomposeVAT(p, fee.Amount, shipping.Cost, buffer)

	totals := e.aggregate(p, vat)

	result := &models.CalculationResult{
		Input:        p,
		Shipping:     shipping,
		Fee:          fee,
		VAT:          vat,
		ReturnBuffer: buffer,
		Totals:       totals,
		Warnings:     nonBlocking(msgs),
	}

	if p.ReturnRate > 0 {
		impact := e.returnImpact(result, p.ReturnRate, p.MonthlyVolume())
		result.ReturnImpact = &impact
	}

	return result, nil
}

// aggregate combines the net cost components into the Totals block.
// Everything is on a net basis; the net VAT liability enters as a cost and
// behaves as a negative one when the seller is in a reclaim position.
func (e *Engine) aggregate(p models.ProductInput, vat models.VATBreakdown) models.Totals {
	totalCost := Add(Add(vat.NetCOGS, vat.NetFee), Add(Add(vat.NetShipping, vat.NetBuffer), vat.NetLiability))
	netProfit := Sub(vat.NetSellingPrice, totalCost)

	roi := 0.0
	if totalCost > 0 {
		roi = Div(Mul(netProfit, 100), totalCost, 0)
	}
	margin := 0.0
	if vat.NetSellingPrice > 0 {
		margin = Div(Mul(netProfit, 100), vat.NetSellingPrice, 0)
	}

	breakEven := -1
	neverBreaks := true
	if netProfit > 0 {
		breakEven = int(math.Ceil(p.FixedCosts / netProfit))
		neverBreaks = false
	}

	// Reconstruct the gross price from the derived pieces; drift beyond the
	// tolerance marks the result as internally inconsistent (diagnostic
	// only, the result stays usable).
	diff := Sub(p.SellingPrice, Add(Add(totalCost, netProfit), vat.OutputVAT))

	return models.Totals{
		TotalCost:        totalCost,
		NetProfit:        netProfit,
		ROIPercent:       roi,
		MarginPercent:    margin,
		BreakEvenUnits:   breakEven,
		NeverBreaksEven:  neverBreaks,
		RecommendedPrice: e.recommendedPrice(p),
		Tier:             classifyTier(margin, roi),
		IntegrityOK:      math.Abs(diff) <= integrityTolerance,
		IntegrityDiff:    diff,
	}
}

// recommendedPrice is an advisory rough inverse-solve: it assumes an
// estimated 15% fee burden and a 20% target margin instead of iterating the
// exact fee/VAT equations, and is documented as approximate.
func (e *Engine) recommendedPrice(p models.ProductInput) float64 {
	const (
		estimatedFeeShare = 0.15
		targetMarginShare = 0.20
	)

	base := Add(Add(p.COGS, e.tables.Shipping.Standard), e.tables.ReturnBufferFlat)
	denom := 1 - estimatedFeeShare - targetMarginShare
	return Div(base, denom, 0)
}

// classifyTier walks the (margin, ROI) decision table top-down; the first
// row both thresholds satisfy wins.
func classifyTier(marginPercent, roiPercent float64) models.PerformanceTier {
	switch {
	case marginPercent >= 30 && roiPercent >= 150:
		return models.PerfExceptional
	case marginPercent >= 20 && roiPercent >= 100:
		return models.PerfExcellent
	case marginPercent >= 10 && roiPercent >= 50:
		return models.PerfGood
	case marginPercent >= 5 && roiPercent >= 25:
		return models.PerfFair
	case marginPercent >= 0:
		return models.PerfPoor
	default:
		return models.PerfCritical
	}
}
