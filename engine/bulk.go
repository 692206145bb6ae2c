package engine

import (
	"fmt"
	"sort"
	"strings"

	"profitpilot/models"
)

// columnAliases maps the header spellings seen in seller spreadsheets onto
// canonical fields. This is the single adapter boundary for loose input;
// nothing past MapRow tolerates alternative field names.
var columnAliases = map[string][]string{
	"name":       {"name", "product", "product name", "title", "item", "item name"},
	"category":   {"category", "product category", "type"},
	"country":    {"country", "destination", "marketplace country", "buyer country"},
	"price":      {"price", "selling price", "sale price", "sell price", "gross price"},
	"cogs":       {"cogs", "cost", "unit cost", "cost of goods", "purchase price", "buy price"},
	"length":     {"length", "length cm", "l"},
	"width":      {"width", "width cm", "w"},
	"height":     {"height", "height cm", "h"},
	"weight":     {"weight", "weight kg", "kg"},
	"volume":     {"volume", "annual volume", "yearly sales", "units per year", "sales volume"},
	"returnrate": {"return rate", "returns", "return %", "return percent"},
}

// ColumnIndex resolves spreadsheet headers to canonical field positions.
func ColumnIndex(headers []string) map[string]int {
	index := make(map[string]int)
	for i, h := range headers {
		normalized := strings.ToLower(strings.TrimSpace(h))
		for field, aliases := range columnAliases {
			for _, alias := range aliases {
				if normalized == alias {
					if _, taken := index[field]; !taken {
						index[field] = i
					}
				}
			}
		}
	}
	return index
}

// MapRow turns one spreadsheet row into a ProductInput using the resolved
// column index. Numeric cells go through ParseNumberSafe, so currency
// symbols and thousands separators never fail a row.
func MapRow(index map[string]int, row []string) models.ProductInput {
	cell := func(field string) string {
		i, ok := index[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	volume := int(ParseNumberSafe(cell("volume"), 0))

	return models.ProductInput{
		Name:         cell("name"),
		Category:     cell("category"),
		Country:      cell("country"),
		SellingPrice: ParseNumberSafe(cell("price"), 0),
		COGS:         ParseNumberSafe(cell("cogs"), 0),
		LengthCm:     ParseNumberSafe(cell("length"), 0),
		WidthCm:      ParseNumberSafe(cell("width"), 0),
		HeightCm:     ParseNumberSafe(cell("height"), 0),
		WeightKg:     ParseNumberSafe(cell("weight"), 0),
		AnnualVolume: volume,
		ReturnRate:   ParseNumberSafe(cell("returnrate"), 0),
	}
}

// ProcessBulk runs the pipeline over every data row, accumulating per-row
// errors instead of aborting the batch, then reduces the successful results
// into portfolio aggregates and advisory insights. Row numbers in errors
// are spreadsheet positions (header is row 1).
func (e *Engine) ProcessBulk(headers []string, rows [][]string) *models.BulkReport {
	index := ColumnIndex(headers)
	report := &models.BulkReport{}

	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		input := MapRow(index, row)

		result, err := e.Calculate(input)
		if err != nil {
			report.Errors = append(report.Errors, models.BulkRowError{
				Row:     i + 2,
				Product: input.Name,
				Error:   err.Error(),
			})
			continue
		}
		report.Results = append(report.Results, result)
	}

	report.Aggregates = aggregateBulk(report.Results)
	report.Insights = generateInsights(report)
	return report
}

// ProcessBulkInputs runs the pipeline over already-typed inputs (the JSON
// body path, which skips column mapping).
func (e *Engine) ProcessBulkInputs(inputs []models.ProductInput) *models.BulkReport {
	report := &models.BulkReport{}
	for i, input := range inputs {
		result, err := e.Calculate(input)
		if err != nil {
			report.Errors = append(report.Errors, models.BulkRowError{
				Row:     i + 1,
				Product: input.Name,
				Error:   err.Error(),
			})
			continue
		}
		report.Results = append(report.Results, result)
	}
	report.Aggregates = aggregateBulk(report.Results)
	report.Insights = generateInsights(report)
	return report
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func aggregateBulk(results []*models.CalculationResult) models.BulkAggregates {
	agg := models.BulkAggregates{
		ProductCount:     len(results),
		TierDistribution: make(map[models.PerformanceTier]int),
	}
	if len(results) == 0 {
		return agg
	}

	margins := make([]float64, 0, len(results))
	for _, r := range results {
		agg.TotalRevenue = Add(agg.TotalRevenue, r.VAT.NetSellingPrice)
		agg.TotalCost = Add(agg.TotalCost, r.Totals.TotalCost)
		agg.TotalProfit = Add(agg.TotalProfit, r.Totals.NetProfit)
		agg.AvgROI += r.Totals.ROIPercent
		agg.AvgMargin += r.Totals.MarginPercent
		margins = append(margins, r.Totals.MarginPercent)

		if r.Shipping.Eligible {
			agg.SmallPackageCount++
		}
		agg.TierDistribution[r.Totals.Tier]++
	}

	n := float64(len(results))
	agg.AvgRevenue = Div(agg.TotalRevenue, n, 0)
	agg.AvgCost = Div(agg.TotalCost, n, 0)
	agg.AvgProfit = Div(agg.TotalProfit, n, 0)
	agg.AvgROI = Round2(agg.AvgROI / n)
	agg.AvgMargin = Round2(agg.AvgMargin / n)
	agg.MedianMargin = median(margins)
	agg.SmallPackagePercent = Round2(float64(agg.SmallPackageCount) / n * 100)

	agg.TopByROI = rank(results, byROI, false)
	agg.BottomByROI = rank(results, byROI, true)
	agg.TopByProfit = rank(results, byProfit, false)
	agg.BottomByProfit = rank(results, byProfit, true)

	return agg
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return Round2(sorted[mid])
	}
	return Round2((sorted[mid-1] + sorted[mid]) / 2)
}

func byROI(r *models.CalculationResult) float64    { return r.Totals.ROIPercent }
func byProfit(r *models.CalculationResult) float64 { return r.Totals.NetProfit }

// rank returns the top (or bottom) three results by the given metric.
func rank(results []*models.CalculationResult, metric func(*models.CalculationResult) float64, ascending bool) []models.BulkPerformer {
	sorted := make([]*models.CalculationResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return metric(sorted[i]) < metric(sorted[j])
		}
		return metric(sorted[i]) > metric(sorted[j])
	})

	limit := 3
	if len(sorted) < limit {
		limit = len(sorted)
	}

	out := make([]models.BulkPerformer, 0, limit)
	for _, r := range sorted[:limit] {
		out = append(out, models.BulkPerformer{
			Name:          r.Input.Name,
			ROIPercent:    r.Totals.ROIPercent,
			NetProfit:     r.Totals.NetProfit,
			MarginPercent: r.Totals.MarginPercent,
		})
	}
	return out
}

// generateInsights produces up to six advisory messages from threshold
// checks on the aggregates. Text only, never fed back into computation.
func generateInsights(report *models.BulkReport) []string {
	agg := report.Aggregates
	if agg.ProductCount == 0 {
		return nil
	}

	var insights []string
	add := func(msg string) {
		if len(insights) < 6 {
			insights = append(insights, msg)
		}
	}

	if agg.AvgROI < 25 {
		add(fmt.Sprintf("Average ROI is %.1f%% (below 25%%). Consider renegotiating sourcing costs or raising prices across the portfolio.", agg.AvgROI))
	}
	if agg.AvgMargin < 10 {
		add(fmt.Sprintf("Average margin is %.1f%%. Thin margins leave little room for ad spend or returns.", agg.AvgMargin))
	}

	weak := agg.TierDistribution[models.PerfPoor] + agg.TierDistribution[models.PerfCritical]
	if float64(weak)/float64(agg.ProductCount) > 0.3 {
		add(fmt.Sprintf("%d of %d products are POOR or CRITICAL. Culling the weakest items would lift portfolio averages.", weak, agg.ProductCount))
	}

	if agg.SmallPackagePercent >= 50 {
		add(fmt.Sprintf("%.0f%% of products qualify for small-package shipping - a structural cost advantage worth protecting when choosing packaging.", agg.SmallPackagePercent))
	}

	if len(agg.TopByROI) > 0 && agg.TopByROI[0].ROIPercent >= 100 {
		add(fmt.Sprintf("Best performer %q returns %.0f%% ROI. Check whether its volume can be scaled.", agg.TopByROI[0].Name, agg.TopByROI[0].ROIPercent))
	}

	if len(report.Errors) > 0 {
		add(fmt.Sprintf("%d rows failed validation and were skipped. Fix the listed rows and re-upload for a complete picture.", len(report.Errors)))
	}

	return insights
}
