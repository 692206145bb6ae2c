package models

// BulkRowError records a row the bulk run could not process. The batch
// continues; only individual rows are ever dropped.
type BulkRowError struct {
	Row     int    `json:"row"` // 1-based position in the uploaded data
	Product string `json:"product,omitempty"`
	Error   string `json:"error"`
}

// BulkPerformer is a top/bottom entry in the portfolio ranking.
type BulkPerformer struct {
	Name          string  `json:"name"`
	ROIPercent    float64 `json:"roi_percent"`
	NetProfit     float64 `json:"net_profit"`
	MarginPercent float64 `json:"margin_percent"`
}

// BulkAggregates are cross-product statistics over a bulk run.
type BulkAggregates struct {
	ProductCount int `json:"product_count"`

	TotalRevenue float64 `json:"total_revenue"` // net
	TotalCost    float64 `json:"total_cost"`
	TotalProfit  float64 `json:"total_profit"`

	AvgRevenue float64 `json:"avg_revenue"`
	AvgCost    float64 `json:"avg_cost"`
	AvgProfit  float64 `json:"avg_profit"`
	AvgROI     float64 `json:"avg_roi"`
	AvgMargin  float64 `json:"avg_margin"`

	MedianMargin float64 `json:"median_margin"`

	SmallPackageCount   int     `json:"small_package_count"`
	SmallPackagePercent float64 `json:"small_package_percent"`

	TopByROI       []BulkPerformer `json:"top_by_roi"`
	TopByProfit    []BulkPerformer `json:"top_by_profit"`
	BottomByROI    []BulkPerformer `json:"bottom_by_roi"`
	BottomByProfit []BulkPerformer `json:"bottom_by_profit"`

	TierDistribution map[PerformanceTier]int `json:"tier_distribution"`
}

// BulkReport is the result of one portfolio run.
type BulkReport struct {
	Results    []*CalculationResult `json:"results"`
	Errors     []BulkRowError       `json:"errors,omitempty"`
	Aggregates BulkAggregates       `json:"aggregates"`
	Insights   []string             `json:"insights,omitempty"`
}
