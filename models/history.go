package models

import "time"

// CalculationRecord is a persisted snapshot of one engine run.
type CalculationRecord struct {
	ID        string             `json:"id" bson:"id"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
	Product   string             `json:"product" bson:"product"`
	Result    *CalculationResult `json:"result" bson:"result"`
	Health    *HealthScore       `json:"health,omitempty" bson:"health,omitempty"`
}

// BulkReportRecord is a persisted bulk run, kept without per-row results to
// bound document size.
type BulkReportRecord struct {
	ID           string         `json:"id" bson:"id"`
	Timestamp    time.Time      `json:"timestamp" bson:"timestamp"`
	ProductCount int            `json:"product_count" bson:"product_count"`
	ErrorCount   int            `json:"error_count" bson:"error_count"`
	Aggregates   BulkAggregates `json:"aggregates" bson:"aggregates"`
	Insights     []string       `json:"insights,omitempty" bson:"insights,omitempty"`
}

// HistoryStats summarizes the stored calculation history.
type HistoryStats struct {
	TotalCalculations int       `json:"total_calculations"`
	AvgMargin         float64   `json:"avg_margin"`
	AvgROI            float64   `json:"avg_roi"`
	ProfitableCount   int       `json:"profitable_count"`
	OldestTimestamp   time.Time `json:"oldest_timestamp,omitempty"`
	NewestTimestamp   time.Time `json:"newest_timestamp,omitempty"`
}
