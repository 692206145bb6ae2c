package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"profitpilot/models"
)

// HistoryService records every calculation and bulk run. The most recent
// records stay in a bounded in-memory window for fast reads; MongoDB keeps
// the full history when it is available. Persistence failures never fail
// the request that produced the record.
type HistoryService struct {
	mongo      *MongoDBService
	log        *zap.Logger
	maxRecords int

	mutex   sync.RWMutex
	recent  []models.CalculationRecord
	reports []models.BulkReportRecord
}

func NewHistoryService(mongo *MongoDBService, log *zap.Logger, maxRecords int) *HistoryService {
	if maxRecords <= 0 {
		maxRecords = 200
	}
	return &HistoryService{
		mongo:      mongo,
		log:        log,
		maxRecords: maxRecords,
		recent:     make([]models.CalculationRecord, 0, maxRecords),
	}
}

// Record stores one calculation. Returns the record id.
func (hs *HistoryService) Record(ctx context.Context, result *models.CalculationResult, health *models.HealthScore) string {
	record := models.CalculationRecord{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Product:   result.Input.Name,
		Result:    result,
		Health:    health,
	}

	hs.mutex.Lock()
	hs.recent = append(hs.recent, record)
	if len(hs.recent) > hs.maxRecords {
		hs.recent = hs.recent[len(hs.recent)-hs.maxRecords:]
	}
	hs.mutex.Unlock()

	if hs.mongo.Enabled() {
		if err := hs.mongo.InsertCalculation(ctx, &record); err != nil {
			hs.log.Warn("failed to persist calculation record",
				zap.String("id", record.ID), zap.Error(err))
		}
	}

	return record.ID
}

// RecordBulk stores a bulk run summary and returns the stored record.
// Per-row results are dropped to bound document size; the aggregates carry
// the useful signal.
func (hs *HistoryService) RecordBulk(ctx context.Context, report *models.BulkReport) *models.BulkReportRecord {
	record := models.BulkReportRecord{
		ID:           uuid.NewString(),
		Timestamp:    time.Now(),
		ProductCount: report.Aggregates.ProductCount,
		ErrorCount:   len(report.Errors),
		Aggregates:   report.Aggregates,
		Insights:     report.Insights,
	}

	hs.mutex.Lock()
	hs.reports = append(hs.reports, record)
	if len(hs.reports) > hs.maxRecords {
		hs.reports = hs.reports[len(hs.reports)-hs.maxRecords:]
	}
	hs.mutex.Unlock()

	if hs.mongo.Enabled() {
		if err := hs.mongo.InsertBulkReport(ctx, &record); err != nil {
			hs.log.Warn("failed to persist bulk report record",
				zap.String("id", record.ID), zap.Error(err))
		}
	}

	return &record
}

// Recent returns up to limit records, newest first. MongoDB serves deep
// history; the in-memory window covers a store outage.
func (hs *HistoryService) Recent(ctx context.Context, limit int) []models.CalculationRecord {
	if limit <= 0 {
		limit = 50
	}

	if hs.mongo.Enabled() {
		records, err := hs.mongo.GetRecentCalculations(ctx, int64(limit))
		if err == nil {
			return records
		}
		hs.log.Warn("failed to read history from mongodb, using in-memory window", zap.Error(err))
	}

	return hs.inMemoryRecent(limit)
}

func (hs *HistoryService) inMemoryRecent(limit int) []models.CalculationRecord {
	hs.mutex.RLock()
	defer hs.mutex.RUnlock()

	n := len(hs.recent)
	if limit > n {
		limit = n
	}

	// Newest first.
	out := make([]models.CalculationRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, hs.recent[i])
	}
	return out
}

// ByID returns one record. The in-memory window answers first so a fresh
// record id resolves even while MongoDB is down.
func (hs *HistoryService) ByID(ctx context.Context, id string) (*models.CalculationRecord, bool) {
	hs.mutex.RLock()
	for i := len(hs.recent) - 1; i >= 0; i-- {
		if hs.recent[i].ID == id {
			record := hs.recent[i]
			hs.mutex.RUnlock()
			return &record, true
		}
	}
	hs.mutex.RUnlock()

	if hs.mongo.Enabled() {
		record, err := hs.mongo.GetCalculationByID(ctx, id)
		if err == nil {
			return record, true
		}
	}

	return nil, false
}

// ByProduct returns a single product's history, newest first.
func (hs *HistoryService) ByProduct(ctx context.Context, product string, limit int) []models.CalculationRecord {
	if limit <= 0 {
		limit = 50
	}

	if hs.mongo.Enabled() {
		records, err := hs.mongo.GetCalculationsByProduct(ctx, product, int64(limit))
		if err == nil {
			return records
		}
		hs.log.Warn("failed to read product history from mongodb", zap.Error(err))
	}

	hs.mutex.RLock()
	defer hs.mutex.RUnlock()

	out := make([]models.CalculationRecord, 0, limit)
	for i := len(hs.recent) - 1; i >= 0 && len(out) < limit; i-- {
		if hs.recent[i].Product == product {
			out = append(out, hs.recent[i])
		}
	}
	return out
}

// RecentBulkReports returns stored bulk run summaries, newest first.
func (hs *HistoryService) RecentBulkReports(ctx context.Context, limit int) []models.BulkReportRecord {
	if limit <= 0 {
		limit = 20
	}

	if hs.mongo.Enabled() {
		records, err := hs.mongo.GetRecentBulkReports(ctx, int64(limit))
		if err == nil {
			return records
		}
		hs.log.Warn("failed to read bulk reports from mongodb", zap.Error(err))
	}

	hs.mutex.RLock()
	defer hs.mutex.RUnlock()

	n := len(hs.reports)
	if limit > n {
		limit = n
	}

	out := make([]models.BulkReportRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, hs.reports[i])
	}
	return out
}

// Stats summarizes the stored history.
func (hs *HistoryService) Stats(ctx context.Context) *models.HistoryStats {
	if hs.mongo.Enabled() {
		stats, err := hs.mongo.GetHistoryStats(ctx)
		if err == nil {
			return stats
		}
		hs.log.Warn("failed to read history stats from mongodb", zap.Error(err))
	}

	return hs.inMemoryStats()
}

func (hs *HistoryService) inMemoryStats() *models.HistoryStats {
	hs.mutex.RLock()
	defer hs.mutex.RUnlock()

	stats := &models.HistoryStats{
		TotalCalculations: len(hs.recent),
	}
	if len(hs.recent) == 0 {
		return stats
	}

	var marginSum, roiSum float64
	for _, r := range hs.recent {
		marginSum += r.Result.Totals.MarginPercent
		roiSum += r.Result.Totals.ROIPercent
		if r.Result.Totals.NetProfit > 0 {
			stats.ProfitableCount++
		}
	}

	n := float64(len(hs.recent))
	stats.AvgMargin = marginSum / n
	stats.AvgROI = roiSum / n
	stats.OldestTimestamp = hs.recent[0].Timestamp
	stats.NewestTimestamp = hs.recent[len(hs.recent)-1].Timestamp

	return stats
}
