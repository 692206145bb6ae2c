package services

import (
	"context"

	"go.uber.org/zap"

	"profitpilot/engine"
	"profitpilot/models"
	"profitpilot/utils"
)

// CalculatorService sits between the HTTP handlers and the pure engine.
// It owns the cross-cutting concerns a calculation triggers: result
// memoization, history persistence, alert evaluation and country
// defaulting from the caller's IP. The engine itself stays side-effect
// free.
type CalculatorService struct {
	engine    *engine.Engine
	cache     *CacheService
	history   *HistoryService
	alerts    *AlertService
	platforms *PlatformService
	geo       *utils.GeoResolver
	log       *zap.Logger
}

func NewCalculatorService(
	eng *engine.Engine,
	cache *CacheService,
	history *HistoryService,
	alerts *AlertService,
	platforms *PlatformService,
	geo *utils.GeoResolver,
	log *zap.Logger,
) *CalculatorService {
	return &CalculatorService{
		engine:    eng,
		cache:     cache,
		history:   history,
		alerts:    alerts,
		platforms: platforms,
		geo:       geo,
		log:       log,
	}
}

// CalculateOutcome bundles what one calculation request produces.
type CalculateOutcome struct {
	Result   *models.CalculationResult `json:"result"`
	Health   *models.HealthScore       `json:"health"`
	RecordID string                    `json:"record_id,omitempty"`
	Cached   bool                      `json:"cached"`
}

// Calculate runs the full pipeline for one product. An empty country is
// filled from the caller's IP before the engine applies its own default.
func (cs *CalculatorService) Calculate(ctx context.Context, input models.ProductInput, clientIP string) (*CalculateOutcome, error) {
	cs.prepare(&input, clientIP)

	if cached, found := cs.cache.GetResult(input); found {
		health := cs.engine.HealthScore(cached)
		return &CalculateOutcome{Result: cached, Health: health, Cached: true}, nil
	}

	result, err := cs.engine.Calculate(input)
	if err != nil {
		return nil, err
	}

	health := cs.engine.HealthScore(result)

	cs.cache.SetResult(input, result)
	recordID := cs.history.Record(ctx, result, health)
	cs.alerts.Evaluate(result, health)

	return &CalculateOutcome{Result: result, Health: health, RecordID: recordID}, nil
}

// AdjustForReturns recomputes a product with an explicit return rate and
// returns the result with its return impact attached.
func (cs *CalculatorService) AdjustForReturns(ctx context.Context, input models.ProductInput, returnRate float64, clientIP string) (*models.CalculationResult, error) {
	cs.prepare(&input, clientIP)
	input.ReturnRate = returnRate

	result, err := cs.engine.Calculate(input)
	if err != nil {
		return nil, err
	}

	return cs.engine.AdjustForReturns(result, returnRate, result.Input.MonthlyVolume()), nil
}

// HealthScore computes the four-factor score without recording history.
func (cs *CalculatorService) HealthScore(input models.ProductInput, clientIP string) (*models.HealthScore, error) {
	cs.prepare(&input, clientIP)

	result, err := cs.engine.Calculate(input)
	if err != nil {
		return nil, err
	}

	return cs.engine.HealthScore(result), nil
}

// Scenario compares a baseline against adjusted parameters.
func (cs *CalculatorService) Scenario(input models.ProductInput, adj models.ScenarioAdjustments, clientIP string) (*models.ScenarioComparison, error) {
	cs.prepare(&input, clientIP)
	return cs.engine.RecalculateScenario(&input, adj)
}

// BulkFromRows runs the bulk pipeline over parsed spreadsheet rows.
func (cs *CalculatorService) BulkFromRows(ctx context.Context, headers []string, rows [][]string) (*models.BulkReport, string) {
	report := cs.engine.ProcessBulk(headers, rows)
	return report, cs.finishBulk(ctx, report)
}

// BulkFromInputs runs the bulk pipeline over a typed JSON batch.
func (cs *CalculatorService) BulkFromInputs(ctx context.Context, inputs []models.ProductInput) (*models.BulkReport, string) {
	report := cs.engine.ProcessBulkInputs(inputs)
	return report, cs.finishBulk(ctx, report)
}

func (cs *CalculatorService) finishBulk(ctx context.Context, report *models.BulkReport) string {
	record := cs.history.RecordBulk(ctx, report)
	cs.cache.SetBulkReport(record.ID, report)
	cs.alerts.ReportBulk(record)
	return record.ID
}

// Tables exposes the active reference tables for the /api/tables endpoint.
func (cs *CalculatorService) Tables() engine.Tables {
	return cs.engine.Tables()
}

// prepare fills request-level defaults the pure engine does not know
// about: the platform fee schedule and the caller's country.
func (cs *CalculatorService) prepare(input *models.ProductInput, clientIP string) {
	cs.platforms.ApplyPlatformFee(input)

	if input.Country != "" || clientIP == "" {
		return
	}

	if country := cs.geo.CountryForIP(clientIP); country != "" {
		input.Country = country
		cs.log.Debug("country defaulted from client ip",
			zap.String("country", country))
	}
}
