package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"profitpilot/models"
)

// AlertService evaluates configured rules against every calculation that
// comes through the API. Rules are evaluated inline rather than on a
// timer: the engine has no background state to poll, so the only moment a
// product can trip a rule is when someone calculates it.
type AlertService struct {
	rules      map[string]*models.AlertRule
	history    []*models.AlertEvent
	rulesMutex sync.RWMutex

	mongo      *MongoDBService
	discordBot *DiscordBotService
	log        *zap.Logger
}

func NewAlertService(mongo *MongoDBService, discordBot *DiscordBotService, log *zap.Logger) *AlertService {
	return &AlertService{
		rules:      make(map[string]*models.AlertRule),
		history:    make([]*models.AlertEvent, 0),
		mongo:      mongo,
		discordBot: discordBot,
		log:        log,
	}
}

// LoadRules restores persisted rules on startup.
func (as *AlertService) LoadRules(ctx context.Context) {
	if !as.mongo.Enabled() {
		return
	}

	rules, err := as.mongo.GetAllAlertRules(ctx)
	if err != nil {
		as.log.Warn("failed to load alert rules", zap.Error(err))
		return
	}

	as.rulesMutex.Lock()
	for _, r := range rules {
		as.rules[r.ID] = r
	}
	as.rulesMutex.Unlock()

	as.log.Info("alert rules loaded", zap.Int("count", len(rules)))
}

// CreateRule adds a new alert rule.
func (as *AlertService) CreateRule(rule *models.AlertRule) error {
	switch rule.RuleType {
	case models.RuleMarginBelow, models.RuleTierCritical, models.RuleHealthRed, models.RuleNeverBreaks:
	default:
		return fmt.Errorf("unknown rule type: %s", rule.RuleType)
	}

	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = time.Now()

	as.rulesMutex.Lock()
	as.rules[rule.ID] = rule
	as.rulesMutex.Unlock()

	if as.mongo.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := as.mongo.InsertAlertRule(ctx, rule); err != nil {
			as.log.Warn("failed to persist alert rule", zap.Error(err))
		}
	}

	return nil
}

// GetRule retrieves a specific rule.
func (as *AlertService) GetRule(id string) (*models.AlertRule, bool) {
	as.rulesMutex.RLock()
	defer as.rulesMutex.RUnlock()
	rule, exists := as.rules[id]
	return rule, exists
}

// ListRules returns all rules.
func (as *AlertService) ListRules() []*models.AlertRule {
	as.rulesMutex.RLock()
	defer as.rulesMutex.RUnlock()

	rules := make([]*models.AlertRule, 0, len(as.rules))
	for _, r := range as.rules {
		rules = append(rules, r)
	}
	return rules
}

// UpdateRule modifies an existing rule.
func (as *AlertService) UpdateRule(id string, updated *models.AlertRule) error {
	as.rulesMutex.Lock()
	defer as.rulesMutex.Unlock()

	if _, exists := as.rules[id]; !exists {
		return fmt.Errorf("alert rule not found")
	}

	updated.ID = id
	updated.UpdatedAt = time.Now()
	as.rules[id] = updated

	if as.mongo.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := as.mongo.UpdateAlertRule(ctx, updated); err != nil {
			as.log.Warn("failed to update alert rule", zap.Error(err))
		}
	}

	return nil
}

// DeleteRule removes a rule.
func (as *AlertService) DeleteRule(id string) error {
	as.rulesMutex.Lock()
	defer as.rulesMutex.Unlock()

	if _, exists := as.rules[id]; !exists {
		return fmt.Errorf("alert rule not found")
	}

	delete(as.rules, id)

	if as.mongo.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := as.mongo.DeleteAlertRule(ctx, id); err != nil {
			as.log.Warn("failed to delete alert rule", zap.Error(err))
		}
	}

	return nil
}

// GetHistory returns fired events, newest first.
func (as *AlertService) GetHistory(limit int) []*models.AlertEvent {
	as.rulesMutex.RLock()
	defer as.rulesMutex.RUnlock()

	if limit <= 0 || limit > len(as.history) {
		limit = len(as.history)
	}

	result := make([]*models.AlertEvent, 0, limit)
	for i := len(as.history) - 1; i >= len(as.history)-limit; i-- {
		result = append(result, as.history[i])
	}

	return result
}

// Evaluate runs every enabled rule against one calculation. Called after
// each single-product calculation; fired events go to history, MongoDB and
// Discord.
func (as *AlertService) Evaluate(result *models.CalculationResult, health *models.HealthScore) {
	as.rulesMutex.RLock()
	rules := make([]*models.AlertRule, 0, len(as.rules))
	for _, r := range as.rules {
		if r.Enabled {
			rules = append(rules, r)
		}
	}
	as.rulesMutex.RUnlock()

	for _, rule := range rules {
		if time.Since(rule.LastFired) < time.Duration(rule.Cooldown)*time.Minute {
			continue
		}

		triggered, message, value := evaluateRule(rule, result, health)
		if triggered {
			as.fire(rule, result.Input.Name, message, value)
		}
	}
}

// ReportBulk pushes a portfolio summary to Discord after a bulk run.
func (as *AlertService) ReportBulk(record *models.BulkReportRecord) {
	if !as.discordBot.Enabled() {
		return
	}
	if err := as.discordBot.SendPortfolioReport(record); err != nil {
		as.log.Warn("failed to send portfolio report", zap.Error(err))
	}
}

func evaluateRule(rule *models.AlertRule, result *models.CalculationResult, health *models.HealthScore) (bool, string, float64) {
	switch rule.RuleType {
	case models.RuleMarginBelow:
		margin := result.Totals.MarginPercent
		if margin < rule.Threshold {
			return true, fmt.Sprintf("Margin %.2f%% is below the %.2f%% threshold", margin, rule.Threshold), margin
		}

	case models.RuleTierCritical:
		if result.Totals.Tier == models.PerfCritical {
			return true, "Product performance tier is CRITICAL", result.Totals.ROIPercent
		}

	case models.RuleHealthRed:
		if health != nil && health.Zone == models.ZoneRed {
			return true, fmt.Sprintf("Health score %d is in the red zone", health.Total), float64(health.Total)
		}

	case models.RuleNeverBreaks:
		if result.Totals.NeverBreaksEven {
			return true, "Product never breaks even at the current price", result.Totals.NetProfit
		}
	}

	return false, "", 0
}

func (as *AlertService) fire(rule *models.AlertRule, product, message string, value float64) {
	as.log.Info("alert triggered",
		zap.String("rule", rule.Name), zap.String("product", product))

	as.rulesMutex.Lock()
	rule.LastFired = time.Now()
	as.rulesMutex.Unlock()

	event := &models.AlertEvent{
		ID:        uuid.NewString(),
		RuleID:    rule.ID,
		RuleName:  rule.Name,
		RuleType:  rule.RuleType,
		Timestamp: time.Now(),
		Product:   product,
		Message:   message,
		Value:     value,
		Threshold: rule.Threshold,
	}

	if as.discordBot.Enabled() {
		if err := as.discordBot.SendAlert(event); err != nil {
			as.log.Warn("failed to send discord alert", zap.Error(err))
		} else {
			event.Notified = true
		}
	}

	as.rulesMutex.Lock()
	as.history = append(as.history, event)
	if len(as.history) > 1000 {
		as.history = as.history[len(as.history)-1000:]
	}
	as.rulesMutex.Unlock()

	if as.mongo.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := as.mongo.InsertAlertEvent(ctx, event); err != nil {
			as.log.Warn("failed to persist alert event", zap.Error(err))
		}
	}
}
