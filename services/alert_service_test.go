package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitpilot/engine"
	"profitpilot/logger"
	"profitpilot/models"
)

func lowMarginResult(t *testing.T) (*models.CalculationResult, *models.HealthScore) {
	t.Helper()

	eng := engine.NewDefault()

	// Thin margin: price barely covers cost.
	input := speakerInput()
	input.SellingPrice = 35

	result, err := eng.Calculate(input)
	require.NoError(t, err)

	return result, eng.HealthScore(result)
}

func TestCreateRule_RejectsUnknownType(t *testing.T) {
	as := NewAlertService(nil, nil, logger.NewNop())

	err := as.CreateRule(&models.AlertRule{Name: "bogus", RuleType: "margin_above"})
	assert.Error(t, err)

	err = as.CreateRule(&models.AlertRule{Name: "ok", RuleType: models.RuleMarginBelow, Threshold: 10})
	require.NoError(t, err)

	rules := as.ListRules()
	require.Len(t, rules, 1)
	assert.NotEmpty(t, rules[0].ID)
}

func TestEvaluate_MarginBelowFires(t *testing.T) {
	as := NewAlertService(nil, nil, logger.NewNop())

	require.NoError(t, as.CreateRule(&models.AlertRule{
		Name:      "thin margin",
		RuleType:  models.RuleMarginBelow,
		Threshold: 50,
		Enabled:   true,
	}))

	result, health := lowMarginResult(t)
	require.Less(t, result.Totals.MarginPercent, 50.0)

	as.Evaluate(result, health)

	events := as.GetHistory(10)
	require.Len(t, events, 1)
	assert.Equal(t, models.RuleMarginBelow, events[0].RuleType)
	assert.Equal(t, "Bluetooth Speaker", events[0].Product)
	assert.Equal(t, result.Totals.MarginPercent, events[0].Value)
	assert.False(t, events[0].Notified)
}

func TestEvaluate_DisabledRuleSkipped(t *testing.T) {
	as := NewAlertService(nil, nil, logger.NewNop())

	require.NoError(t, as.CreateRule(&models.AlertRule{
		Name:      "off",
		RuleType:  models.RuleMarginBelow,
		Threshold: 100,
		Enabled:   false,
	}))

	result, health := lowMarginResult(t)
	as.Evaluate(result, health)

	assert.Empty(t, as.GetHistory(10))
}

func TestEvaluate_CooldownSuppressesRefire(t *testing.T) {
	as := NewAlertService(nil, nil, logger.NewNop())

	rule := &models.AlertRule{
		Name:      "thin margin",
		RuleType:  models.RuleMarginBelow,
		Threshold: 50,
		Enabled:   true,
		Cooldown:  60,
	}
	require.NoError(t, as.CreateRule(rule))

	result, health := lowMarginResult(t)

	as.Evaluate(result, health)
	as.Evaluate(result, health)

	assert.Len(t, as.GetHistory(10), 1)

	// Expired cooldown fires again.
	rule.LastFired = time.Now().Add(-61 * time.Minute)
	as.Evaluate(result, health)
	assert.Len(t, as.GetHistory(10), 2)
}

func TestEvaluate_NeverBreaksEven(t *testing.T) {
	as := NewAlertService(nil, nil, logger.NewNop())

	require.NoError(t, as.CreateRule(&models.AlertRule{
		Name:     "dead product",
		RuleType: models.RuleNeverBreaks,
		Enabled:  true,
	}))

	eng := engine.NewDefault()
	input := speakerInput()
	input.SellingPrice = 21 // below cost, never profitable

	result, err := eng.Calculate(input)
	require.NoError(t, err)
	require.True(t, result.Totals.NeverBreaksEven)

	as.Evaluate(result, eng.HealthScore(result))

	events := as.GetHistory(10)
	require.Len(t, events, 1)
	assert.Equal(t, models.RuleNeverBreaks, events[0].RuleType)
}

func TestGetHistory_NewestFirst(t *testing.T) {
	as := NewAlertService(nil, nil, logger.NewNop())

	rule := &models.AlertRule{Name: "r", RuleType: models.RuleMarginBelow, Threshold: 50, Enabled: true}
	require.NoError(t, as.CreateRule(rule))

	result, health := lowMarginResult(t)
	as.Evaluate(result, health)

	second := *result
	second.Input.Name = "Second Product"
	as.Evaluate(&second, health)

	events := as.GetHistory(10)
	require.Len(t, events, 2)
	assert.Equal(t, "Second Product", events[0].Product)
	assert.Equal(t, "Bluetooth Speaker", events[1].Product)
}

func TestUpdateAndDeleteRule(t *testing.T) {
	as := NewAlertService(nil, nil, logger.NewNop())

	rule := &models.AlertRule{Name: "r", RuleType: models.RuleMarginBelow, Threshold: 10}
	require.NoError(t, as.CreateRule(rule))

	updated := &models.AlertRule{Name: "r2", RuleType: models.RuleMarginBelow, Threshold: 20}
	require.NoError(t, as.UpdateRule(rule.ID, updated))

	got, found := as.GetRule(rule.ID)
	require.True(t, found)
	assert.Equal(t, "r2", got.Name)
	assert.Equal(t, 20.0, got.Threshold)

	require.NoError(t, as.DeleteRule(rule.ID))
	_, found = as.GetRule(rule.ID)
	assert.False(t, found)

	assert.Error(t, as.DeleteRule("missing"))
}
