package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"profitpilot/models"
	"profitpilot/services"
)

// AlertHandlers manages alert rule CRUD and the firing history.
type AlertHandlers struct {
	alertService *services.AlertService
}

func NewAlertHandlers(alertService *services.AlertService) *AlertHandlers {
	return &AlertHandlers{
		alertService: alertService,
	}
}

// ListRules godoc
// @Summary List configured alert rules
// @Tags alerts
// @Produce json
// @Router /api/alerts/rules [get]
func (ah *AlertHandlers) ListRules(c echo.Context) error {
	return c.JSON(http.StatusOK, ah.alertService.ListRules())
}

// CreateRule adds a new alert rule.
func (ah *AlertHandlers) CreateRule(c echo.Context) error {
	var rule models.AlertRule
	if err := c.Bind(&rule); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := ah.alertService.CreateRule(&rule); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, rule)
}

// GetRule returns one rule by id.
func (ah *AlertHandlers) GetRule(c echo.Context) error {
	rule, found := ah.alertService.GetRule(c.Param("id"))
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "rule not found"})
	}
	return c.JSON(http.StatusOK, rule)
}

// UpdateRule replaces the mutable fields of a rule.
func (ah *AlertHandlers) UpdateRule(c echo.Context) error {
	var rule models.AlertRule
	if err := c.Bind(&rule); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := ah.alertService.UpdateRule(c.Param("id"), &rule); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, rule)
}

// DeleteRule removes a rule.
func (ah *AlertHandlers) DeleteRule(c echo.Context) error {
	if err := ah.alertService.DeleteRule(c.Param("id")); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "rule deleted"})
}

// GetHistory returns recent alert firings, newest first.
func (ah *AlertHandlers) GetHistory(c echo.Context) error {
	limit := 50
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	return c.JSON(http.StatusOK, ah.alertService.GetHistory(limit))
}
