package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"profitpilot/models"
	"profitpilot/services"
)

// CalculatorHandlers exposes the single-product calculation endpoints.
type CalculatorHandlers struct {
	calculator *services.CalculatorService
	platforms  *services.PlatformService
}

func NewCalculatorHandlers(calculator *services.CalculatorService, platforms *services.PlatformService) *CalculatorHandlers {
	return &CalculatorHandlers{
		calculator: calculator,
		platforms:  platforms,
	}
}

// Calculate godoc
// @Summary Run the full profitability pipeline for one product
// @Tags calculator
// @Accept json
// @Produce json
// @Router /api/calculate [post]
func (ch *CalculatorHandlers) Calculate(c echo.Context) error {
	var input models.ProductInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	outcome, err := ch.calculator.Calculate(c.Request().Context(), input, c.RealIP())
	if err != nil {
		return validationOrInternal(c, err)
	}

	return c.JSON(http.StatusOK, outcome)
}

// AdjustForReturns recomputes a product with an explicit return rate applied.
// The rate comes from the return_rate query parameter, in percent.
func (ch *CalculatorHandlers) AdjustForReturns(c echo.Context) error {
	rateStr := c.QueryParam("return_rate")
	if rateStr == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "return_rate parameter required"})
	}
	rate, err := strconv.ParseFloat(rateStr, 64)
	if err != nil || rate < 0 || rate > 100 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "return_rate must be a percentage between 0 and 100"})
	}

	var input models.ProductInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	result, err := ch.calculator.AdjustForReturns(c.Request().Context(), input, rate, c.RealIP())
	if err != nil {
		return validationOrInternal(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// HealthScore returns only the health score for a product.
func (ch *CalculatorHandlers) HealthScore(c echo.Context) error {
	var input models.ProductInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	health, err := ch.calculator.HealthScore(input, c.RealIP())
	if err != nil {
		return validationOrInternal(c, err)
	}

	return c.JSON(http.StatusOK, health)
}

// ScenarioRequest pairs a baseline product with what-if adjustments.
type ScenarioRequest struct {
	Product     models.ProductInput        `json:"product"`
	Adjustments models.ScenarioAdjustments `json:"adjustments"`
}

// Scenario runs a baseline vs adjusted comparison.
func (ch *CalculatorHandlers) Scenario(c echo.Context) error {
	var req ScenarioRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	comparison, err := ch.calculator.Scenario(req.Product, req.Adjustments, c.RealIP())
	if err != nil {
		return validationOrInternal(c, err)
	}

	return c.JSON(http.StatusOK, comparison)
}

// GetTables returns the built-in reference data the engine calculates with.
func (ch *CalculatorHandlers) GetTables(c echo.Context) error {
	tables := ch.calculator.Tables()

	response := map[string]interface{}{
		"category_fee_rates":      tables.CategoryFeeRates,
		"country_vat_rates":       tables.CountryVATRates,
		"category_return_rates":   tables.CategoryReturnRates,
		"small_package_limits":    tables.SmallPackage,
		"shipping_costs":          tables.Shipping,
		"heavy_weight_cutoff_kg":  tables.HeavyWeightCutoffKg,
		"heavy_volume_cutoff_cm3": tables.HeavyVolumeCutoffCm3,
	}

	return c.JSON(http.StatusOK, response)
}

// GetPlatformFees returns the marketplace fee schedule.
func (ch *CalculatorHandlers) GetPlatformFees(c echo.Context) error {
	return c.JSON(http.StatusOK, ch.platforms.Schedule())
}

// validationOrInternal maps blocking input findings to 400 and everything
// else to 500.
func validationOrInternal(c echo.Context, err error) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":    "validation failed",
			"messages": verr.Messages,
		})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
