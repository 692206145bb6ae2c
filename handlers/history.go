package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"profitpilot/services"
)

// HistoryHandlers manages past calculation endpoints.
type HistoryHandlers struct {
	historyService *services.HistoryService
}

func NewHistoryHandlers(historyService *services.HistoryService) *HistoryHandlers {
	return &HistoryHandlers{
		historyService: historyService,
	}
}

func limitParam(c echo.Context, def int) int {
	limitStr := c.QueryParam("limit")
	if limitStr == "" {
		return def
	}
	if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
		return l
	}
	return def
}

// GetRecent godoc
// @Summary Get recent calculations, newest first
// @Tags history
// @Produce json
// @Router /api/history [get]
func (hh *HistoryHandlers) GetRecent(c echo.Context) error {
	limit := limitParam(c, 50)
	records := hh.historyService.Recent(c.Request().Context(), limit)
	return c.JSON(http.StatusOK, records)
}

// GetByID returns one stored calculation record.
func (hh *HistoryHandlers) GetByID(c echo.Context) error {
	record, found := hh.historyService.ByID(c.Request().Context(), c.Param("id"))
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "record not found"})
	}
	return c.JSON(http.StatusOK, record)
}

// GetByProduct returns the calculation history of one product.
func (hh *HistoryHandlers) GetByProduct(c echo.Context) error {
	product := c.Param("product")
	if product == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "product name required"})
	}

	limit := limitParam(c, 50)
	records := hh.historyService.ByProduct(c.Request().Context(), product, limit)

	if len(records) == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no history for this product"})
	}

	return c.JSON(http.StatusOK, records)
}

// GetBulkReports returns recent portfolio reports.
func (hh *HistoryHandlers) GetBulkReports(c echo.Context) error {
	limit := limitParam(c, 20)
	records := hh.historyService.RecentBulkReports(c.Request().Context(), limit)
	return c.JSON(http.StatusOK, records)
}

// GetStats returns aggregate statistics over stored calculations.
func (hh *HistoryHandlers) GetStats(c echo.Context) error {
	stats := hh.historyService.Stats(c.Request().Context())
	return c.JSON(http.StatusOK, stats)
}
