package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"profitpilot/config"
	"profitpilot/models"
	"profitpilot/services"
)

// BulkHandlers exposes the portfolio endpoints: JSON batches, spreadsheet
// uploads and report export.
type BulkHandlers struct {
	calculator *services.CalculatorService
	upload     *services.UploadService
	cache      *services.CacheService
	cfg        *config.Config
}

func NewBulkHandlers(calculator *services.CalculatorService, upload *services.UploadService, cache *services.CacheService, cfg *config.Config) *BulkHandlers {
	return &BulkHandlers{
		calculator: calculator,
		upload:     upload,
		cache:      cache,
		cfg:        cfg,
	}
}

// BulkRequest is a JSON batch of products.
type BulkRequest struct {
	Products []models.ProductInput `json:"products"`
}

// CalculateBulk godoc
// @Summary Calculate a batch of products and aggregate the portfolio
// @Tags bulk
// @Accept json
// @Produce json
// @Router /api/bulk [post]
func (bh *BulkHandlers) CalculateBulk(c echo.Context) error {
	var req BulkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if len(req.Products) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "products list is empty"})
	}
	if len(req.Products) > bh.cfg.Upload.MaxRows {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("batch exceeds %d products", bh.cfg.Upload.MaxRows),
		})
	}

	report, recordID := bh.calculator.BulkFromInputs(c.Request().Context(), req.Products)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"report_id": recordID,
		"report":    report,
	})
}

// UploadBulk accepts a multipart xlsx or csv file and runs the batch.
func (bh *BulkHandlers) UploadBulk(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file field required"})
	}
	if fileHeader.Size > bh.cfg.MaxUploadBytes() {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{
			"error": fmt.Sprintf("file exceeds %d MB limit", bh.cfg.Upload.MaxFileSizeMB),
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to open upload"})
	}
	defer src.Close()

	headers, rows, err := bh.upload.Parse(src, fileHeader.Filename)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	report, recordID := bh.calculator.BulkFromRows(c.Request().Context(), headers, rows)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"report_id": recordID,
		"report":    report,
	})
}

// GetReport returns a previously computed portfolio report from the cache.
func (bh *BulkHandlers) GetReport(c echo.Context) error {
	id := c.Param("id")

	report, found := bh.cache.GetBulkReport(id)
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "report not found or expired"})
	}

	return c.JSON(http.StatusOK, report)
}

// ExportReport streams a cached portfolio report as an xlsx workbook.
func (bh *BulkHandlers) ExportReport(c echo.Context) error {
	id := c.Param("id")

	report, found := bh.cache.GetBulkReport(id)
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "report not found or expired"})
	}

	f, err := bh.upload.ExportReport(report)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="report-%s.xlsx"`, id))
	c.Response().WriteHeader(http.StatusOK)

	return f.Write(c.Response().Writer)
}
