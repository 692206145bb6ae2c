package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"profitpilot/config"
	"profitpilot/models"
)

// UploadService parses uploaded product spreadsheets into raw header and
// row slices for the bulk pipeline. It understands xlsx and csv; format is
// picked from the uploaded filename.
type UploadService struct {
	maxRows int
}

func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{maxRows: cfg.Upload.MaxRows}
}

// Parse extracts headers and data rows from an uploaded file.
func (us *UploadService) Parse(r io.Reader, filename string) ([]string, [][]string, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"):
		return us.parseXLSX(r)
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		return us.parseCSV(r)
	default:
		return nil, nil, fmt.Errorf("unsupported file type: %s (expected .xlsx or .csv)", filename)
	}
}

func (us *UploadService) parseXLSX(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("xlsx has no sheets")
	}

	// Only the first sheet is read; multi-sheet workbooks keep products on
	// sheet one by convention.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	headers := rows[0]
	data := rows[1:]

	if len(data) > us.maxRows {
		return nil, nil, fmt.Errorf("file has %d rows, limit is %d", len(data), us.maxRows)
	}

	return headers, data, nil
}

func (us *UploadService) parseCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, MapRow handles short ones
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	if len(records) == 0 {
		return nil, nil, fmt.Errorf("csv file is empty")
	}

	headers := records[0]
	data := records[1:]

	if len(data) > us.maxRows {
		return nil, nil, fmt.Errorf("file has %d rows, limit is %d", len(data), us.maxRows)
	}

	return headers, data, nil
}

// ExportReport writes a bulk report to an xlsx workbook for download. One
// row per successfully calculated product, with the aggregates on a
// second sheet.
func (us *UploadService) ExportReport(report *models.BulkReport) (*excelize.File, error) {
	f := excelize.NewFile()

	const productSheet = "Products"
	index, err := f.NewSheet(productSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{
		"Name", "Category", "Country", "Selling Price", "COGS",
		"Shipping Tier", "Shipping Cost", "Fee", "Total Cost",
		"Net Profit", "ROI %", "Margin %", "Break-even Units", "Tier",
	}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(productSheet, cell, header)
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	endHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(productSheet, "A1", endHeader, style)

	for row, result := range report.Results {
		breakEven := interface{}(result.Totals.BreakEvenUnits)
		if result.Totals.NeverBreaksEven {
			breakEven = "never"
		}

		data := []interface{}{
			result.Input.Name,
			result.Input.Category,
			result.Input.Country,
			result.Input.SellingPrice,
			result.Input.COGS,
			string(result.Shipping.Tier),
			result.Shipping.Cost,
			result.Fee.Amount,
			result.Totals.TotalCost,
			result.Totals.NetProfit,
			result.Totals.ROIPercent,
			result.Totals.MarginPercent,
			breakEven,
			string(result.Totals.Tier),
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(productSheet, cell, value)
		}
	}

	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}

	agg := report.Aggregates
	summary := [][2]interface{}{
		{"Products", agg.ProductCount},
		{"Total Revenue (net)", agg.TotalRevenue},
		{"Total Cost", agg.TotalCost},
		{"Total Profit", agg.TotalProfit},
		{"Average ROI %", agg.AvgROI},
		{"Average Margin %", agg.AvgMargin},
		{"Median Margin %", agg.MedianMargin},
		{"Small-package Eligible %", agg.SmallPackagePercent},
		{"Errors", len(report.Errors)},
	}
	for row, pair := range summary {
		keyCell, _ := excelize.CoordinatesToCellName(1, row+1)
		valCell, _ := excelize.CoordinatesToCellName(2, row+1)
		f.SetCellValue(summarySheet, keyCell, pair[0])
		f.SetCellValue(summarySheet, valCell, pair[1])
	}

	for row, insight := range report.Insights {
		cell, _ := excelize.CoordinatesToCellName(1, len(summary)+2+row)
		f.SetCellValue(summarySheet, cell, insight)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f, nil
}
