package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"profitpilot/engine"
	"profitpilot/models"
)

func excelizeWorkbook(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}
	return f
}

func TestParse_CSV(t *testing.T) {
	us := NewUploadService(testConfig())

	csvData := strings.Join([]string{
		"Product,Category,Price,COGS,Weight",
		"Speaker,Electronics,49.99,12.50,0.8",
		"Lamp,Home,25.00,8.00,1.2",
	}, "\n")

	headers, rows, err := us.Parse(strings.NewReader(csvData), "products.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"Product", "Category", "Price", "COGS", "Weight"}, headers)
	require.Len(t, rows, 2)
	assert.Equal(t, "Speaker", rows[0][0])
	assert.Equal(t, "8.00", rows[1][3])
}

func TestParse_CSVRaggedRows(t *testing.T) {
	us := NewUploadService(testConfig())

	csvData := "Product,Price,COGS\nSpeaker,49.99\n"

	headers, rows, err := us.Parse(strings.NewReader(csvData), "short.csv")
	require.NoError(t, err)
	assert.Len(t, headers, 3)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 2)
}

func TestParse_RowLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Upload.MaxRows = 2
	us := NewUploadService(cfg)

	csvData := "Product,Price\nA,1\nB,2\nC,3\n"

	_, _, err := us.Parse(strings.NewReader(csvData), "big.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit is 2")
}

func TestParse_UnsupportedExtension(t *testing.T) {
	us := NewUploadService(testConfig())

	_, _, err := us.Parse(strings.NewReader("data"), "products.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestParse_XLSX(t *testing.T) {
	us := NewUploadService(testConfig())

	f := excelizeWorkbook(t, [][]interface{}{
		{"Product", "Price", "COGS"},
		{"Speaker", 49.99, 12.50},
	})

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	headers, rows, err := us.Parse(&buf, "products.xlsx")
	require.NoError(t, err)

	assert.Equal(t, []string{"Product", "Price", "COGS"}, headers)
	require.Len(t, rows, 1)
	assert.Equal(t, "Speaker", rows[0][0])
}

func TestExportReport_Sheets(t *testing.T) {
	us := NewUploadService(testConfig())

	report := engine.NewDefault().ProcessBulkInputs([]models.ProductInput{speakerInput()})
	require.Len(t, report.Results, 1)

	f, err := us.ExportReport(report)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Products")
	assert.Contains(t, sheets, "Summary")
	assert.NotContains(t, sheets, "Sheet1")

	name, err := f.GetCellValue("Products", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Bluetooth Speaker", name)
}
