package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitpilot/models"
)

func TestColumnIndex_Aliases(t *testing.T) {
	headers := []string{"Product Name", "TYPE", "Sell Price", "Unit Cost", "Weight KG", " Return % "}

	index := ColumnIndex(headers)

	assert.Equal(t, 0, index["name"])
	assert.Equal(t, 1, index["category"])
	assert.Equal(t, 2, index["price"])
	assert.Equal(t, 3, index["cogs"])
	assert.Equal(t, 4, index["weight"])
	assert.Equal(t, 5, index["returnrate"])
}

func TestColumnIndex_FirstMatchWins(t *testing.T) {
	// Two columns both alias to price; the leftmost one is authoritative.
	index := ColumnIndex([]string{"price", "sale price"})
	assert.Equal(t, 0, index["price"])
}

func TestMapRow_ParsesFormattedNumbers(t *testing.T) {
	index := ColumnIndex([]string{"name", "price", "cogs", "volume"})

	input := MapRow(index, []string{"Desk Lamp", "€49,99", "$12.50", "1,200"})

	assert.Equal(t, "Desk Lamp", input.Name)
	assert.Equal(t, 49.99, input.SellingPrice)
	assert.Equal(t, 12.50, input.COGS)
	assert.Equal(t, 1200, input.AnnualVolume)
}

func TestMapRow_ShortRow(t *testing.T) {
	index := ColumnIndex([]string{"name", "price", "cogs"})

	// A row with fewer cells than headers must not panic.
	input := MapRow(index, []string{"Lone"})
	assert.Equal(t, "Lone", input.Name)
	assert.Equal(t, 0.0, input.SellingPrice)
}

func TestProcessBulk_SkipsBlankRowsAndNumbersErrors(t *testing.T) {
	e := NewDefault()

	headers := []string{"name", "price", "cogs"}
	rows := [][]string{
		{"Good", "50", "20"},      // row 2
		{"", "  ", ""},            // blank, skipped without an error
		{"Bad", "-5", "20"},       // row 4: negative price
		{"Also Good", "30", "10"}, // row 5
	}

	report := e.ProcessBulk(headers, rows)

	assert.Len(t, report.Results, 2)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 4, report.Errors[0].Row)
	assert.Equal(t, "Bad", report.Errors[0].Product)
	assert.Equal(t, 2, report.Aggregates.ProductCount)
}

func TestProcessBulkInputs_Aggregates(t *testing.T) {
	e := NewDefault()

	inputs := []models.ProductInput{
		{Name: "A", SellingPrice: 50, COGS: 10},
		{Name: "B", SellingPrice: 40, COGS: 15},
		{Name: "C", SellingPrice: 25, COGS: 20},
	}

	report := e.ProcessBulkInputs(inputs)
	require.Len(t, report.Results, 3)

	agg := report.Aggregates
	assert.Equal(t, 3, agg.ProductCount)
	assert.InDelta(t, agg.TotalRevenue, agg.AvgRevenue*3, 0.05)
	assert.InDelta(t, agg.TotalProfit, agg.AvgProfit*3, 0.05)

	// Ranking covers every product when there are three or fewer, and the
	// two orderings are mirror images.
	require.Len(t, agg.TopByROI, 3)
	require.Len(t, agg.BottomByROI, 3)
	assert.Equal(t, agg.TopByROI[0].Name, agg.BottomByROI[2].Name)
	assert.GreaterOrEqual(t, agg.TopByROI[0].ROIPercent, agg.TopByROI[1].ROIPercent)
	assert.LessOrEqual(t, agg.BottomByROI[0].ROIPercent, agg.BottomByROI[1].ROIPercent)

	total := 0
	for _, n := range agg.TierDistribution {
		total += n
	}
	assert.Equal(t, 3, total)
}

func TestAggregateBulk_IdenticalMargins(t *testing.T) {
	e := NewDefault()

	// N copies of the same product: average and median margin must both
	// equal the single product's margin exactly.
	single, err := e.Calculate(electronicsProduct())
	require.NoError(t, err)

	inputs := make([]models.ProductInput, 5)
	for i := range inputs {
		inputs[i] = electronicsProduct()
		inputs[i].Name = fmt.Sprintf("Clone %d", i+1)
	}

	report := e.ProcessBulkInputs(inputs)
	require.Empty(t, report.Errors)

	assert.Equal(t, single.Totals.MarginPercent, report.Aggregates.AvgMargin)
	assert.Equal(t, single.Totals.MarginPercent, report.Aggregates.MedianMargin)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, median(nil))
	assert.Equal(t, 7.0, median([]float64{7}))
	assert.Equal(t, 5.0, median([]float64{9, 1, 5}))
	assert.Equal(t, 3.5, median([]float64{4, 1, 3, 10}))
}

func TestGenerateInsights_Thresholds(t *testing.T) {
	e := NewDefault()

	// A portfolio of thin-margin products trips the ROI and margin
	// insights plus the weak-tier warning.
	inputs := []models.ProductInput{
		{Name: "Thin 1", SellingPrice: 30, COGS: 22},
		{Name: "Thin 2", SellingPrice: 25, COGS: 19},
		{Name: "Thin 3", SellingPrice: 40, COGS: 31},
	}

	report := e.ProcessBulkInputs(inputs)
	assert.NotEmpty(t, report.Insights)
	assert.LessOrEqual(t, len(report.Insights), 6)
}

func TestProcessBulk_EmptyBatch(t *testing.T) {
	e := NewDefault()

	report := e.ProcessBulk([]string{"name", "price"}, nil)

	assert.Empty(t, report.Results)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 0, report.Aggregates.ProductCount)
	assert.Nil(t, report.Insights)
}
