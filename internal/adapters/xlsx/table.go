// Package xlsx exports the dashboard table as a spreadsheet.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"review_mirror/internal/domain"
)

const Sheet = "Places"

var headers = []string{
	"Place", "Positive", "Neutral", "Negative", "Total Reviews",
	"Positive Ratio", "Lat", "Lng",
	"Positive Keywords", "Neutral Keywords", "Negative Keywords",
}

var widths = []float64{28, 10, 10, 10, 14, 14, 11, 11, 40, 40, 40}

// WriteTable writes rows to w as a single-sheet workbook with a header row.
// A nil ratio leaves its cell empty.
func WriteTable(w io.Writer, rows []domain.DisplayRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", Sheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(Sheet, cell, h); err != nil {
			return err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(Sheet, col, col, widths[i]); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(Sheet, "A1", last, bold); err != nil {
		return err
	}

	for i, r := range rows {
		var ratio any
		if r.PositiveRatio != nil {
			ratio = *r.PositiveRatio
		}
		vals := []any{
			r.Place, r.PositiveCount, r.NeutralCount, r.NegativeCount, r.TotalReviews,
			ratio, r.Lat, r.Lng,
			r.PositiveKeywords, r.NeutralKeywords, r.NegativeKeywords,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(Sheet, cell, &vals); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(Sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	return f.Write(w)
}
