// Package export writes a drawn histogram to an Excel workbook: one row per
// bar with its intensity cell filled in the bar color, plus a native column
// chart of the values.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/icodeforyou/histoplot-go/gradient"
	"github.com/icodeforyou/histoplot-go/histogram"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Histogram"

// WriteXLSX fills every row with the color the bar is drawn in.
func WriteXLSX(w io.Writer, snap histogram.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &[]any{"Label", "Value", "Intensity", "Color"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	points := snap.Points
	for i, pt := range points {
		row := i + 2
		c, err := gradient.ParseCSS(pt.Color)
		if err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
		hex := strings.ToUpper(strings.TrimPrefix(c.Hex(), "#"))

		var value any = pt.Y
		if math.IsNaN(pt.Y) || math.IsInf(pt.Y, 0) {
			value = ""
		}

		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &[]any{pt.Label, value, snap.Intensities[i], "#" + hex}); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}

		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hex}},
		})
		if err != nil {
			return fmt.Errorf("creating fill for row %d: %w", row, err)
		}
		if err := f.SetCellStyle(SheetName, fmt.Sprintf("C%d", row), fmt.Sprintf("D%d", row), style); err != nil {
			return fmt.Errorf("styling row %d: %w", row, err)
		}
	}

	if len(points) > 0 {
		last := len(points) + 1
		chart := &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{
				{
					Name:       fmt.Sprintf("%s!$B$1", SheetName),
					Categories: fmt.Sprintf("%s!$A$2:$A$%d", SheetName, last),
					Values:     fmt.Sprintf("%s!$B$2:$B$%d", SheetName, last),
				},
			},
			Legend: excelize.ChartLegend{Position: "none"},
		}
		if snap.Title != "" {
			chart.Title = []excelize.RichTextRun{{Text: snap.Title}}
		}
		if err := f.AddChart(SheetName, "F2", chart); err != nil {
			return fmt.Errorf("adding chart: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
