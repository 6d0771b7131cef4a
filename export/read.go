package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/icodeforyou/histoplot-go/convert"
	"github.com/icodeforyou/histoplot-go/histogram"
	"github.com/icodeforyou/histoplot-go/slice"
	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads a histogram input from the first sheet of a workbook laid
// out the way WriteXLSX writes it: a header row followed by label, value and
// intensity columns. Blank rows are skipped.
func ReadXLSX(r io.Reader) (histogram.Input, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return histogram.Input{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return histogram.Input{}, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	return ParseRows(rows)
}

// ParseRows turns label, value, intensity rows into an input. The first row
// is the header.
func ParseRows(rows [][]string) (histogram.Input, error) {
	in := histogram.Input{Values: []string{}, Labels: []string{}, Intensities: []float64{}}
	if len(rows) == 0 {
		return in, nil
	}

	for i, row := range rows[1:] {
		if slice.All(row, func(c string) bool { return strings.TrimSpace(c) == "" }) {
			continue
		}
		if len(row) < 3 {
			return histogram.Input{}, fmt.Errorf("row %d: got %d columns, wanted 3", i+2, len(row))
		}
		intensity, err := convert.ParseFloat(row[2])
		if err != nil {
			return histogram.Input{}, fmt.Errorf("row %d: %w", i+2, err)
		}
		value := strings.TrimSpace(row[1])
		if value == "" {
			value = "NaN"
		}
		in.Labels = append(in.Labels, row[0])
		in.Values = append(in.Values, value)
		in.Intensities = append(in.Intensities, intensity)
	}
	return in, histogram.Validate(in)
}
