package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/icodeforyou/histoplot-go/gradient"
	"github.com/icodeforyou/histoplot-go/histogram"
	"github.com/icodeforyou/histoplot-go/www/chartjs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type nopDrawer struct{}

func (nopDrawer) Draw(context.Context, string, chartjs.Chart) error   { return nil }
func (nopDrawer) Redraw(context.Context, string, chartjs.Chart) error { return nil }

var threeRows = histogram.Input{
	Title:       "Degree",
	Values:      []string{"1.5", "NaN", "3"},
	Labels:      []string{"a", "b", "c"},
	Intensities: []float64{0, 5, 10},
}

func render(t *testing.T, in histogram.Input) *histogram.Plot {
	t.Helper()
	plot, err := histogram.Render(context.Background(), nopDrawer{}, gradient.NewMapper(gradient.Rainbow), "c1", in, gradient.Range{Min: 0, Max: 10})
	require.NoError(t, err)
	return plot
}

func openWorkbook(t *testing.T, plot *histogram.Plot) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, plot.Snapshot()))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func assertCells(t *testing.T, f *excelize.File, want map[string]string) {
	t.Helper()
	for cell, value := range want {
		got, err := f.GetCellValue(SheetName, cell)
		require.NoError(t, err, cell)
		assert.Equal(t, value, got, "cell %s", cell)
	}
}

func TestWriteXLSX(t *testing.T) {
	f := openWorkbook(t, render(t, threeRows))
	assertCells(t, f, map[string]string{
		"A1": "Label",
		"A2": "a",
		"B2": "1.5",
		"B3": "",
		"C4": "10",
		"D2": "#0000FF",
		"D4": "#FF0000",
	})
}

func TestWriteXLSXAfterRecolorFrom(t *testing.T) {
	plot := render(t, threeRows)
	require.NoError(t, plot.RecolorFrom(context.Background(), []float64{10, 10, 10}, gradient.Range{Min: 0, Max: 10}))

	f := openWorkbook(t, plot)
	assertCells(t, f, map[string]string{
		"C2": "10",
		"C3": "10",
		"D2": "#FF0000",
		"D3": "#FF0000",
		"D4": "#FF0000",
	})
}

func TestWriteXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, render(t, histogram.Input{}).Snapshot()))
	assert.NotZero(t, buf.Len(), "expected a workbook")
}

func TestWriteXLSXBadColor(t *testing.T) {
	snap := histogram.Snapshot{
		Points:      []histogram.SeriesPoint{{Label: "a", Y: 1, Color: "red"}},
		Intensities: []float64{1},
	}
	var buf bytes.Buffer
	assert.Error(t, WriteXLSX(&buf, snap))
}

func TestReadXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, render(t, threeRows).Snapshot()))

	in, err := ReadXLSX(&buf)
	require.NoError(t, err)
	assert.Equal(t, threeRows.Values, in.Values)
	assert.Equal(t, threeRows.Labels, in.Labels)
	assert.Equal(t, threeRows.Intensities, in.Intensities)
}

func TestParseRows(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]string
		bars    int
		wantErr bool
	}{
		{"empty", nil, 0, false},
		{"header only", [][]string{{"Label", "Value", "Intensity"}}, 0, false},
		{"blank rows skipped", [][]string{{"h"}, {"a", "1", "0"}, {}, {"", "", ""}, {"b", "2", "1"}}, 2, false},
		{"short row", [][]string{{"h"}, {"a", "1"}}, 0, true},
		{"bad intensity", [][]string{{"h"}, {"a", "1", "x"}}, 0, true},
		{"bad value", [][]string{{"h"}, {"a", "one", "1"}}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ParseRows(tt.rows)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, in.Values, tt.bars)
		})
	}
}
