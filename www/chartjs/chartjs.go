package chartjs

import (
	"fmt"
	"slices"
)

const (
	BarWidth         = 0.9
	LabelWidth       = 100
	XAxis            = "x"
	YAxis            = "y"
	HistogramStackID = "0"
)

// NewHistogram builds a single stacked bar series with one bar per label.
// values, labels and colors must have the same length; a nil value is drawn
// as a missing bar.
func NewHistogram(title string, labels []string, values []*float64, colors []string) Chart {
	chart := Chart{
		Type: "bar",
		Data: ChartData{
			Labels: slices.Clone(labels),
			Datasets: []ChartDataset{
				{
					Data:               slices.Clone(values),
					BackgroundColor:    slices.Clone(colors),
					BorderWidth:        0,
					BarPercentage:      BarWidth,
					CategoryPercentage: 1.0,
					Stack:              HistogramStackID,
				},
			},
		},
		Options: ChartOptions{
			Responsive: true,
			Plugins: ChartPlugins{
				Legend: ChartLegend{Display: false},
				Title:  ChartTitle{Display: false},
			},
			Scales: map[string]ChartScale{
				XAxis: {
					Type:       "category",
					Display:    true,
					Position:   "bottom",
					Stacked:    true,
					Offset:     true,
					LabelWidth: LabelWidth,
					Ticks: &ChartTicks{
						AutoSkip:    false,
						MinRotation: 45,
						MaxRotation: 90,
					},
				},
				YAxis: {
					Type:     "linear",
					Display:  true,
					Position: "left",
					Stacked:  true,
				},
			},
		},
	}

	if title != "" {
		chart.Options.Plugins.Title = ChartTitle{Display: true, Text: title}
	}

	return chart
}

// Colors returns the per bar colors of the histogram series.
func (c Chart) Colors() []string {
	if len(c.Data.Datasets) == 0 {
		return nil
	}
	return c.Data.Datasets[0].BackgroundColor
}

// SetColors overwrites the per bar colors in place, by position.
func (c *Chart) SetColors(colors []string) error {
	if len(c.Data.Datasets) == 0 {
		return fmt.Errorf("chart has no series")
	}
	ds := &c.Data.Datasets[0]
	if len(colors) != len(ds.Data) {
		return fmt.Errorf("got %d colors for %d bars", len(colors), len(ds.Data))
	}
	if ds.BackgroundColor == nil {
		ds.BackgroundColor = make([]string, len(colors))
	}
	copy(ds.BackgroundColor, colors)
	return nil
}

// Clone returns a deep copy, safe to hand out while the original keeps mutating.
func (c Chart) Clone() Chart {
	out := c
	out.Data.Labels = slices.Clone(c.Data.Labels)
	out.Data.Datasets = make([]ChartDataset, len(c.Data.Datasets))
	for i, ds := range c.Data.Datasets {
		ds.Data = slices.Clone(ds.Data)
		ds.BackgroundColor = slices.Clone(ds.BackgroundColor)
		out.Data.Datasets[i] = ds
	}
	out.Options.Scales = make(map[string]ChartScale, len(c.Options.Scales))
	for k, s := range c.Options.Scales {
		if s.Ticks != nil {
			t := *s.Ticks
			s.Ticks = &t
		}
		out.Options.Scales[k] = s
	}
	return out
}
