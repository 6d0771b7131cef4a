// Package histogram owns the drawn bar charts: it builds them from parallel
// value, label and intensity sequences and recolors them in place when the
// color range changes.
package histogram

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/icodeforyou/histoplot-go/convert"
	"github.com/icodeforyou/histoplot-go/gradient"
	"github.com/icodeforyou/histoplot-go/www/chartjs"
)

// Drawer paints charts on a surface, i.e. the canvas of a page.
type Drawer interface {
	// Draw replaces whatever is on the surface with chart.
	Draw(ctx context.Context, surfaceID string, chart chartjs.Chart) error
	// Redraw repaints the surface keeping its axes, only series styling changed.
	Redraw(ctx context.Context, surfaceID string, chart chartjs.Chart) error
}

type Input struct {
	Title       string    `json:"title,omitempty"`
	Values      []string  `json:"values"`
	Labels      []string  `json:"labels"`
	Intensities []float64 `json:"intensities"`
}

// SeriesPoint is one bar. A non-finite Y ("NaN", "Inf") is drawn as an empty bar.
type SeriesPoint struct {
	X     int
	Y     float64
	Label string
	Color string
}

// Plot is the handle of a drawn chart. It is only obtainable from Render.
type Plot struct {
	mu          sync.Mutex
	surfaceID   string
	drawer      Drawer
	mapper      *gradient.Mapper
	chart       chartjs.Chart
	points      []SeriesPoint
	intensities []float64
	colorRange  gradient.Range
}

// Validate reports the error Render would fail with for in, without
// drawing anything.
func Validate(in Input) error {
	_, err := parseValues(in)
	return err
}

func parseValues(in Input) ([]float64, error) {
	n := len(in.Values)
	if len(in.Labels) != n {
		return nil, lengthError("labels", len(in.Labels), n)
	}
	if len(in.Intensities) != n {
		return nil, lengthError("intensities", len(in.Intensities), n)
	}

	ys := make([]float64, n)
	for i, s := range in.Values {
		y, err := convert.ParseFloat(s)
		if err != nil {
			return nil, &ConfigurationError{Field: "values", Index: i, Reason: err.Error()}
		}
		ys[i] = y
	}
	return ys, nil
}

// Render builds the chart for in, colors it for r and draws it on surfaceID.
func Render(ctx context.Context, drawer Drawer, mapper *gradient.Mapper, surfaceID string, in Input, r gradient.Range) (*Plot, error) {
	ys, err := parseValues(in)
	if err != nil {
		return nil, err
	}

	colors := mapper.MapColors(in.Intensities, r)
	points := make([]SeriesPoint, len(ys))
	values := make([]*float64, len(ys))
	for i, y := range ys {
		if !math.IsNaN(y) && !math.IsInf(y, 0) {
			values[i] = &ys[i]
		}
		points[i] = SeriesPoint{X: i, Y: y, Label: in.Labels[i], Color: colors[i]}
	}

	p := &Plot{
		surfaceID:   surfaceID,
		drawer:      drawer,
		mapper:      mapper,
		chart:       chartjs.NewHistogram(in.Title, in.Labels, values, colors),
		points:      points,
		intensities: slices.Clone(in.Intensities),
		colorRange:  r,
	}

	if err := drawer.Draw(ctx, surfaceID, p.chart.Clone()); err != nil {
		return nil, fmt.Errorf("drawing histogram on %s: %w", surfaceID, err)
	}

	return p, nil
}

// Recolor recomputes the bar colors from the intensities given at render
// time and redraws the chart.
func (p *Plot) Recolor(ctx context.Context, r gradient.Range) error {
	if p == nil {
		return ErrNotRendered
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recolor(ctx, p.intensities, r)
}

// RecolorFrom is Recolor with an explicit list of original intensities, it
// must hold one intensity per bar. The list replaces the one given at render
// time, later calls to Recolor start from it.
func (p *Plot) RecolorFrom(ctx context.Context, intensities []float64, r gradient.Range) error {
	if p == nil {
		return ErrNotRendered
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(intensities) != len(p.points) {
		return lengthError("intensities", len(intensities), len(p.points))
	}
	return p.recolor(ctx, intensities, r)
}

func (p *Plot) recolor(ctx context.Context, intensities []float64, r gradient.Range) error {
	colors := p.mapper.MapColors(intensities, r)
	if err := p.chart.SetColors(colors); err != nil {
		return fmt.Errorf("recoloring %s: %w", p.surfaceID, err)
	}
	for i := range p.points {
		p.points[i].Color = colors[i]
	}
	p.intensities = slices.Clone(intensities)
	p.colorRange = r

	if err := p.drawer.Redraw(ctx, p.surfaceID, p.chart.Clone()); err != nil {
		return fmt.Errorf("redrawing histogram on %s: %w", p.surfaceID, err)
	}
	return nil
}

func (p *Plot) SurfaceID() string {
	return p.surfaceID
}

// Points returns a copy of the current series.
func (p *Plot) Points() []SeriesPoint {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.points)
}

func (p *Plot) Chart() chartjs.Chart {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chart.Clone()
}

func (p *Plot) Intensities() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.intensities)
}

func (p *Plot) Range() gradient.Range {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.colorRange
}

// Snapshot is a copy of a Plot taken under one lock, its points, intensities
// and range always belong to the same recolor.
type Snapshot struct {
	SurfaceID   string
	Title       string
	Points      []SeriesPoint
	Intensities []float64
	Range       gradient.Range
}

func (p *Plot) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		SurfaceID:   p.surfaceID,
		Title:       p.chart.Options.Plugins.Title.Text,
		Points:      slices.Clone(p.points),
		Intensities: slices.Clone(p.intensities),
		Range:       p.colorRange,
	}
}
