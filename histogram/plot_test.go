package histogram

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/icodeforyou/histoplot-go/gradient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var threeBars = Input{
	Values:      []string{"1.0", "2.0", "3.0"},
	Labels:      []string{"a", "b", "c"},
	Intensities: []float64{0, 5, 10},
}

func TestRenderThreeBars(t *testing.T) {
	d := &fakeDrawer{}
	p, err := Render(context.Background(), d, gradient.NewMapper(gradient.Rainbow), "c1", threeBars, gradient.Range{Min: 0, Max: 10})
	require.NoError(t, err)

	points := p.Points()
	require.Len(t, points, 3)
	wantY := []float64{1, 2, 3}
	wantColors := []string{gradient.Gradient(0, 0, 10), gradient.Gradient(5, 0, 10), gradient.Gradient(10, 0, 10)}
	for i, pt := range points {
		assert.Equal(t, i, pt.X)
		assert.Equal(t, wantY[i], pt.Y)
		assert.Equal(t, threeBars.Labels[i], pt.Label)
		assert.Equal(t, wantColors[i], pt.Color)
	}

	require.Equal(t, 1, d.count())
	call := d.last()
	assert.Equal(t, "draw", call.op)
	assert.Equal(t, "c1", call.surface)
	assert.Equal(t, threeBars.Labels, call.chart.Data.Labels)
	assert.Equal(t, wantColors, call.chart.Colors())
	assert.Equal(t, 2.0, *call.chart.Data.Datasets[0].Data[1])
	assert.Equal(t, "c1", p.SurfaceID())
}

func TestRenderPointCountAndValues(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		in := Input{}
		for i := 0; i < n; i++ {
			in.Values = append(in.Values, strconv.FormatFloat(float64(i)*1.5, 'f', -1, 64))
			in.Labels = append(in.Labels, "l"+strconv.Itoa(i))
			in.Intensities = append(in.Intensities, float64(i))
		}
		p, err := Render(context.Background(), &fakeDrawer{}, gradient.NewMapper(nil), "s", in, gradient.Range{Min: 0, Max: 6})
		require.NoError(t, err)

		points := p.Points()
		require.Len(t, points, n)
		for i, pt := range points {
			want, _ := strconv.ParseFloat(in.Values[i], 64)
			assert.Equal(t, want, pt.Y)
			assert.Equal(t, in.Labels[i], pt.Label)
		}
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		field string
		index int
	}{
		{
			name:  "labels length",
			in:    Input{Values: []string{"1", "2"}, Labels: []string{"a"}, Intensities: []float64{1, 2}},
			field: "labels",
			index: -1,
		},
		{
			name:  "intensities length",
			in:    Input{Values: []string{"1"}, Labels: []string{"a"}, Intensities: []float64{1, 2}},
			field: "intensities",
			index: -1,
		},
		{
			name:  "non numeric value",
			in:    Input{Values: []string{"1", "abc"}, Labels: []string{"a", "b"}, Intensities: []float64{1, 2}},
			field: "values",
			index: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDrawer{}
			_, err := Render(context.Background(), d, gradient.NewMapper(nil), "c1", tt.in, gradient.Range{Min: 0, Max: 1})

			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Equal(t, tt.index, cfgErr.Index)
			assert.Zero(t, d.count(), "nothing may be drawn")

			var validateErr *ConfigurationError
			require.ErrorAs(t, Validate(tt.in), &validateErr)
			assert.Equal(t, *cfgErr, *validateErr)
		})
	}
}

func TestValidateAcceptsWellFormedInput(t *testing.T) {
	assert.NoError(t, Validate(threeBars))
	assert.NoError(t, Validate(Input{}))
}

func TestRenderNonFiniteValueIsEmptyBar(t *testing.T) {
	d := &fakeDrawer{}
	in := Input{Values: []string{"NaN", "+Inf", "4"}, Labels: []string{"a", "b", "c"}, Intensities: []float64{1, 2, 3}}
	p, err := Render(context.Background(), d, gradient.NewMapper(nil), "c1", in, gradient.Range{Min: 0, Max: 3})
	require.NoError(t, err)

	data := d.last().chart.Data.Datasets[0].Data
	assert.Nil(t, data[0])
	assert.Nil(t, data[1])
	assert.Equal(t, 4.0, *data[2])
	assert.True(t, math.IsNaN(p.Points()[0].Y))
	assert.True(t, math.IsInf(p.Points()[1].Y, 1))
}

func TestRenderDrawError(t *testing.T) {
	d := &fakeDrawer{err: errors.New("surface gone")}
	_, err := Render(context.Background(), d, gradient.NewMapper(nil), "c1", threeBars, gradient.Range{Min: 0, Max: 10})
	assert.ErrorContains(t, err, "surface gone")
}

func TestRecolorWiderRange(t *testing.T) {
	d := &fakeDrawer{}
	ctx := context.Background()
	p, err := Render(ctx, d, gradient.NewMapper(nil), "c1", threeBars, gradient.Range{Min: 0, Max: 10})
	require.NoError(t, err)

	original, err := gradient.ParseIntensities("[0,5,10]")
	require.NoError(t, err)
	require.NoError(t, p.RecolorFrom(ctx, original, gradient.Range{Min: 5, Max: 10}))

	want := []string{gradient.Gradient(0, 5, 10), gradient.Gradient(5, 5, 10), gradient.Gradient(10, 5, 10)}
	for i, pt := range p.Points() {
		assert.Equal(t, want[i], pt.Color)
		assert.Equal(t, float64(i+1), pt.Y, "values must not change")
		assert.Equal(t, threeBars.Labels[i], pt.Label, "labels must not change")
	}

	call := d.last()
	assert.Equal(t, "redraw", call.op)
	assert.Equal(t, want, call.chart.Colors())
	assert.Equal(t, threeBars.Labels, call.chart.Data.Labels)
	assert.Equal(t, gradient.Range{Min: 5, Max: 10}, p.Range())
}

func TestRecolorRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := gradient.Range{Min: 0, Max: 10}
	in := Input{
		Values:      []string{"3", "1", "4", "1"},
		Labels:      []string{"w", "x", "y", "z"},
		Intensities: []float64{2.5, 7, 0, 9.75},
	}
	p, err := Render(ctx, &fakeDrawer{}, gradient.NewMapper(nil), "c1", in, r)
	require.NoError(t, err)
	initial := p.Chart().Colors()

	parsed, err := gradient.ParseIntensities(gradient.FormatIntensities(in.Intensities))
	require.NoError(t, err)
	require.NoError(t, p.RecolorFrom(ctx, parsed, r))
	assert.Equal(t, initial, p.Chart().Colors())

	require.NoError(t, p.Recolor(ctx, r))
	assert.Equal(t, initial, p.Chart().Colors())
	assert.Equal(t, in.Intensities, p.Intensities())
}

func TestRecolorFromLengthMismatch(t *testing.T) {
	ctx := context.Background()
	d := &fakeDrawer{}
	p, err := Render(ctx, d, gradient.NewMapper(nil), "c1", threeBars, gradient.Range{Min: 0, Max: 10})
	require.NoError(t, err)
	before := p.Chart().Colors()

	err = p.RecolorFrom(ctx, []float64{1, 2}, gradient.Range{Min: 5, Max: 10})
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, before, p.Chart().Colors())
	assert.Equal(t, 1, d.count(), "no redraw on error")
}

func TestRecolorFromReplacesIntensities(t *testing.T) {
	ctx := context.Background()
	r := gradient.Range{Min: 0, Max: 10}
	p, err := Render(ctx, &fakeDrawer{}, gradient.NewMapper(nil), "c1", threeBars, r)
	require.NoError(t, err)

	require.NoError(t, p.RecolorFrom(ctx, []float64{10, 10, 10}, r))
	red := gradient.Gradient(10, 0, 10)
	assert.Equal(t, []float64{10, 10, 10}, p.Intensities())

	snap := p.Snapshot()
	assert.Equal(t, []float64{10, 10, 10}, snap.Intensities)
	assert.Equal(t, r, snap.Range)
	for _, pt := range snap.Points {
		assert.Equal(t, red, pt.Color)
	}

	require.NoError(t, p.Recolor(ctx, r))
	assert.Equal(t, []string{red, red, red}, p.Chart().Colors(), "recolor starts from the last explicit intensities")
}

func TestRecolorNilPlot(t *testing.T) {
	var p *Plot
	assert.ErrorIs(t, p.Recolor(context.Background(), gradient.Range{}), ErrNotRendered)
	assert.ErrorIs(t, p.RecolorFrom(context.Background(), nil, gradient.Range{}), ErrNotRendered)
}

func TestChartSnapshotIsIsolated(t *testing.T) {
	ctx := context.Background()
	p, err := Render(ctx, &fakeDrawer{}, gradient.NewMapper(nil), "c1", threeBars, gradient.Range{Min: 0, Max: 10})
	require.NoError(t, err)

	snapshot := p.Chart()
	require.NoError(t, p.Recolor(ctx, gradient.Range{Min: 5, Max: 10}))
	assert.Equal(t, gradient.Gradient(5, 0, 10), snapshot.Colors()[1])
}
