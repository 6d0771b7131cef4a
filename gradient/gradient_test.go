package gradient

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	blue  = "rgb(0,0,255)"
	green = "rgb(0,255,0)"
	red   = "rgb(255,0,0)"
)

func TestGradientStops(t *testing.T) {
	tests := []struct {
		name            string
		value, min, max float64
		want            string
	}{
		{"at min", 0, 0, 10, blue},
		{"midpoint", 5, 0, 10, green},
		{"at max", 10, 0, 10, red},
		{"below min is clamped", -3, 0, 10, blue},
		{"above max is clamped", 30, 0, 10, red},
		{"degenerate range", 7, 5, 5, blue},
		{"inverted range", 7, 10, 5, blue},
		{"nan value", math.NaN(), 0, 10, blue},
		{"nan bound", 3, math.NaN(), 10, blue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Gradient(tt.value, tt.min, tt.max))
		})
	}
}

func TestGradientBlendsBetweenStops(t *testing.T) {
	c := Gradient(1, 0, 10)
	assert.NotEqual(t, blue, c)
	assert.NotEqual(t, Gradient(2.5, 0, 10), c)
}

func TestMapColorsPreservesOrderAndLength(t *testing.T) {
	m := NewMapper(Rainbow)
	r := Range{Min: 0, Max: 10}
	in := []float64{10, 0, 5, 0}

	got := m.MapColors(in, r)
	require.Len(t, got, len(in))
	assert.Equal(t, []string{red, blue, green, blue}, got)

	for i, v := range in {
		assert.Equal(t, m.Color(v, r), got[i], "element %d", i)
	}
	assert.Equal(t, got, m.MapColors(in, r), "same input and range must give same output")
	assert.Empty(t, m.MapColors(nil, r))
}

func TestRangeBoundaries(t *testing.T) {
	m := NewMapper(nil)
	in := []float64{0, 5, 10}

	assert.Equal(t,
		[]string{Gradient(0, 0, 10), Gradient(5, 0, 10), Gradient(10, 0, 10)},
		m.MapColors(in, Range{Min: 0, Max: 10}))
	assert.Equal(t,
		[]string{Gradient(0, 5, 10), Gradient(5, 5, 10), Gradient(10, 5, 10)},
		m.MapColors(in, Range{Min: 5, Max: 10}))
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange(" 0", "10.5 ")
	require.NoError(t, err)
	assert.Equal(t, Range{Min: 0, Max: 10.5}, r)
	assert.Equal(t, "[0, 10.5]", r.String())

	_, err = ParseRange("", "10")
	assert.ErrorContains(t, err, "min")
	_, err = ParseRange("0", "ten")
	assert.ErrorContains(t, err, "max")
}

func TestParseIntensities(t *testing.T) {
	tests := []struct {
		in   string
		want []float64
	}{
		{"[0,5,10]", []float64{0, 5, 10}},
		{"0, 5 ,10", []float64{0, 5, 10}},
		{" [1.5] ", []float64{1.5}},
		{"[]", []float64{}},
		{"", []float64{}},
	}
	for _, tt := range tests {
		got, err := ParseIntensities(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseIntensities("[1,,3]")
	assert.ErrorContains(t, err, "intensity 1")
}

func TestFormatIntensitiesRoundTrip(t *testing.T) {
	in := []float64{0, 2.5, -1, 10}
	s := FormatIntensities(in)
	assert.Equal(t, "[0,2.5,-1,10]", s)

	back, err := ParseIntensities(s)
	require.NoError(t, err)
	assert.Equal(t, in, back)
}

func TestPaletteByName(t *testing.T) {
	for _, name := range []string{"", "rainbow", "Grayscale", "RdYlGn"} {
		p, ok := PaletteByName(name)
		assert.True(t, ok, name)
		assert.NotEmpty(t, p, name)
	}
	_, ok := PaletteByName("viridis")
	assert.False(t, ok)

	assert.Equal(t, "rgb(255,255,255)", CSS(Grayscale.At(1)))
	assert.Equal(t, "rgb(0,0,0)", CSS(Grayscale.At(-1)))
}

func TestParseCSS(t *testing.T) {
	c, err := ParseCSS(Gradient(10, 0, 10))
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", c.Hex())

	c, err = ParseCSS(" rgb(0,128,255) ")
	require.NoError(t, err)
	assert.Equal(t, "rgb(0,128,255)", CSS(c))

	_, err = ParseCSS("#ff0000")
	assert.Error(t, err)
}
