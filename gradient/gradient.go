// Package gradient maps scalar intensities onto display colors.
package gradient

import (
	"fmt"
	"math"
	"strings"

	"github.com/icodeforyou/histoplot-go/convert"
	"github.com/icodeforyou/histoplot-go/slice"
	"github.com/lucasb-eyer/go-colorful"
)

// Range holds the bounds an intensity is normalized against. Min <= Max is
// expected but not enforced.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func ParseRange(min, max string) (Range, error) {
	lo, err := convert.ParseFloat(min)
	if err != nil {
		return Range{}, fmt.Errorf("color range min: %w", err)
	}
	hi, err := convert.ParseFloat(max)
	if err != nil {
		return Range{}, fmt.Errorf("color range max: %w", err)
	}
	return Range{Min: lo, Max: hi}, nil
}

// Normalize clamps v into the range and scales it to [0, 1]. A degenerate
// range or a NaN operand yields 0.
func (r Range) Normalize(v float64) float64 {
	if math.IsNaN(v) || math.IsNaN(r.Min) || math.IsNaN(r.Max) || r.Max <= r.Min {
		return 0
	}
	v = math.Max(r.Min, math.Min(r.Max, v))
	return (v - r.Min) / (r.Max - r.Min)
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s]", convert.FormatFloat(r.Min), convert.FormatFloat(r.Max))
}

type Mapper struct {
	palette Palette
}

func NewMapper(p Palette) *Mapper {
	if len(p) == 0 {
		p = Rainbow
	}
	return &Mapper{palette: p}
}

func (m *Mapper) At(v float64, r Range) colorful.Color {
	return m.palette.At(r.Normalize(v))
}

// Color returns the CSS color string for v.
func (m *Mapper) Color(v float64, r Range) string {
	return CSS(m.At(v, r))
}

// MapColors is order and length preserving, the i-th color depends only on
// intensities[i] and r.
func (m *Mapper) MapColors(intensities []float64, r Range) []string {
	return slice.Map(intensities, func(v float64) string { return m.Color(v, r) })
}

var defaultMapper = NewMapper(Rainbow)

// Gradient maps value within [min, max] onto the rainbow palette.
func Gradient(value, min, max float64) string {
	return defaultMapper.Color(value, Range{Min: min, Max: max})
}

func CSS(c colorful.Color) string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("rgb(%d,%d,%d)", r, g, b)
}

// ParseCSS reads back a color written by CSS.
func ParseCSS(s string) (colorful.Color, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "rgb(%d,%d,%d)", &r, &g, &b); err != nil {
		return colorful.Color{}, fmt.Errorf("parsing color %q: %w", s, err)
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, nil
}

// ParseIntensities reads the bracketed, comma separated form of an intensity
// list, e.g. "[0,5,10]".
func ParseIntensities(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return []float64{}, nil
	}
	values, idx, err := convert.ParseFloats(strings.Split(s, ","))
	if err != nil {
		return nil, fmt.Errorf("intensity %d: %w", idx, err)
	}
	return values, nil
}

// FormatIntensities is the inverse of ParseIntensities.
func FormatIntensities(values []float64) string {
	return "[" + strings.Join(slice.Map(values, convert.FormatFloat), ",") + "]"
}
