package gradient

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is a list of color stops sorted by position in [0, 1].
type Palette []Stop

type Stop struct {
	Col colorful.Color
	Pos float64
}

var Rainbow = Palette{
	{MustParseHex("#0000ff"), 0.0},
	{MustParseHex("#00ffff"), 0.25},
	{MustParseHex("#00ff00"), 0.5},
	{MustParseHex("#ffff00"), 0.75},
	{MustParseHex("#ff0000"), 1.0},
}

var Grayscale = Palette{
	{MustParseHex("#000000"), 0.0},
	{MustParseHex("#ffffff"), 1.0},
}

var RdYlGn = Palette{
	{MustParseHex("#a50026"), 0.0},
	{MustParseHex("#f46d43"), 0.25},
	{MustParseHex("#ffffbf"), 0.5},
	{MustParseHex("#66bd63"), 0.75},
	{MustParseHex("#006837"), 1.0},
}

func PaletteByName(name string) (Palette, bool) {
	switch strings.ToLower(name) {
	case "", "rainbow":
		return Rainbow, true
	case "grayscale", "greyscale":
		return Grayscale, true
	case "rdylgn":
		return RdYlGn, true
	default:
		return nil, false
	}
}

// At returns the HCL blend of the two stops surrounding t.
// Values outside [0, 1] are pinned to the first or last stop.
func (p Palette) At(t float64) colorful.Color {
	if t <= p[0].Pos {
		return p[0].Col
	}
	for i := 0; i < len(p)-1; i++ {
		c1 := p[i]
		c2 := p[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			if t == c2.Pos {
				return c2.Col
			}
			t := (t - c1.Pos) / (c2.Pos - c1.Pos)
			return c1.Col.BlendHcl(c2.Col, t).Clamped()
		}
	}
	return p[len(p)-1].Col
}

func MustParseHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("MustParseHex: " + err.Error())
	}
	return c
}
