package convert

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFloat parses a UI supplied number, surrounding blanks are ignored.
func ParseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %q as number: %w", s, err)
	}
	return f, nil
}

// ParseFloats parses every element of in, stopping at the first failure.
// The returned index is the position of the failing element, or -1.
func ParseFloats(in []string) ([]float64, int, error) {
	out := make([]float64, len(in))
	for i, s := range in {
		f, err := ParseFloat(s)
		if err != nil {
			return nil, i, err
		}
		out[i] = f
	}
	return out, -1, nil
}

func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
