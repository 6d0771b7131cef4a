package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFloats(t *testing.T) {
	got, idx, err := ParseFloats([]string{"1.0", " 2.5 ", "-3"})
	require.NoError(t, err)
	assert.Equal(t, -1, idx)
	assert.Equal(t, []float64{1, 2.5, -3}, got)

	_, idx, err = ParseFloats([]string{"1", "x", "3"})
	require.Error(t, err, "non-numeric element")
	assert.Equal(t, 1, idx)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "5", FormatFloat(5))
	assert.Equal(t, "0.25", FormatFloat(0.25))
}
