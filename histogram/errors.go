package histogram

import (
	"errors"
	"fmt"
)

// ErrNotRendered is returned when a surface is recolored before any render.
var ErrNotRendered = errors.New("histogram has not been rendered")

// ConfigurationError reports input that can not be turned into a chart.
// Index is -1 when the problem is not tied to a single element.
type ConfigurationError struct {
	Field  string
	Index  int
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid %s[%d]: %s", e.Field, e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func lengthError(field string, got, want int) *ConfigurationError {
	return &ConfigurationError{
		Field:  field,
		Index:  -1,
		Reason: fmt.Sprintf("got %d elements, wanted %d", got, want),
	}
}
