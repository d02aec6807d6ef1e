package schema

import (
	"encoding/json"
	"math"
	"strconv"
)

// IsVector reports whether value is a 3-axis structure with x, y and z all
// present and coercible to finite numbers. Numeric-looking strings such as
// "1.5" are accepted; NaN and infinities are not.
func IsVector(value any) bool {
	vector, ok := value.(map[string]any)
	if !ok {
		return false
	}

	for _, axis := range []string{"x", "y", "z"} {
		component, ok := vector[axis]
		if !ok {
			return false
		}
		if _, ok := asFiniteNumber(component); !ok {
			return false
		}
	}
	return true
}

func asFiniteNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case int:
		return float64(v), true
	case json.Number:
		parsed, err := v.Float64()
		return parsed, err == nil && !math.IsNaN(parsed) && !math.IsInf(parsed, 0)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		return parsed, err == nil && !math.IsNaN(parsed) && !math.IsInf(parsed, 0)
	default:
		return 0, false
	}
}
