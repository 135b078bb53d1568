// Package ledger implements the pure balance computation core: money
// rounding, invoice totals, running-balance reconstruction, and statement
// assembly. It performs no I/O and holds no state across calls.
package ledger

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 rounds to 2 decimal places, ties away from zero. All currency values
// pass through this before being compared or persisted.
func Round2(x float64) float64 { return round(x, 2) }

// Round3 rounds to 3 decimal places, ties away from zero. Used for
// quantities.
func Round3(x float64) float64 { return round(x, 3) }

func round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return f
}

// Coerce converts a loosely-typed amount (JSON number, numeric string,
// absent) to a float64, falling back to zero for anything non-numeric or
// non-finite. Bad input is recovered here, explicitly, rather than raised;
// the rest of the system relies on this leniency.
func Coerce(v any) float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		f = t
	case int:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
