package numerics

import (
	"math"
	"strconv"
)

// FormatNum rounds a table cell for display: seven decimals when
// 1e-4 < |v| < 1e6 or v is zero, five significant digits otherwise
// (1.2346e-07). NaN and Inf pass through.
func FormatNum(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	var s string
	if a := math.Abs(v); v == 0 || (a > 1e-4 && a < 1e6) {
		s = strconv.FormatFloat(v, 'f', 7, 64)
	} else {
		s = strconv.FormatFloat(v, 'e', 4, 64)
	}
	r, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return v
	}
	return r
}
