package csslexer

import (
	"math"
	"strconv"
)

// parseFloat wraps strconv.ParseFloat with the overflow-clamping rule from
// the design notes: a numeric literal too large for float64 clamps to
// +/-math.MaxFloat64 rather than becoming +/-Inf, since CSS numbers are
// finite by construction and only pathological literals hit this path.
func parseFloat(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			if math.IsInf(v, 1) {
				return math.MaxFloat64, nil
			}
			if math.IsInf(v, -1) {
				return -math.MaxFloat64, nil
			}
			return v, nil
		}
		return 0, err
	}
	return v, nil
}
