package datasource

import (
	"math"
	"strconv"
	"strings"
)

// normalizeNumber renders a value the source typed as numeric without a fraction or
// exponent when it is integral, so a phone stored as 600123456, 600123456.0 or
// 6.00123456E8 compares as "600123456". Text values never pass through here.
func normalizeNumber(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || !strings.ContainsAny(value, ".eE") {
		return value
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return value
	}
	if f != math.Trunc(f) || math.Abs(f) >= 1e15 {
		return value
	}
	return strconv.FormatInt(int64(f), 10)
}
