package common

import "math"

// Round2 rounds a currency amount to two decimal places. Internal engine
// math stays unrounded; this is applied only when values cross the
// presentation boundary.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds a percentage to one decimal place for display.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
