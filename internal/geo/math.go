package geo

import (
	"math"
	"math/big"
	"strconv"
)

// toRadians converts degrees to radians.
func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// round rounds x to the given number of decimal places.
//
// Rounding works on the exact decimal value of x, so 1.005 (stored as
// 1.00499...) rounds down, while exact ties such as 0.125 round away from
// zero, the way map clients format fixed decimals.
func round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}

	s := new(big.Rat).SetFloat64(x).FloatString(places)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return x
	}

	// -0.000000 parses as -0
	if v == 0 {
		return 0
	}

	return v
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
