package service

import "math"

// RoundingPrecision is the divisor used for two-decimal monetary rounding.
const RoundingPrecision = 100.0

// round2 rounds a float64 value to two decimal places. Used throughout
// the service layer so monetary values and share counts come out of the
// engine byte-identical for identical inputs.
//
// The rounding uses the standard "round half up" approach via math.Round.
func round2(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}

// round4 rounds to four decimal places, used for fractional share counts.
func round4(value float64) float64 {
	return math.Round(value*10000) / 10000
}
