package domain

import (
	"math"
	"strconv"
)

// CelsiusToFahrenheit converts °C to °F rounded to one decimal.
func CelsiusToFahrenheit(c float64) float64 {
	return round1(c*9/5 + 32)
}

// round1 rounds the exact binary value to one decimal, ties to even.
func round1(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return r
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
