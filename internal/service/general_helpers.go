package service

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoundingPrecision is the number of decimal places monetary values are rounded to
// in API responses.
const RoundingPrecision = 2

// round rounds a monetary value to RoundingPrecision places and converts it for JSON.
// Rounding is half away from zero.
//
// Example:
//
//	round(decimal.RequireFromString("123.456"))  // returns 123.46
//	round(decimal.RequireFromString("-0.005"))   // returns -0.01
func round(value decimal.Decimal) float64 {
	return value.Round(RoundingPrecision).InexactFloat64()
}

// today returns the current date truncated to midnight UTC.
func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
