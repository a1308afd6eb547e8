package domain

import "math"

// The processor speaks minor units (cents) on the wire; orders store major
// units. Conversions must round instead of truncate so that float noise in
// a computed total never shifts a charge by one cent.

func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FromMinorUnits(minor int64) float64 {
	return float64(minor) / 100
}
