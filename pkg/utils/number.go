package utils

import "math"

// RoundWithOneDecimalPlace arredonda percentuais exibidos como "x.y%".
func RoundWithOneDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*10) / 10
}

// Percentage devolve part/total em percentual com uma casa decimal, zero se total for zero.
func Percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}

	return RoundWithOneDecimalPlace(float64(part) / float64(total) * 100)
}
