package handler

import "github.com/shopspring/decimal"

const notAvailable = "N/A"

// percent renders a return fraction as a two decimal percentage, rounding half away from zero.
func percent(rate float64) string {
	return decimal.NewFromFloat(rate).Shift(2).StringFixed(2) + "%"
}

func percentOrNA(rate *float64) string {
	if rate == nil {
		return notAvailable
	}
	return percent(*rate)
}
