// Package money holds the two-decimal rounding and display rules shared by the
// market engine and the ledger.
package money

import (
	"math"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the display currency of the simulation.
const Currency = gomoney.USD

// Round2 rounds v half away from zero to two decimal places.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Cents converts a major-unit amount into integer cents.
func Cents(v float64) int64 {
	return decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
}

// Format renders v as a currency string, e.g. "$9,000.00".
func Format(v float64) string {
	return gomoney.New(Cents(v), Currency).Display()
}
