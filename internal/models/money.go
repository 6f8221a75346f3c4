package models

import (
	"github.com/shopspring/decimal"
)

// Number of decimal places every monetary value is kept at
const MoneyPlaces = 2

// RoundMoney rounds amount to cents (half away from zero)
// Every arithmetic step on money has to be followed by this call, not only display
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyPlaces)
}

// SumMoney adds amounts rounding after each addition
func SumMoney(amounts ...decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = RoundMoney(sum.Add(a))
	}
	return sum
}
