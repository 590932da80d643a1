package domain

import "github.com/shopspring/decimal"

var (
	cents = decimal.New(1, -2)
	half  = decimal.New(5, -1)
	hundred = decimal.NewFromInt(100)
)

// RoundCents rounds a monetary amount to the smallest currency unit using
// round-half-up: exactly half a cent always rounds toward positive infinity.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Mul(hundred).Add(half).Floor().Div(hundred)
}

// CeilCents rounds a monetary amount up to the next cent. Used for solved
// deposits and collection installments, which policy never rounds down.
func CeilCents(d decimal.Decimal) decimal.Decimal {
	return d.Mul(hundred).Ceil().Div(hundred)
}

// OneCent is the smallest representable deposit increment, the solver's
// termination granularity.
func OneCent() decimal.Decimal { return cents }
