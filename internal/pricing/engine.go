// Package pricing computes and formats unit prices from normalized
// weights.
package pricing

import (
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/shelfwise/pricescan/internal/model"
)

var (
	// ErrInvalidPrice is returned for non-positive prices.
	ErrInvalidPrice = eris.New("pricing: price must be positive")
	// ErrInvalidWeight is returned for non-positive normalized weights.
	ErrInvalidWeight = eris.New("pricing: weight must be positive")
	// ErrUnitMismatch is returned when comparing prices across units.
	ErrUnitMismatch = eris.New("pricing: unit mismatch")
	// ErrCurrencyMismatch is returned when comparing prices across currencies.
	ErrCurrencyMismatch = eris.New("pricing: currency mismatch")
	// ErrDivisionByZero is returned when the comparison base price is zero.
	ErrDivisionByZero = eris.New("pricing: division by zero")
)

// round2 rounds to two decimals, half away from zero on the decimal
// representation.
func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// Calculate computes the price per canonical unit, rounded to two
// decimals.
func Calculate(price model.PriceField, weight model.NormalizedWeight) (model.UnitPriceResult, error) {
	if price.Value <= 0 {
		return model.UnitPriceResult{}, eris.Wrapf(ErrInvalidPrice, "%g", price.Value)
	}
	if weight.Value <= 0 {
		return model.UnitPriceResult{}, eris.Wrapf(ErrInvalidWeight, "%g", weight.Value)
	}

	perUnit := decimal.NewFromFloat(price.Value).Div(decimal.NewFromFloat(weight.Value))

	return model.UnitPriceResult{
		PricePerUnit:   round2(perUnit),
		Unit:           weight.Unit,
		Currency:       price.Currency,
		OriginalPrice:  price.Value,
		OriginalWeight: weight,
	}, nil
}

// PriceDifference returns the percentage difference of a relative to b,
// rounded to two decimals. Both results must share unit and currency.
func PriceDifference(a, b model.UnitPriceResult) (float64, error) {
	if a.Unit != b.Unit {
		return 0, eris.Wrapf(ErrUnitMismatch, "%s vs %s", a.Unit, b.Unit)
	}
	if a.Currency != b.Currency {
		return 0, eris.Wrapf(ErrCurrencyMismatch, "%s vs %s", a.Currency, b.Currency)
	}
	if b.PricePerUnit == 0 {
		return 0, ErrDivisionByZero
	}

	da := decimal.NewFromFloat(a.PricePerUnit)
	db := decimal.NewFromFloat(b.PricePerUnit)
	pct := da.Sub(db).Div(db).Mul(decimal.NewFromInt(100))
	return round2(pct), nil
}
