// Package units converts label weights and volumes into canonical units
// (kg for mass, l for volume).
package units

import (
	"github.com/rotisserie/eris"

	"github.com/shelfwise/pricescan/internal/model"
)

var (
	// ErrInvalidUnit is returned for units outside {g, kg, ml, l}.
	ErrInvalidUnit = eris.New("units: invalid unit")
	// ErrInvalidValue is returned for non-positive weight values.
	ErrInvalidValue = eris.New("units: value must be positive")
	// ErrIncompatibleUnits is returned when no conversion exists between
	// two units. Cross-domain conversions (mass to volume) are rejected,
	// never computed.
	ErrIncompatibleUnits = eris.New("units: incompatible units")
)

// factors is the full conversion table. Identity entries are exactly 1 so
// normalization is idempotent on already-canonical units.
var factors = map[model.Unit]map[model.Unit]float64{
	model.UnitGram:       {model.UnitKilogram: 0.001},
	model.UnitKilogram:   {model.UnitKilogram: 1},
	model.UnitMilliliter: {model.UnitLiter: 0.001},
	model.UnitLiter:      {model.UnitLiter: 1},
}

// ConversionFactor returns the multiplier converting from one unit to
// another. Only same-domain conversions toward the canonical unit are
// defined.
func ConversionFactor(from, to model.Unit) (float64, error) {
	if !from.IsValid() || !to.IsValid() {
		return 0, eris.Wrapf(ErrInvalidUnit, "%q -> %q", from, to)
	}
	f, ok := factors[from][to]
	if !ok {
		return 0, eris.Wrapf(ErrIncompatibleUnits, "%q -> %q", from, to)
	}
	return f, nil
}

// Normalize converts a weight field to its canonical unit. Values already
// in kg or l pass through with the exact input value.
func Normalize(field model.WeightField) (model.NormalizedWeight, error) {
	if !field.Unit.IsValid() {
		return model.NormalizedWeight{}, eris.Wrapf(ErrInvalidUnit, "%q", field.Unit)
	}
	if field.Value <= 0 {
		return model.NormalizedWeight{}, eris.Wrapf(ErrInvalidValue, "%g", field.Value)
	}

	canonical, _ := field.Unit.Canonical()
	factor, err := ConversionFactor(field.Unit, canonical)
	if err != nil {
		return model.NormalizedWeight{}, err
	}

	value := field.Value
	if factor != 1 {
		value = field.Value * factor
	}

	return model.NormalizedWeight{
		Value:         value,
		Unit:          canonical,
		OriginalValue: field.Value,
		OriginalUnit:  field.Unit,
	}, nil
}
