// Package model defines the data types flowing through the extraction
// pipeline: raw fields returned by the vision model, normalized weights,
// and computed unit prices.
package model

import "strings"

// MinConfidence is the threshold below which an extracted field is
// treated as not detected.
const MinConfidence = 0.3

// Unit is a weight or volume unit recognized on product labels.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"
)

// IsValid reports whether u is one of the four recognized label units.
func (u Unit) IsValid() bool {
	switch u {
	case UnitGram, UnitKilogram, UnitMilliliter, UnitLiter:
		return true
	}
	return false
}

// IsCanonical reports whether u is already a canonical unit (kg or l).
func (u Unit) IsCanonical() bool {
	return u == UnitKilogram || u == UnitLiter
}

// Canonical returns the canonical unit for u: kg for mass units, l for
// volume units. ok is false for unrecognized units.
func (u Unit) Canonical() (canonical Unit, ok bool) {
	switch u {
	case UnitGram, UnitKilogram:
		return UnitKilogram, true
	case UnitMilliliter, UnitLiter:
		return UnitLiter, true
	}
	return "", false
}

// Field is the generic shape shared by extracted values: a value plus an
// advisory confidence score in [0,1].
type Field[T any] struct {
	Value      T       `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Detected reports whether the field's confidence meets MinConfidence.
func (f Field[T]) Detected() bool {
	return f.Confidence >= MinConfidence
}

// PriceField is the price read off the label, with its currency code.
type PriceField struct {
	Field[float64]
	Currency string `json:"currency"`
}

// WeightField is the net weight or volume read off the label.
type WeightField struct {
	Field[float64]
	Unit Unit `json:"unit"`
}

// ProductField identifies the product on the label. Brand may be empty.
type ProductField struct {
	Name       string  `json:"name"`
	Brand      string  `json:"brand,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Detected reports whether the product name was extracted with enough
// confidence and is non-empty after trimming.
func (p ProductField) Detected() bool {
	return p.Confidence >= MinConfidence && strings.TrimSpace(p.Name) != ""
}

// ExtractedData aggregates one successful vision call. It is created once
// per call and consumed whole by the pipeline.
type ExtractedData struct {
	Price   PriceField   `json:"price"`
	Weight  WeightField  `json:"weight"`
	Product ProductField `json:"product"`
}

// NormalizedWeight is a weight converted to a canonical unit (kg or l),
// retaining the original value and unit for display.
type NormalizedWeight struct {
	Value         float64 `json:"value"`
	Unit          Unit    `json:"unit"`
	OriginalValue float64 `json:"original_value"`
	OriginalUnit  Unit    `json:"original_unit"`
}

// UnitPriceResult is the computed price per canonical unit, rounded to
// two decimals.
type UnitPriceResult struct {
	PricePerUnit   float64          `json:"price_per_unit"`
	Unit           Unit             `json:"unit"`
	Currency       string           `json:"currency"`
	OriginalPrice  float64          `json:"original_price"`
	OriginalWeight NormalizedWeight `json:"original_weight"`
}
