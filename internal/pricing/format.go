package pricing

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shelfwise/pricescan/internal/model"
)

// currencySpec controls symbol placement per currency code.
type currencySpec struct {
	Symbol string
	Prefix bool
}

// currencies is the static display table. Unknown codes are rendered as
// a literal prefix equal to the code itself.
var currencies = map[string]currencySpec{
	"EUR": {Symbol: "€", Prefix: false},
	"USD": {Symbol: "$", Prefix: true},
	"GBP": {Symbol: "£", Prefix: true},
	"JPY": {Symbol: "¥", Prefix: true},
}

// UnitLabel returns the display label for a canonical unit. Liters are
// capitalized, kilograms are not.
func UnitLabel(unit model.Unit) string {
	if unit == model.UnitLiter {
		return "L"
	}
	return string(unit)
}

// formatNumber renders value with the given fraction digits using
// locale-aware grouping and decimal separators, falling back to plain
// fixed formatting when the locale tag cannot be parsed.
func formatNumber(value float64, digits int, locale string) string {
	verb := "%." + strconv.Itoa(digits) + "f"
	if locale == "" {
		return strconv.FormatFloat(value, 'f', digits, 64)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return strconv.FormatFloat(value, 'f', digits, 64)
	}
	return message.NewPrinter(tag).Sprintf(verb, value)
}

// FormatPrice renders a monetary value with its currency symbol and
// exactly two fraction digits.
func FormatPrice(value float64, currency, locale string) string {
	num := formatNumber(value, 2, locale)
	spec, ok := currencies[currency]
	if !ok {
		spec = currencySpec{Symbol: currency, Prefix: true}
	}
	if spec.Prefix {
		return spec.Symbol + num
	}
	return num + spec.Symbol
}

// FormatUnitPrice renders a unit price result as "<price>/<unit>", e.g.
// "5,00€/kg".
func FormatUnitPrice(result model.UnitPriceResult, locale string) string {
	return FormatPrice(result.PricePerUnit, result.Currency, locale) + "/" + UnitLabel(result.Unit)
}

// FormatWeight renders a weight value: whole numbers for g and ml, two
// fraction digits for kg and l.
func FormatWeight(value float64, unit model.Unit, locale string) string {
	digits := 2
	if unit == model.UnitGram || unit == model.UnitMilliliter {
		digits = 0
	}
	return formatNumber(value, digits, locale) + string(unit)
}
