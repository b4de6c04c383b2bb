package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/pricescan/internal/apperr"
	"github.com/shelfwise/pricescan/internal/model"
)

func validData() *model.ExtractedData {
	return &model.ExtractedData{
		Price: model.PriceField{
			Field:    model.Field[float64]{Value: 2.50, Confidence: 0.95},
			Currency: "EUR",
		},
		Weight: model.WeightField{
			Field: model.Field[float64]{Value: 500, Confidence: 0.9},
			Unit:  model.UnitGram,
		},
		Product: model.ProductField{Name: "Olive Oil", Brand: "Acme", Confidence: 0.9},
	}
}

func codeOf(t *testing.T, err error) apperr.Code {
	t.Helper()
	code, ok := apperr.CodeOf(err)
	require.True(t, ok, "expected a taxonomy error, got %v", err)
	return code
}

func TestValidateImage(t *testing.T) {
	assert.NoError(t, ValidateImage(1024, "image/jpeg", 10<<20))
	assert.NoError(t, ValidateImage(1024, "image/png", 10<<20))
	assert.NoError(t, ValidateImage(1024, "image/webp", 10<<20))

	err := ValidateImage(11<<20, "image/jpeg", 10<<20)
	assert.Equal(t, apperr.CodeImageTooLarge, codeOf(t, err))

	err = ValidateImage(1024, "image/gif", 10<<20)
	assert.Equal(t, apperr.CodeInvalidImageFormat, codeOf(t, err))

	// Size is checked before format.
	err = ValidateImage(11<<20, "image/gif", 10<<20)
	assert.Equal(t, apperr.CodeImageTooLarge, codeOf(t, err))
}

func TestValidateData_Valid(t *testing.T) {
	assert.NoError(t, ValidateData(validData()))
}

func TestValidateData_PriceFailures(t *testing.T) {
	for name, mutate := range map[string]func(*model.ExtractedData){
		"non-positive value": func(d *model.ExtractedData) { d.Price.Value = 0 },
		"empty currency":     func(d *model.ExtractedData) { d.Price.Currency = "" },
		"low confidence":     func(d *model.ExtractedData) { d.Price.Confidence = 0.2 },
	} {
		t.Run(name, func(t *testing.T) {
			d := validData()
			mutate(d)
			assert.Equal(t, apperr.CodeNoPriceDetected, codeOf(t, ValidateData(d)))
		})
	}
}

func TestValidateData_WeightFailures(t *testing.T) {
	for name, mutate := range map[string]func(*model.ExtractedData){
		"non-positive value": func(d *model.ExtractedData) { d.Weight.Value = -1 },
		"low confidence":     func(d *model.ExtractedData) { d.Weight.Confidence = 0.1 },
		"unknown unit":       func(d *model.ExtractedData) { d.Weight.Unit = "oz" },
	} {
		t.Run(name, func(t *testing.T) {
			d := validData()
			mutate(d)
			assert.Equal(t, apperr.CodeNoWeightDetected, codeOf(t, ValidateData(d)))
		})
	}
}

func TestValidateData_ProductFailures(t *testing.T) {
	for name, mutate := range map[string]func(*model.ExtractedData){
		"empty name":      func(d *model.ExtractedData) { d.Product.Name = "" },
		"whitespace name": func(d *model.ExtractedData) { d.Product.Name = "   " },
		"low confidence":  func(d *model.ExtractedData) { d.Product.Confidence = 0.29 },
	} {
		t.Run(name, func(t *testing.T) {
			d := validData()
			mutate(d)
			assert.Equal(t, apperr.CodeNoProductDetected, codeOf(t, ValidateData(d)))
		})
	}
}

func TestValidateData_FirstFailureWins(t *testing.T) {
	d := validData()
	d.Price.Value = 0
	d.Weight.Unit = "oz"
	d.Product.Name = ""
	assert.Equal(t, apperr.CodeNoPriceDetected, codeOf(t, ValidateData(d)))
}

func TestValidateData_Nil(t *testing.T) {
	assert.Equal(t, apperr.CodeAPIError, codeOf(t, ValidateData(nil)))
}

func TestValidateDataAggregate_NamesAllInvalidFields(t *testing.T) {
	d := validData()
	d.Price.Currency = ""
	d.Product.Confidence = 0

	err := ValidateDataAggregate(d)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNoPriceDetected, codeOf(t, err))

	appErr := apperr.From(err, apperr.CodeAPIError)
	assert.Equal(t, "invalid fields: price, product", appErr.Message)
}

func TestValidateDataAggregate_Valid(t *testing.T) {
	assert.NoError(t, ValidateDataAggregate(validData()))
}
