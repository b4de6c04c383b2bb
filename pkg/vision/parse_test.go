package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/pricescan/internal/apperr"
	"github.com/shelfwise/pricescan/internal/model"
)

const goodResponse = `{
  "price": {"value": 2.50, "currency": "EUR", "confidence": 0.95},
  "weight": {"value": 500, "unit": "g", "confidence": 0.9},
  "product": {"name": "Olive Oil", "brand": "Acme", "confidence": 0.88}
}`

func TestParseExtraction(t *testing.T) {
	data, err := ParseExtraction(goodResponse)
	require.NoError(t, err)

	assert.Equal(t, 2.50, data.Price.Value)
	assert.Equal(t, "EUR", data.Price.Currency)
	assert.Equal(t, 0.95, data.Price.Confidence)
	assert.Equal(t, 500.0, data.Weight.Value)
	assert.Equal(t, model.UnitGram, data.Weight.Unit)
	assert.Equal(t, "Olive Oil", data.Product.Name)
	assert.Equal(t, "Acme", data.Product.Brand)
}

func TestParseExtraction_StripsCodeFences(t *testing.T) {
	data, err := ParseExtraction("```json\n" + goodResponse + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "Olive Oil", data.Product.Name)

	data, err = ParseExtraction("```\n" + goodResponse + "\n```")
	require.NoError(t, err)
	assert.Equal(t, 500.0, data.Weight.Value)
}

func TestParseExtraction_MalformedJSON(t *testing.T) {
	_, err := ParseExtraction("the label shows a price of 2.50 EUR")
	require.Error(t, err)

	appErr := apperr.From(err, apperr.CodeNetworkError)
	assert.Equal(t, apperr.CodeAPIError, appErr.Code)
	assert.Contains(t, appErr.Message, "failed to parse AI response")
}

func TestParseExtraction_EmptyResponse(t *testing.T) {
	for _, text := range []string{"", "   ", "```json\n```"} {
		_, err := ParseExtraction(text)
		require.Error(t, err, "input %q", text)
		code, _ := apperr.CodeOf(err)
		assert.Equal(t, apperr.CodeAPIError, code)
	}
}

func TestParseExtraction_EmptyObject(t *testing.T) {
	_, err := ParseExtraction("{}")
	require.Error(t, err)

	appErr := apperr.From(err, apperr.CodeNetworkError)
	assert.Equal(t, apperr.CodeAPIError, appErr.Code)
	assert.Contains(t, appErr.Message, "invalid response structure")
}
