package vision

import (
	"encoding/json"
	"strings"

	"github.com/shelfwise/pricescan/internal/apperr"
	"github.com/shelfwise/pricescan/internal/model"
)

// ParseExtraction parses the model's text response into ExtractedData.
// Models occasionally wrap JSON in markdown fences; those are stripped.
// Malformed or non-JSON responses are classified as API_ERROR.
func ParseExtraction(text string) (*model.ExtractedData, error) {
	text = stripCodeFences(text)
	if text == "" {
		return nil, apperr.New(apperr.CodeAPIError).
			WithMessage("invalid response structure: empty response")
	}

	var data model.ExtractedData
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, apperr.Wrap(apperr.CodeAPIError, err).
			WithMessage("failed to parse AI response")
	}

	// A response that decodes but carries none of the expected fields is
	// structurally invalid, not merely low-confidence.
	if data.Price == (model.PriceField{}) && data.Weight == (model.WeightField{}) &&
		data.Product == (model.ProductField{}) {
		return nil, apperr.New(apperr.CodeAPIError).
			WithMessage("invalid response structure")
	}

	return &data, nil
}

// stripCodeFences removes a surrounding ```json ... ``` fence, if present,
// and trims whitespace.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
