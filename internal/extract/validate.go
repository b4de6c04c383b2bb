package extract

import (
	"strings"

	"github.com/shelfwise/pricescan/internal/apperr"
	"github.com/shelfwise/pricescan/internal/model"
)

// allowedMIME is the set of image formats accepted at the API boundary.
var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ValidateImage checks the pre-call constraints on the raw upload.
// maxBytes is the boundary-specific size limit (the API-side and
// upload-side limits differ and are enforced independently).
func ValidateImage(size int64, mimeType string, maxBytes int64) error {
	if size > maxBytes {
		return apperr.New(apperr.CodeImageTooLarge).
			WithMessage("image is %d bytes, limit is %d", size, maxBytes)
	}
	if !allowedMIME[mimeType] {
		return apperr.New(apperr.CodeInvalidImageFormat).
			WithMessage("unsupported MIME type %q", mimeType)
	}
	return nil
}

func priceValid(p model.PriceField) bool {
	return p.Value > 0 && p.Currency != "" && p.Detected()
}

func weightValueValid(w model.WeightField) bool {
	return w.Value > 0 && w.Detected()
}

func productValid(p model.ProductField) bool {
	return p.Detected()
}

// ValidateData checks the structured result of a vision call. Order is
// price, weight, unit validity, then product; the first failure wins.
func ValidateData(data *model.ExtractedData) error {
	if data == nil {
		return apperr.New(apperr.CodeAPIError).WithMessage("nil extraction result")
	}
	if !priceValid(data.Price) {
		return apperr.New(apperr.CodeNoPriceDetected)
	}
	if !weightValueValid(data.Weight) {
		return apperr.New(apperr.CodeNoWeightDetected)
	}
	if !data.Weight.Unit.IsValid() {
		return apperr.New(apperr.CodeNoWeightDetected).
			WithMessage("unrecognized unit %q", data.Weight.Unit)
	}
	if !productValid(data.Product) {
		return apperr.New(apperr.CodeNoProductDetected)
	}
	return nil
}

// ValidateDataAggregate is the API-facing variant: it names every invalid
// field in a single message instead of stopping at the first failure.
// The error code still reflects the first failing field.
func ValidateDataAggregate(data *model.ExtractedData) error {
	if data == nil {
		return apperr.New(apperr.CodeAPIError).WithMessage("nil extraction result")
	}

	var invalid []string
	var first *apperr.Error
	if !priceValid(data.Price) {
		invalid = append(invalid, "price")
		first = apperr.New(apperr.CodeNoPriceDetected)
	}
	if !weightValueValid(data.Weight) || !data.Weight.Unit.IsValid() {
		invalid = append(invalid, "weight")
		if first == nil {
			first = apperr.New(apperr.CodeNoWeightDetected)
		}
	}
	if !productValid(data.Product) {
		invalid = append(invalid, "product")
		if first == nil {
			first = apperr.New(apperr.CodeNoProductDetected)
		}
	}
	if first == nil {
		return nil
	}
	return first.WithMessage("invalid fields: %s", strings.Join(invalid, ", "))
}
