package apperr

// catalogEntry holds the default user-facing text for one error code.
type catalogEntry struct {
	Title       string
	Message     string
	UserMessage string
	Suggestions []string
}

// catalog is the static localized table backing New. One entry per code;
// suggestion lists are ordered by usefulness and never empty.
var catalog = map[Code]catalogEntry{
	CodeInvalidImageFormat: {
		Title:       "Unsupported image format",
		Message:     "image MIME type is not supported",
		UserMessage: "That image format is not supported.",
		Suggestions: []string{
			"Use a JPEG, PNG, or WebP image",
			"Retake the photo with your camera app",
		},
	},
	CodeImageTooLarge: {
		Title:       "Image too large",
		Message:     "image exceeds the maximum allowed size",
		UserMessage: "The image is too large to process.",
		Suggestions: []string{
			"Take the photo at a lower resolution",
			"Crop the image to just the label",
		},
	},
	CodeNoPriceDetected: {
		Title:       "No price found",
		Message:     "price missing, invalid, or below confidence threshold",
		UserMessage: "No price could be read from the label.",
		Suggestions: []string{
			"Make sure the price tag is fully visible",
			"Avoid glare and shadows on the label",
			"Move closer so the price fills more of the frame",
		},
	},
	CodeNoWeightDetected: {
		Title:       "No weight found",
		Message:     "weight missing, invalid, or below confidence threshold",
		UserMessage: "No weight or volume could be read from the label.",
		Suggestions: []string{
			"Include the net weight printed on the package",
			"Check that the label text is in focus",
			"Try photographing the back of the package",
		},
	},
	CodeNoProductDetected: {
		Title:       "No product found",
		Message:     "product name missing or below confidence threshold",
		UserMessage: "The product name could not be identified.",
		Suggestions: []string{
			"Include the product name in the photo",
			"Hold the camera steady to avoid blur",
		},
	},
	CodeAPIRateLimit: {
		Title:       "Too many requests",
		Message:     "upstream API rate limit exceeded",
		UserMessage: "The service is busy right now.",
		Suggestions: []string{
			"Wait a moment and try again",
		},
	},
	CodeAPIError: {
		Title:       "Service error",
		Message:     "upstream API returned an unrecoverable error",
		UserMessage: "Something went wrong while analyzing the image.",
		Suggestions: []string{
			"Try again later",
			"Contact support if the problem persists",
		},
	},
	CodeNetworkError: {
		Title:       "Connection problem",
		Message:     "network failure calling the upstream API",
		UserMessage: "The image could not be sent for analysis.",
		Suggestions: []string{
			"Check your internet connection",
			"Try again in a few seconds",
		},
	},
}

func lookupCatalog(code Code) catalogEntry {
	if entry, ok := catalog[code]; ok {
		return entry
	}
	return catalogEntry{
		Title:       "Unexpected error",
		Message:     string(code),
		UserMessage: "An unexpected error occurred.",
		Suggestions: []string{"Try again later"},
	}
}

// Title returns the catalog title for code, for display headers.
func Title(code Code) string {
	return lookupCatalog(code).Title
}
