// Package apperr defines the closed error taxonomy for the extraction
// pipeline and the classification rules that map each code to a category,
// a user-facing message, and remediation suggestions.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies one of the eight pipeline error conditions.
type Code string

const (
	CodeInvalidImageFormat Code = "INVALID_IMAGE_FORMAT"
	CodeImageTooLarge      Code = "IMAGE_TOO_LARGE"
	CodeNoPriceDetected    Code = "NO_PRICE_DETECTED"
	CodeNoWeightDetected   Code = "NO_WEIGHT_DETECTED"
	CodeNoProductDetected  Code = "NO_PRODUCT_DETECTED"
	CodeAPIRateLimit       Code = "API_RATE_LIMIT"
	CodeAPIError           Code = "API_ERROR"
	CodeNetworkError       Code = "NETWORK_ERROR"
)

// Category groups error codes by who can act on them.
type Category int

const (
	// UserError means the user can fix the problem by retaking or
	// resubmitting the photo.
	UserError Category = iota
	// SystemError is a transient infrastructure failure, retried
	// internally before surfacing.
	SystemError
	// CriticalError is not fixable by the user and is surfaced
	// immediately.
	CriticalError
)

func (c Category) String() string {
	switch c {
	case UserError:
		return "user_error"
	case SystemError:
		return "system_error"
	case CriticalError:
		return "critical_error"
	default:
		return "unknown"
	}
}

// categories is the total mapping from code to category. Every code
// appears exactly once.
var categories = map[Code]Category{
	CodeInvalidImageFormat: UserError,
	CodeImageTooLarge:      UserError,
	CodeNoPriceDetected:    UserError,
	CodeNoWeightDetected:   UserError,
	CodeNoProductDetected:  UserError,
	CodeAPIRateLimit:       SystemError,
	CodeNetworkError:       SystemError,
	CodeAPIError:           CriticalError,
}

// Classify returns the category for code. Unknown codes are treated as
// critical.
func Classify(code Code) Category {
	if cat, ok := categories[code]; ok {
		return cat
	}
	return CriticalError
}

// Error is the discriminated error carried through the whole pipeline.
// Category-derived behavior (Recoverable) is never overridable.
type Error struct {
	Code        Code     `json:"code"`
	Message     string   `json:"-"`
	UserMessage string   `json:"user_message"`
	Suggestions []string `json:"suggestions"`

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Category returns the category derived from the error's code.
func (e *Error) Category() Category {
	return Classify(e.Code)
}

// Recoverable reports whether the caller can meaningfully retry or fix
// the request. Derived solely from the category.
func (e *Error) Recoverable() bool {
	return e.Category() != CriticalError
}

// New creates an Error for code with the catalog's default message and
// suggestions.
func New(code Code) *Error {
	entry := lookupCatalog(code)
	return &Error{
		Code:        code,
		Message:     entry.Message,
		UserMessage: entry.UserMessage,
		Suggestions: entry.Suggestions,
	}
}

// Wrap creates an Error for code carrying cause as the internal detail.
// User-facing fields still come from the catalog.
func Wrap(code Code, cause error) *Error {
	e := New(code)
	e.cause = cause
	return e
}

// WithMessage overrides the internal message only.
func (e *Error) WithMessage(format string, args ...any) *Error {
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// WithUserMessage overrides the user-facing sentence only.
func (e *Error) WithUserMessage(msg string) *Error {
	e.UserMessage = msg
	return e
}

// WithSuggestions replaces the ordered suggestion list.
func (e *Error) WithSuggestions(suggestions ...string) *Error {
	e.Suggestions = suggestions
	return e
}

// CodeOf extracts the pipeline error code from err's chain. ok is false
// when no recognizable code is present.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// From returns the *Error in err's chain, or wraps err as the given
// fallback code when none is present.
func From(err error, fallback Code) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(fallback, err)
}

// IsRetryable reports whether err carries a code in retryable. Errors
// without a recognizable code are never retryable.
func IsRetryable(err error, retryable map[Code]bool) bool {
	code, ok := CodeOf(err)
	if !ok {
		return false
	}
	return retryable[code]
}

// DefaultRetryable is the canonical retry policy for the external AI
// call: transient system failures plus upstream API errors.
func DefaultRetryable() map[Code]bool {
	return map[Code]bool{
		CodeNetworkError: true,
		CodeAPIRateLimit: true,
		CodeAPIError:     true,
	}
}

// authIndicators and rateIndicators drive the mapping of raw upstream
// call failures onto the taxonomy, mirroring HTTP 401/429 semantics.
var (
	authIndicators = []string{
		"authentication",
		"unauthorized",
		"invalid api key",
		"invalid x-api-key",
		"permission denied",
		"401",
	}
	rateIndicators = []string{
		"rate limit",
		"rate_limit",
		"quota",
		"too many requests",
		"overloaded",
		"429",
	}
)

// FromAPICall maps a raw error from the external AI call onto the
// taxonomy: authentication failures become API_ERROR, quota and rate
// failures become API_RATE_LIMIT, everything else is NETWORK_ERROR.
// Errors already carrying a code pass through unchanged.
func FromAPICall(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	msg := strings.ToLower(err.Error())
	for _, p := range authIndicators {
		if strings.Contains(msg, p) {
			return Wrap(CodeAPIError, err)
		}
	}
	for _, p := range rateIndicators {
		if strings.Contains(msg, p) {
			return Wrap(CodeAPIRateLimit, err)
		}
	}
	return Wrap(CodeNetworkError, err)
}
