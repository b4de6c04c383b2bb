package apperr

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCodes = []Code{
	CodeInvalidImageFormat,
	CodeImageTooLarge,
	CodeNoPriceDetected,
	CodeNoWeightDetected,
	CodeNoProductDetected,
	CodeAPIRateLimit,
	CodeAPIError,
	CodeNetworkError,
}

func TestClassify_TotalMapping(t *testing.T) {
	for _, code := range allCodes {
		_, ok := categories[code]
		assert.True(t, ok, "code %s missing from category map", code)
	}
	assert.Len(t, categories, len(allCodes))
}

func TestClassify_Categories(t *testing.T) {
	assert.Equal(t, UserError, Classify(CodeInvalidImageFormat))
	assert.Equal(t, UserError, Classify(CodeNoPriceDetected))
	assert.Equal(t, SystemError, Classify(CodeNetworkError))
	assert.Equal(t, SystemError, Classify(CodeAPIRateLimit))
	assert.Equal(t, CriticalError, Classify(CodeAPIError))
	assert.Equal(t, CriticalError, Classify("SOMETHING_ELSE"))
}

func TestRecoverable_DerivedFromCategory(t *testing.T) {
	for _, code := range allCodes {
		e := New(code)
		want := Classify(code) != CriticalError
		assert.Equal(t, want, e.Recoverable(), "code %s", code)
	}
}

func TestNew_CatalogDefaults(t *testing.T) {
	for _, code := range allCodes {
		e := New(code)
		assert.NotEmpty(t, e.UserMessage, "code %s", code)
		assert.NotEmpty(t, e.Suggestions, "code %s needs suggestions", code)
	}
}

func TestOverrides_LeaveUserFieldsIntact(t *testing.T) {
	e := New(CodeNoPriceDetected).WithMessage("raw detail %d", 42)
	assert.Equal(t, "raw detail 42", e.Message)
	// Catalog user message survives an internal message override.
	assert.Equal(t, catalog[CodeNoPriceDetected].UserMessage, e.UserMessage)

	e = New(CodeNoPriceDetected).WithSuggestions("only this")
	assert.Equal(t, []string{"only this"}, e.Suggestions)
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := eris.New("boom")
	e := Wrap(CodeNetworkError, cause)
	assert.True(t, eris.Is(e, cause))
	assert.Contains(t, e.Error(), "NETWORK_ERROR")
	assert.Contains(t, e.Error(), "boom")
}

func TestCodeOf(t *testing.T) {
	e := New(CodeImageTooLarge)
	code, ok := CodeOf(eris.Wrap(e, "outer"))
	require.True(t, ok)
	assert.Equal(t, CodeImageTooLarge, code)

	_, ok = CodeOf(eris.New("plain"))
	assert.False(t, ok)
}

func TestIsRetryable(t *testing.T) {
	set := DefaultRetryable()

	assert.True(t, IsRetryable(New(CodeNetworkError), set))
	assert.True(t, IsRetryable(New(CodeAPIRateLimit), set))
	assert.True(t, IsRetryable(New(CodeAPIError), set))
	assert.False(t, IsRetryable(New(CodeInvalidImageFormat), set))

	// Errors without a recognizable code never retry.
	assert.False(t, IsRetryable(eris.New("mystery"), set))
}

func TestFromAPICall(t *testing.T) {
	tests := []struct {
		msg  string
		want Code
	}{
		{"authentication failed: invalid x-api-key", CodeAPIError},
		{"401 unauthorized", CodeAPIError},
		{"rate limit exceeded, slow down", CodeAPIRateLimit},
		{"monthly quota exhausted", CodeAPIRateLimit},
		{"429 too many requests", CodeAPIRateLimit},
		{"connection reset by peer", CodeNetworkError},
		{"context deadline exceeded", CodeNetworkError},
	}
	for _, tt := range tests {
		e := FromAPICall(eris.New(tt.msg))
		assert.Equal(t, tt.want, e.Code, "message %q", tt.msg)
	}
}

func TestFromAPICall_PassesThroughExistingCodes(t *testing.T) {
	orig := New(CodeImageTooLarge)
	assert.Same(t, orig, FromAPICall(orig))
	assert.Nil(t, FromAPICall(nil))
}
