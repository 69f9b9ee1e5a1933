// Package errors defines the typed failures surfaced by the preference
// collector and the recommendation pipeline.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"
)

// ErrorCode identifies one failure kind.
type ErrorCode string

// Input validation
const (
	ErrCodeMissingRequiredField ErrorCode = "MISSING_REQUIRED_FIELD"
	ErrCodeNoPreferences        ErrorCode = "NO_PREFERENCES"
)

// Configuration
const (
	ErrCodeNotInitialized    ErrorCode = "NOT_INITIALIZED"
	ErrCodeInvalidCredential ErrorCode = "INVALID_CREDENTIAL"
)

// Upstream transport and contract
const (
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeEmptyResponse       ErrorCode = "EMPTY_RESPONSE"
	ErrCodeNoJSONFound         ErrorCode = "NO_JSON_FOUND"
	ErrCodeMalformedJSON       ErrorCode = "MALFORMED_JSON"
	ErrCodeInvalidShape        ErrorCode = "INVALID_SHAPE"
)

// ErrCodeInternal covers anything not produced by this package.
const ErrCodeInternal ErrorCode = "INTERNAL"

// DefaultExcerptLength bounds diagnostic excerpts of upstream text.
const DefaultExcerptLength = 200

// StandardError is the single error type returned across package boundaries.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Field     string    `json:"field,omitempty"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Attempts  int       `json:"attempts,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
	Err       error     `json:"-"`
}

func (e *StandardError) Error() string {
	msg := fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
	if e.Field != "" {
		msg += " (field: " + e.Field + ")"
	}
	if e.Attempts > 0 {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StandardError) Unwrap() error { return e.Err }

// Is matches another *StandardError by code, so errors.Is(err, &StandardError{Code: X}) works.
func (e *StandardError) Is(target error) bool {
	var t *StandardError
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewMissingRequiredFieldError reports an empty required form field.
func NewMissingRequiredFieldError(field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingRequiredField,
		Message:   fmt.Sprintf("%s is required", field),
		Field:     field,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoPreferencesError reports that nothing was submitted for the session.
func NewNoPreferencesError() *StandardError {
	return &StandardError{
		Code:      ErrCodeNoPreferences,
		Message:   "No preferences found for this session",
		Timestamp: time.Now().UTC(),
	}
}

// NewNotInitializedError reports a pipeline constructed without a generator.
func NewNotInitializedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotInitialized,
		Message:   "Recommendation service is not initialized",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCredentialError reports an empty or placeholder API key.
func NewInvalidCredentialError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCredential,
		Message:   "Gemini API key not found. Please check your environment configuration.",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamUnavailableError wraps the last transport failure after retries ran out.
func NewUpstreamUnavailableError(attempts int, last error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamUnavailable,
		Message:   "Recommendation service is unavailable",
		Attempts:  attempts,
		Retryable: true,
		Err:       last,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyResponseError reports an upstream reply with no text.
func NewEmptyResponseError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyResponse,
		Message:   "Empty response from AI",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoJSONFoundError reports a reply without a JSON object; raw is truncated.
func NewNoJSONFoundError(raw string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoJSONFound,
		Message:   "No valid JSON found in AI response",
		Excerpt:   Excerpt(raw, DefaultExcerptLength),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedJSONError reports a candidate span that failed to decode.
func NewMalformedJSONError(span string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedJSON,
		Message:   "AI response contains malformed JSON",
		Excerpt:   Excerpt(span, DefaultExcerptLength),
		Retryable: true,
		Err:       cause,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidShapeError reports decoded JSON whose recommendations field is unusable.
func NewInvalidShapeError(details, span string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidShape,
		Message:   "Invalid response structure from AI",
		Details:   details,
		Excerpt:   Excerpt(span, DefaultExcerptLength),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf returns the code carried by err, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err carries code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// HTTPStatus maps a code to the status the API answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeMissingRequiredField:
		return http.StatusBadRequest
	case ErrCodeNoPreferences:
		return http.StatusNotFound
	case ErrCodeNotInitialized, ErrCodeInvalidCredential:
		return http.StatusServiceUnavailable
	case ErrCodeUpstreamUnavailable, ErrCodeEmptyResponse, ErrCodeNoJSONFound,
		ErrCodeMalformedJSON, ErrCodeInvalidShape:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Excerpt truncates s to at most n runes, appending "..." when cut.
func Excerpt(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
