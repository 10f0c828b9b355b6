package openresponses

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// ErrEmptyInput is returned when a request carries no input.
var ErrEmptyInput = errors.New("empty input")

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient indicates the error is temporary and the operation can be retried.
	// Examples: rate limits, temporary network issues, server overload.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates the error is not recoverable through retry.
	// Examples: invalid API key, unknown provider, malformed response body.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the caller provided invalid input that must be corrected.
	// Examples: malformed request, invalid parameters, unknown model.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError is an error that provides information about how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	Retryable() bool           // convenience: returns true if Category == ErrorTransient
	StatusCode() int           // HTTP status code if applicable, 0 otherwise
	RetryAfter() time.Duration // suggested retry delay from server, 0 if not available
}

// Error is a categorized error with metadata for error handling decisions.
type Error struct {
	Msg        string
	Cat        ErrorCategory
	Code       int           // HTTP status code, 0 if not applicable
	RetryDelay time.Duration // from Retry-After header, 0 if not available
	Cause      error         // underlying error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	return e.Cat
}

// Retryable returns true if the error is transient and can be retried.
func (e *Error) Retryable() bool {
	return e.Cat == ErrorTransient
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int {
	return e.Code
}

// RetryAfter returns the suggested retry delay, or 0 if not available.
func (e *Error) RetryAfter() time.Duration {
	return e.RetryDelay
}

// NewTransientError creates a transient error that can be retried.
func NewTransientError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorTransient, Code: statusCode, Cause: cause}
}

// NewPermanentError creates a permanent error that should not be retried.
func NewPermanentError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorPermanent, Code: statusCode, Cause: cause}
}

// NewUserInputError creates an error indicating invalid user input.
func NewUserInputError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorUserInput, Code: statusCode, Cause: cause}
}

// CategoryForStatus maps an HTTP status code to an error category.
// Status 0 means the request never produced a response and is treated as transient.
func CategoryForStatus(code int) ErrorCategory {
	switch {
	case code == 0:
		return ErrorTransient // Network failure
	case code == 429:
		return ErrorTransient // Rate limited
	case code >= 500 && code < 600:
		return ErrorTransient // Server error
	case code == 401 || code == 403:
		return ErrorPermanent // Authentication/authorization
	case code == 400 || code == 404 || code == 422:
		return ErrorUserInput // Bad request or not found
	default:
		return ErrorPermanent
	}
}

// ConfigError reports missing or invalid configuration, including an
// unresolvable provider. It is fatal and never retried.
type ConfigError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ConfigError) Error() string {
	msg := "config"
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error             { return e.Err }
func (e *ConfigError) Category() ErrorCategory   { return ErrorPermanent }
func (e *ConfigError) Retryable() bool           { return false }
func (e *ConfigError) StatusCode() int           { return 0 }
func (e *ConfigError) RetryAfter() time.Duration { return 0 }

// TransportError reports a failed HTTP exchange. Status is the HTTP status
// code, or 0 when no response was received. Body always holds the raw
// response body for diagnostics.
type TransportError struct {
	Status     int
	Body       string
	Message    string        // error message extracted from a JSON error envelope, if any
	RetryDelay time.Duration // from Retry-After header, 0 if not available
	Err        error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("HTTP error: %v", e.Err)
		}
		return "HTTP error: no response"
	}
	return fmt.Sprintf("HTTP error: %d - %s", e.Status, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError builds a TransportError for a non-success response,
// extracting the server's error message from common JSON error envelopes.
func NewTransportError(status int, body []byte, retryAfter time.Duration, cause error) *TransportError {
	return &TransportError{
		Status:     status,
		Body:       string(body),
		Message:    errorMessage(body),
		RetryDelay: retryAfter,
		Err:        cause,
	}
}

// errorMessage looks for a message in {"error":{"message":...}},
// {"error":"..."}, {"message":...} and {"detail":...} bodies.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"error.message", "error", "message", "detail"} {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String {
			return r.Str
		}
	}
	return ""
}

// Category classifies the failure by status code: 429, 5xx and network
// failures are transient.
func (e *TransportError) Category() ErrorCategory   { return CategoryForStatus(e.Status) }
func (e *TransportError) Retryable() bool           { return e.Category() == ErrorTransient }
func (e *TransportError) StatusCode() int           { return e.Status }
func (e *TransportError) RetryAfter() time.Duration { return e.RetryDelay }

// DecodeError reports a response body or item that is structurally invalid.
// It is never conflated with TransportError: the HTTP exchange succeeded.
type DecodeError struct {
	Field string // dotted path of the offending field, if known
	Msg   string
	Err   error
}

func (e *DecodeError) Error() string {
	msg := "decode"
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error             { return e.Err }
func (e *DecodeError) Category() ErrorCategory   { return ErrorPermanent }
func (e *DecodeError) Retryable() bool           { return false }
func (e *DecodeError) StatusCode() int           { return 0 }
func (e *DecodeError) RetryAfter() time.Duration { return 0 }

// wrapDecode converts an encoding/json error into a *DecodeError.
func wrapDecode(field string, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return withPath(field, de)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		path := field
		if typeErr.Field != "" {
			path = joinPath(field, typeErr.Field)
		}
		return &DecodeError{
			Field: path,
			Msg:   fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
			Err:   err,
		}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &DecodeError{Field: field, Msg: "invalid JSON", Err: err}
	}
	return &DecodeError{Field: field, Err: err}
}

// withPath prefixes the field of a *DecodeError with path.
func withPath(path string, err error) error {
	var de *DecodeError
	if !errors.As(err, &de) {
		return &DecodeError{Field: path, Err: err}
	}
	return &DecodeError{Field: joinPath(path, de.Field), Msg: de.Msg, Err: de.Err}
}

func joinPath(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	default:
		return parent + "." + child
	}
}

// IsTransient returns true if the error is categorized as transient.
// It checks if the error or any wrapped error implements CategorizedError.
func IsTransient(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorTransient
	}
	return false
}

// IsPermanent returns true if the error is categorized as permanent.
// It checks if the error or any wrapped error implements CategorizedError.
func IsPermanent(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorPermanent
	}
	return false
}

// IsUserInput returns true if the error is categorized as user input error.
// It checks if the error or any wrapped error implements CategorizedError.
func IsUserInput(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorUserInput
	}
	return false
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}

// RetryAfterOf returns the retry delay from a categorized error, or 0.
func RetryAfterOf(err error) time.Duration {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}
