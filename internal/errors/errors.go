package errors

import (
	stderrors "errors"
	"fmt"
)

// CrackError is the structured error type for digestcrack.
// It carries enough context for logging, CLI presentation and errors.Is matching.
type CrackError struct {
	// Code is the unique error code (e.g., "ERR_201_DICTIONARY_UNREADABLE").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool

	// Suggestion is an actionable hint for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *CrackError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *CrackError) Unwrap() error {
	return e.Cause
}

// Is matches another CrackError by code, so sentinel values like
// New(ErrCodeIndexIO, "", nil) work with errors.Is.
func (e *CrackError) Is(target error) bool {
	if t, ok := target.(*CrackError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *CrackError) WithDetail(key, value string) *CrackError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *CrackError) WithSuggestion(suggestion string) *CrackError {
	e.Suggestion = suggestion
	return e
}

// New creates a new CrackError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *CrackError {
	return &CrackError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a CrackError from an existing error, reusing its message.
func Wrap(code string, err error) *CrackError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration error.
func ConfigError(message string, cause error) *CrackError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// OutOfRangeError reports a numeric setting outside its allowed bounds.
func OutOfRangeError(name string, value, min, max int) *CrackError {
	return New(ErrCodeConfigOutOfRange,
		fmt.Sprintf("%s must be between %d and %d, got %d", name, min, max, value), nil).
		WithDetail("setting", name).
		WithDetail("value", fmt.Sprint(value))
}

// DictionaryError reports a wordlist that cannot be opened or read.
func DictionaryError(path string, cause error) *CrackError {
	return New(ErrCodeDictionaryUnreadable,
		fmt.Sprintf("cannot read dictionary %s", path), cause).
		WithDetail("path", path)
}

// IndexError reports a failure reading or writing a persisted index.
func IndexError(message string, cause error) *CrackError {
	return New(ErrCodeIndexIO, message, cause)
}

// ValidationError creates an input validation error.
func ValidationError(message string, cause error) *CrackError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *CrackError {
	return New(ErrCodeInternal, message, cause)
}

// As returns the first CrackError in err's chain.
func As(err error) (*CrackError, bool) {
	var ce *CrackError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsRetryable reports whether err carries a retryable CrackError.
func IsRetryable(err error) bool {
	if ce, ok := As(err); ok {
		return ce.Retryable
	}
	return false
}

// IsFatal reports whether err carries a fatal CrackError.
func IsFatal(err error) bool {
	if ce, ok := As(err); ok {
		return ce.Severity == SeverityFatal
	}
	return false
}

// HasCode reports whether err carries a CrackError with the given code.
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code, or "" when err is not a CrackError.
func GetCode(err error) string {
	if ce, ok := As(err); ok {
		return ce.Code
	}
	return ""
}

// GetCategory extracts the category, or "" when err is not a CrackError.
func GetCategory(err error) Category {
	if ce, ok := As(err); ok {
		return ce.Category
	}
	return ""
}
