// Package errors provides structured error handling for digestcrack.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (dictionary, index files)
//   - 4XX: Input validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates dictionary and index I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates the run failed but the process is healthy.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigInvalid    = "ERR_101_CONFIG_INVALID"
	ErrCodeConfigOutOfRange = "ERR_102_CONFIG_OUT_OF_RANGE"

	// IO errors (200-299)
	ErrCodeDictionaryUnreadable = "ERR_201_DICTIONARY_UNREADABLE"
	ErrCodeLineUnreadable       = "ERR_202_LINE_UNREADABLE"
	ErrCodeIndexIO              = "ERR_203_INDEX_IO"
	ErrCodeIndexLocked          = "ERR_204_INDEX_LOCKED"
	ErrCodePreflightFailed      = "ERR_205_PREFLIGHT_FAILED"

	// Validation errors (400-499)
	ErrCodeInvalidDigestLength = "ERR_401_INVALID_DIGEST_LENGTH"
	ErrCodeInvalidInput        = "ERR_402_INVALID_INPUT"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// "101" from "ERR_101_CONFIG_INVALID"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeDictionaryUnreadable, ErrCodeInternal:
		return SeverityFatal
	case ErrCodeLineUnreadable:
		return SeverityWarning
	}

	if isRetryableCode(code) {
		return SeverityWarning
	}

	return SeverityError
}

// isRetryableCode checks if an error code represents a retryable error.
func isRetryableCode(code string) bool {
	return code == ErrCodeIndexLocked
}
