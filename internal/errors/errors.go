package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies a dataset build failure.
type ErrorType string

const (
	// ErrTypeInput covers missing or unreadable source directories and files.
	ErrTypeInput ErrorType = "INPUT"
	// ErrTypeParse covers malformed rows: wrong field count, non-numeric
	// prices or volume, or a date that is not a valid YYYYMMDD encoding.
	ErrTypeParse ErrorType = "PARSE"
	// ErrTypeValidation covers violations of the combined-dataset invariants:
	// duplicate (symbol, date) keys or broken sort order.
	ErrTypeValidation ErrorType = "VALIDATION"
)

// BuildError is the typed failure returned by the dataset builder.
// All build failures are fail-fast: the first error aborts the whole build.
type BuildError struct {
	Type    ErrorType
	Message string
	Cause   error

	// File and Row locate a parse failure; Key names a duplicate record.
	File string
	Row  int
	Key  string
}

// Error implements the error interface
func (e *BuildError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.File != "" {
		if e.Row > 0 {
			msg = fmt.Sprintf("%s (file %s, row %d)", msg, e.File, e.Row)
		} else {
			msg = fmt.Sprintf("%s (file %s)", msg, e.File)
		}
	}
	if e.Key != "" {
		msg = fmt.Sprintf("%s (key %s)", msg, e.Key)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap allows errors.Is and errors.As to reach the cause
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// NewInputError creates an input error for a directory or file problem.
func NewInputError(message string, cause error) *BuildError {
	return &BuildError{Type: ErrTypeInput, Message: message, Cause: cause}
}

// NewParseError creates a parse error carrying file and row context.
// Row numbering is 1-based to match what an editor shows.
func NewParseError(message, file string, row int, cause error) *BuildError {
	return &BuildError{Type: ErrTypeParse, Message: message, File: file, Row: row, Cause: cause}
}

// NewValidationError creates a validation error naming the offending key.
func NewValidationError(message, key string) *BuildError {
	return &BuildError{Type: ErrTypeValidation, Message: message, Key: key}
}

// IsType reports whether err is (or wraps) a BuildError of the given type.
func IsType(err error, t ErrorType) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Type == t
	}
	return false
}

// IsInputError reports whether err is an input error.
func IsInputError(err error) bool { return IsType(err, ErrTypeInput) }

// IsParseError reports whether err is a parse error.
func IsParseError(err error) bool { return IsType(err, ErrTypeParse) }

// IsValidationError reports whether err is a validation error.
func IsValidationError(err error) bool { return IsType(err, ErrTypeValidation) }
