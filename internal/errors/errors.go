// Package errors provides the error taxonomy shared by the store, the
// ingestion pipeline and the query engine.
//
// Kinds:
//   - validation: bad input shape, never mutates state
//   - not_found: the addressed id does not exist
//   - persistence: the store could not complete an atomic operation
//   - processing: ingestion failed after side effects began
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an Error.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindPersistence Kind = "persistence"
	KindProcessing  Kind = "processing"
)

// Error codes organized by category.
const (
	// Lookup errors (200-299)
	CodeNotFound = "ERR_201_NOT_FOUND"

	// Validation errors (400-499)
	CodeInvalidInput = "ERR_401_INVALID_INPUT"
	CodeQueryEmpty   = "ERR_402_QUERY_EMPTY"
	CodeUnsupported  = "ERR_403_UNSUPPORTED_MEDIA"
	CodeTooLarge     = "ERR_404_TOO_LARGE"
	CodeCanceled     = "ERR_405_CANCELED"

	// Internal errors (500-599)
	CodePersistence = "ERR_501_PERSISTENCE"
	CodeProcessing  = "ERR_502_PROCESSING"
)

// Sentinels for errors.Is matching by kind.
var (
	ErrValidation  = &Error{Kind: KindValidation}
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrPersistence = &Error{Kind: KindPersistence}
	ErrProcessing  = &Error{Kind: KindProcessing}
)

// Error is the structured error type.
type Error struct {
	Code    string
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil && e.Message == "" {
		return fmt.Sprintf("[%s] %v", e.Code, e.Cause)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates an Error.
func New(kind Kind, code, message string, cause error) *Error {
	return &Error{Code: code, Kind: kind, Message: message, Cause: cause}
}

// Validation reports bad caller input.
func Validation(format string, args ...any) *Error {
	return New(KindValidation, CodeInvalidInput, fmt.Sprintf(format, args...), nil)
}

// ValidationCode reports bad caller input under a specific code.
func ValidationCode(code string, cause error) *Error {
	return New(KindValidation, code, "", cause)
}

// NotFound reports a missing memory id.
func NotFound(id int64) *Error {
	return New(KindNotFound, CodeNotFound, fmt.Sprintf("memory not found: %d", id), nil)
}

// Persistence wraps a failed store operation.
func Persistence(op string, cause error) *Error {
	return New(KindPersistence, CodePersistence, op, cause)
}

// Processing wraps an ingestion failure.
func Processing(message string, cause error) *Error {
	return New(KindProcessing, CodeProcessing, message, cause)
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsValidation(err error) bool  { return stderrors.Is(err, ErrValidation) }
func IsNotFound(err error) bool    { return stderrors.Is(err, ErrNotFound) }
func IsPersistence(err error) bool { return stderrors.Is(err, ErrPersistence) }
func IsProcessing(err error) bool  { return stderrors.Is(err, ErrProcessing) }
