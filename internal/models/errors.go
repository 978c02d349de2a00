package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode classifies a failure independently of the transport.
type ErrorCode string

const (
	CodeInvalid      ErrorCode = "INVALID"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeUnavailable  ErrorCode = "UNAVAILABLE"
	CodeInternal     ErrorCode = "INTERNAL"
)

// Error is the domain error returned by services and stores.
// Fields carries per-field messages for validation failures.
type Error struct {
	Code    ErrorCode
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		return e.Message + " (" + strings.Join(parts, "; ") + ")"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches on code and message so sentinel errors work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError attaches a classification to an underlying error.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of a domain error, or CodeInternal.
func CodeOf(err error) ErrorCode {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code
	}
	return CodeInternal
}

// HasCode reports whether err is a domain error with the given code.
func HasCode(err error, code ErrorCode) bool {
	var dErr *Error
	return errors.As(err, &dErr) && dErr.Code == code
}

// Validation collects field messages; Err returns nil when nothing was added.
type Validation struct {
	fields map[string]string
}

// Add records the first message for a field.
func (v *Validation) Add(field, message string) {
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
	if _, exists := v.fields[field]; !exists {
		v.fields[field] = message
	}
}

func (v *Validation) Empty() bool {
	return len(v.fields) == 0
}

func (v *Validation) Err() error {
	if v.Empty() {
		return nil
	}
	return &Error{Code: CodeInvalid, Message: "validation failed", Fields: v.fields}
}

// FieldErrors extracts field messages from a validation error.
func FieldErrors(err error) map[string]string {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Fields
	}
	return nil
}

var (
	ErrNotFound             = NewError(CodeNotFound, "record not found")
	ErrForbidden            = NewError(CodeForbidden, "not allowed")
	ErrUnauthorized         = NewError(CodeUnauthorized, "authentication required")
	ErrAlreadyExists        = NewError(CodeConflict, "record already exists")
	ErrConfirmationRequired = NewError(CodeInvalid, "deletion must be confirmed")
)
