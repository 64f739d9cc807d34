package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorKind enumerates the failure categories returned by repositories.
type ErrorKind string

const (
	KindNotFound   ErrorKind = "not_found"
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindDatabase   ErrorKind = "database"
	KindStorage    ErrorKind = "storage"
	KindFileUpload ErrorKind = "file_upload"
)

// Sentinels for errors.Is matching by kind.
var (
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrDatabase   = &Error{Kind: KindDatabase}
	ErrStorage    = &Error{Kind: KindStorage}
	ErrFileUpload = &Error{Kind: KindFileUpload}
)

// Error is the only error type that crosses a repository boundary.
type Error struct {
	Kind    ErrorKind
	Message string

	// NotFound
	Entity     string
	Identifier string

	// Validation / Conflict
	Field  string
	Fields map[string]string

	// Storage
	Operation string

	Cause  error
	Detail any
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches any *Error of the same kind, so the package sentinels work with
// errors.Is.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) || e == nil || other == nil {
		return false
	}
	return e.Kind == other.Kind
}

// NewNotFoundError reports that entity identified by identifier does not exist.
func NewNotFoundError(entity, identifier string) *Error {
	return &Error{
		Kind:       KindNotFound,
		Message:    fmt.Sprintf("%s %q not found", entity, identifier),
		Entity:     entity,
		Identifier: identifier,
	}
}

// NewValidationError reports input that failed its schema. fields maps JSON
// field names to messages and may be nil.
func NewValidationError(message string, fields map[string]string) *Error {
	if message == "" {
		message = summarizeFields(fields)
	}
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NewConflictError reports a uniqueness violation on field.
func NewConflictError(message, field string) *Error {
	return &Error{Kind: KindConflict, Message: message, Field: field}
}

// NewDatabaseError wraps a relational store failure.
func NewDatabaseError(message string, cause error) *Error {
	return &Error{Kind: KindDatabase, Message: message, Cause: cause}
}

// NewStorageError wraps an object store failure for operation
// (upload, download, delete, sign).
func NewStorageError(operation, message string, cause error) *Error {
	return &Error{Kind: KindStorage, Operation: operation, Message: message, Cause: cause}
}

// NewFileUploadError reports a file rejected before any upload was attempted.
func NewFileUploadError(message string, cause error) *Error {
	return &Error{Kind: KindFileUpload, Message: message, Cause: cause}
}

// KindOf returns the kind of err when it is (or wraps) an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) && de != nil {
		return de.Kind, true
	}
	return "", false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func summarizeFields(fields map[string]string) string {
	if len(fields) == 0 {
		return "invalid input"
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid input: " + strings.Join(names, ", ")
}
