package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error so that callers (and ultimately the
// HTTP boundary) can distinguish expected outcomes without string matching.
type ErrorKind int

const (
	// KindUnknown is the zero value for unclassified errors.
	KindUnknown ErrorKind = iota
	// KindValidation marks malformed or missing required input.
	KindValidation
	// KindNotFound marks a referenced entity that does not exist.
	KindNotFound
	// KindAuthorization marks an entity that exists but belongs to another owner.
	KindAuthorization
	// KindExternalService marks a failure of an external collaborator.
	KindExternalService
	// KindPersistence marks a storage failure.
	KindPersistence
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindExternalService:
		return "external_service"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error is a classified domain error. Validation errors may carry
// field-level messages reported to the caller verbatim.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewValidationError creates a validation error with optional field messages.
func NewValidationError(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NewNotFoundError creates a not-found error for the named resource.
func NewNotFoundError(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// NewAuthorizationError creates an authorization error.
func NewAuthorizationError(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NewExternalServiceError wraps an external collaborator failure.
func NewExternalServiceError(message string, err error) *Error {
	return &Error{Kind: KindExternalService, Message: message, Err: err}
}

// NewPersistenceError wraps a storage failure.
func NewPersistenceError(message string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindUnknown if it is not a classified error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is classified with the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
