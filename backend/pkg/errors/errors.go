package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeNotFound marks a missing resource, predicate, template, observatory...
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeConflict marks a command that would violate a domain invariant
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeValidation marks malformed input
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeForbidden marks an authorization failure
	ErrorTypeForbidden ErrorType = "forbidden"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeStore represents relational store errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	// Status overrides the HTTP status derived from Type when non-zero
	Status int
	Err    error
}

// Error implements the error interface. Domain errors print only their message.
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

func (e *BaseError) base() *BaseError {
	return e
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// WithStatus sets an explicit HTTP status and returns the receiver
func (e *BaseError) WithStatus(status int) *BaseError {
	e.Status = status
	return e
}

// Generic errors

// ErrNotFound is returned when an entity identified by ID does not exist
type ErrNotFound struct {
	*BaseError
	Kind string
	ID   string
}

func NewNotFound(kind, id string) *ErrNotFound {
	return &ErrNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("%s %q not found.", kind, id), nil),
		Kind:      kind,
		ID:        id,
	}
}

// ErrValidation is returned for malformed input
type ErrValidation struct {
	*BaseError
	Field  string
	Reason string
}

func NewValidation(field, reason string) *ErrValidation {
	msg := reason
	if field != "" {
		msg = fmt.Sprintf("Field %q: %s", field, reason)
	}
	return &ErrValidation{
		BaseError: NewBaseError(ErrorTypeValidation, msg, nil),
		Field:     field,
		Reason:    reason,
	}
}

// NewConflict creates an error for a command that violates a domain invariant
func NewConflict(message string) *BaseError {
	return NewBaseError(ErrorTypeConflict, message, nil)
}

// NewForbidden creates an authorization error
func NewForbidden(message string) *BaseError {
	return NewBaseError(ErrorTypeForbidden, message, nil)
}

// Graph Errors

// ErrGraphConnectionFailed is returned when Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Operation string
}

func NewGraphQueryFailed(operation string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("query failed: %s", operation), err),
		Operation: operation,
	}
}

// ErrStoreQueryFailed is returned when a relational query fails
type ErrStoreQueryFailed struct {
	*BaseError
	Operation string
}

func NewStoreQueryFailed(operation string, err error) *ErrStoreQueryFailed {
	return &ErrStoreQueryFailed{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("query failed: %s", operation), err),
		Operation: operation,
	}
}

// Context Errors

// ErrContextCancelled is returned when context is cancelled
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

type baser interface {
	base() *BaseError
}

// AsBase returns the first BaseError found in the chain of err
func AsBase(err error) (*BaseError, bool) {
	var b baser
	if stderrors.As(err, &b) {
		return b.base(), true
	}
	return nil, false
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if b, ok := AsBase(err); ok {
		return b.Type == errType
	}
	return false
}

// StatusOf maps an error to the HTTP status the REST layer reports
func StatusOf(err error) int {
	b, ok := AsBase(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if b.Status != 0 {
		return b.Status
	}
	switch b.Type {
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict, ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeContext:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryable reports whether the caller may retry. The core never retries on its own.
func IsRetryable(err error) bool {
	var connErr *ErrGraphConnectionFailed
	return stderrors.As(err, &connErr)
}
