package errors

import (
	"errors"
	"fmt"
)

// ValidationError indicates a request was rejected before reaching the database.
type ValidationError struct {
	Message string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NewMissingTenantError() *ValidationError {
	return NewValidationError("missing companyId parameter")
}

func NewInvalidFormatError(format string) *ValidationError {
	return NewValidationError("invalid export format %q", format)
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError checks if the error is a ValidationError.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// ResourceNotFoundError indicates a single-entity lookup returned no rows.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func NewResourceNotFoundError(kind, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: kind, ID: id}
}

func (e *ResourceNotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// IsResourceNotFoundError checks if the error is a ResourceNotFoundError.
func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// QueryFailureError wraps a driver or SQL error raised while running a statement.
type QueryFailureError struct {
	Op  string
	Err error
}

func NewQueryFailureError(op string, err error) *QueryFailureError {
	return &QueryFailureError{Op: op, Err: err}
}

func (e *QueryFailureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryFailureError) Unwrap() error {
	return e.Err
}

// IsQueryFailureError checks if the error is a QueryFailureError.
func IsQueryFailureError(err error) bool {
	var e *QueryFailureError
	return errors.As(err, &e)
}

// MalformedInputError indicates an optional input could not be decoded.
// It is recovered where it happens and never returned to a caller.
type MalformedInputError struct {
	Field string
	Err   error
}

func NewMalformedInputError(field string, err error) *MalformedInputError {
	return &MalformedInputError{Field: field, Err: err}
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.Field, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// IsMalformedInputError checks if the error is a MalformedInputError.
func IsMalformedInputError(err error) bool {
	var e *MalformedInputError
	return errors.As(err, &e)
}
