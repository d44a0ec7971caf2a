// Package apperrors defines the error taxonomy shared by services and
// handlers: NotFound, ValidationFailed and ConsistencyViolation. Anything
// else bubbling out of the storage layer is treated as a transport error and
// propagated unchanged.
package apperrors

import (
	"errors"
	"fmt"
)

// NotFoundError indicates that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

// NewNotFound builds a NotFoundError for the given entity kind and identifier.
func NewNotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError indicates invalid caller input: an unknown sort/filter
// field, a malformed range, or an update that affected zero rows.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidation builds a ValidationError from a format string.
func NewValidation(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ConsistencyError indicates a domain invariant would be violated, e.g.
// decrementing a product's inventory below zero.
type ConsistencyError struct {
	Reason string
}

func (e *ConsistencyError) Error() string {
	return e.Reason
}

// NewConsistency builds a ConsistencyError from a format string.
func NewConsistency(format string, args ...interface{}) error {
	return &ConsistencyError{Reason: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConsistency reports whether err is (or wraps) a ConsistencyError.
func IsConsistency(err error) bool {
	var ce *ConsistencyError
	return errors.As(err, &ce)
}
