package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the referenced todo does not exist
var ErrNotFound = errors.New("todo not found")

// ValidationError is malformed or missing input. It never reaches the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NewValidationError builds a ValidationError for a single field
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// InitError is the terminal outcome of a failed schema migration
type InitError struct {
	Cause error
}

func (e *InitError) Error() string {
	return "initialization failed: " + e.Cause.Error()
}

func (e *InitError) Unwrap() error {
	return e.Cause
}

// StorageError wraps a failure reported by the record store
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
