// Package domain defines error types for the sweet shop service.
package domain

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when an entity with the given ID does not exist
type NotFoundError struct {
	Resource string // "Sweet" or "Customer"
	ID       string
}

// Error implements the error interface for NotFoundError
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows proper error type checking with errors.Is()
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// InvalidRequestError is returned when a request is missing required input
// or carries input of the wrong shape
type InvalidRequestError struct {
	Reason string
}

// Error implements the error interface for InvalidRequestError
func (e *InvalidRequestError) Error() string {
	return e.Reason
}

// Is allows proper error type checking with errors.Is()
func (e *InvalidRequestError) Is(target error) bool {
	_, ok := target.(*InvalidRequestError)
	return ok
}

// ValidationError is returned when an entity fails a schema constraint
type ValidationError struct {
	Field  string
	Reason string
	Value  interface{}
}

// Error implements the error interface for ValidationError
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s (got %v)", e.Field, e.Reason, e.Value)
}

// Is allows proper error type checking with errors.Is()
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// ConflictError is returned on a uniqueness violation
type ConflictError struct {
	Reason string
}

// Error implements the error interface for ConflictError
func (e *ConflictError) Error() string {
	return e.Reason
}

// Is allows proper error type checking with errors.Is()
func (e *ConflictError) Is(target error) bool {
	_, ok := target.(*ConflictError)
	return ok
}

// InsufficientStockError is returned when a purchase asks for more units
// than are on hand at write time
type InsufficientStockError struct {
	SweetID   string
	Requested int
	Available int
}

// Error implements the error interface for InsufficientStockError
func (e *InsufficientStockError) Error() string {
	return "Not enough stock"
}

// Is allows proper error type checking with errors.Is()
func (e *InsufficientStockError) Is(target error) bool {
	_, ok := target.(*InsufficientStockError)
	return ok
}

// UnauthorizedError is returned for missing or invalid credentials
type UnauthorizedError struct {
	Reason string
}

// Error implements the error interface for UnauthorizedError
func (e *UnauthorizedError) Error() string {
	return e.Reason
}

// Is allows proper error type checking with errors.Is()
func (e *UnauthorizedError) Is(target error) bool {
	_, ok := target.(*UnauthorizedError)
	return ok
}

// ForbiddenError is returned when a valid token carries the wrong role
type ForbiddenError struct {
	Reason string
}

// Error implements the error interface for ForbiddenError
func (e *ForbiddenError) Error() string {
	return e.Reason
}

// Is allows proper error type checking with errors.Is()
func (e *ForbiddenError) Is(target error) bool {
	_, ok := target.(*ForbiddenError)
	return ok
}

// Helper functions for creating errors with context

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewInvalidRequestError creates a new InvalidRequestError
func NewInvalidRequestError(reason string) error {
	return &InvalidRequestError{Reason: reason}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, reason string, value interface{}) error {
	return &ValidationError{Field: field, Reason: reason, Value: value}
}

// NewConflictError creates a new ConflictError
func NewConflictError(reason string) error {
	return &ConflictError{Reason: reason}
}

// NewInsufficientStockError creates a new InsufficientStockError
func NewInsufficientStockError(sweetID string, requested, available int) error {
	return &InsufficientStockError{SweetID: sweetID, Requested: requested, Available: available}
}

// NewUnauthorizedError creates a new UnauthorizedError
func NewUnauthorizedError(reason string) error {
	return &UnauthorizedError{Reason: reason}
}

// NewForbiddenError creates a new ForbiddenError
func NewForbiddenError(reason string) error {
	return &ForbiddenError{Reason: reason}
}

// Type assertion helpers for use with errors.As()

// IsNotFoundError checks if an error is a NotFoundError
func IsNotFoundError(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvalidRequestError checks if an error is an InvalidRequestError
func IsInvalidRequestError(err error) bool {
	var ir *InvalidRequestError
	return errors.As(err, &ir)
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflictError checks if an error is a ConflictError
func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsInsufficientStockError checks if an error is an InsufficientStockError
func IsInsufficientStockError(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}

// IsUnauthorizedError checks if an error is an UnauthorizedError
func IsUnauthorizedError(err error) bool {
	var ue *UnauthorizedError
	return errors.As(err, &ue)
}

// IsForbiddenError checks if an error is a ForbiddenError
func IsForbiddenError(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}
