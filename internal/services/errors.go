package services

import (
	"errors"
	"fmt"

	"github.com/fitvs/coaching-service/internal/validator"
)

// Service error categories. Handlers map them to status codes with errors.Is.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrStorage          = errors.New("storage failure")
)

// ValidationError carries the field errors of a rejected request
type ValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	return e.Errors.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Errors: validator.ValidationErrors{{
		Field:   field,
		Message: message,
		Value:   value,
	}}}
}

func newValidationErrors(errs validator.ValidationErrors) *ValidationError {
	return &ValidationError{Errors: errs}
}

// PermissionError describes an action the caller is not allowed to perform
type PermissionError struct {
	UserID   string
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrForbidden
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// validationFailure converts a validator result into a service error
func validationFailure(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		return newValidationErrors(errs)
	}
	return fmt.Errorf("%w: %v", ErrValidationFailed, err)
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

// asStorageError keeps already classified errors and wraps the rest
func asStorageError(op string, err error) error {
	if errors.Is(err, ErrStorage) {
		return err
	}
	return storageError(op, err)
}

// ValidationDetails returns the field errors behind err, if any
func ValidationDetails(err error) validator.ValidationErrors {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Errors
	}
	return nil
}
