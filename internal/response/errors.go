package response

import (
	"errors"
	"strings"
)

// AppError is the error type returned by the service layer.
// Details is for logs only and never sent to clients.
type AppError struct {
	Code    string
	Message string
	Details string
	Errors  []string
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Code + ": " + e.Message + " (" + e.Details + ")"
	}
	if len(e.Errors) > 0 {
		return e.Code + ": " + e.Message + ": " + strings.Join(e.Errors, "; ")
	}
	return e.Code + ": " + e.Message
}

// NewAppError creates a new AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// NewValidationError creates a single-message validation error
func NewValidationError(message, details string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Details: details, Errors: []string{message}}
}

// NewValidationErrors creates a validation error listing every violated rule
func NewValidationErrors(errs []string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: "Validation failed", Errors: errs}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message, details string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message, Details: details}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message, details string) *AppError {
	return &AppError{Code: ErrCodeForbidden, Message: message, Details: details}
}

// IsCode reports whether err is an AppError with the given code
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
