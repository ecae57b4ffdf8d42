package service

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an AppError
type ErrorCode string

const (
	CodeNotFound             ErrorCode = "NOT_FOUND"
	CodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	CodeAuthFailed           ErrorCode = "AUTH_FAILED"
	CodeAccountExists        ErrorCode = "ACCOUNT_EXISTS"
	CodeForbidden            ErrorCode = "FORBIDDEN"
	CodeBackend              ErrorCode = "BACKEND_ERROR"
	CodeConfirmationRequired ErrorCode = "CONFIRMATION_REQUIRED"
)

// AppError is returned by every service method. Message is safe to show to
// the user; Cause is for logs only.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status for the error
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidationFailed, CodeConfirmationRequired:
		return http.StatusBadRequest
	case CodeAuthFailed:
		return http.StatusUnauthorized
	case CodeAccountExists:
		return http.StatusConflict
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// NewNotFoundError reports that resource exists in no source
func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: resource + " not found"}
}

// NewValidationError reports bad input
func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidationFailed, Message: message}
}

// NewAuthError reports rejected credentials or tokens
func NewAuthError(message string) *AppError {
	return &AppError{Code: CodeAuthFailed, Message: message}
}

// NewForbiddenError reports an action on something the caller does not own
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

// NewBackendError wraps a store or network failure behind a generic message
func NewBackendError(message string, cause error) *AppError {
	return &AppError{Code: CodeBackend, Message: message, Cause: cause}
}

// NewConfirmationRequiredError is returned by destructive operations called
// without explicit confirmation
func NewConfirmationRequiredError(action string) *AppError {
	return &AppError{Code: CodeConfirmationRequired, Message: action + " requires confirmation"}
}

// ErrAccountExists is returned by SignUp for an email already registered
var ErrAccountExists = &AppError{Code: CodeAccountExists, Message: "an account with this email already exists"}

// ErrInvalidCredentials is the one error SignIn returns for any bad login
var ErrInvalidCredentials = NewAuthError("invalid credentials")

// AsAppError unwraps err to an AppError, or wraps it as a backend error
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewBackendError("something went wrong, please try again", err)
}

// IsCode reports whether err is an AppError with the given code
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
