// Package errors provides application-level error types and utilities.
// It defines the error taxonomy shared by the request builder, the response
// parser and the gateway adapters.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeInvalidArgument  ErrorType = "invalid_argument"
	ErrorTypeMissingParameter ErrorType = "missing_parameter"
	ErrorTypeUnsupported      ErrorType = "unsupported"
	ErrorTypeInvalidResponse  ErrorType = "invalid_response"
	ErrorTypeAPIFailure       ErrorType = "api_failure"
	ErrorTypeUnknownField     ErrorType = "unknown_field"
	ErrorTypeInternal         ErrorType = "internal_error"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
	// Cause is the error that triggered this one. Only API failures are
	// guaranteed to carry it.
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes the triggering error to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

func newAppError(t ErrorType, code int, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    t,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewInvalidArgumentError creates an error for a malformed field value
func NewInvalidArgumentError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInvalidArgument, http.StatusBadRequest, message, details)
}

// NewMissingParameterError creates an error for a required field that was never set
func NewMissingParameterError(field string) *AppError {
	return &AppError{
		Type:    ErrorTypeMissingParameter,
		Message: fmt.Sprintf("missing parameter: %s", field),
		Code:    http.StatusBadRequest,
		Details: field,
	}
}

// NewUnsupportedError creates an error for a value outside an allowed set
func NewUnsupportedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnsupported, http.StatusBadRequest, message, details)
}

// NewInvalidResponseError creates an error for a gateway response that failed verification
func NewInvalidResponseError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInvalidResponse, http.StatusUnauthorized, message, details)
}

// NewAPIFailure wraps a failure raised by a gateway or verification call.
func NewAPIFailure(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeAPIFailure,
		Message: message,
		Code:    http.StatusBadGateway,
		Cause:   cause,
	}
}

// NewUnknownFieldError creates an error for an accessor or setter outside the schema
func NewUnknownFieldError(field string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnknownField,
		Message: fmt.Sprintf("unknown field: %s", field),
		Code:    http.StatusBadRequest,
		Details: field,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func isType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

// IsInvalidArgument checks if the error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return isType(err, ErrorTypeInvalidArgument)
}

// IsMissingParameter checks if the error is a missing parameter error
func IsMissingParameter(err error) bool {
	return isType(err, ErrorTypeMissingParameter)
}

// IsUnsupported checks if the error is an unsupported value error
func IsUnsupported(err error) bool {
	return isType(err, ErrorTypeUnsupported)
}

// IsInvalidResponse checks if the error is an invalid response error
func IsInvalidResponse(err error) bool {
	return isType(err, ErrorTypeInvalidResponse)
}

// IsAPIFailure checks if the error is an API failure
func IsAPIFailure(err error) bool {
	return isType(err, ErrorTypeAPIFailure)
}

// IsUnknownField checks if the error is an unknown field error
func IsUnknownField(err error) bool {
	return isType(err, ErrorTypeUnknownField)
}
