package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrInternal

	// Scheduling error codes
	ErrScheduleViolation
	ErrSchedulingConflict
	ErrNoCoverage
	ErrConfirmationRequired
	ErrCommitFailed
)

func New(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{Code: ErrNotFound, Message: fmt.Sprintf("%s not found", resource), Err: err}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{Code: ErrBadRequest, Message: message, Err: err}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error", Err: err}
}

func ScheduleViolation(message string) *AppError {
	return &AppError{Code: ErrScheduleViolation, Message: message}
}

func SchedulingConflict(message string) *AppError {
	return &AppError{Code: ErrSchedulingConflict, Message: message}
}

func NoCoverage(message string) *AppError {
	return &AppError{Code: ErrNoCoverage, Message: message}
}

func ConfirmationRequired(message string) *AppError {
	return &AppError{Code: ErrConfirmationRequired, Message: message}
}

func CommitFailed(err error) *AppError {
	return &AppError{Code: ErrCommitFailed, Message: "failed to commit change", Err: err}
}

// AsAppError unwraps err into an *AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
