package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error kinds. Every pipeline failure unwraps to exactly one of these so
// callers can classify with errors.Is.
var (
	ErrIngestIO        = errors.New("ingest io failure")
	ErrOCRFailure      = errors.New("ocr failure")
	ErrUnknownProvider = errors.New("unknown ocr provider")
	ErrLedgerIO        = errors.New("ledger io failure")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInternal        = errors.New("internal error")
)

// NewAppError builds an AppError; cause is usually one of the kinds above.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
