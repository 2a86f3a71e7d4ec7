package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	ErrAlreadyExists = errors.New("resource already exists")

	ErrDatabase = errors.New("database error")

	ErrInternalServer = errors.New("internal server error")

	ErrUnauthorized = errors.New("unauthorized")

	ErrConflict = errors.New("resource conflict")

	// ErrConfiguration marks invalid loan terms (origination on/after maturity,
	// floor above ceiling). Rejected at loan creation, never reaches the engine.
	ErrConfiguration = errors.New("invalid loan configuration")

	// ErrMissingRate marks a reset date with no rate observation on or before it.
	// Fatal for the whole schedule generation of that loan.
	ErrMissingRate = errors.New("missing reference rate")

	// ErrInvalidPrepayment marks a principal prepayment with an out-of-range date
	// or an amount at or above the active principal balance.
	ErrInvalidPrepayment = errors.New("invalid principal prepayment")

	// ErrPIKElectionConflict marks a PIK election for a period while the
	// interest-prepayment balance is still outstanding.
	ErrPIKElectionConflict = errors.New("PIK election conflicts with interest prepayment balance")

	// ErrNegativeCashDue marks a period whose PIK amount exceeds the interest
	// owed. Surfaced rather than clamped: it hides a margin/PIK-rate mistake.
	ErrNegativeCashDue = errors.New("PIK amount exceeds interest owed")
)

type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(field, message string) error {

	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func WrapDatabaseError(cause error, message string) error {
	return &AppError{
		Code:    "DB_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}
