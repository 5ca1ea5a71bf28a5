package errors

import (
	"fmt"
	"time"
)

// ErrorCode is the stable, machine-checkable kind of an error.
type ErrorCode string

const (
	// Generic
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"

	// Resources
	ErrCodeGiveawayNotFound      ErrorCode = "GIVEAWAY_NOT_FOUND"
	ErrCodeParticipationNotFound ErrorCode = "PARTICIPATION_NOT_FOUND"
	ErrCodeCompanyNotFound       ErrorCode = "COMPANY_NOT_FOUND"
	ErrCodeNotOwner              ErrorCode = "NOT_OWNER"

	// Giveaway lifecycle
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeNotEditable       ErrorCode = "GIVEAWAY_NOT_EDITABLE"
	ErrCodeNotDeletable      ErrorCode = "GIVEAWAY_NOT_DELETABLE"
	ErrCodeNotJoinable       ErrorCode = "GIVEAWAY_NOT_JOINABLE"
	ErrCodeAlreadyJoined     ErrorCode = "ALREADY_JOINED"

	// Winner selection
	ErrCodeNotEnded        ErrorCode = "GIVEAWAY_NOT_ENDED"
	ErrCodeWrongState      ErrorCode = "WRONG_STATE"
	ErrCodeAlreadySelected ErrorCode = "ALREADY_SELECTED"
	ErrCodeNoParticipants  ErrorCode = "NO_PARTICIPANTS"

	// Infrastructure
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrCodeCacheError    ErrorCode = "CACHE_ERROR"
	ErrCodeProviderError ErrorCode = "PROVIDER_ERROR"
)

// AppError is the typed application error carried through services up to
// the HTTP error handler. Cause is never serialized to clients.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether the error is a "not found" kind.
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound ||
		e.Code == ErrCodeGiveawayNotFound ||
		e.Code == ErrCodeParticipationNotFound ||
		e.Code == ErrCodeCompanyNotFound
}

// IsValidation reports whether the error is a validation kind.
func (e *AppError) IsValidation() bool {
	return e.Code == ErrCodeValidation || e.Code == ErrCodeBadRequest
}

// IsStateError reports whether the error is a precondition failure that
// may succeed after the underlying state changes.
func (e *AppError) IsStateError() bool {
	switch e.Code {
	case ErrCodeInvalidTransition, ErrCodeWrongState, ErrCodeAlreadySelected,
		ErrCodeNotEnded, ErrCodeNoParticipants, ErrCodeNotEditable,
		ErrCodeNotDeletable, ErrCodeNotJoinable, ErrCodeAlreadyJoined:
		return true
	}
	return false
}

// IsInternal reports whether the error should be logged as a server fault.
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeDatabaseError ||
		e.Code == ErrCodeCacheError ||
		e.Code == ErrCodeProviderError
}

// WithDetail attaches structured detail to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithRequestID tags the error with the originating request.
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error, keeping it as the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// Constructors for the common cases.

func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

func NewGiveawayNotFoundError(giveawayID string) *AppError {
	return New(ErrCodeGiveawayNotFound, "Giveaway not found").
		WithDetail("giveaway_id", giveawayID)
}

func NewParticipationNotFoundError(participationID string) *AppError {
	return New(ErrCodeParticipationNotFound, "Participation not found").
		WithDetail("participation_id", participationID)
}

func NewForbiddenError(reason string) *AppError {
	return New(ErrCodeForbidden, fmt.Sprintf("Forbidden: %s", reason))
}

func NewNotOwnerError() *AppError {
	return New(ErrCodeNotOwner, "Forbidden: you do not own this resource")
}

func NewInvalidTransitionError(from, to string) *AppError {
	return New(ErrCodeInvalidTransition, fmt.Sprintf("Invalid status transition: %s -> %s", from, to)).
		WithDetail("from", from).
		WithDetail("to", to)
}

func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseError, fmt.Sprintf("Database operation failed: %s", operation)).
		WithDetail("operation", operation)
}

func NewProviderError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeProviderError, fmt.Sprintf("Social provider operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// AsAppError casts err to AppError when possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}
