package graphql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Code is a stable, client-visible error code.
type Code string

const (
	CodeValidation     Code = "VALIDATION_ERROR"
	CodeAuthRequired   Code = "AUTHENTICATION_REQUIRED"
	CodePermission     Code = "PERMISSION_DENIED"
	CodeNotFound       Code = "NOT_FOUND"
	CodeDuplicate      Code = "DUPLICATE_INTERACTION"
	CodeIntegrity      Code = "INTEGRITY_ERROR"
	CodeDatabase       Code = "DATABASE_ERROR"
	CodeRateLimited    Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal       Code = "INTERNAL_ERROR"
)

// ClientCaused reports whether a code classifies the caller, not the
// server, as the source of the failure. It decides the log level for
// translated errors.
func (c Code) ClientCaused() bool {
	switch c {
	case CodeIntegrity, CodeDatabase, CodeInternal:
		return false
	}
	return true
}

// AppError is a failure already classified into the taxonomy. Message is
// safe to surface; Internal, when set, is for server-side logs only.
type AppError struct {
	Code       Code
	Message    string
	Field      string
	RetryAfter time.Duration
	Internal   error
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Internal }

// NewValidationError flags a single offending field.
func NewValidationError(field, message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Field: field}
}

// NewAuthRequired covers missing, expired and malformed credentials alike;
// the taxonomy deliberately does not distinguish them.
func NewAuthRequired() *AppError {
	return &AppError{Code: CodeAuthRequired, Message: "authentication required"}
}

func NewPermissionDenied() *AppError {
	return &AppError{Code: CodePermission, Message: "you do not have permission to perform this action"}
}

// NewNotFound names the resource kind only, never the identifier.
func NewNotFound(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: resource + " not found"}
}

func NewDuplicateInteraction(message string) *AppError {
	return &AppError{Code: CodeDuplicate, Message: message}
}

func NewIntegrityError(internal error) *AppError {
	return &AppError{Code: CodeIntegrity, Message: "data integrity constraint violation", Internal: internal}
}

func NewDatabaseError(internal error) *AppError {
	return &AppError{Code: CodeDatabase, Message: "database operation failed", Internal: internal}
}

func NewRateLimited(retryAfter time.Duration) *AppError {
	return &AppError{Code: CodeRateLimited, Message: "rate limit exceeded", RetryAfter: retryAfter}
}

func NewInternalError(internal error) *AppError {
	return &AppError{Code: CodeInternal, Message: "an unexpected error occurred", Internal: internal}
}

// Translate folds any raised failure into the taxonomy. Already-classified
// errors pass through; store-level sentinels map to their codes; a
// deadline is a server-classified failure. Everything unclassified is
// INTERNAL_ERROR with the cause kept server-side.
func Translate(err error) *AppError {
	var app *AppError
	if errors.As(err, &app) {
		return app
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NewNotFound("resource")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// A unique violation surfacing here means the engine hit a
		// constraint it was not expecting to absorb.
		return NewIntegrityError(err)
	case errors.Is(err, gorm.ErrInvalidTransaction):
		return NewDatabaseError(err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return NewInternalError(err)
	}
	return NewInternalError(err)
}
