package domain

import "errors"

// ErrorKind classifies a domain error for the boundary layer
type ErrorKind string

const (
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindConflict     ErrorKind = "CONFLICT"
	KindInvalid      ErrorKind = "INVALID"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	KindForbidden    ErrorKind = "FORBIDDEN"
	KindTimeout      ErrorKind = "TIMEOUT"
	KindRateLimited  ErrorKind = "RATE_LIMITED"
	KindUnavailable  ErrorKind = "UNAVAILABLE"
	KindInternal     ErrorKind = "INTERNAL"
)

// Error is a (kind, human-readable message) pair
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError creates a new domain error
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the kind of a domain error, or KindInternal for anything else
func KindOf(err error) ErrorKind {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Kind
	}
	return KindInternal
}

// Common domain errors
var (
	ErrNotFound       = NewError(KindNotFound, "Resource not found")
	ErrInvalidInput   = NewError(KindInvalid, "Invalid input")
	ErrUnauthorized   = NewError(KindUnauthorized, "Unauthorized")
	ErrForbidden      = NewError(KindForbidden, "Forbidden")
	ErrInternalServer = NewError(KindInternal, "Internal server error")
)

// Catalog errors
var (
	ErrBookNotFound        = NewError(KindNotFound, "Book not found")
	ErrTitleAuthorRequired = NewError(KindInvalid, "Title and author are required")
	ErrSearchQueryRequired = NewError(KindInvalid, "Search query is required")
)

// External catalog errors
var (
	ErrExternalTimeout     = NewError(KindTimeout, "Search request timed out")
	ErrExternalRateLimited = NewError(KindRateLimited, "Too many requests to OpenLibrary API")
	ErrExternalUnavailable = NewError(KindUnavailable, "OpenLibrary service is temporarily unavailable")
	ErrExternalSearch      = NewError(KindInternal, "Failed to search external library")
)

// Lending errors
var (
	ErrBookNotAvailable = NewError(KindConflict, "Book is not available for borrowing")
	ErrAlreadyBorrowed  = NewError(KindConflict, "You have already borrowed this book")
	ErrNotBorrowed      = NewError(KindConflict, "You have not borrowed this book")
	ErrBorrowFailed     = NewError(KindInternal, "Failed to borrow book")
	ErrReturnFailed     = NewError(KindInternal, "Failed to return book")
)

// User errors
var (
	ErrUserNotFound          = NewError(KindNotFound, "User not found")
	ErrEmailAlreadyExists    = NewError(KindConflict, "Email already exists")
	ErrUsernameAlreadyExists = NewError(KindConflict, "Username already exists")
	ErrInvalidCredentials    = NewError(KindUnauthorized, "Invalid email or password")
	ErrUserInactive          = NewError(KindForbidden, "User account is inactive")
	ErrOldPasswordWrong      = NewError(KindInvalid, "Old password is incorrect")
)

// Token errors
var (
	ErrTokenExpired = NewError(KindUnauthorized, "Refresh token expired, please login again")
	ErrTokenInvalid = NewError(KindUnauthorized, "Invalid refresh token")
	ErrTokenRevoked = NewError(KindUnauthorized, "Refresh token revoked, please login again")
)
