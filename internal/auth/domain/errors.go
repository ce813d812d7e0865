package domain

import "errors"

var (
	// ErrUnauthenticated means no valid session is attached to the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidToken means the identity provider rejected the ID token.
	ErrInvalidToken = errors.New("invalid ID token")
	// ErrForbidden means the session's user lacks admin privileges.
	ErrForbidden = errors.New("admin privileges required")
	// ErrUserNotFound means the referenced user document does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrValidation marks a malformed or incomplete request.
	ErrValidation = errors.New("validation failed")
)
