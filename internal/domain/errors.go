package domain

import "errors"

var (
	// ErrMalformed indicates a request missing a required field.
	ErrMalformed = errors.New("auth: malformed request")
	// ErrNotFound covers bad credentials and unknown subjects uniformly.
	ErrNotFound = errors.New("auth: identity not found")
	// ErrConflict signals a duplicate username on registration.
	ErrConflict = errors.New("auth: username already taken")
	// ErrTokenInvalid indicates a malformed or tampered token.
	ErrTokenInvalid = errors.New("auth: token invalid")
	// ErrTokenExpired indicates a well-signed token past its expiry.
	ErrTokenExpired = errors.New("auth: token expired")
)
