package shared

import "errors"

var (
	// ErrNotFound indicates resource not found or not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken occurs when signing up with an email already on file.
	ErrEmailTaken = errors.New("email already registered")
	// ErrValidation indicates a request that is missing required fields.
	ErrValidation = errors.New("validation failed")
)
