package orchestrators

import "errors"

// Errors surfaced to HTTP handlers. Handlers branch on these with errors.Is.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
