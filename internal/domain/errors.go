package domain

import "errors"

var (
	// ErrRowNotFound means the store has no row for the requested date.
	// Distinct from a store failure: the lookup itself succeeded.
	ErrRowNotFound = errors.New("menu row not found")

	// ErrUnauthorized means a command or callback carried a token that does
	// not exactly match the configured secret.
	ErrUnauthorized = errors.New("token mismatch")
)
