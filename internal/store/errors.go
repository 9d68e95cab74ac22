package store

import "errors"

// Errors returned by the store and the services built on it. Callers wrap
// them with context and match with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("not authenticated")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)
