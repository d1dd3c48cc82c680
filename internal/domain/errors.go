package domain

import "errors"

// Sentinel errors shared by services, adapters and handlers.
// Callers wrap them with fmt.Errorf("...: %w", ErrX) and match with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid input")
	ErrConflict = errors.New("conflict")
)
