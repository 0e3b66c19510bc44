package persistence

import "errors"

// Sentinel errors shared by all stores. Callers translate these into domain
// errors at the repository boundary.
var (
	// ErrNotFound is returned when a single-row lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when an insert violates a uniqueness constraint.
	ErrConflict = errors.New("record conflict")
)
