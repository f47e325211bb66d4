package storage

import "errors"

// Errors shared by the memory, file, Postgres and ClickHouse stores.
var (
	// ErrNotFound is returned when no batch, run or snapshot matches the lookup.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a price feature row, run record or
	// corpus article collides with one already stored.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidInput is returned when a record fails validation before write.
	ErrInvalidInput = errors.New("invalid input")
)
