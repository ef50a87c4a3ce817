package store

import "errors"

var (
	// ErrNotFound indicates the referenced row no longer resolves in the record store.
	ErrNotFound = errors.New("store: not found")
	// ErrConflict indicates a conditional status update lost to a concurrent writer.
	ErrConflict = errors.New("store: status conflict")
)
