package services

import "errors"

var (
	// ErrValidation: negative quantity, unknown item or blank customer name.
	ErrValidation = errors.New("validation error")
	// ErrNotFound: a delete targeted a position or id that is not in the ledger.
	ErrNotFound = errors.New("ledger record not found")
	// ErrStorageUnavailable: the ledger could not be read. Callers treat the
	// ledger as empty and keep going.
	ErrStorageUnavailable = errors.New("ledger storage unavailable")
)
