package models

import "errors"

// Domain errors that can be returned by repositories
var (
	// ErrDuplicateTransaction indicates a ledger row with the same remote source id already exists
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")

	// ErrRunSuperseded indicates the setting no longer belongs to the run making the write
	ErrRunSuperseded = errors.New("run no longer holds the setting")
)
