// Package usecase implements the business logic for the watchlist feature.
package usecase

import "errors"

var (
	// ErrDuplicateName is returned when creating a watchlist whose name already
	// exists for the owner. Name matching is a case-sensitive exact match.
	ErrDuplicateName = errors.New("watchlist name already exists")

	// ErrWatchlistNotFound is returned when a watchlist name does not resolve
	// for the acting user.
	ErrWatchlistNotFound = errors.New("watchlist not found")

	// ErrEntryNotFound is returned when no current ledger entry exists for the
	// given (watchlist, ticker) pair.
	ErrEntryNotFound = errors.New("ledger entry not found")

	// ErrConcurrentModification is returned when two writers raced on the same
	// current entry. The losing transaction fails cleanly and can be retried.
	ErrConcurrentModification = errors.New("ledger entry was modified concurrently")
)
