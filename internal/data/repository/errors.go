package repository

import "errors"

var (
	// ErrInsufficientCapacity means the transactional admission re-check
	// found fewer free seats than requested.
	ErrInsufficientCapacity = errors.New("insufficient capacity")

	// ErrTxConflict means the transaction lost a race (serialization
	// failure, deadlock or duplicate booking reference) even after the
	// bounded retry.
	ErrTxConflict = errors.New("transaction conflict")

	// ErrStateConflict means a guarded status update matched no row: the
	// booking changed state between read and write.
	ErrStateConflict = errors.New("booking state changed concurrently")
)
