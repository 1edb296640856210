package usecase

import (
	"errors"
	"fmt"
)

var (
	// Expected, user-facing outcomes.
	ErrInvalidWindow        = errors.New("invalid booking window")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrExtraPaymentRequired = errors.New("extra time payment required before checkout")

	// Integrity errors, surfaced immediately.
	ErrInvalidTransition = errors.New("invalid booking state transition")
	ErrNotFound          = errors.New("booking not found")
	ErrForbidden         = errors.New("booking belongs to another user")

	// Transient: the transactional admission lost its race even after the
	// bounded retry.
	ErrStoreConflict = errors.New("booking conflict, please retry")
)

type AdmissionReason string

const (
	ReasonInvalidWindow        AdmissionReason = "invalid_window"
	ReasonInsufficientCapacity AdmissionReason = "insufficient_capacity"
)

// AdmissionError is the typed deny outcome of a booking request. It wraps
// the matching sentinel so errors.Is keeps working.
type AdmissionError struct {
	Reason  AdmissionReason
	Message string
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("booking denied (%s): %s", e.Reason, e.Message)
}

func (e *AdmissionError) Unwrap() error {
	switch e.Reason {
	case ReasonInvalidWindow:
		return ErrInvalidWindow
	case ReasonInsufficientCapacity:
		return ErrInsufficientCapacity
	}
	return nil
}

func denyInvalidWindow(message string) *AdmissionError {
	return &AdmissionError{Reason: ReasonInvalidWindow, Message: message}
}

func denyInsufficientCapacity(message string) *AdmissionError {
	return &AdmissionError{Reason: ReasonInsufficientCapacity, Message: message}
}
