package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Product / capacity errors
	ErrProductNotFound = errors.New("product not found")

	// Reservation errors
	ErrReservationNotFound = errors.New("reservation not found")

	// Slot errors
	ErrSlotNotFound        = errors.New("slot not found")
	ErrSlotBookingNotFound = errors.New("slot booking not found")

	// Ticket errors
	ErrTicketNotFound = errors.New("ticket not found")

	// Operator errors
	ErrOperatorNotFound   = errors.New("operator not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Idempotency errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyConflict    = errors.New("idempotency key reused with different parameters")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
