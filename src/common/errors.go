package common

import (
	"errors"
	"fmt"

	"vbs/src/types"

	"github.com/google/uuid"
)

var (
	ErrInvalidInterval    = errors.New("start time must be strictly before end time")
	ErrDuplicateEquipment = errors.New("equipment ids must be unique")
	ErrNotFound           = errors.New("pending reservation not found")
	ErrForbidden          = errors.New("pending reservation belongs to another customer")
	ErrInvalidState       = errors.New("pending reservation is no longer pending")
	ErrAmountMismatch     = errors.New("charged amount does not match the reserved amount")
	ErrGateway            = errors.New("payment gateway error")
	ErrContended          = errors.New("resources are being confirmed by another request")
)

// ConflictError reports the first resource axis on which a confirmed booking
// already overlaps the requested interval.
type ConflictError struct {
	Key    types.ResourceKey
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// PaidUnbookableError is the post-payment conflict: money has moved but no
// booking exists. It must surface as its own condition so downstream UX can
// route the customer to manual refund/support instead of a generic error.
type PaidUnbookableError struct {
	PendingID uuid.UUID
	Conflict  *ConflictError
}

func (e *PaidUnbookableError) Error() string {
	return fmt.Sprintf("payment succeeded but slot became unavailable: %s", e.Conflict.Reason)
}

func (e *PaidUnbookableError) Unwrap() error {
	return e.Conflict
}
