package models

import (
	"vbs/src/types"

	"github.com/google/uuid"
)

// PendingReservation is the staging record tracking an in-flight payment
// before a Booking exists. Rows are never deleted; they are the financial
// audit trail.
type PendingReservation struct {
	ID               uuid.UUID            `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	PayerID          uint                 `gorm:"index" json:"payer_id,omitempty"`
	Amount           float64              `json:"amount,omitempty"`
	Currency         string               `json:"currency,omitempty"`
	Status           types.PendingStatus  `gorm:"default:'pending'" json:"status,omitempty"`
	GatewayReference string               `gorm:"index" json:"gateway_reference,omitempty"`
	BookingID        *uint                `json:"booking_id,omitempty"`
	Notes            string               `json:"notes,omitempty"`
	StagedDetails    *types.StagedDetails `gorm:"type:jsonb" json:"staged_details,omitempty"`

	Booking *Booking `gorm:"foreignKey:booking_id" json:"booking,omitempty"`

	types.Timestamps
}
